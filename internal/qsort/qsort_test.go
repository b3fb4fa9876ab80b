// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package qsort

import (
	"testing"

	"github.com/valyala/fastrand"
)

// QSelectMedian returns the order statistic at position (n>>1)+1, i.e. the
// upper median for even-length inputs, not the interpolated average of the
// two middle values.
func TestMedian(t *testing.T) {
	rng := fastrand.RNG{}
	for i := 1; i < 1000; i++ {
		// prepare array of given length with a random permutation of 1..n
		arr := make([]float32, i)
		for j := 0; j < len(arr); j++ {
			arr[j] = float32(j + 1)
		}
		for j := 0; j < len(arr); j++ {
			k := rng.Uint32n(uint32(len(arr)))
			arr[j], arr[k] = arr[k], arr[j]
		}

		expect := float32(i/2 + 1)

		res := QSelectMedian(arr)
		if res != expect {
			t.Errorf("median(1..%d) got %f expect %f\n", i, res, expect)
		}
	}
}

func TestQSort(t *testing.T) {
	rng := fastrand.RNG{}
	for i := 1; i < 200; i++ {
		arr := make([]int, i)
		for j := range arr {
			arr[j] = j
		}
		for j := range arr {
			k := rng.Uint32n(uint32(len(arr)))
			arr[j], arr[k] = arr[k], arr[j]
		}
		QSort(arr)
		for j := range arr {
			if arr[j] != j {
				t.Fatalf("QSort(len=%d) not sorted at %d: got %d want %d", i, j, arr[j], j)
			}
		}
	}
}

func TestMedianOfNine(t *testing.T) {
	a := []float32{9, 2, 7, 4, 5, 6, 3, 8, 1}
	if got := MedianOfNine(a); got != 5 {
		t.Errorf("MedianOfNine got %v want 5", got)
	}
}
