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

package deblend

import (
	"testing"

	"github.com/mlnoga/deblend/internal/raster"
)

func TestRingOffsetsCount(t *testing.T) {
	for l := 0; l <= 8; l++ {
		offs := ringOffsets(l)
		want := 8 * l
		if l == 0 {
			want = 1
		}
		if len(offs) != want {
			t.Errorf("ringOffsets(%d): got %d points want %d", l, len(offs), want)
		}
		for _, o := range offs {
			if max(abs(o.x), abs(o.y)) != l {
				t.Errorf("ringOffsets(%d): point (%d,%d) not on ring", l, o.x, o.y)
			}
		}
	}
}

// The four corners of a ring split 2-and-2 by sign(x) != sign(y): (1,-1)
// and (-1,1) belong to a dx=0 leg (vertical), (1,1) and (-1,-1) to a dy=0
// leg (horizontal). Getting this wrong shadows an entirely different set
// of pixels for half the ring's corners on every ring beyond l==0.
func TestRingOffsetsCornerLegSplit(t *testing.T) {
	want := map[[2]int]bool{
		{1, 1}:   false,
		{-1, -1}: false,
		{1, -1}:  true,
		{-1, 1}:  true,
	}
	for _, o := range ringOffsets(1) {
		if wantVertical, ok := want[[2]int{o.x, o.y}]; ok && o.vertical != wantVertical {
			t.Errorf("corner (%d,%d): got vertical=%v want %v", o.x, o.y, o.vertical, wantVertical)
		}
	}
}

func TestRingOffsetsNoDuplicates(t *testing.T) {
	for l := 1; l <= 6; l++ {
		seen := make(map[offset]bool)
		for _, o := range ringOffsets(l) {
			if seen[o] {
				t.Fatalf("ringOffsets(%d): duplicate point (%d,%d)", l, o.x, o.y)
			}
			seen[o] = true
		}
	}
}

// A flat image is already monotonic: every shadow write is min(3, 3), so
// no pixel changes.
func TestMakeMonotonicFlatImageStaysFlat(t *testing.T) {
	bounds := raster.Rect{MinX: -5, MinY: -5, MaxX: 5, MaxY: 5}
	img := raster.NewImage[float32](bounds)
	for i := range img.Data {
		img.Data[i] = 3
	}
	MakeMonotonic(img, 0, 0)
	for i, v := range img.Data {
		if v != 3 {
			t.Fatalf("index %d: got %v want unchanged 3", i, v)
		}
	}
}

func TestMakeMonotonicPeakNeverDecreases(t *testing.T) {
	bounds := raster.Rect{MinX: -4, MinY: -4, MaxX: 4, MaxY: 4}
	img := raster.NewImage[float32](bounds)
	for y := bounds.MinY; y <= bounds.MaxY; y++ {
		for x := bounds.MinX; x <= bounds.MaxX; x++ {
			img.Set(x, y, float32(10-abs(x)-abs(y)))
		}
	}
	before := img.At(0, 0)
	MakeMonotonic(img, 0, 0)
	if img.At(0, 0) != before {
		t.Errorf("peak value changed: got %v want %v", img.At(0, 0), before)
	}
}
