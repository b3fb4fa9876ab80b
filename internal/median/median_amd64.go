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

//go:build amd64

package median

import (
	"github.com/klauspost/cpuid"
	"github.com/mlnoga/deblend/internal/qsort"
	"github.com/mlnoga/deblend/internal/raster"
)

// medianSelect picks the streaming nine-element sorting network for the
// common halfsize=1 window when the CPU has wide SIMD registers to spare
// for it, falling back to the portable quickselect path otherwise or for
// any other window size.
func medianSelect[T raster.Number](buf []T) T {
	if len(buf) == 9 && cpuid.CPU.AVX2() {
		return qsort.MedianOfNine(buf)
	}
	return qsort.QSelectMedian(buf)
}
