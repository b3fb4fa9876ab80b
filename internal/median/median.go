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

// Package median implements C3, the box median filter: for every interior
// pixel further than halfsize from all four edges, replace it with the
// order-statistic median of the (2*halfsize+1)^2 window centered on it.
// Border pixels are copied unchanged. Mask and variance planes are not
// touched here; callers copy those externally if needed, same division of
// labor the host pipeline uses between its median filter and its calibration
// steps.
package median

import (
	"github.com/mlnoga/deblend/internal/raster"
)

// Filter applies a box median filter of the given halfsize to src, writing
// into dst, which must have the same dimensions as src (dst and src may
// not alias). Border pixels within halfsize of any edge are copied
// unchanged from src.
func Filter[T raster.Number](dst, src *raster.Image[T], halfsize int) {
	if halfsize <= 0 {
		copy(dst.Data, src.Data)
		return
	}
	w, h := src.W, src.H
	side := 2*halfsize + 1
	window := make([]T, side*side)

	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			x, y := src.X0+i, src.Y0+j
			if i < halfsize || i >= w-halfsize || j < halfsize || j >= h-halfsize {
				dst.Set(x, y, src.At(x, y))
				continue
			}
			dst.Set(x, y, windowMedian(src, x, y, halfsize, window))
		}
	}
}

// windowMedian gathers the (2*halfsize+1)^2 window centered on (x,y) into
// buf and returns its order-statistic median. buf is reused across calls to
// avoid per-pixel allocation, mirroring the host median filter's reuse of a
// fixed nine-element gather buffer.
func windowMedian[T raster.Number](src *raster.Image[T], x, y, halfsize int, buf []T) T {
	k := 0
	for dy := -halfsize; dy <= halfsize; dy++ {
		for dx := -halfsize; dx <= halfsize; dx++ {
			buf[k] = src.At(x+dx, y+dy)
			k++
		}
	}
	return medianSelect(buf)
}
