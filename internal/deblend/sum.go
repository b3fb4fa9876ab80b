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
	"github.com/mlnoga/deblend/internal/raster"
)

// TemplateSum implements C7: tsum(p) = sum_i max(0, templates[i](p)),
// summed over whichever templates' bounds cover p. The returned image's
// bounds are the union of all template bounds; pixels not covered by any
// template are zero.
func TemplateSum[T raster.Number](templates []*raster.Image[T]) *raster.Image[T] {
	union := raster.Rect{MinX: 0, MinY: 0, MaxX: -1, MaxY: -1}
	for _, t := range templates {
		union = union.Union(t.Bounds())
	}
	tsum := raster.NewImage[T](union)
	for _, t := range templates {
		for y := t.Y0; y < t.Y0+t.H; y++ {
			for x := t.X0; x < t.X0+t.W; x++ {
				v := t.At(x, y)
				if v <= 0 {
					continue
				}
				tsum.Set(x, y, tsum.At(x, y)+v)
			}
		}
	}
	return tsum
}
