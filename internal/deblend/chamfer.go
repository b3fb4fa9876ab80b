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
	"math"

	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

const chamferUnset = math.MaxInt32

// ChamferTransform implements C2: a two-pass Manhattan-distance transform
// over region, seeded with distance 0 at every pixel of every footprint in
// templates. dist(p) holds the L1 distance from p to the nearest seeded
// pixel, and nearest(p) holds the index into templates of the footprint
// that pixel belongs to.
//
// Ties are broken deterministically by relaxation order: a pixel is
// updated from its north neighbour, then west, then (on the backward
// pass) south, then east, and only when a neighbour's propagated distance
// is strictly less than the pixel's current one. This makes the result a
// function of templates' order and the raster scan order alone, not of
// map iteration or goroutine scheduling.
func ChamferTransform(region raster.Rect, templates []*footprint.Footprint) (dist *raster.Image[int], nearest *raster.Image[int]) {
	dist = raster.NewImage[int](region)
	nearest = raster.NewImage[int](region)
	for i := range dist.Data {
		dist.Data[i] = chamferUnset
		nearest.Data[i] = -1
	}

	for idx, f := range templates {
		f.Spans.ForEachPixel(func(x, y int) {
			if !dist.InBounds(x, y) {
				return
			}
			dist.Set(x, y, 0)
			nearest.Set(x, y, idx)
		})
	}

	relax := func(x, y, nx, ny int) {
		if !dist.InBounds(nx, ny) {
			return
		}
		nd := dist.At(nx, ny)
		if nd == chamferUnset {
			return
		}
		if nd+1 < dist.At(x, y) {
			dist.Set(x, y, nd+1)
			nearest.Set(x, y, nearest.At(nx, ny))
		}
	}

	for y := region.MinY; y <= region.MaxY; y++ {
		for x := region.MinX; x <= region.MaxX; x++ {
			relax(x, y, x, y-1)
			relax(x, y, x-1, y)
		}
	}
	for y := region.MaxY; y >= region.MinY; y-- {
		for x := region.MaxX; x >= region.MinX; x-- {
			relax(x, y, x, y+1)
			relax(x, y, x+1, y)
		}
	}
	return dist, nearest
}
