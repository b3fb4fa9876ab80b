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

	"github.com/mlnoga/deblend/internal/raster"
)

// monotonicChunkSize (S) groups S consecutive L-infinity rings into one
// chunk: every ring in a chunk reads from the same frozen shadowing image,
// so wedges only widen once per chunk rather than compounding ring over
// ring. Heuristic, intentional: too small and wedges never connect across
// gaps; too large and far rings stop actually seeing their true shadowers.
const monotonicChunkSize = 5

// wedgeHalfAngle (A) is the half-angle (as a slope offset) of the shadow
// wedge cast from each ring pixel. Heuristic, intentional, tuned to give a
// visually symmetric cone without excessive sideways spread.
const wedgeHalfAngle = 0.3

// MakeMonotonic implements C6: it mutates img in place so that, to within
// the ring-chunking tolerance above, img(p) <= img(p') whenever p' is
// closer to the peak in L-infinity distance than p, by ray-casting a thin
// shadow wedge from every ring pixel onto the pixels further from the
// peak that it would occlude.
func MakeMonotonic[T raster.Number](img *raster.Image[T], cx, cy int) {
	dw := max(cx-img.X0, img.X0+img.W-1-cx)
	dh := max(cy-img.Y0, img.Y0+img.H-1-cy)
	maxRadius := max(dw, dh)
	if maxRadius < 0 {
		return
	}

	shadow := img.Clone()
	for s := 0; s <= maxRadius; s += monotonicChunkSize {
		for p := 0; p < monotonicChunkSize; p++ {
			l := s + p
			if l > maxRadius {
				break
			}
			for _, off := range ringOffsets(l) {
				castRingPixel(img, shadow, cx, cy, off.x, off.y, off.vertical)
			}
		}
		copy(shadow.Data, img.Data)
	}
}

// offset is one ring pixel plus the spiral leg it belongs to: vertical is
// true for pixels on a dx=0 leg (x held at +/-L while y varies) and false
// for pixels on a dy=0 leg (y held at +/-L while x varies). At the four
// corners, both abs(x)==L and abs(y)==L hold simultaneously, so leg
// membership is decided by sign(x) != sign(y): the (L,-L) and (-L,L)
// corners belong to a dx=0 leg, (L,L) and (-L,-L) to a dy=0 leg.
type offset struct {
	x, y     int
	vertical bool
}

// legVertical reports whether ring pixel (x,y) at radius l belongs to a
// dx=0 spiral leg. Away from the four corners this is simply abs(x)==l.
// At a corner, abs(x)==l and abs(y)==l both hold, so leg membership is
// decided by sign(x) != sign(y) instead (BaselineUtils.cc leg0..leg3).
func legVertical(x, y, l int) bool {
	if abs(x) == l && abs(y) == l {
		return sign(x) != sign(y)
	}
	return abs(x) == l
}

// ringOffsets returns the peak-relative offsets of the L-infinity ring of
// radius L: all (x,y) with max(|x|,|y|) == L, 8L points for L>0, or the
// single center point for L==0. Corners are emitted once, from the
// top/bottom loop, with their leg membership resolved by legVertical.
// Visit order does not matter for correctness (see DESIGN.md): every
// write within a chunk is a min() against pixels read from the frozen
// shadow image, so it commutes.
func ringOffsets(l int) []offset {
	if l == 0 {
		return []offset{{0, 0, false}}
	}
	offs := make([]offset, 0, 8*l)
	for x := -l; x <= l; x++ {
		offs = append(offs, offset{x, -l, legVertical(x, -l, l)}, offset{x, l, legVertical(x, l, l)})
	}
	for y := -l + 1; y <= l-1; y++ {
		offs = append(offs, offset{-l, y, true}, offset{l, y, true})
	}
	return offs
}

// castRingPixel shadows the pixels beyond ring pixel (cx+x, cy+y) that lie
// within its wedge of occlusion, using pix=shadow(cx+x,cy+y) as the
// occluding value. vertical selects the wedge direction per the ring
// pixel's spiral leg (see offset and legVertical), so corner pixels cast
// exactly one wedge in the direction the original algorithm would.
func castRingPixel[T raster.Number](img, shadow *raster.Image[T], cx, cy, x, y int, vertical bool) {
	if x == 0 && y == 0 {
		return
	}
	px, py := cx+x, cy+y
	if !shadow.InBounds(px, py) {
		return
	}
	pix := shadow.At(px, py)
	castWedge(img, cx, cy, x, y, pix, vertical)
}

// castWedge casts the shadow wedge along the x axis (vertical=true, the
// pixel sits on a vertical edge of the ring square) or along the y axis
// (vertical=false, symmetric with x and y swapped).
func castWedge[T raster.Number](img *raster.Image[T], cx, cy, x, y int, pix T, vertical bool) {
	var primary, secondary, primarySign int
	if vertical {
		primary, secondary, primarySign = x, y, sign(x)
	} else {
		primary, secondary, primarySign = y, x, sign(y)
	}
	slope := float64(secondary) / float64(primary)
	ds0 := slope - wedgeHalfAngle
	ds1 := ds0 + 2*wedgeHalfAngle

	for sh := 1; sh <= monotonicChunkSize; sh++ {
		loS := int(math.Round(float64(sh) * ds0))
		hiS := int(math.Round(float64(sh) * ds1))
		for s := loS; s <= hiS; s++ {
			var tx, ty int
			if vertical {
				tx = cx + x + primarySign*sh
				ty = cy + y + primarySign*s
			} else {
				ty = cy + y + primarySign*sh
				tx = cx + x + primarySign*s
			}
			if !img.InBounds(tx, ty) {
				continue
			}
			cur := img.At(tx, ty)
			if pix < cur {
				img.Set(tx, ty, pix)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
