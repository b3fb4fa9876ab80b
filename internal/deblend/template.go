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
	"io"

	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

// BuildSymmetricTemplate implements C5. It symmetrizes F about the peak
// (C4), then for each mirror pair of pixels in the symmetrized footprint
// takes the minimum of the parent image values, optionally clamped to
// zero. sigma1 is accepted but unused, preserved only for interface
// compatibility with existing callers (see DESIGN.md). If patchEdge is
// set and the footprint touches the EDGE mask plane (resolved by name from
// maskPlanes), the template and its footprint are extended with raw
// (unmirrored) parent pixels wherever the true mirror point would have
// fallen outside the parent footprint's bounding box.
//
// Returns (nil, nil, false, nil) if the peak has no symmetric template
// (the soft NoPeakSpan condition from C4). Returns a *BoundsViolationError
// if the parent image does not contain the symmetrized footprint, or a
// *MissingMaskPlaneError if patchEdge is requested but maskPlanes has no
// "EDGE" entry.
func BuildSymmetricTemplate[T raster.Number, M raster.MaskBits](
	w io.Writer,
	mi *raster.MaskedImage[T, M],
	f *footprint.Footprint,
	cx, cy int,
	sigma1 float64,
	minZero, patchEdge bool,
	maskPlanes raster.MaskSchema[M],
) (tmpl *raster.Image[T], tfoot *footprint.Footprint, patchedEdges bool, err error) {
	sfoot := SymmetrizeFootprint(w, f, cx, cy)
	if sfoot == nil {
		return nil, nil, false, nil
	}
	if !mi.Bounds().Contains(sfoot.BBox()) {
		return nil, nil, false, &BoundsViolationError{What: "parent image does not contain symmetrized footprint", Outer: mi.Bounds(), Inner: sfoot.BBox()}
	}

	result := raster.NewImage[T](sfoot.BBox())
	spans := sfoot.Spans.Spans
	fwd, back := 0, len(spans)-1
	for fwd <= back {
		fs, bs := spans[fwd], spans[back]
		length := fs.Len()
		for k := 0; k < length; k++ {
			fx, fy := fs.X0+k, fs.Y
			bx, by := bs.X1-k, bs.Y
			pix := minT(mi.Image.At(fx, fy), mi.Image.At(bx, by))
			if minZero {
				var zero T
				pix = maxT(pix, zero)
			}
			result.Set(fx, fy, pix)
			result.Set(bx, by, pix)
		}
		fwd++
		back--
	}

	if !patchEdge {
		return result, sfoot, false, nil
	}

	edgeBit, ok := maskPlanes.Bit("EDGE")
	if !ok {
		return nil, nil, false, &MissingMaskPlaneError{PlaneName: "EDGE"}
	}
	// Scans the parent footprint f, not sfoot. The original C++ scans the
	// symmetrized footprint's spans here instead; keep scanning f.
	if !footprintTouchesBit(mi.Mask, f, edgeBit) {
		return result, sfoot, false, nil
	}

	imbb := f.BBox()
	var patchSpans []footprint.Span
	extended := sfoot.BBox()
	for _, s := range f.Spans.Spans {
		for _, ps := range patchSubsegments(s, imbb, cx, cy) {
			patchSpans = append(patchSpans, ps)
			extended = extended.Union(raster.Rect{MinX: ps.X0, MinY: ps.Y, MaxX: ps.X1, MaxY: ps.Y})
		}
	}
	if len(patchSpans) == 0 {
		return result, sfoot, true, nil
	}

	newResult := raster.NewImage[T](extended)
	copyInto(newResult, result)
	for _, ps := range patchSpans {
		for x := ps.X0; x <= ps.X1; x++ {
			newResult.Set(x, ps.Y, mi.Image.At(x, ps.Y))
		}
	}
	allSpans := append(append([]footprint.Span(nil), spans...), patchSpans...)
	newSfoot := footprint.NewFootprint(footprint.NewSpanSet(allSpans), sfoot.Peaks, sfoot)
	return newResult, newSfoot, true, nil
}

// patchSubsegments returns the subsegments of s whose mirror point through
// (cx,cy) falls outside imbb, i.e. the parts of the parent footprint the
// mirror-min pass in BuildSymmetricTemplate could not reach.
func patchSubsegments(s footprint.Span, imbb raster.Rect, cx, cy int) []footprint.Span {
	mirrorY := 2*cy - s.Y
	if mirrorY < imbb.MinY || mirrorY > imbb.MaxY {
		return []footprint.Span{s}
	}
	var out []footprint.Span
	leftBound := 2*cx - imbb.MaxX - 1
	if s.X0 <= leftBound {
		hi := min(s.X1, leftBound)
		out = append(out, footprint.Span{Y: s.Y, X0: s.X0, X1: hi})
	}
	rightBound := 2*cx - imbb.MinX + 1
	if s.X1 >= rightBound {
		lo := max(s.X0, rightBound)
		out = append(out, footprint.Span{Y: s.Y, X0: lo, X1: s.X1})
	}
	return out
}

// footprintTouchesBit reports whether any pixel of f has the given mask bit set.
func footprintTouchesBit[M raster.MaskBits](mask *raster.Image[M], f *footprint.Footprint, bit M) bool {
	touches := false
	f.Spans.ForEachPixel(func(x, y int) {
		if touches {
			return
		}
		if mask.At(x, y)&bit != 0 {
			touches = true
		}
	})
	return touches
}

func copyInto[T raster.Number](dst, src *raster.Image[T]) {
	for y := src.Y0; y < src.Y0+src.H; y++ {
		for x := src.X0; x < src.X0+src.W; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
}

func minT[T raster.Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func maxT[T raster.Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}
