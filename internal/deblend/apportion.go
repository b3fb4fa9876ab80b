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

// ApportionFlux implements C8. For every pixel of parent, it splits the
// parent image value among the given templates in proportion to each
// template's own (non-negative) value there, producing one dense
// MaskedImage "port" per template, congruent with that template's own
// bounding box intersected with tsum's. A port pixel where tsum<=0 (no
// template covers it with a positive value) is left at zero; that flux is
// picked up separately by the stray pass below, never folded back into
// the port itself.
//
// templates, footprints, peaks and isPSF must all have the same length, or
// a *LengthMismatchError is returned. parent's image must contain the
// union of every footprint's bounding box, or a *BoundsViolationError is
// returned.
//
// If opts has AssignStrayFlux set, pixels of parent where every template
// value is non-positive (tsum==0) are distributed among the templates by
// the stray flux policy selected in opts (C9), with each template's share
// capped by clipStrayFluxFraction, and returned as a strays slice parallel to
// ports: strays[i] is nil unless template i received stray flux, in which
// case it is a HeavyFootprint holding exactly the stray pixels assigned
// to it.
func ApportionFlux[T raster.Number, M raster.MaskBits](
	w io.Writer,
	mi *raster.MaskedImage[T, M],
	parent *footprint.Footprint,
	templates []*raster.Image[T],
	footprints []*footprint.Footprint,
	peaks []footprint.Peak,
	isPSF []bool,
	opts Options,
	clipStrayFluxFraction float64,
) (ports []*raster.MaskedImage[T, M], strays []*footprint.HeavyFootprint[T, M], err error) {
	n := len(templates)
	if len(footprints) != n {
		return nil, nil, &LengthMismatchError{Field: "footprints", Got: len(footprints), Want: n}
	}
	if len(peaks) != n {
		return nil, nil, &LengthMismatchError{Field: "peaks", Got: len(peaks), Want: n}
	}
	if len(isPSF) != n {
		return nil, nil, &LengthMismatchError{Field: "isPSF", Got: len(isPSF), Want: n}
	}

	parentBBox := parent.BBox()
	for _, f := range footprints {
		if !parentBBox.Contains(f.BBox()) {
			return nil, nil, &BoundsViolationError{What: "parent footprint does not contain template footprint", Outer: parentBBox, Inner: f.BBox()}
		}
	}

	tsum := TemplateSum(templates)
	if !mi.Bounds().Contains(tsum.Bounds()) {
		return nil, nil, &BoundsViolationError{What: "parent image does not contain template sum", Outer: mi.Bounds(), Inner: tsum.Bounds()}
	}

	ports = make([]*raster.MaskedImage[T, M], n)
	for i := range templates {
		ports[i] = apportionOne(mi, templates[i], tsum)
	}

	if !opts.Has(AssignStrayFlux) {
		return ports, nil, nil
	}

	var strayPixels []footprint.Span
	parent.Spans.ForEachPixel(func(x, y int) {
		if !mi.Image.InBounds(x, y) || (tsum.InBounds(x, y) && tsum.At(x, y) > 0) {
			return
		}
		strayPixels = append(strayPixels, footprint.Span{Y: y, X0: x, X1: x})
	})
	strayPixelSet := footprint.NewSpanSet(strayPixels)
	if strayPixelSet.Area() == 0 {
		return ports, nil, nil
	}

	strays, err = DistributeStrayFlux(w, mi, footprints, peaks, isPSF, strayPixelSet, opts, clipStrayFluxFraction)
	if err != nil {
		return nil, nil, err
	}
	return ports, strays, nil
}

// apportionOne builds the dense port image for one template: a MaskedImage
// congruent with tmpl's bbox intersected with tsum's, holding parent flux
// scaled by tmpl's share of tsum at each pixel, zero wherever tsum<=0.
func apportionOne[T raster.Number, M raster.MaskBits](mi *raster.MaskedImage[T, M], tmpl *raster.Image[T], tsum *raster.Image[T]) *raster.MaskedImage[T, M] {
	bounds := tmpl.Bounds().Intersect(tsum.Bounds())
	port := raster.NewMaskedImage[T, M](bounds)
	for y := bounds.MinY; y <= bounds.MaxY; y++ {
		for x := bounds.MinX; x <= bounds.MaxX; x++ {
			port.Mask.Set(x, y, mi.Mask.At(x, y))

			tv := tmpl.At(x, y)
			if tv < 0 {
				tv = 0
			}
			ts := tsum.At(x, y)
			if ts <= 0 {
				continue
			}
			frac := tv / ts
			port.Image.Set(x, y, mi.Image.At(x, y)*frac)
			port.Variance.Set(x, y, mi.Variance.At(x, y)*frac*frac)
		}
	}
	return port
}
