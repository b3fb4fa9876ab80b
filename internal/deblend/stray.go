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

	dlog "github.com/mlnoga/deblend/internal/log"

	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

type pixelKey struct{ x, y int }

// DistributeStrayFlux implements C9. Every pixel of strayPixels has no
// template covering it with a positive value (tsum==0 there), so
// ApportionFlux could not split its flux; this assigns it among the
// candidate templates by one of four policies selected in opts:
//
//   - StrayFluxNearestFootprint: entirely to the single nearest footprint,
//     by L1 distance via the chamfer transform (C2).
//   - StrayFluxRToFootprint: weighted by inverse squared distance to the
//     nearest pixel of each candidate's footprint.
//   - neither bit set (STRAYFLUX_R_TO_PEAK, the default): weighted by
//     inverse squared distance to each candidate's peak.
//   - StrayFluxTrim: accepted for compatibility, a no-op (see DESIGN.md).
//
// Point-source templates (isPSF[i]) are excluded from candidacy unless
// StrayFluxToPointSourcesAlways is set, or StrayFluxToPointSourcesWhenNecessary
// is set and excluding them would leave no candidates at all.
//
// clipStrayFluxFraction caps the fraction of a stray pixel's flux any
// single candidate may absorb under the two weighted policies; flux above
// the cap is redistributed proportionally among the remaining candidates.
// A clipStrayFluxFraction <= 0 or >= 1 disables the cap.
//
// The result is a slice parallel to footprints: entry i is nil unless
// template i received stray flux, in which case it is a standalone
// HeavyFootprint over exactly the stray pixels assigned to it. This is
// kept separate from ApportionFlux's port images, never merged into them.
func DistributeStrayFlux[T raster.Number, M raster.MaskBits](
	w io.Writer,
	mi *raster.MaskedImage[T, M],
	footprints []*footprint.Footprint,
	peaks []footprint.Peak,
	isPSF []bool,
	strayPixels *footprint.SpanSet,
	opts Options,
	clipStrayFluxFraction float64,
) ([]*footprint.HeavyFootprint[T, M], error) {
	n := len(footprints)
	candidates := candidateIndices(isPSF, opts)
	if len(candidates) == 0 {
		dlog.Warnf("stray flux: no candidate templates, skipping\n")
		return make([]*footprint.HeavyFootprint[T, M], n), nil
	}

	extra := make([]map[pixelKey]T, n)
	for i := range extra {
		extra[i] = make(map[pixelKey]T)
	}

	var nearestOf map[pixelKey]int
	if opts.Has(StrayFluxNearestFootprint) {
		region := strayPixels.BBox()
		for _, idx := range candidates {
			region = region.Union(footprints[idx].BBox())
		}
		candFoots := make([]*footprint.Footprint, len(candidates))
		for k, idx := range candidates {
			candFoots[k] = footprints[idx]
		}
		_, nearest := ChamferTransform(region, candFoots)
		nearestOf = make(map[pixelKey]int)
		strayPixels.ForEachPixel(func(x, y int) {
			if k := nearest.At(x, y); k >= 0 {
				nearestOf[pixelKey{x, y}] = candidates[k]
			}
		})
	}

	strayPixels.ForEachPixel(func(x, y int) {
		parentVal := mi.Image.At(x, y)
		if parentVal <= 0 {
			return
		}

		if opts.Has(StrayFluxNearestFootprint) {
			idx, ok := nearestOf[pixelKey{x, y}]
			if !ok {
				return
			}
			extra[idx][pixelKey{x, y}] += parentVal
			return
		}

		weights := make([]float64, len(candidates))
		for k, idx := range candidates {
			var r2 float64
			if opts.Has(StrayFluxRToFootprint) {
				r2 = nearestPointDistSquared(footprints[idx], x, y)
			} else {
				dx := float64(x - peaks[idx].IX)
				dy := float64(y - peaks[idx].IY)
				r2 = dx*dx + dy*dy
			}
			weights[k] = 1 / (1 + r2)
		}
		portions := clippedPortions(float64(parentVal), weights, clipStrayFluxFraction)
		for k, idx := range candidates {
			if portions[k] == 0 {
				continue
			}
			extra[idx][pixelKey{x, y}] += T(portions[k])
		}
	})

	out := make([]*footprint.HeavyFootprint[T, M], n)
	for i, e := range extra {
		if len(e) == 0 {
			continue
		}
		hf, err := strayFootprint(mi, footprints[i], e)
		if err != nil {
			return nil, err
		}
		out[i] = hf
	}
	return out, nil
}

// candidateIndices applies the point-source gating policy.
func candidateIndices(isPSF []bool, opts Options) []int {
	if opts.Has(StrayFluxToPointSourcesAlways) {
		all := make([]int, len(isPSF))
		for i := range all {
			all[i] = i
		}
		return all
	}
	var nonPSF []int
	for i, p := range isPSF {
		if !p {
			nonPSF = append(nonPSF, i)
		}
	}
	if len(nonPSF) > 0 || !opts.Has(StrayFluxToPointSourcesWhenNecessary) {
		return nonPSF
	}
	all := make([]int, len(isPSF))
	for i := range all {
		all[i] = i
	}
	return all
}

// clippedPortions normalizes weights to sum to total, then iteratively caps
// any portion exceeding clipFraction*total and redistributes the excess
// proportionally among the uncapped entries. A clipFraction outside (0,1)
// disables the cap.
func clippedPortions(total float64, weights []float64, clipFraction float64) []float64 {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	portions := make([]float64, len(weights))
	if sum <= 0 {
		return portions
	}
	for i, w := range weights {
		portions[i] = total * w / sum
	}
	if clipFraction <= 0 || clipFraction >= 1 {
		return portions
	}

	capAmount := total * clipFraction
	capped := make([]bool, len(portions))
	for pass := 0; pass < len(portions); pass++ {
		excess := 0.0
		openWeight := 0.0
		anyNewlyCapped := false
		for i, p := range portions {
			if capped[i] {
				continue
			}
			if p > capAmount {
				excess += p - capAmount
				portions[i] = capAmount
				capped[i] = true
				anyNewlyCapped = true
			} else {
				openWeight += weights[i]
			}
		}
		if excess == 0 {
			break
		}
		if openWeight == 0 {
			break
		}
		for i, w := range weights {
			if capped[i] {
				continue
			}
			portions[i] += excess * w / openWeight
		}
		if !anyNewlyCapped {
			break
		}
	}
	return portions
}

// nearestPointDistSquared returns the minimum squared Euclidean distance
// from (x,y) to any pixel of f.
func nearestPointDistSquared(f *footprint.Footprint, x, y int) float64 {
	best := -1.0
	f.Spans.ForEachPixel(func(px, py int) {
		dx, dy := float64(x-px), float64(y-py)
		d2 := dx*dx + dy*dy
		if best < 0 || d2 < best {
			best = d2
		}
	})
	if best < 0 {
		return 1
	}
	return best
}

// strayFootprint builds a standalone HeavyFootprint over exactly the
// pixels in extra, inheriting the schema of parent (the template's own
// footprint) but sharing none of its spans: it records only the stray
// flux delivered to this template, not its apportioned share.
func strayFootprint[T raster.Number, M raster.MaskBits](mi *raster.MaskedImage[T, M], parent *footprint.Footprint, extra map[pixelKey]T) (*footprint.HeavyFootprint[T, M], error) {
	spans := make([]footprint.Span, 0, len(extra))
	for k := range extra {
		spans = append(spans, footprint.Span{Y: k.y, X0: k.x, X1: k.x})
	}
	newFoot := footprint.NewFootprint(footprint.NewSpanSet(spans), nil, parent)

	area := newFoot.Area()
	imageVals := make([]T, 0, area)
	maskVals := make([]M, 0, area)
	varianceVals := make([]T, 0, area)
	newFoot.Spans.ForEachPixel(func(x, y int) {
		imageVals = append(imageVals, extra[pixelKey{x, y}])
		maskVals = append(maskVals, mi.Mask.At(x, y))
		varianceVals = append(varianceVals, mi.Variance.At(x, y))
	})
	return footprint.NewHeavyFootprint(newFoot, imageVals, maskVals, varianceVals)
}
