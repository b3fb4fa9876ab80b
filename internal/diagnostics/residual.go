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

// Package diagnostics computes post-deblend quality metrics: how much of
// the parent's flux the children accounted for, and how that residual is
// distributed, the deblend analogue of the host pipeline's stats.go
// histogram/percentile reporting.
package diagnostics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

// ResidualReport summarizes how well a set of deblended children
// reconstructs their parent footprint's flux.
type ResidualReport struct {
	ParentFlux    float64
	ChildrenFlux  float64
	ResidualMean  float64
	ResidualStd   float64
	MaxAbsResidual float64
}

// Residual computes parent(p) - sum_i(ports[i](p) + strays[i](p)) at every
// pixel of parent, and summarizes the result with gonum/stat. ports are
// the dense apportioned-flux images returned by deblend.ApportionFlux;
// strays is its parallel stray-flux output and may contain nil entries.
func Residual[T raster.Number, M raster.MaskBits](mi *raster.MaskedImage[T, M], parent *footprint.Footprint, ports []*raster.MaskedImage[T, M], strays []*footprint.HeavyFootprint[T, M]) ResidualReport {
	childVal := make(map[[2]int]float64, parent.Area())
	for _, p := range ports {
		if p == nil {
			continue
		}
		b := p.Bounds()
		for y := b.MinY; y <= b.MaxY; y++ {
			for x := b.MinX; x <= b.MaxX; x++ {
				childVal[[2]int{x, y}] += float64(p.Image.At(x, y))
			}
		}
	}
	for _, s := range strays {
		if s == nil {
			continue
		}
		idx := 0
		s.Spans.ForEachPixel(func(x, y int) {
			childVal[[2]int{x, y}] += float64(s.ImageVals[idx])
			idx++
		})
	}

	var residuals []float64
	var parentFlux, childrenFlux float64
	parent.Spans.ForEachPixel(func(x, y int) {
		pv := float64(mi.Image.At(x, y))
		cv := childVal[[2]int{x, y}]
		parentFlux += pv
		childrenFlux += cv
		residuals = append(residuals, pv-cv)
	})
	if len(residuals) == 0 {
		return ResidualReport{}
	}

	mean, std := stat.MeanStdDev(residuals, nil)
	maxAbs := 0.0
	for _, r := range residuals {
		if a := abs64(r); a > maxAbs {
			maxAbs = a
		}
	}

	return ResidualReport{
		ParentFlux:     parentFlux,
		ChildrenFlux:   childrenFlux,
		ResidualMean:   mean,
		ResidualStd:    std,
		MaxAbsResidual: maxAbs,
	}
}

func abs64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
