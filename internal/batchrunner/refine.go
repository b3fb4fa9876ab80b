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

package batchrunner

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/geom"
	"github.com/mlnoga/deblend/internal/raster"
)

// RefinePeak searches within radius pixels of p for the integer pixel with
// the highest parent image value, using gonum's Nelder-Mead optimizer over
// the continuous relaxation of the search window. Symmetrization is only
// as good as the peak it is centered on; a peak that has drifted off the
// true local maximum during detection produces a needlessly lopsided
// template.
func RefinePeak[T raster.Number, M raster.MaskBits](mi *raster.MaskedImage[T, M], p footprint.Peak, radius int) footprint.Peak {
	negFlux := func(x []float64) float64 {
		px := int(math.Round(x[0]))
		py := int(math.Round(x[1]))
		if px < p.IX-radius || px > p.IX+radius || py < p.IY-radius || py > p.IY+radius {
			return math.Inf(1)
		}
		if !mi.Image.InBounds(px, py) {
			return math.Inf(1)
		}
		return -float64(mi.Image.At(px, py))
	}

	problem := optimize.Problem{Func: negFlux}
	result, err := optimize.Minimize(problem, []float64{float64(p.IX), float64(p.IY)}, nil, &optimize.NelderMead{})
	if err != nil || result == nil {
		return p
	}

	rx, ry := int(math.Round(result.X[0])), int(math.Round(result.X[1]))
	if !mi.Image.InBounds(rx, ry) {
		return p
	}

	// Nelder-Mead can wander outside the search window before converging;
	// reject a result that ends up farther from the seed than the window
	// itself allows rather than trust an out-of-window excursion.
	seed := geom.Point2D{X: float64(p.IX), Y: float64(p.IY)}
	moved := geom.Point2D{X: float64(rx), Y: float64(ry)}
	if geom.Dist(seed, moved) > float64(radius)*math.Sqrt2 {
		return p
	}
	return footprint.Peak{IX: rx, IY: ry}
}
