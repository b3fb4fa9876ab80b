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
	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

// HasSignificantFluxAtEdge implements the first half of C10: it reports
// whether any of f's edge pixels (those with a non-member 4-neighbour) in
// image reach thresh. A deblended child whose template is bright right up
// to the parent footprint's boundary is one whose symmetrization was cut
// short by that boundary rather than by genuine source structure.
func HasSignificantFluxAtEdge[T raster.Number](image *raster.Image[T], f *footprint.Footprint, thresh T) bool {
	found := false
	f.Spans.EdgePixels().ForEachPixel(func(x, y int) {
		if found || !image.InBounds(x, y) {
			return
		}
		if image.At(x, y) >= thresh {
			found = true
		}
	})
	return found
}

// GetSignificantEdgePixels implements the second half of C10: it returns
// the subset of f's edge pixels whose value in image reaches thresh,
// grouped back into spans by consecutive x, the same run-grouping
// EdgePixels itself uses.
func GetSignificantEdgePixels[T raster.Number](image *raster.Image[T], f *footprint.Footprint, thresh T) *footprint.SpanSet {
	edges := f.Spans.EdgePixels()
	var spans []footprint.Span
	for _, s := range edges.Spans {
		runStart := -1
		for x := s.X0; x <= s.X1; x++ {
			if image.InBounds(x, s.Y) && image.At(x, s.Y) >= thresh {
				if runStart == -1 {
					runStart = x
				}
				continue
			}
			if runStart != -1 {
				spans = append(spans, footprint.Span{Y: s.Y, X0: runStart, X1: x - 1})
				runStart = -1
			}
		}
		if runStart != -1 {
			spans = append(spans, footprint.Span{Y: s.Y, X0: runStart, X1: s.X1})
		}
	}
	return footprint.NewSpanSet(spans)
}
