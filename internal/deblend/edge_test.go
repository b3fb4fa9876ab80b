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
	"testing"

	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

func TestHasSignificantFluxAtEdgeSingleRowIsAllEdge(t *testing.T) {
	bounds := raster.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 0}
	image := raster.NewImage[float64](bounds)
	image.Set(0, 0, 1)
	image.Set(1, 0, 1)
	image.Set(2, 0, 1)
	f := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 2}}), nil, nil)

	if !HasSignificantFluxAtEdge(image, f, 1.0) {
		t.Errorf("single-row footprint: every pixel is an edge pixel at value 1, expected true at thresh=1")
	}
}

func TestHasSignificantFluxAtEdgeInteriorDilutes(t *testing.T) {
	bounds := raster.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}
	image := raster.NewImage[float64](bounds)
	var spans []footprint.Span
	for y := 0; y <= 2; y++ {
		spans = append(spans, footprint.Span{Y: y, X0: 0, X1: 2})
	}
	image.Set(1, 1, 10) // center only, not an edge pixel
	f := footprint.NewFootprint(footprint.NewSpanSet(spans), nil, nil)

	if HasSignificantFluxAtEdge(image, f, 5) {
		t.Errorf("3x3 block: only the non-edge center pixel reaches thresh, expected false")
	}
}

func TestGetSignificantEdgePixelsGroupsConsecutiveRuns(t *testing.T) {
	bounds := raster.Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 0}
	image := raster.NewImage[float64](bounds)
	image.Set(0, 0, 10)
	image.Set(1, 0, 10)
	image.Set(2, 0, 0) // below threshold, splits the run
	image.Set(3, 0, 10)
	image.Set(4, 0, 10)
	f := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 4}}), nil, nil)

	sig := GetSignificantEdgePixels(image, f, 3)
	if len(sig.Spans) != 2 {
		t.Fatalf("got %d spans want 2: %v", len(sig.Spans), sig.Spans)
	}
	if sig.Spans[0] != (footprint.Span{Y: 0, X0: 0, X1: 1}) {
		t.Errorf("first run: got %v want (y=0,x=[0,1])", sig.Spans[0])
	}
	if sig.Spans[1] != (footprint.Span{Y: 0, X0: 3, X1: 4}) {
		t.Errorf("second run: got %v want (y=0,x=[3,4])", sig.Spans[1])
	}
}
