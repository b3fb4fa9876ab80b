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

func TestChamferTransformTwoCorners(t *testing.T) {
	region := raster.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}
	f0 := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 0}}), nil, nil)
	f1 := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 2, X0: 2, X1: 2}}), nil, nil)

	dist, nearest := ChamferTransform(region, []*footprint.Footprint{f0, f1})

	if dist.At(0, 0) != 0 || nearest.At(0, 0) != 0 {
		t.Errorf("seed (0,0): got dist=%d nearest=%d", dist.At(0, 0), nearest.At(0, 0))
	}
	if dist.At(2, 2) != 0 || nearest.At(2, 2) != 1 {
		t.Errorf("seed (2,2): got dist=%d nearest=%d", dist.At(2, 2), nearest.At(2, 2))
	}
	// (1,1) is equidistant (L1=2) from both seeds; by relaxation order
	// (north, west before south, east) the forward pass reaches it from
	// (0,0) first and the backward pass cannot improve on that distance.
	if dist.At(1, 1) != 2 {
		t.Errorf("(1,1): got dist=%d want 2", dist.At(1, 1))
	}
	if dist.At(0, 2) != 2 || nearest.At(0, 2) != 0 {
		t.Errorf("(0,2): got dist=%d nearest=%d want dist=2 nearest=0", dist.At(0, 2), nearest.At(0, 2))
	}
}

func TestChamferTransformSingleSeedFillsWholeRegion(t *testing.T) {
	region := raster.Rect{MinX: -2, MinY: -2, MaxX: 2, MaxY: 2}
	f := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 0}}), nil, nil)
	dist, nearest := ChamferTransform(region, []*footprint.Footprint{f})

	for y := region.MinY; y <= region.MaxY; y++ {
		for x := region.MinX; x <= region.MaxX; x++ {
			want := abs(x) + abs(y)
			if dist.At(x, y) != want {
				t.Errorf("(%d,%d): got dist=%d want %d", x, y, dist.At(x, y), want)
			}
			if nearest.At(x, y) != 0 {
				t.Errorf("(%d,%d): got nearest=%d want 0", x, y, nearest.At(x, y))
			}
		}
	}
}
