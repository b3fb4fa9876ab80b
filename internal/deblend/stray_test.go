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
	"bytes"
	"math"
	"testing"

	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

// Two single-pixel templates at peaks (0,0) and (3,0), a stray pixel at
// (1,0) with parent flux 10, default R_TO_PEAK weighting: inverse squared
// distance to each peak (1 and 4) via 1/(1+r^2) splits the flux 5:2 in
// favour of the nearer peak.
func TestDistributeStrayFluxRToPeak(t *testing.T) {
	bounds := raster.Rect{MinX: 0, MinY: 0, MaxX: 3, MaxY: 0}
	mi := raster.NewMaskedImage[float64, uint8](bounds)
	mi.Image.Set(1, 0, 10)

	foot0 := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 0}}), []footprint.Peak{{IX: 0, IY: 0}}, nil)
	foot1 := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 3, X1: 3}}), []footprint.Peak{{IX: 3, IY: 0}}, nil)

	stray := footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 1, X1: 1}})
	out, err := DistributeStrayFlux(bytes.NewBuffer(nil), mi,
		[]*footprint.Footprint{foot0, foot1},
		[]footprint.Peak{{IX: 0, IY: 0}, {IX: 3, IY: 0}},
		[]bool{false, false},
		stray, Options(0), 0)
	if err != nil {
		t.Fatalf("DistributeStrayFlux: %v", err)
	}
	if out[0] == nil || out[1] == nil {
		t.Fatalf("stray pixel not assigned to either template: %v", out)
	}

	idx0 := indexOf(out[0], 1, 0)
	idx1 := indexOf(out[1], 1, 0)
	if idx0 < 0 || idx1 < 0 {
		t.Fatalf("stray pixel not merged into either child")
	}
	got0, got1 := out[0].ImageVals[idx0], out[1].ImageVals[idx1]
	// weight0=1/(1+1)=0.5, weight1=1/(1+4)=0.2, sum=0.7
	// port0 = 10*0.5/0.7 = 7.142857..., port1 = 10*0.2/0.7 = 2.857142...
	if math.Abs(got0-50.0/7) > 1e-9 || math.Abs(got1-20.0/7) > 1e-9 {
		t.Errorf("got port0=%v port1=%v want %v,%v", got0, got1, 50.0/7, 20.0/7)
	}
	if math.Abs(got0+got1-10) > 1e-9 {
		t.Errorf("portions do not sum to parent flux: %v+%v != 10", got0, got1)
	}
}

func TestDistributeStrayFluxExcludesPointSourcesByDefault(t *testing.T) {
	bounds := raster.Rect{MinX: 0, MinY: 0, MaxX: 3, MaxY: 0}
	mi := raster.NewMaskedImage[float64, uint8](bounds)
	mi.Image.Set(1, 0, 10)

	foot0 := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 0}}), []footprint.Peak{{IX: 0, IY: 0}}, nil)
	foot1 := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 3, X1: 3}}), []footprint.Peak{{IX: 3, IY: 0}}, nil)

	stray := footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 1, X1: 1}})
	out, err := DistributeStrayFlux(bytes.NewBuffer(nil), mi,
		[]*footprint.Footprint{foot0, foot1},
		[]footprint.Peak{{IX: 0, IY: 0}, {IX: 3, IY: 0}},
		[]bool{true, false}, // foot0 is a point source, excluded by default
		stray, Options(0), 0)
	if err != nil {
		t.Fatalf("DistributeStrayFlux: %v", err)
	}
	if out[0] != nil {
		t.Errorf("point source template unexpectedly received stray flux: %v", out[0])
	}
	if out[1] == nil {
		t.Fatalf("non-point-source template did not receive stray flux")
	}
	idx1 := indexOf(out[1], 1, 0)
	if idx1 < 0 {
		t.Fatalf("non-point-source template did not receive stray flux")
	}
	if math.Abs(out[1].ImageVals[idx1]-10) > 1e-9 {
		t.Errorf("got %v want all 10 units of flux", out[1].ImageVals[idx1])
	}
}

func indexOf[T raster.Number, M raster.MaskBits](hf *footprint.HeavyFootprint[T, M], x, y int) int {
	idx := -1
	i := 0
	hf.Spans.ForEachPixel(func(px, py int) {
		if px == x && py == y {
			idx = i
		}
		i++
	})
	return idx
}
