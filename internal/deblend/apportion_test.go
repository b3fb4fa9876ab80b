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
	"testing"

	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

// t0=3, t1=1, parent=8 apportions to port0=6, port1=2.
func TestApportionFluxProportional(t *testing.T) {
	bounds := raster.Rect{MinX: 0, MinY: 0, MaxX: 0, MaxY: 0}
	mi := raster.NewMaskedImage[float64, uint8](bounds)
	mi.Image.Set(0, 0, 8)

	parentSpans := footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 0}})
	parent := footprint.NewFootprint(parentSpans, nil, nil)

	tmpl0 := raster.NewImage[float64](bounds)
	tmpl0.Set(0, 0, 3)
	tmpl1 := raster.NewImage[float64](bounds)
	tmpl1.Set(0, 0, 1)

	foot0 := footprint.NewFootprint(parentSpans, []footprint.Peak{{IX: 0, IY: 0}}, nil)
	foot1 := footprint.NewFootprint(parentSpans, []footprint.Peak{{IX: 0, IY: 0}}, nil)

	ports, strays, err := ApportionFlux(bytes.NewBuffer(nil), mi, parent,
		[]*raster.Image[float64]{tmpl0, tmpl1},
		[]*footprint.Footprint{foot0, foot1},
		[]footprint.Peak{{IX: 0, IY: 0}, {IX: 0, IY: 0}},
		[]bool{false, false},
		Options(0), 0)
	if err != nil {
		t.Fatalf("ApportionFlux: %v", err)
	}
	if strays != nil {
		t.Errorf("strays: got %v want nil (AssignStrayFlux not set)", strays)
	}
	if got := ports[0].Image.At(0, 0); got != 6 {
		t.Errorf("port0: got %v want 6", got)
	}
	if got := ports[1].Image.At(0, 0); got != 2 {
		t.Errorf("port1: got %v want 2", got)
	}
}

func TestApportionFluxLengthMismatch(t *testing.T) {
	bounds := raster.Rect{MinX: 0, MinY: 0, MaxX: 0, MaxY: 0}
	mi := raster.NewMaskedImage[float64, uint8](bounds)
	parentSpans := footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 0}})
	parent := footprint.NewFootprint(parentSpans, nil, nil)
	tmpl0 := raster.NewImage[float64](bounds)
	foot0 := footprint.NewFootprint(parentSpans, nil, nil)

	_, _, err := ApportionFlux(bytes.NewBuffer(nil), mi, parent,
		[]*raster.Image[float64]{tmpl0},
		[]*footprint.Footprint{foot0},
		[]footprint.Peak{},
		[]bool{false},
		Options(0), 0)
	if _, ok := err.(*LengthMismatchError); !ok {
		t.Fatalf("got err %v (%T), want *LengthMismatchError", err, err)
	}
}

func TestApportionFluxZeroTsumLeavesStrayPixel(t *testing.T) {
	bounds := raster.Rect{MinX: 0, MinY: 0, MaxX: 0, MaxY: 0}
	mi := raster.NewMaskedImage[float64, uint8](bounds)
	mi.Image.Set(0, 0, 5)
	parentSpans := footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 0}})
	parent := footprint.NewFootprint(parentSpans, nil, nil)
	tmpl0 := raster.NewImage[float64](bounds) // all zero: no template covers this pixel
	foot0 := footprint.NewFootprint(parentSpans, []footprint.Peak{{IX: 0, IY: 0}}, nil)

	ports, strays, err := ApportionFlux(bytes.NewBuffer(nil), mi, parent,
		[]*raster.Image[float64]{tmpl0},
		[]*footprint.Footprint{foot0},
		[]footprint.Peak{{IX: 0, IY: 0}},
		[]bool{false},
		Options(0), 0)
	if err != nil {
		t.Fatalf("ApportionFlux: %v", err)
	}
	if strays != nil {
		t.Errorf("strays: got %v want nil (AssignStrayFlux not set)", strays)
	}
	if got := ports[0].Image.At(0, 0); got != 0 {
		t.Errorf("without AssignStrayFlux: got %v want 0", got)
	}
}
