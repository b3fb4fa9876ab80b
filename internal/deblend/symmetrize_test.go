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
)

// A single row already symmetric about its center is unchanged.
func TestSymmetrizeFootprintAlreadySymmetric(t *testing.T) {
	f := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 4}}), []footprint.Peak{{IX: 2, IY: 0}}, nil)
	got := SymmetrizeFootprint(bytes.NewBuffer(nil), f, 2, 0)
	if got == nil {
		t.Fatalf("expected a non-nil result")
	}
	if len(got.Spans.Spans) != 1 || got.Spans.Spans[0] != (footprint.Span{Y: 0, X0: 0, X1: 4}) {
		t.Errorf("got %v want unchanged single span", got.Spans.Spans)
	}
}

// A footprint with a row that has no mirror partner drops that row.
func TestSymmetrizeFootprintDropsUnpairedRow(t *testing.T) {
	spans := footprint.NewSpanSet([]footprint.Span{
		{Y: 0, X0: 0, X1: 2},
		{Y: 1, X0: 0, X1: 2},
	})
	f := footprint.NewFootprint(spans, []footprint.Peak{{IX: 1, IY: 0}}, nil)
	got := SymmetrizeFootprint(bytes.NewBuffer(nil), f, 1, 0)
	if got == nil {
		t.Fatalf("expected a non-nil result")
	}
	for _, s := range got.Spans.Spans {
		if s.Y == 1 {
			t.Errorf("row y=1 has no mirror at y=-1, should have been dropped: %v", got.Spans.Spans)
		}
	}
}

func TestSymmetrizeFootprintNoPeakSpanReturnsNil(t *testing.T) {
	f := footprint.NewFootprint(footprint.NewSpanSet([]footprint.Span{{Y: 0, X0: 0, X1: 2}}), nil, nil)
	got := SymmetrizeFootprint(bytes.NewBuffer(nil), f, 10, 10)
	if got != nil {
		t.Errorf("expected nil when peak is outside the footprint, got %v", got.Spans.Spans)
	}
}
