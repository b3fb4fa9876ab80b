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
)

// SymmetrizeFootprint implements C4: it returns the footprint S whose pixel
// set is { (x,y) in F : (2cx-x, 2cy-y) in F }, the two-fold rotational AND
// of F with its 180-degree rotation about the peak (cx,cy).
//
// If (cx,cy) does not lie inside F, this is the soft NoPeakSpan condition:
// a warning is logged through internal/log's Warnf (w is not written to)
// and a nil footprint is returned. Callers must
// treat a nil result as "no symmetric template available", not an error.
func SymmetrizeFootprint(w io.Writer, f *footprint.Footprint, cx, cy int) *footprint.Footprint {
	if _, ok := f.Spans.FindSpanContaining(cx, cy); !ok {
		dlog.Warnf("symmetrize: peak (%d,%d) not found in footprint spans\n", cx, cy)
		return nil
	}

	rows := rowsByY(f.Spans.Spans)
	bbox := f.Spans.BBox()
	maxDY := max(cy-bbox.MinY, bbox.MaxY-cy)
	if maxDY < 0 {
		maxDY = 0
	}

	var spans []footprint.Span
	for dy := 0; dy <= maxDY; dy++ {
		fwdRow := rows[cy+dy]
		backRow := rows[cy-dy]
		if len(fwdRow) == 0 || len(backRow) == 0 {
			continue
		}
		for _, fs := range fwdRow {
			for _, bs := range backRow {
				// bs at y=cy-dy mirrors to x-range [2cx-bs.X1, 2cx-bs.X0]
				// in the fwd row's coordinate system.
				mirrorLo, mirrorHi := 2*cx-bs.X1, 2*cx-bs.X0
				lo, hi := max(fs.X0, mirrorLo), min(fs.X1, mirrorHi)
				if lo > hi {
					continue
				}
				spans = append(spans, footprint.Span{Y: cy + dy, X0: lo, X1: hi})
				spans = append(spans, footprint.Span{Y: cy - dy, X0: 2*cx - hi, X1: 2*cx - lo})
			}
		}
	}
	if len(spans) == 0 {
		return nil
	}
	return footprint.NewFootprint(footprint.NewSpanSet(spans), []footprint.Peak{{IX: cx, IY: cy}}, f)
}

// rowsByY groups spans (already sorted by (y,x0)) into a map from row Y to
// the spans on that row, in ascending x0 order.
func rowsByY(spans []footprint.Span) map[int][]footprint.Span {
	rows := make(map[int][]footprint.Span)
	for _, s := range spans {
		rows[s.Y] = append(rows[s.Y], s)
	}
	return rows
}
