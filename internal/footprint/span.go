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

// Package footprint implements C1 (the Span/SpanSet adapter) and the
// Footprint/HeavyFootprint types of the data model: a read-only ordered
// view of a detection region as horizontal runs, plus the peaks and
// per-pixel value arrays layered on top of it.
package footprint

import (
	"fmt"
	"sort"

	"github.com/mlnoga/deblend/internal/raster"
)

// Span is one closed horizontal run {Y, X0, X1} with X0<=X1.
type Span struct {
	Y, X0, X1 int
}

// Len returns the number of pixels in the span.
func (s Span) Len() int { return s.X1 - s.X0 + 1 }

// Less orders spans lexicographically by (Y, X0, X1), the SpanSet invariant.
func (s Span) Less(o Span) bool {
	if s.Y != o.Y {
		return s.Y < o.Y
	}
	if s.X0 != o.X0 {
		return s.X0 < o.X0
	}
	return s.X1 < o.X1
}

func (s Span) String() string {
	return fmt.Sprintf("(y=%d, x=[%d,%d])", s.Y, s.X0, s.X1)
}

// SpanSet is an ordered sequence of non-overlapping Spans sorted by (y, x0).
type SpanSet struct {
	Spans []Span
}

// NewSpanSet sorts the given spans and removes exact duplicates, the
// construction-time cleanup symmetrize's dy=0 row relies on (its forward
// and backward cursors may emit the very same span twice for the peak row).
func NewSpanSet(spans []Span) *SpanSet {
	cp := append([]Span(nil), spans...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Less(cp[j]) })
	out := cp[:0]
	for i, s := range cp {
		if i > 0 && s == cp[i-1] {
			continue
		}
		out = append(out, s)
	}
	return &SpanSet{Spans: out}
}

// Area returns the total pixel count, sum of (x1-x0+1) over all spans.
func (ss *SpanSet) Area() int {
	a := 0
	for _, s := range ss.Spans {
		a += s.Len()
	}
	return a
}

// BBox returns the tight enclosing rectangle of all spans.
func (ss *SpanSet) BBox() raster.Rect {
	if len(ss.Spans) == 0 {
		return raster.Rect{MinX: 0, MinY: 0, MaxX: -1, MaxY: -1}
	}
	r := raster.Rect{MinX: ss.Spans[0].X0, MaxX: ss.Spans[0].X1, MinY: ss.Spans[0].Y, MaxY: ss.Spans[0].Y}
	for _, s := range ss.Spans[1:] {
		if s.X0 < r.MinX {
			r.MinX = s.X0
		}
		if s.X1 > r.MaxX {
			r.MaxX = s.X1
		}
		if s.Y < r.MinY {
			r.MinY = s.Y
		}
		if s.Y > r.MaxY {
			r.MaxY = s.Y
		}
	}
	return r
}

// ForEachPixel visits every pixel in lexicographic (y, x) order.
func (ss *SpanSet) ForEachPixel(f func(x, y int)) {
	for _, s := range ss.Spans {
		for x := s.X0; x <= s.X1; x++ {
			f(x, s.Y)
		}
	}
}

// Contains reports whether (x,y) is a member pixel, via binary search over
// rows and then a linear scan of that row's (typically few) spans.
func (ss *SpanSet) Contains(x, y int) bool {
	_, ok := ss.findRowStart(y)
	if !ok {
		return false
	}
	i, _ := ss.findRowStart(y)
	for i < len(ss.Spans) && ss.Spans[i].Y == y {
		if x >= ss.Spans[i].X0 && x <= ss.Spans[i].X1 {
			return true
		}
		i++
	}
	return false
}

// findRowStart returns the index of the first span with the given Y, or
// ok=false if no span has that Y.
func (ss *SpanSet) findRowStart(y int) (int, bool) {
	i := sort.Search(len(ss.Spans), func(i int) bool { return ss.Spans[i].Y >= y })
	if i >= len(ss.Spans) || ss.Spans[i].Y != y {
		return i, false
	}
	return i, true
}

// FindSpanContaining locates the span holding (x,y), if any. Used by C4 to
// locate the span housing the deblend peak.
func (ss *SpanSet) FindSpanContaining(x, y int) (idx int, ok bool) {
	i, found := ss.findRowStart(y)
	if !found {
		return -1, false
	}
	for i < len(ss.Spans) && ss.Spans[i].Y == y {
		if x >= ss.Spans[i].X0 && x <= ss.Spans[i].X1 {
			return i, true
		}
		i++
	}
	return -1, false
}

// EdgePixels returns the subset of member pixels whose 4-neighbourhood
// includes at least one non-member pixel, used by C10's significant-flux
// tests.
func (ss *SpanSet) EdgePixels() *SpanSet {
	var spans []Span
	for _, s := range ss.Spans {
		runStart := -1
		for x := s.X0; x <= s.X1; x++ {
			isEdge := !ss.Contains(x-1, s.Y) || !ss.Contains(x+1, s.Y) ||
				!ss.Contains(x, s.Y-1) || !ss.Contains(x, s.Y+1)
			if isEdge {
				if runStart == -1 {
					runStart = x
				}
			} else if runStart != -1 {
				spans = append(spans, Span{Y: s.Y, X0: runStart, X1: x - 1})
				runStart = -1
			}
		}
		if runStart != -1 {
			spans = append(spans, Span{Y: s.Y, X0: runStart, X1: s.X1})
		}
	}
	return NewSpanSet(spans)
}
