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

package footprint

import (
	"github.com/mlnoga/deblend/internal/raster"
)

// Peak is an integer pixel location associated with a source within a footprint.
type Peak struct {
	IX, IY int
}

// Schema is an opaque descriptor propagated from a parent footprint to its
// derived footprints (symmetrized footprint, stray-flux footprints). The
// core never inspects it; it exists so a host pipeline that attaches extra
// per-peak metadata (e.g. point-source flags from deeper photometry) can
// round-trip that metadata through deblend without the core needing to
// know its shape.
type Schema any

// Footprint is a SpanSet plus the peaks detected within it and an opaque
// peak schema inherited from whatever produced it.
type Footprint struct {
	Spans  *SpanSet
	Peaks  []Peak
	Schema Schema
}

// NewFootprint builds a footprint from spans and peaks, inheriting schema
// from the given parent (nil if there is none).
func NewFootprint(spans *SpanSet, peaks []Peak, parent *Footprint) *Footprint {
	f := &Footprint{Spans: spans, Peaks: peaks}
	if parent != nil {
		f.Schema = parent.Schema
	}
	return f
}

// BBox returns the tight enclosing rectangle of the footprint's spans.
func (f *Footprint) BBox() raster.Rect {
	return f.Spans.BBox()
}

// Area returns the footprint's pixel count.
func (f *Footprint) Area() int {
	return f.Spans.Area()
}

// HeavyFootprint is a footprint whose spans are backed by parallel flat
// arrays of (image, mask, variance) values, laid out in the lexicographic
// iteration order of the spans: array index k corresponds to the k-th
// pixel visited by SpanSet.ForEachPixel. This pairing between span order
// and array order must be built and finalized atomically — reordering
// spans after the value arrays are filled is a defect, not a compatible
// refactor (see DESIGN.md: stray-flux emission).
type HeavyFootprint[T raster.Number, M raster.MaskBits] struct {
	*Footprint
	ImageVals    []T
	MaskVals     []M
	VarianceVals []T
}

// NewHeavyFootprint validates the array-length invariant and returns a
// HeavyFootprint, or a *ValueArrayLengthError if ImageVals/MaskVals/VarianceVals
// disagree in length with the footprint's area.
func NewHeavyFootprint[T raster.Number, M raster.MaskBits](f *Footprint, imageVals []T, maskVals []M, varianceVals []T) (*HeavyFootprint[T, M], error) {
	area := f.Area()
	if len(imageVals) != area || len(maskVals) != area || len(varianceVals) != area {
		return nil, &ValueArrayLengthError{Area: area, ImageLen: len(imageVals), MaskLen: len(maskVals), VarianceLen: len(varianceVals)}
	}
	return &HeavyFootprint[T, M]{Footprint: f, ImageVals: imageVals, MaskVals: maskVals, VarianceVals: varianceVals}, nil
}

// ValueArrayLengthError reports a HeavyFootprint whose value arrays do not
// match its span area, violating the invariant in the data model.
type ValueArrayLengthError struct {
	Area                                      int
	ImageLen, MaskLen, VarianceLen            int
}

func (e *ValueArrayLengthError) Error() string {
	return "heavy footprint value array length mismatch"
}
