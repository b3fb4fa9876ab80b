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
	"errors"
	"fmt"

	"github.com/mlnoga/deblend/internal/raster"
)

// LengthMismatchError reports that the templates/footprints/peaks/ispsf
// vectors passed to ApportionFlux disagree in length. Fatal: raised before
// any output is produced.
type LengthMismatchError struct {
	Field string
	Got   int
	Want  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("deblend: length mismatch for %s: got %d, want %d", e.Field, e.Got, e.Want)
}

// BoundsViolationError reports that a required containment (image bbox
// contains footprint bbox, tsum bbox contains footprint bbox, template
// bbox contains template footprint bbox) failed. Fatal.
type BoundsViolationError struct {
	What    string
	Outer   raster.Rect
	Inner   raster.Rect
}

func (e *BoundsViolationError) Error() string {
	return fmt.Sprintf("deblend: bounds violation (%s): %v does not contain %v", e.What, e.Outer, e.Inner)
}

// MissingMaskPlaneError reports that the named mask plane (typically
// "EDGE") is not defined in the mask schema handed to BuildSymmetricTemplate.
type MissingMaskPlaneError struct {
	PlaneName string
}

func (e *MissingMaskPlaneError) Error() string {
	return fmt.Sprintf("deblend: mask plane %q not defined", e.PlaneName)
}

// ErrNoPeakSpan is the soft C4 condition: the span containing the peak
// could not be located. This is not returned as an error from
// SymmetrizeFootprint (which instead logs a warning and returns a nil
// footprint), and no function in this package returns it; it is exported
// as a named value for callers that report the "no symmetric template
// available" condition themselves.
var ErrNoPeakSpan = errors.New("deblend: peak span not found in footprint")
