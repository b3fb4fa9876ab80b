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

// Package geom holds small floating-point coordinate helpers used by the
// peak-refinement pass. The deblend core itself
// works entirely in integer pixel coordinates (see footprint.Peak); these
// types exist for the ambient, non-core callers that reason about
// sub-pixel positions before handing an integer peak to the core.
package geom

import (
	"fmt"
	"math"
)

// A 2-dimensional point with floating point coordinates.
type Point2D struct {
	X float64
	Y float64
}

// A 2-dimensional rectangle with floating point coordinates.
type Rect2D struct {
	A Point2D
	B Point2D
}

func (p Point2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

func (r Rect2D) String() string {
	return fmt.Sprintf("(%v, %v)", r.A, r.B)
}

// Dist returns the euclidian distance between the two given points.
func Dist(a, b Point2D) float64 {
	return math.Sqrt(DistSquared(a, b))
}

// DistSquared returns the squared euclidian distance between the two given points.
func DistSquared(a, b Point2D) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func Add(a, b Point2D) Point2D {
	return Point2D{a.X + b.X, a.Y + b.Y}
}

func Sub(a, b Point2D) Point2D {
	return Point2D{a.X - b.X, a.Y - b.Y}
}
