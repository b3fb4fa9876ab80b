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

package scene

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/tiff"

	"github.com/mlnoga/deblend/internal/raster"
)

// FalseColor renders img as a heat-map RGBA image, scaled between the
// image's minimum and maximum: dim blue at the minimum, sweeping through
// the hues to bright red at the maximum, the deblend-demo analogue of the
// host pipeline's RGB false-colour previews.
func FalseColor[T raster.Number](img *raster.Image[T]) *image.RGBA {
	lo, hi := extrema(img)
	out := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			v := (float64(img.At(img.X0+x, img.Y0+y)) - lo) / span
			out.Set(x, y, heatColor(v))
		}
	}
	return out
}

func heatColor(v float64) color.Color {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	// Hue sweeps from blue (cold) down to red (hot); value ramps up with
	// intensity so faint flux is dim rather than fully saturated.
	hue := 240 * (1 - v)
	c := colorful.Hsv(hue, 0.85, math.Min(1, 0.15+v))
	return c
}

func extrema[T raster.Number](img *raster.Image[T]) (lo, hi float64) {
	if len(img.Data) == 0 {
		return 0, 0
	}
	lo, hi = float64(img.Data[0]), float64(img.Data[0])
	for _, v := range img.Data {
		f := float64(v)
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return lo, hi
}

// SaveTIFF16 writes img as a 16-bit grayscale TIFF, scaled linearly so its
// minimum and maximum map to 0 and 65535.
func SaveTIFF16[T raster.Number](w io.Writer, img *raster.Image[T]) error {
	lo, hi := extrema(img)
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	gray := image.NewGray16(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			v := (float64(img.At(img.X0+x, img.Y0+y)) - lo) / span
			gray.SetGray16(x, y, color.Gray16{Y: uint16(v * 65535)})
		}
	}
	return tiff.Encode(w, gray, nil)
}
