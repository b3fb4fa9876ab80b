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

// Package scene generates synthetic blended-source images for exercising
// and demonstrating the deblend core, standing in for the host pipeline's
// FITS light frames when no real detection catalogue is at hand.
package scene

import (
	"math"

	"github.com/valyala/fastrand"

	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

// Source is one ground-truth Gaussian blob planted in a generated scene.
type Source struct {
	X, Y      float64
	Amplitude float64
	Sigma     float64
}

// Scene is a generated image plus the ground truth used to build it and
// the parent footprint that groups every source above the noise floor.
type Scene struct {
	Image   *raster.MaskedImage[float32, uint8]
	Sources []Source
	Parent  *footprint.Footprint
}

// EdgeBit is the mask bit Generate sets on pixels touching the image
// border, exercised by BuildSymmetricTemplate's edge-patching path.
const EdgeBit uint8 = 1

// Generate builds a width x height scene with n randomly placed
// overlapping Gaussian sources plus Gaussian read noise, seeded
// deterministically from seed so repeated calls reproduce the same scene.
func Generate(width, height, n int, seed uint32, noiseSigma float64) *Scene {
	// A zero-valued RNG seeds itself from the clock, so set the state
	// explicitly; it is kept odd because xorshift needs a non-zero state.
	rng := fastrand.RNG{}
	rng.Seed(seed*2 + 1)

	bounds := raster.Rect{MinX: 0, MinY: 0, MaxX: width - 1, MaxY: height - 1}
	mi := raster.NewMaskedImage[float32, uint8](bounds)

	sources := make([]Source, n)
	for i := range sources {
		sources[i] = Source{
			X:         float64(rng.Uint32n(uint32(width))),
			Y:         float64(rng.Uint32n(uint32(height))),
			Amplitude: 20 + float64(rng.Uint32n(100)),
			Sigma:     1.5 + float64(rng.Uint32n(30))/10,
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var v float64
			for _, s := range sources {
				dx, dy := float64(x)-s.X, float64(y)-s.Y
				v += s.Amplitude * math.Exp(-(dx*dx+dy*dy)/(2*s.Sigma*s.Sigma))
			}
			noise := gaussianNoise(&rng) * noiseSigma
			mi.Image.Set(x, y, float32(v+noise))
			mi.Variance.Set(x, y, float32(noiseSigma*noiseSigma))
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				mi.Mask.Set(x, y, EdgeBit)
			}
		}
	}

	spans := make([]footprint.Span, height)
	for y := 0; y < height; y++ {
		spans[y] = footprint.Span{Y: y, X0: 0, X1: width - 1}
	}
	peaks := make([]footprint.Peak, n)
	for i, s := range sources {
		peaks[i] = footprint.Peak{IX: int(math.Round(s.X)), IY: int(math.Round(s.Y))}
	}
	parent := footprint.NewFootprint(footprint.NewSpanSet(spans), peaks, nil)

	return &Scene{Image: mi, Sources: sources, Parent: parent}
}

// gaussianNoise draws one standard-normal sample via the Box-Muller
// transform, since fastrand only exposes uniform generators.
func gaussianNoise(rng *fastrand.RNG) float64 {
	u1 := (float64(rng.Uint32()) + 1) / (1 << 32)
	u2 := float64(rng.Uint32()) / (1 << 32)
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
