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

package main

import (
	"flag"
	"fmt"
	"os"

	dlog "github.com/mlnoga/deblend/internal/log"

	"github.com/mlnoga/deblend/internal/batchrunner"
	"github.com/mlnoga/deblend/internal/diagnostics"
	"github.com/mlnoga/deblend/internal/raster"
	"github.com/mlnoga/deblend/internal/scene"
)

const version = "0.1.0"

var width      = flag.Int("width", 128, "width of the synthetic scene in pixels")
var height     = flag.Int("height", 128, "height of the synthetic scene in pixels")
var numSources = flag.Int("sources", 5, "number of overlapping point sources to plant")
var seed       = flag.Uint64("seed", 1, "random seed for scene generation")
var noiseSigma = flag.Float64("noiseSigma", 2.0, "standard deviation of the synthetic read noise")
var config     = flag.String("config", "", "load a YAML batch configuration from `file`, if given")
var out        = flag.String("out", "scene", "write outputs with this filename prefix")
var showLegal  = flag.Bool("legal", false, "print licensing information for bundled libraries and exit")

func main() {
	flag.Parse()

	if *showLegal {
		fmt.Print(legal)
		os.Exit(0)
	}

	cfg := batchrunner.DefaultConfig()
	if *config != "" {
		loaded, err := batchrunner.LoadConfig(*config)
		if err != nil {
			dlog.Fatalf("loading config %s: %s\n", *config, err.Error())
		}
		cfg = loaded
	}

	sc := scene.Generate(*width, *height, *numSources, uint32(*seed), *noiseSigma)
	dlog.Printf("generated scene with %d sources, %dx%d pixels\n", len(sc.Sources), *width, *height)

	if err := writeTIFF(*out+".tiff", sc); err != nil {
		dlog.Fatalf("writing preview: %s\n", err.Error())
	}

	isPSF := make([]bool, len(sc.Parent.Peaks))
	job := batchrunner.ParentJob[float32, uint8]{
		Image:      sc.Image,
		Parent:     sc.Parent,
		Peaks:      sc.Parent.Peaks,
		IsPSF:      isPSF,
		MaskPlanes: raster.MaskSchema[uint8]{"EDGE": scene.EdgeBit},
	}
	results := batchrunner.Run(os.Stdout, cfg, []batchrunner.ParentJob[float32, uint8]{job})
	result := results[0]
	if result.Err != nil {
		dlog.Fatalf("deblend: %s\n", result.Err.Error())
	}
	dlog.Printf("deblended into %d children\n", len(result.Ports))

	report := diagnostics.Residual(sc.Image, sc.Parent, result.Ports, result.Strays)
	dlog.Printf("parent flux %.1f, children flux %.1f, residual mean %.4f std %.4f max|.| %.4f\n",
		report.ParentFlux, report.ChildrenFlux, report.ResidualMean, report.ResidualStd, report.MaxAbsResidual)
}

func writeTIFF(path string, sc *scene.Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return scene.SaveTIFF16[float32](f, sc.Image.Image)
}
