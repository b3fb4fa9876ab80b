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
	"net/http"

	"github.com/gin-gonic/gin"

	dlog "github.com/mlnoga/deblend/internal/log"

	"github.com/mlnoga/deblend/internal/batchrunner"
	"github.com/mlnoga/deblend/internal/diagnostics"
	"github.com/mlnoga/deblend/internal/raster"
	"github.com/mlnoga/deblend/internal/scene"
)

var configPath = flag.String("config", "", "load a YAML batch configuration from `file`, if given")

func main() {
	flag.Parse()

	cfg := batchrunner.DefaultConfig()
	if *configPath != "" {
		loaded, err := batchrunner.LoadConfig(*configPath)
		if err != nil {
			dlog.Fatalf("loading config %s: %s\n", *configPath, err.Error())
		}
		cfg = loaded
	}

	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.POST("/deblend", postDeblend(cfg))
		}
	}
	r.Run() // listen and serve on 0.0.0.0:8080
}

func getPing(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}

// postDeblendArgs is the request body for /api/v1/deblend: a synthetic
// scene description, since the demo server has no FITS catalogue behind
// it. A real deployment would replace scene.Generate with a load of an
// actual parent footprint and its candidate peaks.
type postDeblendArgs struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	NumSources int     `json:"numSources"`
	Seed       uint32  `json:"seed"`
	NoiseSigma float64 `json:"noiseSigma"`
}

type postDeblendResult struct {
	NumChildren int                          `json:"numChildren"`
	Residual    diagnostics.ResidualReport   `json:"residual"`
}

func postDeblend(cfg batchrunner.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var args postDeblendArgs
		if err := c.ShouldBind(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if args.Width <= 0 || args.Height <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be positive"})
			return
		}
		if args.NumSources <= 0 {
			args.NumSources = 1
		}
		if args.NoiseSigma <= 0 {
			args.NoiseSigma = 1
		}

		sc := scene.Generate(args.Width, args.Height, args.NumSources, args.Seed, args.NoiseSigma)

		isPSF := make([]bool, len(sc.Parent.Peaks))
		job := batchrunner.ParentJob[float32, uint8]{
			Image:      sc.Image,
			Parent:     sc.Parent,
			Peaks:      sc.Parent.Peaks,
			IsPSF:      isPSF,
			MaskPlanes: raster.MaskSchema[uint8]{"EDGE": scene.EdgeBit},
		}
		results := batchrunner.Run(c.Writer, cfg, []batchrunner.ParentJob[float32, uint8]{job})
		result := results[0]
		if result.Err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Err.Error()})
			return
		}

		report := diagnostics.Residual(sc.Image, sc.Parent, result.Ports, result.Strays)
		c.JSON(http.StatusOK, postDeblendResult{
			NumChildren: len(result.Ports),
			Residual:    report,
		})
	}
}
