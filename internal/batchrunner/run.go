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

package batchrunner

import (
	"fmt"
	"io"

	dlog "github.com/mlnoga/deblend/internal/log"

	"github.com/mlnoga/deblend/internal/deblend"
	"github.com/mlnoga/deblend/internal/footprint"
	"github.com/mlnoga/deblend/internal/raster"
)

// ParentJob is one blended footprint to deblend: its parent masked image,
// the footprint itself, and its candidate peaks with their point-source
// flags.
type ParentJob[T raster.Number, M raster.MaskBits] struct {
	Image  *raster.MaskedImage[T, M]
	Parent *footprint.Footprint
	Peaks  []footprint.Peak
	IsPSF  []bool
	// MaskPlanes resolves the EDGE plane by name for template edge
	// patching; nil disables patching for this job.
	MaskPlanes raster.MaskSchema[M]
}

// Result is one job's deblended output, in the same order as its peaks.
// Ports holds one dense apportioned-flux image per surviving peak; Strays
// holds the stray-flux HeavyFootprint assigned to that same peak, or nil
// if it received none.
type Result[T raster.Number, M raster.MaskBits] struct {
	Ports  []*raster.MaskedImage[T, M]
	Strays []*footprint.HeavyFootprint[T, M]
	Err    error
}

// Run deblends every job in jobs on a worker pool no larger than the CPU
// count, the number of parents that fit in cfg.StMemory megabytes, or the
// number of jobs (but at least one worker), mirroring the host pipeline's
// OpParallel.ApplyToFiles semaphore pattern.
func Run[T raster.Number, M raster.MaskBits](w io.Writer, cfg Config, jobs []ParentJob[T, M]) []Result[T, M] {
	results := make([]Result[T, M], len(jobs))
	if len(jobs) == 0 {
		return results
	}

	parentPixels := jobs[0].Parent.Area()
	n := concurrency(cfg, len(jobs), parentPixels)
	sem := make(chan bool, n)
	for i, job := range jobs {
		sem <- true
		go func(i int, job ParentJob[T, M]) {
			defer func() { <-sem }()
			results[i] = runOne(w, cfg, job)
		}(i, job)
	}
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
	return results
}

func runOne[T raster.Number, M raster.MaskBits](w io.Writer, cfg Config, job ParentJob[T, M]) Result[T, M] {
	n := len(job.Peaks)
	templates := make([]*raster.Image[T], 0, n)
	footprints := make([]*footprint.Footprint, 0, n)
	peaks := make([]footprint.Peak, 0, n)
	isPSF := make([]bool, 0, n)

	for i, p := range job.Peaks {
		refined := RefinePeak(job.Image, p, 2)
		tmpl, tfoot, patched, err := deblend.BuildSymmetricTemplate(w, job.Image, job.Parent, refined.IX, refined.IY, 0, cfg.MinTemplateZero, cfg.PatchEdges, job.MaskPlanes)
		if err != nil {
			return Result[T, M]{Err: fmt.Errorf("peak %d: %w", i, err)}
		}
		if tmpl == nil {
			dlog.Warnf("peak %d at (%d,%d): no symmetric template, skipping\n", i, refined.IX, refined.IY)
			continue
		}
		if patched {
			dlog.Printf("peak %d at (%d,%d): template patched at parent edge\n", i, refined.IX, refined.IY)
		}
		deblend.MakeMonotonic(tmpl, refined.IX, refined.IY)
		templates = append(templates, tmpl)
		footprints = append(footprints, tfoot)
		peaks = append(peaks, refined)
		isPSF = append(isPSF, job.IsPSF[i])
	}

	if len(templates) == 0 {
		return Result[T, M]{}
	}

	ports, strays, err := deblend.ApportionFlux(w, job.Image, job.Parent, templates, footprints, peaks, isPSF, cfg.Options, cfg.ClipStrayFluxFraction)
	if err != nil {
		return Result[T, M]{Err: err}
	}
	return Result[T, M]{Ports: ports, Strays: strays}
}
