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
	"runtime"

	"github.com/pbnjay/memory"

	dlog "github.com/mlnoga/deblend/internal/log"
)

// bytesPerParent is a rough upper bound on the working set one parent
// footprint's deblend needs: the parent's masked image planes plus a
// handful of same-sized template buffers.
const bytesPerParent = 8 * 1024 * 1024

// concurrency picks a worker pool size for a batch of numParents footprints
// of roughly parentPixels each, capped by both CPU count and the memory
// budget in cfg.StMemory, mirroring the host pipeline's PrepareBatches
// memory-driven sizing.
func concurrency(cfg Config, numParents, parentPixels int) int {
	if numParents <= 0 {
		return 0
	}
	perParent := int64(bytesPerParent)
	if parentPixels > 0 {
		perParent = int64(parentPixels) * 4 * 3 // image+mask+variance, float32-sized
	}

	budget := cfg.StMemory * 1024 * 1024
	if budget <= 0 {
		total := int64(memory.TotalMemory())
		if total > 0 {
			budget = total / 2
		}
	}

	byMemory := int(budget / perParent)
	byCPU := runtime.GOMAXPROCS(0)
	n := byMemory
	if byCPU < n {
		n = byCPU
	}
	if n > numParents {
		n = numParents
	}
	if n < 1 {
		n = 1
	}
	dlog.Printf("deblend batch: %d parents, %d workers (cpu=%d, memory-limited=%d)\n", numParents, n, byCPU, byMemory)
	return n
}
