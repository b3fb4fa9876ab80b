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

// Package batchrunner drives the deblend core over a batch of parent
// footprints, the role the host pipeline's batch.go and OpStackMultiBatch
// play for calibration frames: size the run against available memory,
// load YAML configuration, and fan work out across a worker pool.
package batchrunner

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mlnoga/deblend/internal/deblend"
)

// Config is the YAML-loadable configuration for a deblend batch run,
// mirroring the host pipeline's convention of exposing its Op* structs
// directly as JSON/YAML request bodies.
type Config struct {
	// Options is the C8 apportion-flux option bitset.
	Options deblend.Options `yaml:"options"`

	// ClipStrayFluxFraction caps the fraction of a stray pixel's flux any
	// single candidate template may absorb under the weighted stray flux
	// policies.
	ClipStrayFluxFraction float64 `yaml:"clipStrayFluxFraction"`

	// MinTemplateZero forces symmetric templates to be clamped at zero.
	MinTemplateZero bool `yaml:"minTemplateZero"`

	// PatchEdges enables raw-pixel patching of templates that touch the
	// EDGE mask plane.
	PatchEdges bool `yaml:"patchEdges"`

	// SigmaThreshold is a significance threshold in standard deviations.
	// It is loaded and defaulted but not read by Run; C10's edge
	// inspectors take a plain pixel-value threshold instead.
	SigmaThreshold float64 `yaml:"sigmaThreshold"`

	// StMemory bounds the memory, in MB, the runner may use to size its
	// worker pool, mirroring the host pipeline's -stMemory flag.
	StMemory int64 `yaml:"stMemory"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Options:                deblend.AssignStrayFlux,
		ClipStrayFluxFraction:  0.5,
		MinTemplateZero:        true,
		PatchEdges:             true,
		SigmaThreshold:         3,
		StMemory:               2048,
	}
}

// LoadConfig reads and parses a YAML configuration file, falling back to
// DefaultConfig's values for anything left unspecified.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
