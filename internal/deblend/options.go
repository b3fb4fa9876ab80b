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

// Options is the apportion-flux option bitset. Bit positions are fixed for
// binary compatibility with existing callers; do not renumber.
type Options uint32

const (
	// AssignStrayFlux requests that ApportionFlux also run the stray flux
	// distributor (C9) using the tsum it already computed.
	AssignStrayFlux Options = 0x01

	// StrayFluxToPointSourcesWhenNecessary re-includes point-source
	// templates in stray flux distribution if excluding them would leave
	// a stray pixel with no candidate template at all.
	StrayFluxToPointSourcesWhenNecessary Options = 0x02

	// StrayFluxToPointSourcesAlways always includes point-source templates
	// in stray flux distribution, skipping the exclude-then-reinclude logic.
	StrayFluxToPointSourcesAlways Options = 0x04

	// StrayFluxRToFootprint selects the STRAYFLUX_R_TO_FOOTPRINT policy:
	// weight by inverse squared distance to the nearest point of each
	// template's footprint.
	StrayFluxRToFootprint Options = 0x08

	// StrayFluxNearestFootprint selects the STRAYFLUX_NEAREST_FOOTPRINT
	// policy: assign each stray pixel entirely to its single nearest
	// footprint, via the chamfer transform (C2).
	StrayFluxNearestFootprint Options = 0x10

	// StrayFluxTrim is reserved for compatibility with existing callers.
	// The core does not implement it; it is accepted and ignored.
	StrayFluxTrim Options = 0x20
)

// Has reports whether all bits of mask are set in o.
func (o Options) Has(mask Options) bool {
	return o&mask == mask
}

// ClipStrayFluxFraction-bearing configuration for ApportionFlux. Kept as a
// separate parameter (not folded into Options) because it is a continuous
// value, not a flag, matching the distilled interface's separate
// `clipStrayFluxFraction` argument.
