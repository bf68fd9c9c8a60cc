// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flow implements the forward flow analysis: multi-particle
// azimuthal cumulants over pseudorapidity, computed event by event from
// (eta, phi) weight maps of the central and forward detectors.
//
// Per event, the weight maps are folded into harmonic accumulators
// (see package cumulant), the two- and four-particle correlators are
// stored into cumulant tables, and the accumulators are reset.
// The cumulant tables are reduced offline into flow coefficients.
package flow // import "github.com/go-lpc/pwg/flow"

import "fmt"

// Detector identifies the origin of a weight map.
type Detector uint8

const (
	Central Detector = iota // central barrel (SPD/TPC)
	Forward                 // forward multiplicity detector (FMD)
)

func (det Detector) String() string {
	switch det {
	case Central:
		return "central"
	case Forward:
		return "forward"
	}
	return fmt.Sprintf("Detector(%d)", uint8(det))
}

// RefMode is a bitmask selecting the detectors providing reference particles.
type RefMode uint8

const (
	RefTPC RefMode = 1 << iota
	RefSPD
	RefFMD
)

// NUAMode is a bitmask selecting the non-uniform acceptance treatments
// applied to forward weight maps.
type NUAMode uint8

const (
	NUAFill        NUAMode = 1 << iota // fill known acceptance holes of the FMD
	NUAInterpolate                     // interpolate empty cells along phi
)

// Kind identifies the quantity stored in a cumulant table.
type Kind uint8

const (
	W2Two  Kind = iota // weighted two-particle correlator
	W2                 // two-particle weight
	W4Four             // weighted four-particle correlator
	W4                 // four-particle weight

	nKinds = 4
)

func (k Kind) String() string {
	switch k {
	case W2Two:
		return "W2Two"
	case W2:
		return "W2"
	case W4Four:
		return "W4Four"
	case W4:
		return "W4"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}
