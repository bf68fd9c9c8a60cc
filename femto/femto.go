// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package femto implements three-particle femtoscopy: particle trios are
// built from up to three selected collections of an event, and from
// buffered events for the mixed-event background, and handed to trio
// correlation functions.
package femto // import "github.com/go-lpc/pwg/femto"

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/fmom"
)

// Species tags the particle type held by a collection.
type Species uint8

const (
	Unknown Species = iota
	PionPlus
	PionMinus
	KaonPlus
	KaonMinus
	Proton
	AntiProton
)

func (s Species) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case PionPlus:
		return "pi+"
	case PionMinus:
		return "pi-"
	case KaonPlus:
		return "K+"
	case KaonMinus:
		return "K-"
	case Proton:
		return "p"
	case AntiProton:
		return "pbar"
	}
	return "invalid"
}

// Mass returns the mass of the species, in GeV.
// Unknown species have a zero mass.
func (s Species) Mass() float64 {
	switch s {
	case PionPlus, PionMinus:
		return 0.13957
	case KaonPlus, KaonMinus:
		return 0.49368
	case Proton, AntiProton:
		return 0.93827
	}
	return 0
}

// ParseSpecies returns the species named s, as written by Species.String.
func ParseSpecies(s string) (Species, error) {
	for sp := Unknown; sp <= AntiProton; sp++ {
		if sp.String() == s {
			return sp, nil
		}
	}
	return Unknown, fmt.Errorf("femto: invalid species %q", s)
}

// FromPDG returns the species of a PDG particle code.
func FromPDG(pdg int32) Species {
	switch pdg {
	case 211:
		return PionPlus
	case -211:
		return PionMinus
	case 321:
		return KaonPlus
	case -321:
		return KaonMinus
	case 2212:
		return Proton
	case -2212:
		return AntiProton
	}
	return Unknown
}

// Particle is a reconstructed particle.
type Particle struct {
	PDG    int32
	Charge float32
	P      fmom.PxPyPzE
}

func (p *Particle) Pt() float64  { return p.P.Pt() }
func (p *Particle) Eta() float64 { return p.P.Eta() }

// Event is the input of the trio analysis.
type Event struct {
	Number    int64
	ZVtx      float64
	Particles []Particle
}

// qinv returns the invariant relative momentum of a pair,
// q = sqrt(-(p1-p2)²).
func qinv(p1, p2 *Particle) float64 {
	var (
		a = &p1.P
		b = &p2.P
		q = fmom.NewPxPyPzE(a.Px()-b.Px(), a.Py()-b.Py(), a.Pz()-b.Pz(), a.E()-b.E())
	)
	q2 := -q.M2()
	if q2 < 0 {
		return 0
	}
	return math.Sqrt(q2)
}
