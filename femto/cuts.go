// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package femto

import (
	"math"

	"go-hep.org/x/hep/hbook"
)

// EventCut selects events.
type EventCut interface {
	Pass(evt *Event) bool
}

// ParticleCut selects the particles of a collection.
type ParticleCut interface {
	Pass(p *Particle) bool
}

// Counter counts the candidates that passed or failed a cut.
type Counter struct {
	Passed int64
	Failed int64
}

func (cnt *Counter) count(ok bool) bool {
	switch {
	case ok:
		cnt.Passed++
	default:
		cnt.Failed++
	}
	return ok
}

// VertexCut selects events on their z-vertex and multiplicity.
type VertexCut struct {
	ZMin, ZMax float64
	MultMin    int
	MultMax    int // no upper bound when MultMax <= 0

	Counter

	pass *hbook.H1D // z-vertex of passed events
	fail *hbook.H1D // z-vertex of failed events
}

// NewVertexCut creates an event cut accepting events with a z-vertex
// within [zmin, zmax] and at least multMin particles.
func NewVertexCut(zmin, zmax float64, multMin int) *VertexCut {
	cut := &VertexCut{
		ZMin:    zmin,
		ZMax:    zmax,
		MultMin: multMin,
		pass:    hbook.NewH1D(100, -20, 20),
		fail:    hbook.NewH1D(100, -20, 20),
	}
	cut.pass.Annotation()["name"] = "EvtCut_zvtx_pass"
	cut.fail.Annotation()["name"] = "EvtCut_zvtx_fail"
	return cut
}

func (cut *VertexCut) Pass(evt *Event) bool {
	var (
		n  = len(evt.Particles)
		ok = cut.ZMin <= evt.ZVtx && evt.ZVtx <= cut.ZMax && n >= cut.MultMin
	)
	if cut.MultMax > 0 && n > cut.MultMax {
		ok = false
	}

	switch {
	case ok:
		cut.pass.Fill(evt.ZVtx, 1)
	default:
		cut.fail.Fill(evt.ZVtx, 1)
	}
	return cut.count(ok)
}

func (cut *VertexCut) Histograms() []*hbook.H1D {
	return []*hbook.H1D{cut.pass, cut.fail}
}

// KinematicCut selects particles of a species within a (pt, eta) window.
type KinematicCut struct {
	Name    string
	Species Species // any species when Unknown

	PtMin, PtMax   float64
	EtaMin, EtaMax float64

	Counter

	pt  *hbook.H1D // pt of passed particles
	eta *hbook.H1D // eta of passed particles
}

// NewKinematicCut creates a particle cut named name.
func NewKinematicCut(name string, sp Species, ptMin, ptMax, etaMin, etaMax float64) *KinematicCut {
	cut := &KinematicCut{
		Name:    name,
		Species: sp,
		PtMin:   ptMin,
		PtMax:   ptMax,
		EtaMin:  etaMin,
		EtaMax:  etaMax,
		pt:      hbook.NewH1D(100, 0, 5),
		eta:     hbook.NewH1D(100, -5, 5),
	}
	cut.pt.Annotation()["name"] = name + "_pt"
	cut.eta.Annotation()["name"] = name + "_eta"
	return cut
}

func (cut *KinematicCut) Pass(p *Particle) bool {
	if cut.Species != Unknown && FromPDG(p.PDG) != cut.Species {
		return cut.count(false)
	}

	var (
		pt  = p.Pt()
		eta = p.Eta()
	)
	if math.IsNaN(eta) || pt < cut.PtMin || pt > cut.PtMax || eta < cut.EtaMin || eta > cut.EtaMax {
		return cut.count(false)
	}

	cut.pt.Fill(pt, 1)
	cut.eta.Fill(eta, 1)
	return cut.count(true)
}

func (cut *KinematicCut) Histograms() []*hbook.H1D {
	return []*hbook.H1D{cut.pt, cut.eta}
}

var (
	_ EventCut     = (*VertexCut)(nil)
	_ Histogrammer = (*VertexCut)(nil)
	_ ParticleCut  = (*KinematicCut)(nil)
	_ Histogrammer = (*KinematicCut)(nil)
)
