// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package femto

import (
	"fmt"
	"log"
	"os"

	"go-hep.org/x/hep/hbook"
)

type config struct {
	msg  *log.Logger
	freq int64

	cut2, cut3 ParticleCut
	species    [3]Species
	mixing     bool
	fctns      []TrioFctn
}

// Option configures a trio analysis.
type Option func(*config)

// WithLogger sets the logger of the analysis.
func WithLogger(msg *log.Logger) Option {
	return func(cfg *config) {
		cfg.msg = msg
	}
}

// WithFreq sets the frequency of the progress messages.
func WithFreq(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.freq = int64(n)
		}
	}
}

// WithSecondCut sets the cut selecting the second collection.
// Without it, the three particles of a trio come from the first collection.
func WithSecondCut(cut ParticleCut) Option {
	return func(cfg *config) {
		cfg.cut2 = cut
	}
}

// WithThirdCut sets the cut selecting the third collection.
// Without it, the second and third particles of a trio come from the
// second collection.
func WithThirdCut(cut ParticleCut) Option {
	return func(cfg *config) {
		cfg.cut3 = cut
	}
}

// WithSpecies sets the species tags of the three collections.
func WithSpecies(s1, s2, s3 Species) Option {
	return func(cfg *config) {
		cfg.species = [3]Species{s1, s2, s3}
	}
}

// WithMixing enables the event mixing.
func WithMixing(v bool) Option {
	return func(cfg *config) {
		cfg.mixing = v
	}
}

// WithFctn adds a trio function to the analysis.
func WithFctn(fct TrioFctn) Option {
	return func(cfg *config) {
		cfg.fctns = append(cfg.fctns, fct)
	}
}

// Stats holds the counters of a trio analysis.
type Stats struct {
	Processed int64 // events processed
	Passed    int64 // events that passed the event cut
	Real      int64 // real trios
	Mixed     int64 // mixed trios
}

// mode describes how trios are drawn from the collections.
type mode uint8

const (
	sameColl  mode = iota + 1 // i<j<k within one collection
	pairColl                  // one particle from the 1st collection, a j<k pair from the 2nd
	threeColl                 // one particle from each collection
)

// picoEvent holds the three particle collections of an event.
type picoEvent struct {
	colls [3][]*Particle
}

// Analysis builds real and mixed particle trios and feeds them
// to trio functions.
type Analysis struct {
	msg  *log.Logger
	freq int64

	evtCut  EventCut
	cuts    []ParticleCut
	species [3]Species
	mode    mode
	mixing  bool
	fctns   []TrioFctn

	buf  [3]*picoEvent // most recent passed event first
	trio Trio

	stats Stats
}

// NewAnalysis creates a trio analysis with the event cut evtCut and the
// particle cut cut1 selecting the first collection.
func NewAnalysis(evtCut EventCut, cut1 ParticleCut, opts ...Option) (*Analysis, error) {
	cfg := config{
		msg:  log.New(os.Stdout, "femto: ", 0),
		freq: 1000,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case evtCut == nil:
		return nil, fmt.Errorf("femto: no event cut")
	case cut1 == nil:
		return nil, fmt.Errorf("femto: no first particle cut")
	case cfg.cut2 == nil && cfg.cut3 != nil:
		return nil, fmt.Errorf("femto: third particle cut without a second particle cut")
	}

	ana := &Analysis{
		msg:     cfg.msg,
		freq:    cfg.freq,
		evtCut:  evtCut,
		cuts:    []ParticleCut{cut1},
		species: cfg.species,
		mixing:  cfg.mixing,
		fctns:   cfg.fctns,
	}

	switch {
	case cfg.cut3 != nil:
		ana.mode = threeColl
		ana.cuts = append(ana.cuts, cfg.cut2, cfg.cut3)
	case cfg.cut2 != nil:
		ana.mode = pairColl
		ana.cuts = append(ana.cuts, cfg.cut2)
		ana.species[2] = ana.species[1]
	default:
		ana.mode = sameColl
		ana.species[1] = ana.species[0]
		ana.species[2] = ana.species[0]
	}

	return ana, nil
}

// Process analyses one event.
// It returns whether the event passed the event cut.
// With event mixing enabled, the analysis keeps references to the
// particles of the last passed events: evt must not be reused.
func (ana *Analysis) Process(evt *Event) bool {
	if ana.stats.Processed%ana.freq == 0 {
		ana.msg.Printf("processing evt %d...", ana.stats.Processed)
	}
	ana.stats.Processed++

	if !ana.evtCut.Pass(evt) {
		return false
	}

	pico := ana.collect(evt)
	ana.real(pico)

	if ana.mixing {
		if ana.stats.Passed > 2 {
			for _, idx := range [][3]int{
				{0, 1, 2}, {0, 2, 1},
				{1, 2, 0}, {1, 0, 2},
				{2, 0, 1}, {2, 1, 0},
			} {
				ana.mixed(
					ana.buf[idx[0]].colls[0],
					ana.buf[idx[1]].colls[1],
					ana.buf[idx[2]].colls[2],
				)
			}
		}
		ana.buf[2] = ana.buf[1]
		ana.buf[1] = ana.buf[0]
		ana.buf[0] = pico
	}

	ana.stats.Passed++
	return true
}

// collect fills the particle collections of an event.
// Each particle cut sees each particle once.
func (ana *Analysis) collect(evt *Event) *picoEvent {
	var (
		pico  = new(picoEvent)
		colls = make([][]*Particle, len(ana.cuts))
	)
	for i := range evt.Particles {
		p := &evt.Particles[i]
		for j, cut := range ana.cuts {
			if cut.Pass(p) {
				colls[j] = append(colls[j], p)
			}
		}
	}

	switch ana.mode {
	case sameColl:
		pico.colls = [3][]*Particle{colls[0], colls[0], colls[0]}
	case pairColl:
		pico.colls = [3][]*Particle{colls[0], colls[1], colls[1]}
	case threeColl:
		pico.colls = [3][]*Particle{colls[0], colls[1], colls[2]}
	}
	return pico
}

// real feeds the trios of the current event.
// A particle selected by several cuts enters a trio at most once.
func (ana *Analysis) real(pico *picoEvent) {
	switch ana.mode {
	case sameColl:
		ps := pico.colls[0]
		for i := 0; i < len(ps); i++ {
			for j := i + 1; j < len(ps); j++ {
				for k := j + 1; k < len(ps); k++ {
					ana.add(ps[i], ps[j], ps[k], false)
				}
			}
		}

	case pairColl:
		var (
			c1 = pico.colls[0]
			c2 = pico.colls[1]
		)
		for _, p1 := range c1 {
			for j := 0; j < len(c2); j++ {
				if c2[j] == p1 {
					continue
				}
				for k := j + 1; k < len(c2); k++ {
					if c2[k] == p1 {
						continue
					}
					ana.add(p1, c2[j], c2[k], false)
				}
			}
		}

	case threeColl:
		for _, p1 := range pico.colls[0] {
			for _, p2 := range pico.colls[1] {
				if p2 == p1 {
					continue
				}
				for _, p3 := range pico.colls[2] {
					if p3 == p1 || p3 == p2 {
						continue
					}
					ana.add(p1, p2, p3, false)
				}
			}
		}
	}
}

// mixed feeds the trios of three collections from three different events.
func (ana *Analysis) mixed(c1, c2, c3 []*Particle) {
	for _, p1 := range c1 {
		for _, p2 := range c2 {
			for _, p3 := range c3 {
				ana.add(p1, p2, p3, true)
			}
		}
	}
}

func (ana *Analysis) add(p1, p2, p3 *Particle, mixed bool) {
	ana.trio = Trio{
		P1: p1, P2: p2, P3: p3,
		S1: ana.species[0], S2: ana.species[1], S3: ana.species[2],
	}
	switch {
	case mixed:
		ana.stats.Mixed++
		for _, fct := range ana.fctns {
			fct.AddMixedTrio(&ana.trio)
		}
	default:
		ana.stats.Real++
		for _, fct := range ana.fctns {
			fct.AddRealTrio(&ana.trio)
		}
	}
}

// Stats returns the counters of the analysis.
func (ana *Analysis) Stats() Stats { return ana.stats }

// Histograms returns the histograms booked by the cuts and
// the trio functions of the analysis.
func (ana *Analysis) Histograms() []*hbook.H1D {
	var (
		hs   []*hbook.H1D
		seen = make(map[interface{}]bool)
	)
	add := func(v interface{}) {
		h, ok := v.(Histogrammer)
		if !ok || seen[v] {
			return
		}
		seen[v] = true
		hs = append(hs, h.Histograms()...)
	}

	add(ana.evtCut)
	for _, cut := range ana.cuts {
		add(cut)
	}
	for _, fct := range ana.fctns {
		add(fct)
	}
	return hs
}
