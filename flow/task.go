// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"fmt"
	"log"
	"math"
	"os"

	"go-hep.org/x/hep/hbook"
)

// Particle is a reconstructed particle entering the weight maps.
type Particle struct {
	Eta    float64
	Phi    float64 // wrapped into [0, 2π) by the task
	Weight float64
}

// Event is the input of the flow task.
type Event struct {
	Number    int64
	ZVtx      float64 // z position of the primary vertex (cm)
	Cent      float64 // centrality percentile
	Particles []Particle
}

// Stats holds the event counters of a task.
type Stats struct {
	Processed int64
	Accepted  int64
}

// Histos holds the QA histograms of a task.
type Histos struct {
	ZVtx   *hbook.H1D // z-vertex of accepted events
	Cent   *hbook.H1D // centrality of accepted events
	EtaPhi *hbook.H2D // (eta, phi) of the particles of accepted events
}

type config struct {
	msg  *log.Logger
	freq int64
	corr Corrections
}

// Option configures a flow task.
type Option func(*config)

// WithLogger sets the logger of the task.
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

// WithCorrections sets the correction tables applied to the weight maps.
func WithCorrections(corr Corrections) Option {
	return func(cfg *config) {
		cfg.corr = corr
	}
}

// Task runs the forward flow analysis, event by event.
type Task struct {
	msg  *log.Logger
	freq int64

	cfg Settings
	fw  *Framework
	out *Output

	fwd *WeightMap // forward detector map
	cen *WeightMap // central detector map

	hists Histos
	stats Stats
}

// NewTask creates a new flow task.
func NewTask(cfg Settings, opts ...Option) (*Task, error) {
	c := config{
		msg:  log.New(os.Stdout, "flow: ", 0),
		freq: 1000,
	}
	for _, opt := range opts {
		opt(&c)
	}

	fw, err := NewFramework(cfg, c.corr)
	if err != nil {
		return nil, fmt.Errorf("flow: could not create framework: %w", err)
	}

	task := &Task{
		msg:  c.msg,
		freq: c.freq,
		cfg:  cfg,
		fw:   fw,
		out:  NewOutput(cfg),
		fwd:  NewWeightMap(cfg.FwdEta, cfg.Phi),
		cen:  NewWeightMap(cfg.CenEta, cfg.Phi),
		hists: Histos{
			ZVtx:   hbook.NewH1D(cfg.Vertex.N, cfg.Vertex.Min, cfg.Vertex.Max),
			Cent:   hbook.NewH1D(cfg.Cent.N, cfg.Cent.Min, cfg.Cent.Max),
			EtaPhi: hbook.NewH2D(cfg.DiffEta.N, cfg.DiffEta.Min, cfg.DiffEta.Max, cfg.Phi.N, cfg.Phi.Min, cfg.Phi.Max),
		},
	}
	task.hists.ZVtx.Annotation()["name"] = "zvtx"
	task.hists.Cent.Annotation()["name"] = "cent"
	task.hists.EtaPhi.Annotation()["name"] = "eta_phi"

	return task, nil
}

// Exec analyses one event.
// It returns whether the event passed the event selection.
func (task *Task) Exec(evt *Event) bool {
	if task.stats.Processed%task.freq == 0 {
		task.msg.Printf("processing evt %d...", task.stats.Processed)
	}
	task.stats.Processed++

	if !task.accept(evt) {
		return false
	}
	task.stats.Accepted++

	task.hists.ZVtx.Fill(evt.ZVtx, 1)
	task.hists.Cent.Fill(evt.Cent, 1)

	task.fwd.Reset()
	task.cen.Reset()
	for _, p := range evt.Particles {
		phi := wrapPhi(p.Phi)
		task.hists.EtaPhi.Fill(p.Eta, phi, p.Weight)
		switch {
		case task.cfg.CenEta.Contains(p.Eta):
			task.cen.Fill(p.Eta, phi, p.Weight)
		case task.cfg.UseFMD:
			task.fwd.Fill(p.Eta, phi, p.Weight)
		}
	}

	var (
		cfg    = task.cfg
		sample = int(evt.Number % int64(cfg.Samples))
	)
	if sample < 0 {
		sample += cfg.Samples
	}

	if cfg.UseFMD {
		task.fw.Accumulate(task.fwd, Forward, evt.ZVtx, cfg.refFromForward(), true)
	}
	task.fw.Accumulate(task.cen, Central, evt.ZVtx, cfg.refFromCentral(), true)

	task.fw.Save(task.out, sample, evt.ZVtx, evt.Cent)
	task.fw.Reset()

	return true
}

// wrapPhi returns phi in [0, 2π).
func wrapPhi(phi float64) float64 {
	const twopi = 2 * math.Pi
	phi = math.Mod(phi, twopi)
	if phi < 0 {
		phi += twopi
	}
	if phi >= twopi {
		phi = 0
	}
	return phi
}

func (task *Task) accept(evt *Event) bool {
	var (
		cfg  = task.cfg
		zvtx = evt.ZVtx
	)
	if zvtx < -cfg.VertexCut || zvtx > cfg.VertexCut {
		return false
	}
	if !cfg.Vertex.Contains(zvtx) {
		return false
	}
	if !cfg.Cent.Contains(evt.Cent) {
		return false
	}
	return true
}

// Output returns the cumulant tables filled so far.
func (task *Task) Output() *Output { return task.out }

// Histograms returns the QA histograms filled so far.
func (task *Task) Histograms() Histos { return task.hists }

// Stats returns the event counters.
func (task *Task) Stats() Stats { return task.stats }

// Settings returns the analysis settings of the task.
func (task *Task) Settings() Settings { return task.cfg }
