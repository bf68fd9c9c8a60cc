// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package toymc generates toy heavy-ion events with a chosen azimuthal
// anisotropy, for closure tests of the flow analysis.
package toymc // import "github.com/go-lpc/pwg/internal/toymc"

import (
	"math"
	"sort"

	"go-hep.org/x/hep/fmom"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Particle is a generated primary particle.
type Particle struct {
	PDG    int32
	Charge float32
	P      fmom.PxPyPzE
}

// Eta returns the pseudorapidity of the particle.
func (p Particle) Eta() float64 { return p.P.Eta() }

// Phi returns the azimuthal angle of the particle, in [0, 2π).
func (p Particle) Phi() float64 {
	phi := math.Atan2(p.P.Py(), p.P.Px())
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi
}

// Event is a generated event.
type Event struct {
	Number    int64
	ZVtx      float64
	Cent      float64
	Psi       float64 // reaction plane angle
	Particles []Particle
}

type species struct {
	pdg  int32
	mass float64
	frac float64
}

var table = []species{
	{pdg: 211, mass: 0.13957, frac: 0.80},
	{pdg: 321, mass: 0.49368, frac: 0.12},
	{pdg: 2212, mass: 0.93827, frac: 0.08},
}

// Generator generates toy events.
type Generator struct {
	seed uint64
	mult int
	vn   map[int]float64

	etaMin, etaMax float64
	meanPt         float64
	sigmaZ         float64

	evts int64

	uni  distuv.Uniform
	eta  distuv.Uniform
	phi  distuv.Uniform
	pt   distuv.Exponential
	zvtx distuv.Normal
	cent distuv.Uniform
}

// Option configures a generator.
type Option func(*Generator)

// WithSeed sets the seed of the random number generator.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithMultiplicity sets the number of particles per event.
func WithMultiplicity(n int) Option {
	return func(g *Generator) { g.mult = n }
}

// WithFlow sets the flow coefficient v_n of the harmonic n.
func WithFlow(n int, vn float64) Option {
	return func(g *Generator) { g.vn[n] = vn }
}

// WithEtaRange sets the pseudorapidity range of the generated particles.
func WithEtaRange(min, max float64) Option {
	return func(g *Generator) {
		g.etaMin = min
		g.etaMax = max
	}
}

// WithVertexSpread sets the standard deviation of the z-vertex distribution.
func WithVertexSpread(sigma float64) Option {
	return func(g *Generator) { g.sigmaZ = sigma }
}

// New creates a new toy event generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		seed:   1234,
		mult:   500,
		vn:     make(map[int]float64),
		etaMin: -4,
		etaMax: 6,
		meanPt: 0.5,
		sigmaZ: 4,
	}
	for _, opt := range opts {
		opt(g)
	}

	src := rand.NewSource(g.seed)
	g.uni = distuv.Uniform{Min: 0, Max: 1, Src: src}
	g.eta = distuv.Uniform{Min: g.etaMin, Max: g.etaMax, Src: src}
	g.phi = distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src}
	g.pt = distuv.Exponential{Rate: 1 / g.meanPt, Src: src}
	g.zvtx = distuv.Normal{Mu: 0, Sigma: g.sigmaZ, Src: src}
	g.cent = distuv.Uniform{Min: 0, Max: 100, Src: src}

	return g
}

// Next generates the next event.
func (g *Generator) Next() Event {
	evt := Event{
		Number:    g.evts,
		ZVtx:      g.zvtx.Rand(),
		Cent:      g.cent.Rand(),
		Psi:       g.phi.Rand(),
		Particles: make([]Particle, 0, g.mult),
	}
	g.evts++

	for i := 0; i < g.mult; i++ {
		var (
			sp   = g.species()
			sign = int32(1)
		)
		if g.uni.Rand() < 0.5 {
			sign = -1
		}
		var (
			pt  = g.pt.Rand()
			eta = g.eta.Rand()
			phi = g.azimuth(evt.Psi)
			px  = pt * math.Cos(phi)
			py  = pt * math.Sin(phi)
			pz  = pt * math.Sinh(eta)
			e   = math.Sqrt(px*px + py*py + pz*pz + sp.mass*sp.mass)
		)
		evt.Particles = append(evt.Particles, Particle{
			PDG:    sign * sp.pdg,
			Charge: float32(sign),
			P:      fmom.NewPxPyPzE(px, py, pz, e),
		})
	}

	return evt
}

func (g *Generator) species() species {
	u := g.uni.Rand()
	for _, sp := range table {
		if u < sp.frac {
			return sp
		}
		u -= sp.frac
	}
	return table[0]
}

// azimuth draws phi from 1 + 2·Σ v_n·cos(n(phi-psi)), with an
// accept-reject method.
func (g *Generator) azimuth(psi float64) float64 {
	if len(g.vn) == 0 {
		return g.phi.Rand()
	}

	ns := make([]int, 0, len(g.vn))
	fmax := 1.0
	for n, v := range g.vn {
		ns = append(ns, n)
		fmax += 2 * math.Abs(v)
	}
	sort.Ints(ns)

	for {
		phi := g.phi.Rand()
		f := 1.0
		for _, n := range ns {
			f += 2 * g.vn[n] * math.Cos(float64(n)*(phi-psi))
		}
		if g.uni.Rand()*fmax < f {
			return phi
		}
	}
}
