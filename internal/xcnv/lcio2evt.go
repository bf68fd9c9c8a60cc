// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-lpc/pwg/femto"
	"github.com/go-lpc/pwg/flow"
	"go-hep.org/x/hep/fmom"
	"go-hep.org/x/hep/lcio"
)

// Loop calls f on each event read from r, until f returns an error
// or r is exhausted.
func Loop(r *lcio.Reader, f func(evt *lcio.Event) error) error {
	for r.Next() {
		evt := r.Event()
		err := f(&evt)
		if err != nil {
			return err
		}
	}

	err := r.Err()
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("could not read LCIO event: %w", err)
	}
	return nil
}

func param(evt *lcio.Event, name string) (float64, error) {
	vs, ok := evt.Params.Floats[name]
	if !ok || len(vs) == 0 {
		return 0, fmt.Errorf("no %q parameter in event %d", name, evt.EventNumber)
	}
	return float64(vs[0]), nil
}

func mcparticles(evt *lcio.Event) (*lcio.McParticleContainer, error) {
	mcs, ok := evt.Get(MCParticles).(*lcio.McParticleContainer)
	if !ok || mcs == nil {
		return nil, fmt.Errorf("no %q collection in event %d", MCParticles, evt.EventNumber)
	}
	return mcs, nil
}

func p4(mc *lcio.McParticle) fmom.PxPyPzE {
	var (
		px = mc.P[0]
		py = mc.P[1]
		pz = mc.P[2]
		m  = mc.Mass
	)
	return fmom.NewPxPyPzE(px, py, pz, math.Sqrt(px*px+py*py+pz*pz+m*m))
}

// final reports whether a generated particle is a charged final-state one.
func final(mc *lcio.McParticle) bool {
	return mc.GenStatus == 1 && mc.Charge != 0
}

// FlowEvent converts an LCIO event into a flow event.
// Only the charged final-state particles are kept.
func FlowEvent(dst *flow.Event, evt *lcio.Event) error {
	zvtx, err := param(evt, paramZVtx)
	if err != nil {
		return fmt.Errorf("could not read z-vertex: %w", err)
	}
	cent, err := param(evt, paramCent)
	if err != nil {
		return fmt.Errorf("could not read centrality: %w", err)
	}

	mcs, err := mcparticles(evt)
	if err != nil {
		return err
	}

	dst.Number = int64(evt.EventNumber)
	dst.ZVtx = zvtx
	dst.Cent = cent
	dst.Particles = dst.Particles[:0]
	for i := range mcs.Particles {
		mc := &mcs.Particles[i]
		if !final(mc) {
			continue
		}
		p := p4(mc)
		phi := math.Atan2(p.Py(), p.Px())
		if phi < 0 {
			phi += 2 * math.Pi
		}
		dst.Particles = append(dst.Particles, flow.Particle{
			Eta:    p.Eta(),
			Phi:    phi,
			Weight: 1,
		})
	}
	return nil
}

// FemtoEvent converts an LCIO event into a femto event.
// Only the charged final-state particles are kept.
func FemtoEvent(dst *femto.Event, evt *lcio.Event) error {
	zvtx, err := param(evt, paramZVtx)
	if err != nil {
		return fmt.Errorf("could not read z-vertex: %w", err)
	}

	mcs, err := mcparticles(evt)
	if err != nil {
		return err
	}

	dst.Number = int64(evt.EventNumber)
	dst.ZVtx = zvtx
	dst.Particles = dst.Particles[:0]
	for i := range mcs.Particles {
		mc := &mcs.Particles[i]
		if !final(mc) {
			continue
		}
		dst.Particles = append(dst.Particles, femto.Particle{
			PDG:    mc.PDG,
			Charge: mc.Charge,
			P:      p4(mc),
		})
	}
	return nil
}
