// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"fmt"
	"log"
	"sort"

	"github.com/go-lpc/pwg/internal/toymc"
	"go-hep.org/x/hep/lcio"
)

// Toy2LCIO writes nevts toy events generated by gen to w.
// vn holds the generated flow coefficients, stored in the run header.
func Toy2LCIO(w *lcio.Writer, gen *toymc.Generator, run int32, nevts int, vn map[int]float64, msg *log.Logger) error {
	hdr := lcio.RunHeader{
		RunNumber: run,
		Detector:  "TOY",
		Descr:     "toy events with azimuthal anisotropy",
		Params: lcio.Params{
			Ints: map[string][]int32{
				"NEvents": {int32(nevts)},
			},
			Floats: make(map[string][]float32),
		},
	}
	ns := make([]int, 0, len(vn))
	for n := range vn {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	for _, n := range ns {
		hdr.Params.Floats[fmt.Sprintf("v%d", n)] = []float32{float32(vn[n])}
	}

	err := w.WriteRunHeader(&hdr)
	if err != nil {
		return fmt.Errorf("could not write run header: %w", err)
	}

	for i := 0; i < nevts; i++ {
		if i%100 == 0 {
			msg.Printf("processing evt %d...", i)
		}
		toy := gen.Next()
		evt := Toy2Event(run, &toy)
		err = w.WriteEvent(&evt)
		if err != nil {
			return fmt.Errorf("could not write toy event %d: %w", i, err)
		}
	}

	return nil
}

// Toy2Event converts a toy event into an LCIO event.
func Toy2Event(run int32, toy *toymc.Event) lcio.Event {
	evt := lcio.Event{
		RunNumber:   run,
		EventNumber: int32(toy.Number),
		TimeStamp:   toy.Number,
		Detector:    "TOY",
		Params: lcio.Params{
			Floats: map[string][]float32{
				paramZVtx: {float32(toy.ZVtx)},
				paramCent: {float32(toy.Cent)},
				paramPsi:  {float32(toy.Psi)},
			},
		},
	}

	mcs := &lcio.McParticleContainer{
		Particles: make([]lcio.McParticle, len(toy.Particles)),
	}
	for i := range toy.Particles {
		p := &toy.Particles[i]
		mcs.Particles[i] = lcio.McParticle{
			PDG:       p.PDG,
			GenStatus: 1,
			Charge:    p.Charge,
			P:         [3]float64{p.P.Px(), p.P.Py(), p.P.Pz()},
			Mass:      p.P.M(),
		}
	}
	evt.Add(MCParticles, mcs)

	return evt
}
