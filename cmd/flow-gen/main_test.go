// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"go-hep.org/x/hep/lcio"
)

func TestProcess(t *testing.T) {
	tmp, err := os.MkdirTemp("", "pwg-flow-gen-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	for _, tc := range []struct {
		name string
		cfg  config
		err  bool
	}{
		{
			name: "v2",
			cfg: config{
				run: 3, nevts: 10, mult: 20, seed: 1,
				vn:     map[int]float64{2: 0.1},
				etaMin: -4, etaMax: 6, sigmaZ: 4,
			},
		},
		{
			name: "v2-v3",
			cfg: config{
				run: 4, nevts: 5, mult: 20, seed: 2,
				vn:     map[int]float64{2: 0.1, 3: 0.05},
				etaMin: -1, etaMax: 1, sigmaZ: 1,
			},
		},
		{
			name: "no-events",
			cfg:  config{nevts: 0, mult: 10, etaMin: -1, etaMax: 1},
			err:  true,
		},
		{
			name: "no-particles",
			cfg:  config{nevts: 1, mult: 0, etaMin: -1, etaMax: 1},
			err:  true,
		},
		{
			name: "eta-range",
			cfg:  config{nevts: 1, mult: 1, etaMin: 1, etaMax: 1},
			err:  true,
		},
		{
			name: "large-vn",
			cfg: config{
				nevts: 1, mult: 1, etaMin: -1, etaMax: 1,
				vn: map[int]float64{2: 0.8},
			},
			err: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.oname = filepath.Join(tmp, tc.name+".slcio")
			err := process(tc.cfg)
			switch {
			case tc.err && err == nil:
				t.Fatalf("expected an error")
			case tc.err:
				return
			case err != nil:
				t.Fatalf("could not generate events: %+v", err)
			}

			r, err := lcio.Open(tc.cfg.oname)
			if err != nil {
				t.Fatalf("could not open LCIO file: %+v", err)
			}
			defer r.Close()

			n := 0
			for r.Next() {
				evt := r.Event()
				if got, want := evt.RunNumber, int32(tc.cfg.run); got != want {
					t.Fatalf("invalid run number: got=%d, want=%d", got, want)
				}
				mcs := evt.Get("MCParticle").(*lcio.McParticleContainer)
				if got, want := len(mcs.Particles), tc.cfg.mult; got != want {
					t.Fatalf("invalid multiplicity: got=%d, want=%d", got, want)
				}
				n++
			}
			if got, want := n, tc.cfg.nevts; got != want {
				t.Fatalf("invalid number of events: got=%d, want=%d", got, want)
			}
		})
	}
}
