// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package femto

import (
	"testing"
)

func TestVertexCut(t *testing.T) {
	cut := NewVertexCut(-10, 10, 2)
	cut.MultMax = 4

	for _, tc := range []struct {
		zvtx float64
		mult int
		want bool
	}{
		{0, 2, true},
		{-10, 3, true},
		{10, 4, true},
		{10.5, 3, false},
		{0, 1, false},
		{0, 5, false},
	} {
		evt := Event{ZVtx: tc.zvtx, Particles: make([]Particle, tc.mult)}
		if got, want := cut.Pass(&evt), tc.want; got != want {
			t.Fatalf("invalid decision for zvtx=%v, mult=%d: got=%v, want=%v", tc.zvtx, tc.mult, got, want)
		}
	}

	if got, want := cut.Counter, (Counter{Passed: 3, Failed: 3}); got != want {
		t.Fatalf("invalid counters: got=%+v, want=%+v", got, want)
	}

	hs := cut.Histograms()
	if got, want := hs[0].Entries(), int64(3); got != want {
		t.Fatalf("invalid pass monitor entries: got=%d, want=%d", got, want)
	}
	if got, want := hs[1].Entries(), int64(3); got != want {
		t.Fatalf("invalid fail monitor entries: got=%d, want=%d", got, want)
	}
}

func TestKinematicCut(t *testing.T) {
	var (
		pions = NewKinematicCut("pions", PionPlus, 0.1, 2, -0.8, 0.8)
		all   = NewKinematicCut("all", Unknown, 0, 10, -5, 5)
	)

	for _, tc := range []struct {
		name string
		p    Particle
		pion bool
		all  bool
	}{
		{"pion", newParticle(211, 0.5, 0, 0), true, true},
		{"pi-", newParticle(-211, 0.5, 0, 0), false, true},
		{"proton", newParticle(2212, 0.5, 0, 0), false, true},
		{"soft-pion", newParticle(211, 0.05, 0, 0), false, true},
		{"hard-pion", newParticle(211, 3, 0, 0), false, true},
		{"fwd-pion", newParticle(211, 0.5, 0, 2), false, true},
		{"beam", newParticle(211, 0.01, 0, 100), false, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got, want := pions.Pass(&tc.p), tc.pion; got != want {
				t.Fatalf("invalid pion decision: got=%v, want=%v", got, want)
			}
			if got, want := all.Pass(&tc.p), tc.all; got != want {
				t.Fatalf("invalid decision: got=%v, want=%v", got, want)
			}
		})
	}

	if got, want := pions.Counter, (Counter{Passed: 1, Failed: 6}); got != want {
		t.Fatalf("invalid counters: got=%+v, want=%+v", got, want)
	}
	if got, want := all.Counter, (Counter{Passed: 6, Failed: 1}); got != want {
		t.Fatalf("invalid counters: got=%+v, want=%+v", got, want)
	}

	hs := pions.Histograms()
	if got, want := hs[0].Annotation()["name"], "pions_pt"; got != want {
		t.Fatalf("invalid monitor name: got=%v, want=%v", got, want)
	}
	if got, want := hs[0].Entries(), int64(1); got != want {
		t.Fatalf("invalid monitor entries: got=%d, want=%d", got, want)
	}
}
