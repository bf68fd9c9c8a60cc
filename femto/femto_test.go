// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package femto

import (
	"math"
	"testing"

	"go-hep.org/x/hep/fmom"
)

func TestSpecies(t *testing.T) {
	for _, tc := range []struct {
		pdg  int32
		want Species
		name string
		mass float64
	}{
		{211, PionPlus, "pi+", 0.13957},
		{-211, PionMinus, "pi-", 0.13957},
		{321, KaonPlus, "K+", 0.49368},
		{-321, KaonMinus, "K-", 0.49368},
		{2212, Proton, "p", 0.93827},
		{-2212, AntiProton, "pbar", 0.93827},
		{11, Unknown, "unknown", 0},
		{0, Unknown, "unknown", 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sp := FromPDG(tc.pdg)
			if got, want := sp, tc.want; got != want {
				t.Fatalf("invalid species: got=%v, want=%v", got, want)
			}
			if got, want := sp.String(), tc.name; got != want {
				t.Fatalf("invalid name: got=%q, want=%q", got, want)
			}
			if got, want := sp.Mass(), tc.mass; got != want {
				t.Fatalf("invalid mass: got=%v, want=%v", got, want)
			}
		})
	}

	if got, want := Species(42).String(), "invalid"; got != want {
		t.Fatalf("invalid name: got=%q, want=%q", got, want)
	}
}

func TestParseSpecies(t *testing.T) {
	for sp := Unknown; sp <= AntiProton; sp++ {
		got, err := ParseSpecies(sp.String())
		if err != nil {
			t.Fatalf("could not parse %q: %+v", sp, err)
		}
		if got != sp {
			t.Fatalf("invalid species: got=%v, want=%v", got, sp)
		}
	}

	_, err := ParseSpecies("pi0")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestQ3(t *testing.T) {
	var (
		p1 = Particle{P: fmom.NewPxPyPzE(+1, 0, 0, 1)}
		p2 = Particle{P: fmom.NewPxPyPzE(-1, 0, 0, 1)}
		p3 = Particle{P: fmom.NewPxPyPzE(0, 1, 0, 1)}
	)

	trio := Trio{P1: &p1, P2: &p2, P3: &p3}
	for _, tc := range []struct {
		name string
		got  float64
		want float64
	}{
		{"q12", trio.Q12(), 2},
		{"q23", trio.Q23(), math.Sqrt(2)},
		{"q31", trio.Q31(), math.Sqrt(2)},
		{"Q3", trio.Q3(), math.Sqrt(8)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if math.Abs(tc.got-tc.want) > 1e-12 {
				t.Fatalf("invalid value: got=%v, want=%v", tc.got, tc.want)
			}
		})
	}

	same := Trio{P1: &p1, P2: &p1, P3: &p1}
	if got, want := same.Q3(), 0.0; got != want {
		t.Fatalf("invalid Q3 for identical momenta: got=%v, want=%v", got, want)
	}

	// time-like difference: no real q.
	var (
		a = Particle{P: fmom.NewPxPyPzE(0, 0, 0, 1)}
		b = Particle{P: fmom.NewPxPyPzE(0, 0, 0, 2)}
	)
	if got, want := qinv(&a, &b), 0.0; got != want {
		t.Fatalf("invalid qinv: got=%v, want=%v", got, want)
	}
}

func TestQ3Fctn(t *testing.T) {
	var (
		fct = NewQ3Fctn("Q3", 10, 0, 4)
		p1  = Particle{P: fmom.NewPxPyPzE(+1, 0, 0, 1)}
		p2  = Particle{P: fmom.NewPxPyPzE(-1, 0, 0, 1)}
		p3  = Particle{P: fmom.NewPxPyPzE(0, 1, 0, 1)}
	)

	trio := Trio{P1: &p1, P2: &p2, P3: &p3}
	fct.AddRealTrio(&trio)
	fct.AddRealTrio(&trio)
	fct.AddMixedTrio(&trio)

	if got, want := fct.Num.Entries(), int64(2); got != want {
		t.Fatalf("invalid numerator entries: got=%d, want=%d", got, want)
	}
	if got, want := fct.Den.Entries(), int64(1); got != want {
		t.Fatalf("invalid denominator entries: got=%d, want=%d", got, want)
	}

	hs := fct.Histograms()
	if got, want := len(hs), 2; got != want {
		t.Fatalf("invalid number of histograms: got=%d, want=%d", got, want)
	}
	for i, name := range []string{"NumQ3", "DenQ3"} {
		if got, want := hs[i].Annotation()["name"], name; got != want {
			t.Fatalf("invalid histogram name: got=%v, want=%v", got, want)
		}
	}
}
