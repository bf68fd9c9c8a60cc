// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cumulant

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestNewAccumulator(t *testing.T) {
	for _, tc := range []struct {
		name  string
		nmax  int
		pmax  int
		nbins int
		err   bool
	}{
		{name: "valid", nmax: 4, pmax: 4, nbins: 2},
		{name: "only-n0", nmax: 0, pmax: 1, nbins: 1},
		{name: "negative-harmonic", nmax: -1, pmax: 4, nbins: 2, err: true},
		{name: "no-power", nmax: 4, pmax: 0, nbins: 2, err: true},
		{name: "no-bins", nmax: 4, pmax: 4, nbins: 0, err: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			acc, err := NewAccumulator(tc.nmax, tc.pmax, tc.nbins)
			switch {
			case err != nil && !tc.err:
				t.Fatalf("could not create accumulator: %+v", err)
			case err == nil && tc.err:
				t.Fatalf("expected an error")
			case err != nil:
				return
			}
			if got, want := acc.MaxHarmonic(), tc.nmax; got != want {
				t.Fatalf("invalid max harmonic: got=%d, want=%d", got, want)
			}
			if got, want := acc.MaxPower(), tc.pmax; got != want {
				t.Fatalf("invalid max power: got=%d, want=%d", got, want)
			}
			if got, want := acc.Bins(), tc.nbins; got != want {
				t.Fatalf("invalid bins: got=%d, want=%d", got, want)
			}
		})
	}
}

func TestAccumulatorRoundTrip(t *testing.T) {
	acc, err := NewAccumulator(4, 4, 3)
	if err != nil {
		t.Fatalf("could not create accumulator: %+v", err)
	}

	const w = 2.5
	acc.Add(1, w, 0)

	if got, want := acc.At(1, 1, 1), complex(w, 0); got != want {
		t.Fatalf("invalid Q(1,1): got=%v, want=%v", got, want)
	}

	for n := 0; n <= 4; n++ {
		for p := 1; p <= 4; p++ {
			want := complex(math.Pow(w, float64(p)), 0)
			if got := acc.At(n, p, 1); cmplx.Abs(got-want) > 1e-12 {
				t.Fatalf("invalid Q(%d,%d): got=%v, want=%v", n, p, got, want)
			}
			if got := acc.At(n, p, 0); got != 0 {
				t.Fatalf("invalid Q(%d,%d) in empty bin: got=%v", n, p, got)
			}
		}
	}

	if got, want := acc.SumW(1), w; got != want {
		t.Fatalf("invalid sum of weights: got=%v, want=%v", got, want)
	}
}

func TestAccumulatorZeroWeight(t *testing.T) {
	acc, err := NewAccumulator(4, 4, 1)
	if err != nil {
		t.Fatalf("could not create accumulator: %+v", err)
	}
	acc.Add(0, 0, 1.2)
	for i, c := range acc.cells {
		if c != (cell{}) {
			t.Fatalf("cell %d modified by a zero weight: %+v", i, c)
		}
	}
}

func TestAccumulatorNegativeHarmonic(t *testing.T) {
	acc, err := NewAccumulator(4, 2, 1)
	if err != nil {
		t.Fatalf("could not create accumulator: %+v", err)
	}
	acc.Add(0, 1, 0.3)
	acc.Add(0, 2, 1.7)

	for n := 1; n <= 4; n++ {
		pos := acc.At(n, 1, 0)
		neg := acc.At(-n, 1, 0)
		if neg != cmplx.Conj(pos) {
			t.Fatalf("invalid Q(-%d): got=%v, want=%v", n, neg, cmplx.Conj(pos))
		}
	}

	acc.Reset()
	acc.Fill(-2, 1, 0, 1, 0.5)
	if got, want := acc.At(-2, 1, 0), complex(1, 0.5); got != want {
		t.Fatalf("invalid Fill/At round-trip for negative harmonic: got=%v, want=%v", got, want)
	}
	if got, want := acc.At(2, 1, 0), complex(1, -0.5); got != want {
		t.Fatalf("invalid conjugate: got=%v, want=%v", got, want)
	}
}

func TestAccumulatorBeyondMaxHarmonic(t *testing.T) {
	acc, err := NewAccumulator(2, 2, 1)
	if err != nil {
		t.Fatalf("could not create accumulator: %+v", err)
	}
	acc.Add(0, 1, 0)
	if got := acc.At(5, 1, 0); got != 0 {
		t.Fatalf("invalid Q(5): got=%v, want=0", got)
	}
	if got := acc.At(-5, 2, 0); got != 0 {
		t.Fatalf("invalid Q(-5): got=%v, want=0", got)
	}
}

func TestAccumulatorPanics(t *testing.T) {
	acc, err := NewAccumulator(2, 2, 2)
	if err != nil {
		t.Fatalf("could not create accumulator: %+v", err)
	}

	for _, tc := range []struct {
		name string
		f    func()
	}{
		{name: "power-0", f: func() { acc.At(1, 0, 0) }},
		{name: "power-3", f: func() { acc.At(1, 3, 0) }},
		{name: "bin-neg", f: func() { acc.At(1, 1, -1) }},
		{name: "bin-2", f: func() { acc.Add(2, 1, 0) }},
		{name: "fill-harmonic", f: func() { acc.Fill(3, 1, 0, 1, 1) }},
		{name: "add-harmonic", f: func() { acc.AddHarmonic(-1, 0, 1, 0) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if e := recover(); e == nil {
					t.Fatalf("expected a panic")
				}
			}()
			tc.f()
		})
	}
}

func TestAccumulatorReset(t *testing.T) {
	set, err := NewSet(4, 4, 2, 5)
	if err != nil {
		t.Fatalf("could not create set: %+v", err)
	}
	for i := 0; i < 10; i++ {
		phi := 0.1 * float64(i)
		set.Ref.Add(i%2, 1+float64(i), phi)
		set.Diff.Add(i%5, 2, phi)
		set.Both.Add(i%5, 3, phi)
	}

	set.Reset()

	for n := -4; n <= 4; n++ {
		for p := 1; p <= 4; p++ {
			for b := 0; b < 2; b++ {
				if got := set.Q(n, p, b); got != 0 {
					t.Fatalf("invalid Q(%d,%d,%d) after reset: %v", n, p, b, got)
				}
			}
			for b := 0; b < 5; b++ {
				if got := set.P(n, p, b); got != 0 {
					t.Fatalf("invalid p(%d,%d,%d) after reset: %v", n, p, b, got)
				}
				if got := set.Overlap(n, p, b); got != 0 {
					t.Fatalf("invalid q(%d,%d,%d) after reset: %v", n, p, b, got)
				}
			}
		}
	}
}

func TestSignedComponent(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want float64
	}{
		{-3, -1}, {-1, -1}, {0, +1}, {1, +1}, {4, +1},
	} {
		if got := SignedComponent(tc.n); got != tc.want {
			t.Fatalf("invalid sign for n=%d: got=%v, want=%v", tc.n, got, tc.want)
		}
	}
}

func TestNewSet(t *testing.T) {
	for _, tc := range []struct {
		name             string
		nmax, pmax, r, d int
	}{
		{"ref", 4, 4, 0, 3},
		{"diff", 4, 4, 2, 0},
		{"power", 4, 0, 2, 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSet(tc.nmax, tc.pmax, tc.r, tc.d)
			if err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
