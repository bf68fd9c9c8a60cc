// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cumulant

import (
	"fmt"
	"math"
)

type cell struct {
	re float64
	im float64
}

// Accumulator holds running sums of weighted harmonic contributions,
// indexed by harmonic order n, power p and spatial (pseudorapidity) bin.
//
// Cell (n, p, bin) holds Σ w^p·cos(nφ) and Σ w^p·sin(nφ) for n in [0, MaxHarmonic],
// p in [1, MaxPower] and bin in [0, Bins).
type Accumulator struct {
	nmax  int // max harmonic order
	pmax  int // max power
	nbins int // number of spatial bins

	cells []cell
}

// NewAccumulator creates a zeroed accumulator for harmonics [0, nmax],
// powers [1, pmax] and nbins spatial bins.
func NewAccumulator(nmax, pmax, nbins int) (*Accumulator, error) {
	switch {
	case nmax < 0:
		return nil, fmt.Errorf("cumulant: invalid max harmonic (n=%d)", nmax)
	case pmax < 1:
		return nil, fmt.Errorf("cumulant: invalid max power (p=%d)", pmax)
	case nbins < 1:
		return nil, fmt.Errorf("cumulant: invalid number of bins (bins=%d)", nbins)
	}

	return &Accumulator{
		nmax:  nmax,
		pmax:  pmax,
		nbins: nbins,
		cells: make([]cell, (nmax+1)*pmax*nbins),
	}, nil
}

// MaxHarmonic returns the highest harmonic order held by the accumulator.
func (acc *Accumulator) MaxHarmonic() int { return acc.nmax }

// MaxPower returns the highest weight power held by the accumulator.
func (acc *Accumulator) MaxPower() int { return acc.pmax }

// Bins returns the number of spatial bins.
func (acc *Accumulator) Bins() int { return acc.nbins }

func (acc *Accumulator) index(n, p, bin int) int {
	return (bin*acc.pmax+(p-1))*(acc.nmax+1) + n
}

func (acc *Accumulator) check(p, bin int) {
	if p < 1 || p > acc.pmax {
		panic(fmt.Errorf("cumulant: power out of range (p=%d, max=%d)", p, acc.pmax))
	}
	if bin < 0 || bin >= acc.nbins {
		panic(fmt.Errorf("cumulant: bin out of range (bin=%d, bins=%d)", bin, acc.nbins))
	}
}

// Fill adds (re, im) to the cell (n, p, bin).
// Negative harmonics are folded onto |n| with the sign of the imaginary part
// flipped, so that Fill(-n, ...) and At(-n, ...) round-trip.
func (acc *Accumulator) Fill(n, p, bin int, re, im float64) {
	acc.check(p, bin)
	an := iabs(n)
	if an > acc.nmax {
		panic(fmt.Errorf("cumulant: harmonic out of range (n=%d, max=%d)", n, acc.nmax))
	}
	c := &acc.cells[acc.index(an, p, bin)]
	c.re += re
	c.im += SignedComponent(n) * im
}

// AddHarmonic accumulates w^p·cos(nφ) and w^p·sin(nφ) into bin, for
// the harmonic n and all powers p.
// A zero weight is a no-op.
func (acc *Accumulator) AddHarmonic(n, bin int, w, phi float64) {
	if w == 0 {
		return
	}
	acc.check(1, bin)
	if n < 0 || n > acc.nmax {
		panic(fmt.Errorf("cumulant: harmonic out of range (n=%d, max=%d)", n, acc.nmax))
	}

	sin, cos := math.Sincos(float64(n) * phi)
	wp := 1.0
	for p := 1; p <= acc.pmax; p++ {
		wp *= w
		c := &acc.cells[acc.index(n, p, bin)]
		c.re += wp * cos
		c.im += wp * sin
	}
}

// Add accumulates the weighted entry (w, φ) into bin, for all harmonics
// and all powers.
// A zero weight is a no-op.
func (acc *Accumulator) Add(bin int, w, phi float64) {
	if w == 0 {
		return
	}
	for n := 0; n <= acc.nmax; n++ {
		acc.AddHarmonic(n, bin, w, phi)
	}
}

// At returns the harmonic sum for (n, p, bin).
// The imaginary part is sign-corrected for negative n.
// Harmonics above MaxHarmonic were never accumulated and read back as zero.
func (acc *Accumulator) At(n, p, bin int) complex128 {
	acc.check(p, bin)
	an := iabs(n)
	if an > acc.nmax {
		return 0
	}
	c := acc.cells[acc.index(an, p, bin)]
	return complex(c.re, SignedComponent(n)*c.im)
}

// SumW returns the sum of weights accumulated in bin.
func (acc *Accumulator) SumW(bin int) float64 {
	return real(acc.At(0, 1, bin))
}

// Reset zeroes all the cells of the accumulator.
func (acc *Accumulator) Reset() {
	for i := range acc.cells {
		acc.cells[i] = cell{}
	}
}
