// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cumulant

import "fmt"

// Moments gives read access to the three flavours of harmonic sums
// consumed by the cumulant formulas.
type Moments interface {
	// Q returns the reference-particles sum for (n, p, bin).
	Q(n, p, bin int) complex128
	// P returns the particles-of-interest sum for (n, p, bin).
	P(n, p, bin int) complex128
	// Overlap returns the sum over particles that are both of interest
	// and reference particles, for (n, p, bin).
	Overlap(n, p, bin int) complex128
}

// Set holds the reference, differential and overlap accumulators of
// a flow analysis.
//
// Ref is binned along the reference axis, Diff and Both share the
// differential axis.
type Set struct {
	Ref  *Accumulator // reference particles
	Diff *Accumulator // particles of interest
	Both *Accumulator // particles of interest that are also reference particles
}

var _ Moments = (*Set)(nil)

// NewSet creates a set of accumulators for harmonics [0, nmax], powers [1, pmax],
// with nref reference bins and ndiff differential bins.
func NewSet(nmax, pmax, nref, ndiff int) (*Set, error) {
	ref, err := NewAccumulator(nmax, pmax, nref)
	if err != nil {
		return nil, fmt.Errorf("cumulant: could not create reference accumulator: %w", err)
	}
	diff, err := NewAccumulator(nmax, pmax, ndiff)
	if err != nil {
		return nil, fmt.Errorf("cumulant: could not create differential accumulator: %w", err)
	}
	both, err := NewAccumulator(nmax, pmax, ndiff)
	if err != nil {
		return nil, fmt.Errorf("cumulant: could not create overlap accumulator: %w", err)
	}
	return &Set{Ref: ref, Diff: diff, Both: both}, nil
}

func (s *Set) Q(n, p, bin int) complex128       { return s.Ref.At(n, p, bin) }
func (s *Set) P(n, p, bin int) complex128       { return s.Diff.At(n, p, bin) }
func (s *Set) Overlap(n, p, bin int) complex128 { return s.Both.At(n, p, bin) }

// Reset zeroes the three accumulators.
func (s *Set) Reset() {
	s.Ref.Reset()
	s.Diff.Reset()
	s.Both.Reset()
}
