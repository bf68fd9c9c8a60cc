// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cumulant implements harmonic accumulators (Q-vectors) and the
// closed-form multi-particle cumulant algebra evaluated over them.
//
// Per-event azimuthal correlations between k particles would naively need
// O(N^k) loops over particle tuples. Instead, each particle is folded once
// into the accumulators as w^p·exp(i·n·φ), for every harmonic n and power p,
// and the k-particle correlators are then recovered with a fixed number of
// products of these sums, with the self-pairing terms removed.
package cumulant // import "github.com/go-lpc/pwg/cumulant"

// SignedComponent returns the factor applied to the imaginary part of a
// harmonic sum read back for harmonic order n.
// Sums are stored for |n| only, and Q(-n) is the complex conjugate of Q(n).
func SignedComponent(n int) float64 {
	if n < 0 {
		return -1
	}
	return +1
}

func iabs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
