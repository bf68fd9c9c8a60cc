// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cumulant

// Two returns the two-particle correlator for harmonics (n1, n2) between
// reference bins b1 and b2.
//
// Within a single bin, the self-pairs are removed.
// Across bins, no particle can pair with itself and the plain product is returned.
func Two(m Moments, n1, n2, b1, b2 int) complex128 {
	if b1 != b2 {
		return m.Q(n1, 1, b1) * m.Q(n2, 1, b2)
	}
	return m.Q(n1, 1, b1)*m.Q(n2, 1, b1) - m.Q(n1+n2, 2, b1)
}

// TwoDiff returns the differential two-particle correlator between the
// particles of interest in diffBin and the reference particles in refBin.
func TwoDiff(m Moments, n1, n2, refBin, diffBin int) complex128 {
	return m.P(n1, 1, diffBin)*m.Q(n2, 1, refBin) - m.Overlap(n1+n2, 1, diffBin)
}

// Four returns the four-particle correlator for harmonics (n1, n2, n3, n4).
//
// Within a single bin b1 == b2, all the coincidences between the four
// particles are removed.
// Across bins, the first pair is taken in b1 and the second one in b2.
func Four(m Moments, n1, n2, n3, n4, b1, b2 int) complex128 {
	if b1 != b2 {
		return Two(m, n1, n2, b1, b1) * Two(m, n3, n4, b2, b2)
	}

	Q := func(n, p int) complex128 { return m.Q(n, p, b1) }

	return Q(n1, 1)*Q(n2, 1)*Q(n3, 1)*Q(n4, 1) -
		Q(n1+n2, 2)*Q(n3, 1)*Q(n4, 1) -
		Q(n2, 1)*Q(n1+n3, 2)*Q(n4, 1) -
		Q(n1, 1)*Q(n2+n3, 2)*Q(n4, 1) +
		2*Q(n1+n2+n3, 3)*Q(n4, 1) -
		Q(n2, 1)*Q(n3, 1)*Q(n1+n4, 2) +
		Q(n2+n3, 2)*Q(n1+n4, 2) -
		Q(n1, 1)*Q(n3, 1)*Q(n2+n4, 2) +
		Q(n1+n3, 2)*Q(n2+n4, 2) +
		2*Q(n3, 1)*Q(n1+n2+n4, 3) -
		Q(n1, 1)*Q(n2, 1)*Q(n3+n4, 2) +
		Q(n1+n2, 2)*Q(n3+n4, 2) +
		2*Q(n2, 1)*Q(n1+n3+n4, 3) +
		2*Q(n1, 1)*Q(n2+n3+n4, 3) -
		6*Q(n1+n2+n3+n4, 4)
}

// FourDiff returns the differential four-particle correlator, with the
// first particle of interest taken in diffBin.
//
// When ref1 == ref2, the three reference particles come from that bin and
// all the coincidences are removed using the overlap sums of diffBin.
// Otherwise, the first pair (particle of interest, reference particle)
// is correlated in ref1 and the second pair is taken in ref2.
func FourDiff(m Moments, n1, n2, n3, n4, ref1, ref2, diffBin int) complex128 {
	if ref1 != ref2 {
		return TwoDiff(m, n1, n2, ref1, diffBin) * Two(m, n3, n4, ref2, ref2)
	}

	var (
		Q = func(n, k int) complex128 { return m.Q(n, k, ref1) }
		p = func(n, k int) complex128 { return m.P(n, k, diffBin) }
		q = func(n, k int) complex128 { return m.Overlap(n, k, diffBin) }
	)

	return p(n1, 1)*Q(n2, 1)*Q(n3, 1)*Q(n4, 1) -
		q(n1+n2, 2)*Q(n3, 1)*Q(n4, 1) -
		Q(n2, 1)*q(n1+n3, 2)*Q(n4, 1) -
		p(n1, 1)*Q(n2+n3, 2)*Q(n4, 1) +
		2*q(n1+n2+n3, 3)*Q(n4, 1) -
		Q(n2, 1)*Q(n3, 1)*q(n1+n4, 2) +
		Q(n2+n3, 2)*q(n1+n4, 2) -
		p(n1, 1)*Q(n3, 1)*Q(n2+n4, 2) +
		q(n1+n3, 2)*Q(n2+n4, 2) +
		2*Q(n3, 1)*q(n1+n2+n4, 3) -
		p(n1, 1)*Q(n2, 1)*Q(n3+n4, 2) +
		q(n1+n2, 2)*Q(n3+n4, 2) +
		2*Q(n2, 1)*q(n1+n3+n4, 3) +
		2*p(n1, 1)*Q(n2+n3+n4, 3) -
		6*q(n1+n2+n3+n4, 4)
}
