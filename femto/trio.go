// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package femto

import (
	"math"

	"go-hep.org/x/hep/hbook"
)

// Trio is a triplet of particles, with the species of their collections.
//
// Trios handed to a TrioFctn are reused by the analysis: a function
// must not retain them.
type Trio struct {
	P1, P2, P3 *Particle
	S1, S2, S3 Species
}

// Q12 returns the invariant relative momentum of the first pair.
func (t *Trio) Q12() float64 { return qinv(t.P1, t.P2) }

// Q23 returns the invariant relative momentum of the second pair.
func (t *Trio) Q23() float64 { return qinv(t.P2, t.P3) }

// Q31 returns the invariant relative momentum of the third pair.
func (t *Trio) Q31() float64 { return qinv(t.P3, t.P1) }

// Q3 returns sqrt(q12² + q23² + q31²).
func (t *Trio) Q3() float64 {
	var (
		q12 = t.Q12()
		q23 = t.Q23()
		q31 = t.Q31()
	)
	return math.Sqrt(q12*q12 + q23*q23 + q31*q31)
}

// TrioFctn is a trio correlation function.
type TrioFctn interface {
	AddRealTrio(t *Trio)
	AddMixedTrio(t *Trio)
}

// Histogrammer is implemented by cuts and trio functions
// that book histograms.
type Histogrammer interface {
	Histograms() []*hbook.H1D
}

// Q3Fctn is the Q3 correlation function: real trios fill the numerator,
// mixed trios fill the denominator.
type Q3Fctn struct {
	Num *hbook.H1D
	Den *hbook.H1D
}

// NewQ3Fctn creates a Q3 correlation function named name.
func NewQ3Fctn(name string, nbins int, min, max float64) *Q3Fctn {
	fct := &Q3Fctn{
		Num: hbook.NewH1D(nbins, min, max),
		Den: hbook.NewH1D(nbins, min, max),
	}
	fct.Num.Annotation()["name"] = "Num" + name
	fct.Den.Annotation()["name"] = "Den" + name
	return fct
}

func (fct *Q3Fctn) AddRealTrio(t *Trio)  { fct.Num.Fill(t.Q3(), 1) }
func (fct *Q3Fctn) AddMixedTrio(t *Trio) { fct.Den.Fill(t.Q3(), 1) }

func (fct *Q3Fctn) Histograms() []*hbook.H1D {
	return []*hbook.H1D{fct.Num, fct.Den}
}

var (
	_ TrioFctn     = (*Q3Fctn)(nil)
	_ Histogrammer = (*Q3Fctn)(nil)
)
