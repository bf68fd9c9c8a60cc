// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"go-hep.org/x/hep/hbook"
)

// WeightMap is a per-event 2D (eta, phi) map of particle weights.
//
// Each eta strip carries an acceptance flag. A zero flag marks a strip
// outside of the detector acceptance for this event.
type WeightMap struct {
	Eta Axis
	Phi Axis

	accept []float64
	w      []float64
}

// NewWeightMap creates an empty map, with all the eta strips accepted.
func NewWeightMap(eta, phi Axis) *WeightMap {
	m := &WeightMap{
		Eta:    eta,
		Phi:    phi,
		accept: make([]float64, eta.N),
		w:      make([]float64, eta.N*phi.N),
	}
	m.Reset()
	return m
}

// FromH2D creates a weight map from the bin contents of an (eta, phi)
// histogram.
func FromH2D(h *hbook.H2D) *WeightMap {
	var (
		grid   = h.GridXYZ()
		nx, ny = grid.Dims()
		m      = NewWeightMap(
			NewAxis(nx, h.XMin(), h.XMax()),
			NewAxis(ny, h.YMin(), h.YMax()),
		)
	)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			m.Set(ix, iy, grid.Z(ix, iy))
		}
	}
	return m
}

// H2D returns the map as an (eta, phi) histogram.
func (m *WeightMap) H2D() *hbook.H2D {
	h := hbook.NewH2D(m.Eta.N, m.Eta.Min, m.Eta.Max, m.Phi.N, m.Phi.Min, m.Phi.Max)
	for ieta := 0; ieta < m.Eta.N; ieta++ {
		for iphi := 0; iphi < m.Phi.N; iphi++ {
			w := m.At(ieta, iphi)
			if w == 0 {
				continue
			}
			h.Fill(m.Eta.Center(ieta), m.Phi.Center(iphi), w)
		}
	}
	return h
}

// Fill adds w to the cell holding (eta, phi).
// Entries outside of the map are dropped.
func (m *WeightMap) Fill(eta, phi, w float64) {
	var (
		ieta = m.Eta.FindBin(eta)
		iphi = m.Phi.FindBin(phi)
	)
	if ieta < 0 || iphi < 0 {
		return
	}
	m.w[ieta*m.Phi.N+iphi] += w
}

// At returns the weight of cell (ieta, iphi).
// Cells outside of the map are empty.
func (m *WeightMap) At(ieta, iphi int) float64 {
	if ieta < 0 || ieta >= m.Eta.N || iphi < 0 || iphi >= m.Phi.N {
		return 0
	}
	return m.w[ieta*m.Phi.N+iphi]
}

// Set sets the weight of cell (ieta, iphi).
func (m *WeightMap) Set(ieta, iphi int, w float64) {
	m.w[ieta*m.Phi.N+iphi] = w
}

// Acceptance returns the acceptance flag of the ieta strip.
func (m *WeightMap) Acceptance(ieta int) float64 {
	return m.accept[ieta]
}

// SetAcceptance sets the acceptance flag of the ieta strip.
func (m *WeightMap) SetAcceptance(ieta int, v float64) {
	m.accept[ieta] = v
}

// Sum returns the sum of all the weights of the map.
func (m *WeightMap) Sum() float64 {
	var sum float64
	for _, w := range m.w {
		sum += w
	}
	return sum
}

// Reset zeroes all the weights and accepts all the eta strips.
func (m *WeightMap) Reset() {
	for i := range m.w {
		m.w[i] = 0
	}
	for i := range m.accept {
		m.accept[i] = 1
	}
}

// interpolate returns w for non-empty cells, and the mean of the
// non-empty phi neighbours of the cell otherwise.
func (m *WeightMap) interpolate(ieta, iphi int, w float64) float64 {
	if w != 0 {
		return w
	}
	var (
		n    = m.Phi.N
		prev = m.At(ieta, (iphi-1+n)%n)
		next = m.At(ieta, (iphi+1)%n)
	)
	switch {
	case prev != 0 && next != 0:
		return 0.5 * (prev + next)
	case prev != 0:
		return prev
	default:
		return next
	}
}

// fmdHoles lists the (eta, phi) cells of the default forward map where
// the FMD has no acceptance.
var fmdHoles = []struct {
	eta0, eta1 int // inclusive range of eta bins
	phis       []int
}{
	{eta0: 124, eta1: 136, phis: []int{16, 17}},
	{eta0: 167, eta1: 184, phis: []int{13}},
}

func isFMDHole(ieta, iphi int) bool {
	for _, hole := range fmdHoles {
		if ieta < hole.eta0 || ieta > hole.eta1 {
			continue
		}
		for _, v := range hole.phis {
			if v == iphi {
				return true
			}
		}
	}
	return false
}
