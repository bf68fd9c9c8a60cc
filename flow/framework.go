// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"fmt"

	"github.com/go-lpc/pwg/cumulant"
)

// Framework accumulates the harmonic sums of an event and stores the
// resulting multi-particle correlators into cumulant tables.
type Framework struct {
	cfg  Settings
	corr Corrections
	set  *cumulant.Set
}

// NewFramework creates a new cumulant framework.
func NewFramework(cfg Settings, corr Corrections) (*Framework, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("flow: invalid settings: %w", err)
	}

	err = corr.Validate()
	if err != nil {
		return nil, fmt.Errorf("flow: invalid corrections: %w", err)
	}

	set, err := cumulant.NewSet(cfg.MaxHarmonic, cfg.MaxPower, cfg.RefEta.N, cfg.DiffEta.N)
	if err != nil {
		return nil, fmt.Errorf("flow: could not create accumulators: %w", err)
	}

	return &Framework{cfg: cfg, corr: corr, set: set}, nil
}

// Moments gives read access to the harmonic sums of the current event.
func (fw *Framework) Moments() cumulant.Moments { return fw.set }

// Accumulate folds the weight map m of detector det into the harmonic sums.
// ref and diff enable the filling of the reference and differential sums.
func (fw *Framework) Accumulate(m *WeightMap, det Detector, zvtx float64, ref, diff bool) {
	var (
		cfg      = fw.cfg
		fwd      = det == Forward
		checkAcc = fwd && !cfg.UsePrimariesFwd && !cfg.ESD && !cfg.MC
		secCorr  = fwd && cfg.SecCorr && cfg.refFromForward() &&
			!cfg.UsePrimariesFwd && fw.corr.SecForward != nil
	)

	for ieta := 0; ieta < m.Eta.N; ieta++ {
		if checkAcc && m.Acceptance(ieta) == 0 {
			continue
		}

		var (
			eta     = m.Eta.Center(ieta)
			diffBin = cfg.DiffEta.FindBin(eta)
			refBin  = cfg.RefEta.FindBin(eta)
			doDiff  = diff && diffBin >= 0
			doBoth  = doDiff && ref && !cfg.EtaGap
			doRef   = ref && refBin >= 0 && cfg.acceptRef(eta)
		)
		if !doDiff && !doRef {
			continue
		}

		for iphi := 0; iphi < m.Phi.N; iphi++ {
			phi := m.Phi.Center(iphi)
			w := fw.weight(m, det, ieta, iphi, eta, phi, zvtx)
			if w == 0 {
				continue
			}

			for n := 0; n <= cfg.MaxHarmonic; n++ {
				wn := w
				if secCorr && 2 <= n && n <= 4 {
					wn *= fw.corr.SecForward.Bin(
						fw.corr.SecForward.X.FindBin(eta),
						fw.corr.SecForward.Y.FindBin(zvtx),
						n-2,
					)
				}
				if wn == 0 {
					continue
				}

				if doDiff {
					fw.set.Diff.AddHarmonic(n, diffBin, wn, phi)
				}
				if doBoth {
					fw.set.Both.AddHarmonic(n, diffBin, wn, phi)
				}
				if doRef {
					fw.set.Ref.AddHarmonic(n, refBin, wn, phi)
				}
			}
		}
	}
}

// weight returns the corrected weight of cell (ieta, iphi).
func (fw *Framework) weight(m *WeightMap, det Detector, ieta, iphi int, eta, phi, zvtx float64) float64 {
	w := m.At(ieta, iphi)
	if !fw.cfg.DoNUA {
		return w
	}

	var (
		cfg = fw.cfg
		fwd = det == Forward
	)

	if fwd && cfg.NUAMode&NUAFill != 0 && isFMDHole(ieta, iphi) {
		w = 1
	}

	if fwd && cfg.NUAMode&NUAInterpolate != 0 {
		w = m.interpolate(ieta, iphi, w)
	}

	switch {
	case !fwd && !cfg.UsePrimariesCen && fw.corr.NUACentral != nil:
		w *= fw.corr.NUACentral.At(eta, phi, zvtx)
	case fwd && !cfg.UsePrimariesFwd && fw.corr.NUAForward != nil:
		w *= fw.corr.NUAForward.At(eta, phi, zvtx)
	}

	return w
}

// Save stores the correlators of the current event into out,
// for the sample index sample, the vertex position zvtx and the
// centrality cent.
func (fw *Framework) Save(out *Output, sample int, zvtx, cent float64) {
	var (
		cfg = fw.cfg
		m   = fw.set
	)

	for i, n := range cfg.Harmonics {
		var (
			refTable  = out.Ref[i]
			diffTable = out.Diff[i]
			refDone   = false
		)

		for bin := 0; bin < cfg.DiffEta.N; bin++ {
			eta := cfg.DiffEta.Center(bin)
			a := cfg.RefEta.FindBin(eta)
			b := a
			if cfg.EtaGap {
				b = cfg.RefEta.FindBin(-eta)
			}
			if a < 0 || b < 0 {
				continue
			}

			if real(m.Q(0, 1, b)) <= 0 {
				continue
			}

			if !refDone {
				refEta := cfg.RefEta.Center(a)
				refTable.Fill(sample, zvtx, refEta, cent, W2Two, real(cumulant.Two(m, n, -n, a, b)))
				refTable.Fill(sample, zvtx, refEta, cent, W2, real(cumulant.Two(m, 0, 0, a, b)))
				refTable.Fill(sample, zvtx, refEta, cent, W4Four, real(cumulant.Four(m, n, n, -n, -n, a, b)))
				refTable.Fill(sample, zvtx, refEta, cent, W4, real(cumulant.Four(m, 0, 0, 0, 0, a, b)))
				refDone = true
			}

			diffTable.Fill(sample, zvtx, eta, cent, W2Two, real(cumulant.TwoDiff(m, n, -n, b, bin)))
			diffTable.Fill(sample, zvtx, eta, cent, W2, real(cumulant.TwoDiff(m, 0, 0, b, bin)))
			diffTable.Fill(sample, zvtx, eta, cent, W4Four, real(cumulant.FourDiff(m, n, n, -n, -n, b, b, bin)))
			diffTable.Fill(sample, zvtx, eta, cent, W4, real(cumulant.FourDiff(m, 0, 0, 0, 0, b, b, bin)))
		}
	}
}

// Reset zeroes all the harmonic sums.
func (fw *Framework) Reset() {
	fw.set.Reset()
}
