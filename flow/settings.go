// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings configures a flow analysis.
type Settings struct {
	EtaGap bool    `yaml:"eta-gap"` // correlate reference particles across an eta gap
	Gap    float64 `yaml:"gap"`     // half-width of the eta gap

	RefMode RefMode `yaml:"ref-mode"`

	DoNUA   bool    `yaml:"nua"`
	NUAMode NUAMode `yaml:"nua-mode"`
	SecCorr bool    `yaml:"sec-corr"`

	UsePrimariesFwd bool `yaml:"use-primaries-fwd"`
	UsePrimariesCen bool `yaml:"use-primaries-cen"`
	MC              bool `yaml:"mc"`
	ESD             bool `yaml:"esd"`
	UseFMD          bool `yaml:"use-fmd"` // analyse the forward detector

	Samples     int   `yaml:"samples"`
	Harmonics   []int `yaml:"harmonics"`
	MaxHarmonic int   `yaml:"max-harmonic"`
	MaxPower    int   `yaml:"max-power"`

	RefEta  Axis `yaml:"ref-eta"`
	DiffEta Axis `yaml:"diff-eta"`
	FwdEta  Axis `yaml:"fwd-eta"`
	CenEta  Axis `yaml:"cen-eta"`
	Phi     Axis `yaml:"phi"`
	Vertex  Axis `yaml:"vertex"`
	Cent    Axis `yaml:"centrality"`

	VertexCut float64 `yaml:"vertex-cut"` // max |zvtx| in cm
}

const (
	refEtaMax = 3.0 // outer |eta| bound of reference particles with an eta gap
	fmdEtaMin = 2.0 // inner |eta| bound of FMD reference particles
)

// DefaultSettings returns the default analysis settings.
func DefaultSettings() Settings {
	return Settings{
		EtaGap:  false,
		Gap:     0.0,
		RefMode: RefTPC,
		DoNUA:   false,
		NUAMode: NUAFill | NUAInterpolate,
		SecCorr: false,

		MC:     true,
		UseFMD: true,

		Samples:     10,
		Harmonics:   []int{2, 3, 4},
		MaxHarmonic: 8,
		MaxPower:    4,

		RefEta:  NewAxis(2, -6, 6),
		DiffEta: NewAxis(50, -4, 6),
		FwdEta:  NewAxis(200, -4, 6),
		CenEta:  NewAxis(20, -2, 2),
		Phi:     NewAxis(20, 0, 2*math.Pi),
		Vertex:  NewAxis(10, -10, 10),
		Cent:    NewAxis(10, 0, 100),

		VertexCut: 10,
	}
}

// LoadSettings decodes YAML settings from r, on top of the default ones.
func LoadSettings(r io.Reader) (Settings, error) {
	cfg := DefaultSettings()
	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("flow: could not decode settings: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return cfg, fmt.Errorf("flow: invalid settings: %w", err)
	}
	return cfg, nil
}

// ReadSettings loads YAML settings from the named file.
func ReadSettings(fname string) (Settings, error) {
	f, err := os.Open(fname)
	if err != nil {
		return Settings{}, fmt.Errorf("flow: could not open settings file: %w", err)
	}
	defer f.Close()

	return LoadSettings(f)
}

// Validate checks the consistency of the settings.
func (cfg Settings) Validate() error {
	for _, v := range []struct {
		name string
		axis Axis
	}{
		{"ref-eta", cfg.RefEta},
		{"diff-eta", cfg.DiffEta},
		{"fwd-eta", cfg.FwdEta},
		{"cen-eta", cfg.CenEta},
		{"phi", cfg.Phi},
		{"vertex", cfg.Vertex},
		{"centrality", cfg.Cent},
	} {
		if err := v.axis.validate(v.name); err != nil {
			return err
		}
	}

	switch {
	case cfg.Samples <= 0:
		return fmt.Errorf("flow: invalid number of samples (n=%d)", cfg.Samples)
	case len(cfg.Harmonics) == 0:
		return fmt.Errorf("flow: no harmonic to analyse")
	case cfg.MaxPower < 4:
		return fmt.Errorf("flow: invalid max power (p=%d, need p>=4)", cfg.MaxPower)
	case cfg.Gap < 0:
		return fmt.Errorf("flow: invalid eta gap (gap=%v)", cfg.Gap)
	}

	for _, n := range cfg.Harmonics {
		if n <= 0 || 2*n > cfg.MaxHarmonic {
			return fmt.Errorf(
				"flow: harmonic n=%d out of range (max-harmonic=%d)",
				n, cfg.MaxHarmonic,
			)
		}
	}
	return nil
}

// refFromCentral returns whether the central detector provides reference particles.
func (cfg Settings) refFromCentral() bool {
	return cfg.RefMode&(RefTPC|RefSPD) != 0
}

// refFromForward returns whether the forward detector provides reference particles.
func (cfg Settings) refFromForward() bool {
	return cfg.RefMode&RefFMD != 0
}

// acceptRef returns whether a particle at eta may be used as a reference particle.
func (cfg Settings) acceptRef(eta float64) bool {
	aeta := math.Abs(eta)
	if cfg.EtaGap && aeta <= cfg.Gap {
		return false
	}
	if cfg.EtaGap && aeta > refEtaMax {
		return false
	}
	if cfg.refFromForward() && aeta < fmdEtaMin {
		return false
	}
	return true
}
