// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-lpc/pwg/femto"
	"github.com/go-lpc/pwg/internal/toymc"
	"github.com/go-lpc/pwg/internal/xcnv"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/lcio"
)

func TestParseSpecies(t *testing.T) {
	for _, tc := range []struct {
		str  string
		want []femto.Species
		err  bool
	}{
		{str: "pi+", want: []femto.Species{femto.PionPlus}},
		{str: "pi+, K-", want: []femto.Species{femto.PionPlus, femto.KaonMinus}},
		{str: "p,p,pbar", want: []femto.Species{femto.Proton, femto.Proton, femto.AntiProton}},
		{str: "pi+,pi+,pi+,pi+", err: true},
		{str: "pi0", err: true},
	} {
		t.Run(tc.str, func(t *testing.T) {
			got, err := parseSpecies(tc.str)
			switch {
			case tc.err && err == nil:
				t.Fatalf("expected an error")
			case tc.err:
				return
			case err != nil:
				t.Fatalf("could not parse species: %+v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("invalid species: got=%v, want=%v", got, tc.want)
			}
		})
	}
}

func TestCorrelation(t *testing.T) {
	var (
		num = hbook.NewH1D(2, 0, 1)
		den = hbook.NewH1D(2, 0, 1)
	)
	num.Fill(0.25, 1)
	num.Fill(0.75, 3)
	den.Fill(0.25, 2)
	den.Fill(0.75, 2)

	c := correlation(num, den)
	if got, want := c.Len(), 2; got != want {
		t.Fatalf("invalid number of points: got=%d, want=%d", got, want)
	}
	for i, want := range []float64{0.5, 1.5} {
		if got := c.Point(i).Y; got != want {
			t.Fatalf("invalid point %d: got=%v, want=%v", i, got, want)
		}
	}

	if got, want := correlation(num, hbook.NewH1D(2, 0, 1)).Len(), 0; got != want {
		t.Fatalf("invalid number of points: got=%d, want=%d", got, want)
	}
}

func TestProcess(t *testing.T) {
	tmp, err := os.MkdirTemp("", "pwg-femto-trio-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	fname := filepath.Join(tmp, "toy.slcio")
	func() {
		w, err := lcio.Create(fname)
		if err != nil {
			t.Fatalf("could not create LCIO file: %+v", err)
		}
		defer w.Close()

		gen := toymc.New(
			toymc.WithSeed(3),
			toymc.WithMultiplicity(40),
			toymc.WithEtaRange(-0.8, 0.8),
			toymc.WithVertexSpread(2),
		)
		err = xcnv.Toy2LCIO(w, gen, 1, 10, nil, log.New(io.Discard, "", 0))
		if err != nil {
			t.Fatalf("could not generate toy events: %+v", err)
		}
		err = w.Close()
		if err != nil {
			t.Fatalf("could not close LCIO file: %+v", err)
		}
	}()

	for _, tc := range []struct {
		name    string
		species []femto.Species
		keys    []string
	}{
		{
			name:    "same",
			species: []femto.Species{femto.Unknown},
			keys:    []string{"NumQ3", "DenQ3", "CQ3", "EvtCut_zvtx_pass", "cut1_pt", "cut1_eta"},
		},
		{
			name:    "three",
			species: []femto.Species{femto.Unknown, femto.Unknown, femto.Unknown},
			keys:    []string{"NumQ3", "DenQ3", "CQ3", "cut2_pt", "cut3_eta"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config{
				oname:   filepath.Join(tmp, tc.name+".root"),
				yoda:    filepath.Join(tmp, tc.name+".yoda"),
				freq:    5,
				species: tc.species,
				mixing:  true,
				zmin:    -10,
				zmax:    +10,
				multMin: 3,
				ptMin:   0,
				ptMax:   100,
				etaMin:  -1,
				etaMax:  +1,
				nbins:   20,
				qmax:    50,
			}

			err := process(cfg, []string{fname})
			if err != nil {
				t.Fatalf("could not process events: %+v", err)
			}

			f, err := groot.Open(cfg.oname)
			if err != nil {
				t.Fatalf("could not open output ROOT file: %+v", err)
			}
			defer f.Close()

			for _, key := range tc.keys {
				_, err := f.Get(key)
				if err != nil {
					t.Fatalf("could not retrieve %q: %+v", key, err)
				}
			}

			raw, err := os.ReadFile(cfg.yoda)
			if err != nil {
				t.Fatalf("could not read YODA file: %+v", err)
			}
			for _, key := range []string{"NumQ3", "DenQ3", "CQ3"} {
				if !strings.Contains(string(raw), key) {
					t.Fatalf("missing %q in YODA file", key)
				}
			}
		})
	}
}

func TestProcessInvalid(t *testing.T) {
	tmp, err := os.MkdirTemp("", "pwg-femto-trio-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	for _, tc := range []struct {
		name   string
		cfg    config
		fnames []string
	}{
		{
			name: "binning",
			cfg:  config{species: []femto.Species{femto.PionPlus}, nbins: 0, qmax: 1},
		},
		{
			name: "no-species",
			cfg:  config{nbins: 10, qmax: 1},
		},
		{
			name:   "missing-file",
			cfg:    config{species: []femto.Species{femto.PionPlus}, nbins: 10, qmax: 1},
			fnames: []string{filepath.Join(tmp, "not-there.slcio")},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.oname = filepath.Join(tmp, tc.name+".root")
			err := process(tc.cfg, tc.fnames)
			if err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
