// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-lpc/pwg/flow"
	"github.com/go-lpc/pwg/internal/toymc"
	"github.com/go-lpc/pwg/internal/xcnv"
	"github.com/go-lpc/pwg/internal/xroot"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/lcio"
)

func genToys(t *testing.T, fname string, seed uint64, nevts int) {
	t.Helper()

	w, err := lcio.Create(fname)
	if err != nil {
		t.Fatalf("could not create LCIO file: %+v", err)
	}
	defer w.Close()

	gen := toymc.New(
		toymc.WithSeed(seed),
		toymc.WithMultiplicity(100),
		toymc.WithFlow(2, 0.1),
		toymc.WithVertexSpread(3),
	)
	err = xcnv.Toy2LCIO(w, gen, 1, nevts, map[int]float64{2: 0.1}, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("could not generate toy events: %+v", err)
	}

	err = w.Close()
	if err != nil {
		t.Fatalf("could not close LCIO file: %+v", err)
	}
}

func testSettings() flow.Settings {
	cfg := flow.DefaultSettings()
	cfg.Samples = 2
	cfg.Harmonics = []int{2}
	cfg.Cent = flow.NewAxis(1, 0, 100)
	cfg.DiffEta = flow.NewAxis(10, -4, 6)
	return cfg
}

func TestProcess(t *testing.T) {
	tmp, err := os.MkdirTemp("", "pwg-fwd-flow-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	fnames := []string{
		filepath.Join(tmp, "toy-1.slcio"),
		filepath.Join(tmp, "toy-2.slcio"),
	}
	genToys(t, fnames[0], 1, 20)
	genToys(t, fnames[1], 2, 30)

	cfg := config{
		settings: testSettings(),
		oname:    filepath.Join(tmp, "out.root"),
		yoda:     filepath.Join(tmp, "out.yoda"),
		njobs:    2,
		freq:     10,
	}

	sum, err := process(cfg, fnames)
	if err != nil {
		t.Fatalf("could not run analysis: %+v", err)
	}

	if got, want := sum.processed, int64(50); got != want {
		t.Fatalf("invalid number of processed events: got=%d, want=%d", got, want)
	}
	if sum.accepted == 0 || sum.accepted > sum.processed {
		t.Fatalf("invalid number of accepted events: got=%d", sum.accepted)
	}
	if got := sum.String(); !strings.Contains(got, "toy-2.slcio") {
		t.Fatalf("invalid summary:\n%s", got)
	}

	f, err := groot.Open(cfg.oname)
	if err != nil {
		t.Fatalf("could not open output ROOT file: %+v", err)
	}
	defer f.Close()

	for _, name := range []string{
		"zvtx_f000", "zvtx_f001", "cent_f000", "cent_f001",
		"eta_phi_f000", "eta_phi_f001",
		scatterName(2, "ref2", 0),
		scatterName(2, "diff2", 0),
	} {
		_, err := f.Get(name)
		if err != nil {
			t.Fatalf("could not retrieve %q: %+v", name, err)
		}
	}

	out, err := xroot.ReadOutput(f, []int{2})
	if err != nil {
		t.Fatalf("could not read cumulant tables: %+v", err)
	}
	if out.Ref[0].Len() == 0 || out.Diff[0].Len() == 0 {
		t.Fatalf("empty cumulant tables")
	}

	raw, err := os.ReadFile(cfg.yoda)
	if err != nil {
		t.Fatalf("could not read YODA file: %+v", err)
	}
	if !strings.Contains(string(raw), "BEGIN YODA_SCATTER2D") {
		t.Fatalf("invalid YODA file:\n%s", raw)
	}
	if !strings.Contains(string(raw), scatterName(2, "diff2", 0)) {
		t.Fatalf("missing differential scatter in YODA file")
	}

	t.Run("merge", func(t *testing.T) {
		mrg := config{
			settings: testSettings(),
			oname:    filepath.Join(tmp, "merged.root"),
			merge:    true,
		}
		_, err := process(mrg, []string{cfg.oname, cfg.oname})
		if err != nil {
			t.Fatalf("could not merge outputs: %+v", err)
		}

		f, err := groot.Open(mrg.oname)
		if err != nil {
			t.Fatalf("could not open merged ROOT file: %+v", err)
		}
		defer f.Close()

		got, err := xroot.ReadOutput(f, []int{2})
		if err != nil {
			t.Fatalf("could not read merged tables: %+v", err)
		}

		for _, key := range out.Ref[0].Keys() {
			if got, want := got.Ref[0].At(key), 2*out.Ref[0].At(key); got != want {
				t.Fatalf("invalid merged cell %+v: got=%v, want=%v", key, got, want)
			}
		}
	})
}

func TestProcessInvalid(t *testing.T) {
	tmp, err := os.MkdirTemp("", "pwg-fwd-flow-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	for _, tc := range []struct {
		name   string
		merge  bool
		fnames []string
	}{
		{
			name:   "missing-lcio",
			fnames: []string{filepath.Join(tmp, "not-there.slcio")},
		},
		{
			name:   "missing-root",
			merge:  true,
			fnames: []string{filepath.Join(tmp, "not-there.root")},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config{
				settings: testSettings(),
				oname:    filepath.Join(tmp, tc.name+".root"),
				merge:    tc.merge,
				njobs:    1,
				freq:     10,
			}
			_, err := process(cfg, tc.fnames)
			if err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestAtoi(t *testing.T) {
	for _, tc := range []struct {
		str  string
		want int
	}{
		{"587", 587},
		{"", 0},
		{"x25", 0},
	} {
		if got, want := atoi(tc.str), tc.want; got != want {
			t.Fatalf("invalid atoi(%q): got=%d, want=%d", tc.str, got, want)
		}
	}
}
