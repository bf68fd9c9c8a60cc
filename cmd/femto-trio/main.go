// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command femto-trio builds three-particle correlation functions from
// LCIO files.
//
// The species of the trio collections are given as a comma-separated list
// of one, two or three species. With one species, the three particles of a
// trio come from the same collection. With two, the first particle comes
// from the first collection and the other two from the second one.
//
// Usage: femto-trio [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> femto-trio -species pi+,pi+,pi+ -mix -o trio.root ./data/*.slcio
package main // import "github.com/go-lpc/pwg/cmd/femto-trio"

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/go-lpc/pwg/femto"
	"github.com/go-lpc/pwg/internal/xcnv"
	"github.com/go-lpc/pwg/internal/xroot"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/lcio"
)

const usage = `femto-trio builds three-particle correlation functions from LCIO files.

Usage: femto-trio [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> femto-trio -species pi+,pi+,pi+ -mix -o trio.root ./data/*.slcio

Options:
`

type config struct {
	oname string
	yoda  string
	freq  int

	species []femto.Species
	mixing  bool

	zmin, zmax float64
	multMin    int

	ptMin, ptMax   float64
	etaMin, etaMax float64

	nbins int
	qmax  float64
}

func main() {
	xmain(os.Args[1:])
}

func xmain(args []string) {
	log.SetPrefix("femto-trio: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("femto-trio", flag.ExitOnError)

		oname   = fset.String("o", "trio.root", "path to output ROOT file")
		yoda    = fset.String("yoda", "", "path to output YODA file")
		freq    = fset.Int("freq", 1000, "frequency of progress messages")
		species = fset.String("species", "pi+", "comma-separated list of the species of the trio collections")
		mixing  = fset.Bool("mix", true, "enable event mixing")
		zmin    = fset.Float64("z-min", -10, "min z-vertex (cm)")
		zmax    = fset.Float64("z-max", +10, "max z-vertex (cm)")
		multMin = fset.Int("mult-min", 3, "min event multiplicity")
		ptMin   = fset.Float64("pt-min", 0.1, "min transverse momentum (GeV)")
		ptMax   = fset.Float64("pt-max", 2.0, "max transverse momentum (GeV)")
		etaMin  = fset.Float64("eta-min", -0.8, "min pseudorapidity")
		etaMax  = fset.Float64("eta-max", +0.8, "max pseudorapidity")
		nbins   = fset.Int("nbins", 50, "number of Q3 bins")
		qmax    = fset.Float64("q-max", 1.0, "upper bound of Q3 (GeV)")
	)

	fset.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	if fset.NArg() == 0 {
		fset.Usage()
		log.Fatalf("missing path to input file")
	}

	sps, err := parseSpecies(*species)
	if err != nil {
		log.Fatalf("could not parse species: %+v", err)
	}

	cfg := config{
		oname:   *oname,
		yoda:    *yoda,
		freq:    *freq,
		species: sps,
		mixing:  *mixing,
		zmin:    *zmin,
		zmax:    *zmax,
		multMin: *multMin,
		ptMin:   *ptMin,
		ptMax:   *ptMax,
		etaMin:  *etaMin,
		etaMax:  *etaMax,
		nbins:   *nbins,
		qmax:    *qmax,
	}

	err = process(cfg, fset.Args())
	if err != nil {
		log.Fatalf("could not build trios: %+v", err)
	}
}

func parseSpecies(s string) ([]femto.Species, error) {
	toks := strings.Split(s, ",")
	if len(toks) > 3 {
		return nil, fmt.Errorf("too many species (%d > 3)", len(toks))
	}
	sps := make([]femto.Species, len(toks))
	for i, tok := range toks {
		sp, err := femto.ParseSpecies(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		sps[i] = sp
	}
	return sps, nil
}

func newAnalysis(cfg config, fct femto.TrioFctn) (*femto.Analysis, error) {
	if n := len(cfg.species); n < 1 || n > 3 {
		return nil, fmt.Errorf("invalid number of species (%d)", n)
	}

	cuts := make([]femto.ParticleCut, len(cfg.species))
	for i, sp := range cfg.species {
		cuts[i] = femto.NewKinematicCut(
			fmt.Sprintf("cut%d", i+1), sp,
			cfg.ptMin, cfg.ptMax, cfg.etaMin, cfg.etaMax,
		)
	}

	var (
		sps  = [3]femto.Species{}
		opts = []femto.Option{
			femto.WithFreq(cfg.freq),
			femto.WithLogger(log.New(os.Stdout, "femto-trio: ", 0)),
			femto.WithMixing(cfg.mixing),
			femto.WithFctn(fct),
		}
	)
	copy(sps[:], cfg.species)
	opts = append(opts, femto.WithSpecies(sps[0], sps[1], sps[2]))
	if len(cuts) > 1 {
		opts = append(opts, femto.WithSecondCut(cuts[1]))
	}
	if len(cuts) > 2 {
		opts = append(opts, femto.WithThirdCut(cuts[2]))
	}

	evtCut := femto.NewVertexCut(cfg.zmin, cfg.zmax, cfg.multMin)
	return femto.NewAnalysis(evtCut, cuts[0], opts...)
}

func process(cfg config, fnames []string) error {
	if cfg.nbins <= 0 || !(cfg.qmax > 0) {
		return fmt.Errorf("invalid Q3 binning (nbins=%d, max=%v)", cfg.nbins, cfg.qmax)
	}

	fct := femto.NewQ3Fctn("Q3", cfg.nbins, 0, cfg.qmax)
	ana, err := newAnalysis(cfg, fct)
	if err != nil {
		return fmt.Errorf("could not create trio analysis: %w", err)
	}

	for _, fname := range fnames {
		err := func() error {
			r, err := lcio.Open(fname)
			if err != nil {
				return fmt.Errorf("could not open LCIO file: %w", err)
			}
			defer r.Close()

			return xcnv.Loop(r, func(raw *lcio.Event) error {
				// mixed trios refer to the particles of buffered events.
				evt := new(femto.Event)
				err := xcnv.FemtoEvent(evt, raw)
				if err != nil {
					return fmt.Errorf("could not convert event %d: %w", raw.EventNumber, err)
				}
				ana.Process(evt)
				return nil
			})
		}()
		if err != nil {
			return fmt.Errorf("could not process %q: %w", fname, err)
		}
	}

	stats := ana.Stats()
	log.Printf(
		"events: %d (passed: %d), trios: real=%d, mixed=%d",
		stats.Processed, stats.Passed, stats.Real, stats.Mixed,
	)

	corr := correlation(fct.Num, fct.Den)
	corr.Annotation()["name"] = "CQ3"

	err = save(cfg.oname, ana.Histograms(), corr)
	if err != nil {
		return fmt.Errorf("could not save output: %w", err)
	}

	if cfg.yoda != "" {
		err = saveYODA(cfg.yoda, ana.Histograms(), corr)
		if err != nil {
			return fmt.Errorf("could not save YODA output: %w", err)
		}
	}

	return nil
}

// correlation returns the ratio of the real and mixed distributions,
// each normalized to unit integral. Bins without entries are skipped.
func correlation(num, den *hbook.H1D) *hbook.S2D {
	var (
		nsum = num.SumW()
		dsum = den.SumW()
		pts  []hbook.Point2D
	)
	if nsum <= 0 || dsum <= 0 {
		return hbook.NewS2D()
	}

	for i := 0; i < num.Len(); i++ {
		var (
			bin = num.Binning.Bins[i]
			n   = bin.SumW()
			d   = den.Binning.Bins[i].SumW()
		)
		if n <= 0 || d <= 0 {
			continue
		}
		var (
			v  = (n / nsum) / (d / dsum)
			dx = 0.5 * bin.XWidth()
			dy = v * math.Sqrt(1/n+1/d)
		)
		pts = append(pts, hbook.Point2D{
			X:    bin.XMid(),
			Y:    v,
			ErrX: hbook.Range{Min: dx, Max: dx},
			ErrY: hbook.Range{Min: dy, Max: dy},
		})
	}
	return hbook.NewS2D(pts...)
}

func save(oname string, hs []*hbook.H1D, corr *hbook.S2D) error {
	f, err := groot.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create output ROOT file: %w", err)
	}
	defer f.Close()

	err = xroot.WriteH1Ds(f, hs...)
	if err != nil {
		return err
	}

	if corr.Len() > 0 {
		err = xroot.WriteS2Ds(f, corr)
		if err != nil {
			return err
		}
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close output ROOT file: %w", err)
	}
	return nil
}

func saveYODA(oname string, hs []*hbook.H1D, corr *hbook.S2D) error {
	f, err := os.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create YODA file: %w", err)
	}
	defer f.Close()

	vs := make([]xroot.YODAMarshaler, 0, len(hs)+1)
	for _, h := range hs {
		vs = append(vs, h)
	}
	if corr.Len() > 0 {
		vs = append(vs, corr)
	}

	err = xroot.WriteYODA(f, vs...)
	if err != nil {
		return err
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close YODA file: %w", err)
	}
	return nil
}
