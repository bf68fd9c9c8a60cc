// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command flow-gen generates toy events with a chosen azimuthal
// anisotropy and stores them in an LCIO file.
//
// Usage: flow-gen [OPTIONS]
//
// Example:
//
//	$> flow-gen -o toy.slcio -n 1000 -v2 0.1 -v3 0.05
package main // import "github.com/go-lpc/pwg/cmd/flow-gen"

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-lpc/pwg/internal/toymc"
	"github.com/go-lpc/pwg/internal/xcnv"
	"go-hep.org/x/hep/lcio"
)

const usage = `flow-gen generates toy events with a chosen azimuthal anisotropy.

Usage: flow-gen [OPTIONS]

Example:

 $> flow-gen -o toy.slcio -n 1000 -v2 0.1 -v3 0.05

Options:
`

type config struct {
	oname  string
	run    int
	nevts  int
	mult   int
	seed   uint64
	vn     map[int]float64
	etaMin float64
	etaMax float64
	sigmaZ float64
}

func main() {
	xmain(os.Args[1:])
}

func xmain(args []string) {
	log.SetPrefix("flow-gen: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("flow-gen", flag.ExitOnError)

		oname  = fset.String("o", "toy.slcio", "path to output LCIO file")
		run    = fset.Int("run", 1, "run number")
		nevts  = fset.Int("n", 1000, "number of events to generate")
		mult   = fset.Int("mult", 500, "number of particles per event")
		seed   = fset.Uint64("seed", 1234, "seed of the random number generator")
		v2     = fset.Float64("v2", 0.1, "elliptic flow coefficient")
		v3     = fset.Float64("v3", 0, "triangular flow coefficient")
		v4     = fset.Float64("v4", 0, "quadrangular flow coefficient")
		etaMin = fset.Float64("eta-min", -4, "minimum pseudorapidity")
		etaMax = fset.Float64("eta-max", 6, "maximum pseudorapidity")
		sigmaZ = fset.Float64("sigma-z", 4, "spread of the z-vertex (cm)")
	)

	fset.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	cfg := config{
		oname:  *oname,
		run:    *run,
		nevts:  *nevts,
		mult:   *mult,
		seed:   *seed,
		vn:     make(map[int]float64),
		etaMin: *etaMin,
		etaMax: *etaMax,
		sigmaZ: *sigmaZ,
	}
	for n, v := range map[int]float64{2: *v2, 3: *v3, 4: *v4} {
		if v != 0 {
			cfg.vn[n] = v
		}
	}

	err = process(cfg)
	if err != nil {
		log.Fatalf("could not generate toy events: %+v", err)
	}
}

func process(cfg config) error {
	switch {
	case cfg.nevts <= 0:
		return fmt.Errorf("invalid number of events (n=%d)", cfg.nevts)
	case cfg.mult <= 0:
		return fmt.Errorf("invalid multiplicity (mult=%d)", cfg.mult)
	case cfg.etaMin >= cfg.etaMax:
		return fmt.Errorf("invalid eta range [%v, %v]", cfg.etaMin, cfg.etaMax)
	}
	for n, v := range cfg.vn {
		if v < 0 || v > 0.5 {
			return fmt.Errorf("invalid flow coefficient v%d=%v", n, v)
		}
	}

	opts := []toymc.Option{
		toymc.WithSeed(cfg.seed),
		toymc.WithMultiplicity(cfg.mult),
		toymc.WithEtaRange(cfg.etaMin, cfg.etaMax),
		toymc.WithVertexSpread(cfg.sigmaZ),
	}
	for n, v := range cfg.vn {
		opts = append(opts, toymc.WithFlow(n, v))
	}

	w, err := lcio.Create(cfg.oname)
	if err != nil {
		return fmt.Errorf("could not create output LCIO file: %w", err)
	}
	defer w.Close()

	w.SetCompressionLevel(1)

	msg := log.New(os.Stdout, "flow-gen: ", 0)
	err = xcnv.Toy2LCIO(w, toymc.New(opts...), int32(cfg.run), cfg.nevts, cfg.vn, msg)
	if err != nil {
		return fmt.Errorf("could not write toy events: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("could not close output LCIO file: %w", err)
	}

	return nil
}
