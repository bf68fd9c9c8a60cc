// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lcio-dump displays the analysis content of generated events stored in
// LCIO files.
//
// Usage: lcio-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> lcio-dump -n 1 ./toy.slcio
//	=== run 1, evt 0 ===
//	z-vertex:       -2.3179
//	centrality:     45.8137
//	particles:          500
//	  pi+       203
//	  pi-       197
//	  K+         31
//	  [...]
package main // import "github.com/go-lpc/pwg/cmd/lcio-dump"

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/pwg/femto"
	"github.com/go-lpc/pwg/flow"
	"github.com/go-lpc/pwg/internal/xcnv"
	"go-hep.org/x/hep/lcio"
)

const usage = `lcio-dump displays the analysis content of generated events stored in LCIO files.

Usage: lcio-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> lcio-dump -n 1 ./toy.slcio
 === run 1, evt 0 ===
 z-vertex:       -2.3179
 centrality:     45.8137
 particles:          500
   pi+       203
   pi-       197
   K+         31
 [...]

Options:
`

var errStop = errors.New("lcio-dump: stop")

func main() {
	xmain(os.Stdout, os.Args[1:])
}

func xmain(w io.Writer, args []string) {
	log.SetPrefix("lcio-dump: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("lcio-dump", flag.ExitOnError)

		nmax = fset.Int("n", -1, "number of events to display per file (-1: all)")
	)

	fset.Usage = func() {
		fmt.Print(usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	if fset.NArg() == 0 {
		fset.Usage()
		log.Fatalf("missing path to input LCIO file")
	}

	for _, fname := range fset.Args() {
		err := process(w, fname, *nmax)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func process(w io.Writer, fname string, nmax int) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	r, err := lcio.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open LCIO file: %w", err)
	}
	defer r.Close()

	var (
		n    = 0
		fevt flow.Event
		tevt femto.Event
	)
	err = xcnv.Loop(r, func(evt *lcio.Event) error {
		if nmax >= 0 && n >= nmax {
			return errStop
		}
		n++

		err := xcnv.FlowEvent(&fevt, evt)
		if err != nil {
			return fmt.Errorf("could not convert event %d: %w", evt.EventNumber, err)
		}
		err = xcnv.FemtoEvent(&tevt, evt)
		if err != nil {
			return fmt.Errorf("could not convert event %d: %w", evt.EventNumber, err)
		}

		var counts [femto.AntiProton + 1]int
		for i := range tevt.Particles {
			counts[femto.FromPDG(tevt.Particles[i].PDG)]++
		}

		fmt.Fprintf(wbuf, "=== run %d, evt %d ===\n", evt.RunNumber, evt.EventNumber)
		fmt.Fprintf(wbuf, "z-vertex:   % 10.4f\n", fevt.ZVtx)
		fmt.Fprintf(wbuf, "centrality: % 10.4f\n", fevt.Cent)
		fmt.Fprintf(wbuf, "particles:  % 10d\n", len(fevt.Particles))
		for sp := femto.PionPlus; sp <= femto.AntiProton; sp++ {
			fmt.Fprintf(wbuf, "  %-6s % 6d\n", sp, counts[sp])
		}
		if counts[femto.Unknown] > 0 {
			fmt.Fprintf(wbuf, "  %-6s % 6d\n", femto.Unknown, counts[femto.Unknown])
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return err
	}

	return nil
}
