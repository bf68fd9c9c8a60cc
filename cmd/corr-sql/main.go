// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command corr-sql inspects and fills the correction tables of the
// condition database.
//
// Usage: corr-sql [OPTIONS]
//
// Example:
//
//	$> corr-sql                       # list periods and the tables of the last one
//	$> corr-sql -run 245145           # tables of the period holding run 245145
//	$> corr-sql -period LHC15o -kind nua-central -import nua.yaml
package main // import "github.com/go-lpc/pwg/cmd/corr-sql"

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-lpc/pwg/conddb"
	"github.com/go-lpc/pwg/flow"
	"gopkg.in/yaml.v3"
)

const usage = `corr-sql inspects and fills the correction tables of the condition database.

Usage: corr-sql [OPTIONS]

Example:

 $> corr-sql
 $> corr-sql -run 245145
 $> corr-sql -period LHC15o -kind nua-central -import nua.yaml

Options:
`

type condDB interface {
	LastPeriod(ctx context.Context) (string, error)
	PeriodOf(ctx context.Context, run int64) (string, error)
	Periods(ctx context.Context) ([]conddb.Period, error)
	Table(ctx context.Context, period string, kind conddb.Kind) (*flow.Table3D, error)
	PutTable(ctx context.Context, period string, kind conddb.Kind, tbl *flow.Table3D) error
}

func main() {
	xmain(os.Args[1:])
}

func xmain(args []string) {
	log.SetPrefix("corr-sql: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("corr-sql", flag.ExitOnError)

		dbname = fset.String("db", "pwgcond", "name of the condition DB")
		period = fset.String("period", "", "data-taking period to inspect (default: last period)")
		run    = fset.Int64("run", -1, "run number whose period is inspected")
		kind   = fset.String("kind", "", "kind of the table to import")
		fname  = fset.String("import", "", "path to a YAML correction table to import")
	)

	fset.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	db, err := conddb.Open(*dbname)
	if err != nil {
		log.Fatalf("could not open condition db: %+v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	switch *fname {
	case "":
		err = inspect(ctx, os.Stdout, db, *period, *run)
		if err != nil {
			log.Fatalf("could not inspect condition db: %+v", err)
		}
	default:
		err = importTable(ctx, db, *period, conddb.Kind(*kind), *fname)
		if err != nil {
			log.Fatalf("could not import table: %+v", err)
		}
	}
}

// inspect lists the periods and describes the tables of the selected period.
func inspect(ctx context.Context, w io.Writer, db condDB, period string, run int64) error {
	ps, err := db.Periods(ctx)
	if err != nil {
		return fmt.Errorf("could not retrieve periods: %w", err)
	}
	fmt.Fprintf(w, "periods: %d\n", len(ps))
	for _, p := range ps {
		fmt.Fprintf(w, "  - %-8s runs=[%d, %d]\n", p.Name, p.RunMin, p.RunMax)
	}

	switch {
	case period != "":
	case run >= 0:
		period, err = db.PeriodOf(ctx, run)
		if err != nil {
			return fmt.Errorf("could not find period of run %d: %w", run, err)
		}
	default:
		period, err = db.LastPeriod(ctx)
		if err != nil {
			return fmt.Errorf("could not find last period: %w", err)
		}
	}

	fmt.Fprintf(w, "period %q:\n", period)
	for _, kind := range conddb.Kinds {
		tbl, err := db.Table(ctx, period, kind)
		switch {
		case errors.Is(err, conddb.ErrNotFound):
			fmt.Fprintf(w, "  - %-12s n/a\n", kind)
			continue
		case err != nil:
			return fmt.Errorf("could not retrieve %s table: %w", kind, err)
		}
		fmt.Fprintf(w, "  - %-12s %s\n", kind, shape(tbl))
	}

	return nil
}

func shape(tbl *flow.Table3D) string {
	axis := func(a flow.Axis) string {
		return fmt.Sprintf("%d:[%g, %g)", a.N, a.Min, a.Max)
	}
	return fmt.Sprintf("x=%s y=%s z=%s", axis(tbl.X), axis(tbl.Y), axis(tbl.Z))
}

func importTable(ctx context.Context, db condDB, period string, kind conddb.Kind, fname string) error {
	if !validKind(kind) {
		return fmt.Errorf("invalid table kind %q", kind)
	}

	var err error
	if period == "" {
		period, err = db.LastPeriod(ctx)
		if err != nil {
			return fmt.Errorf("could not find last period: %w", err)
		}
	}

	tbl, err := readTable(fname)
	if err != nil {
		return err
	}

	err = db.PutTable(ctx, period, kind, tbl)
	if err != nil {
		return fmt.Errorf("could not store %s table of period %q: %w", kind, period, err)
	}
	log.Printf("stored %s table of period %q (%s)", kind, period, shape(tbl))

	return nil
}

func validKind(kind conddb.Kind) bool {
	for _, k := range conddb.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func readTable(fname string) (*flow.Table3D, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not open table file: %w", err)
	}
	defer f.Close()

	var tbl flow.Table3D
	err = yaml.NewDecoder(f).Decode(&tbl)
	if err != nil {
		return nil, fmt.Errorf("could not decode table file %q: %w", fname, err)
	}

	if got, want := len(tbl.Data), tbl.X.N*tbl.Y.N*tbl.Z.N; got != want || want == 0 {
		return nil, fmt.Errorf("invalid table size in %q (got=%d, want=%d)", fname, got, want)
	}

	return &tbl, nil
}
