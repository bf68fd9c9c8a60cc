// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-lpc/pwg/conddb"
	"github.com/go-lpc/pwg/flow"
	"github.com/google/go-cmp/cmp"
)

type memDB struct {
	periods []conddb.Period
	tables  map[string]map[conddb.Kind]*flow.Table3D
}

func (db *memDB) LastPeriod(ctx context.Context) (string, error) {
	if len(db.periods) == 0 {
		return "", conddb.ErrNotFound
	}
	return db.periods[len(db.periods)-1].Name, nil
}

func (db *memDB) PeriodOf(ctx context.Context, run int64) (string, error) {
	for _, p := range db.periods {
		if p.RunMin <= run && run <= p.RunMax {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("no period for run %d: %w", run, conddb.ErrNotFound)
}

func (db *memDB) Periods(ctx context.Context) ([]conddb.Period, error) {
	return db.periods, nil
}

func (db *memDB) Table(ctx context.Context, period string, kind conddb.Kind) (*flow.Table3D, error) {
	tbl, ok := db.tables[period][kind]
	if !ok {
		return nil, fmt.Errorf("no %s table: %w", kind, conddb.ErrNotFound)
	}
	return tbl, nil
}

func (db *memDB) PutTable(ctx context.Context, period string, kind conddb.Kind, tbl *flow.Table3D) error {
	if db.tables[period] == nil {
		db.tables[period] = make(map[conddb.Kind]*flow.Table3D)
	}
	db.tables[period][kind] = tbl
	return nil
}

func newMemDB() *memDB {
	return &memDB{
		periods: []conddb.Period{
			{Name: "LHC10h", RunMin: 136851, RunMax: 139517},
			{Name: "LHC15o", RunMin: 244917, RunMax: 246994},
		},
		tables: map[string]map[conddb.Kind]*flow.Table3D{
			"LHC10h": {
				conddb.NUACentral: flow.NewTable3D(
					flow.NewAxis(20, -2, 2),
					flow.NewAxis(20, 0, 6.25),
					flow.NewAxis(10, -10, 10),
				),
			},
			"LHC15o": {
				conddb.SecForward: flow.NewTable3D(
					flow.NewAxis(200, -4, 6),
					flow.NewAxis(10, -10, 10),
					flow.NewAxis(3, 0, 3),
				),
			},
		},
	}
}

func TestInspect(t *testing.T) {
	for _, tc := range []struct {
		name   string
		period string
		run    int64
		want   []string
		err    bool
	}{
		{
			name: "last",
			run:  -1,
			want: []string{
				`period "LHC15o"`,
				"sec-forward  x=200:[-4, 6) y=10:[-10, 10) z=3:[0, 3)",
				"nua-central  n/a",
			},
		},
		{
			name: "run",
			run:  137000,
			want: []string{
				`period "LHC10h"`,
				"nua-central  x=20:[-2, 2) y=20:[0, 6.25) z=10:[-10, 10)",
				"sec-forward  n/a",
			},
		},
		{
			name:   "period",
			period: "LHC15o",
			run:    137000,
			want:   []string{`period "LHC15o"`},
		},
		{
			name: "invalid-run",
			run:  1,
			err:  true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var (
				db  = newMemDB()
				out = new(bytes.Buffer)
			)
			err := inspect(context.Background(), out, db, tc.period, tc.run)
			switch {
			case tc.err && err == nil:
				t.Fatalf("expected an error")
			case tc.err:
				return
			case err != nil:
				t.Fatalf("could not inspect db: %+v", err)
			}

			got := out.String()
			for _, want := range append(tc.want, "periods: 2", "LHC10h   runs=[136851, 139517]") {
				if !strings.Contains(got, want) {
					t.Fatalf("missing %q in output:\n%s", want, got)
				}
			}
		})
	}
}

func TestImportTable(t *testing.T) {
	tmp, err := os.MkdirTemp("", "pwg-corr-sql-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	const (
		valid = `
x: {bins: 2, min: -2, max: 2}
y: {bins: 1, min: 0, max: 6.3}
z: {bins: 1, min: -10, max: 10}
data: [1.0, 1.5]
`
		short = `
x: {bins: 2, min: -2, max: 2}
y: {bins: 1, min: 0, max: 6.3}
z: {bins: 1, min: -10, max: 10}
data: [1.0]
`
	)

	for _, tc := range []struct {
		name   string
		period string
		kind   conddb.Kind
		data   string
		err    string
	}{
		{name: "valid", period: "LHC10h", kind: conddb.NUACentral, data: valid},
		{name: "last-period", kind: conddb.NUAForward, data: valid},
		{name: "short", kind: conddb.NUAForward, data: short, err: "invalid table size"},
		{name: "kind", kind: "nua-backward", data: valid, err: "invalid table kind"},
		{name: "yaml", kind: conddb.NUAForward, data: "x: [", err: "could not decode"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fname := filepath.Join(tmp, tc.name+".yaml")
			err := os.WriteFile(fname, []byte(tc.data), 0644)
			if err != nil {
				t.Fatalf("could not create table file: %+v", err)
			}

			db := newMemDB()
			err = importTable(context.Background(), db, tc.period, tc.kind, fname)
			switch {
			case tc.err != "" && err == nil:
				t.Fatalf("expected an error")
			case tc.err != "":
				if !strings.Contains(err.Error(), tc.err) {
					t.Fatalf("invalid error: got=%q, want=%q", err.Error(), tc.err)
				}
				return
			case err != nil:
				t.Fatalf("could not import table: %+v", err)
			}

			period := tc.period
			if period == "" {
				period = "LHC15o"
			}
			got, err := db.Table(context.Background(), period, tc.kind)
			if err != nil {
				t.Fatalf("could not retrieve imported table: %+v", err)
			}

			want := &flow.Table3D{
				X:    flow.NewAxis(2, -2, 2),
				Y:    flow.NewAxis(1, 0, 6.3),
				Z:    flow.NewAxis(1, -10, 10),
				Data: []float64{1.0, 1.5},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("invalid imported table (-want +got):\n%s", diff)
			}
		})
	}
}
