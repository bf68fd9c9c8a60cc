// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package conddb holds types to retrieve the correction tables of the
// flow analysis from the condition database.
package conddb // import "github.com/go-lpc/pwg/conddb"

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-lpc/pwg/flow"
	_ "github.com/go-sql-driver/mysql"
)

var (
	drvName = "mysql"
)

// ErrNotFound is returned when a requested entry is not in the database.
var ErrNotFound = errors.New("conddb: not found")

// Kind is the kind of a correction table.
type Kind string

const (
	NUACentral Kind = "nua-central" // NUA weights of the central detector
	NUAForward Kind = "nua-forward" // NUA weights of the forward detector
	SecForward Kind = "sec-forward" // secondary-particle corrections of the forward detector
)

// Kinds lists all the kinds of correction tables.
var Kinds = []Kind{NUACentral, NUAForward, SecForward}

// Period is a data-taking period, spanning a range of runs.
type Period struct {
	Name   string
	RunMin int64
	RunMax int64
}

// DB exposes convenience methods to easily retrieve correction tables
// from the condition database.
type DB struct {
	db   *sql.DB
	name string // name of the condition database
}

// Open opens a connection to the condition database dbname.
//
// The credentials and the host are taken from the PWG_DB_USER,
// PWG_DB_PASS and PWG_DB_HOST environment variables.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("conddb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("conddb: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	var (
		usr  = getenv("PWG_DB_USER", "username")
		pwd  = getenv("PWG_DB_PASS", "s3cr3t")
		host = getenv("PWG_DB_HOST", "localhost")
	)
	return fmt.Sprintf("%s:%s@tcp(%s)/%s", usr, pwd, host, db)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("conddb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// LastPeriod returns the name of the most recent data-taking period.
func (db *DB) LastPeriod(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	name := ""
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT name FROM periods ORDER BY datetime DESC LIMIT 1",
	)
	if err != nil {
		return name, fmt.Errorf("conddb: could not query last period: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		err = rows.Scan(&name)
		if err != nil {
			return name, fmt.Errorf("conddb: could not get last period value: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return name, fmt.Errorf("conddb: could not scan db for last period: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return name, fmt.Errorf("conddb: context error while retrieving last period: %w", err)
	}

	if name == "" {
		return name, fmt.Errorf("conddb: could not find last period: %w", ErrNotFound)
	}

	return name, nil
}

// PeriodOf returns the name of the data-taking period holding run.
func (db *DB) PeriodOf(ctx context.Context, run int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	name := ""
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT name FROM periods WHERE run_min<=? AND run_max>=? LIMIT 1",
		run, run,
	)
	if err != nil {
		return name, fmt.Errorf("conddb: could not query period of run %d: %w", run, err)
	}
	defer rows.Close()

	for rows.Next() {
		err = rows.Scan(&name)
		if err != nil {
			return name, fmt.Errorf("conddb: could not get period of run %d: %w", run, err)
		}
	}

	if err := rows.Err(); err != nil {
		return name, fmt.Errorf("conddb: could not scan db for period of run %d: %w", run, err)
	}

	if err := ctx.Err(); err != nil {
		return name, fmt.Errorf("conddb: context error while retrieving period of run %d: %w", run, err)
	}

	if name == "" {
		return name, fmt.Errorf("conddb: could not find period of run %d: %w", run, ErrNotFound)
	}

	return name, nil
}

// Periods returns all the data-taking periods, ordered by run.
func (db *DB) Periods(ctx context.Context) ([]Period, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ps []Period
	rows, err := db.db.QueryContext(ctx, "SELECT name, run_min, run_max FROM periods ORDER BY run_min")
	if err != nil {
		return ps, fmt.Errorf(
			"conddb: could not run periods query: %w",
			err,
		)
	}
	defer rows.Close()

	for rows.Next() {
		var p Period
		err = rows.Scan(&p.Name, &p.RunMin, &p.RunMax)
		if err != nil {
			return ps, fmt.Errorf(
				"conddb: could not scan periods: %w",
				err,
			)
		}
		ps = append(ps, p)
	}

	if err := rows.Err(); err != nil {
		return ps, fmt.Errorf(
			"conddb: could not scan db for periods: %w",
			err,
		)
	}

	if err := ctx.Err(); err != nil {
		return ps, fmt.Errorf(
			"conddb: context error while retrieving periods: %w",
			err,
		)
	}

	return ps, nil
}

// Table returns the correction table of the given kind for a period.
// ErrNotFound is returned, wrapped, when the period has no such table.
func (db *DB) Table(ctx context.Context, period string, kind Kind) (*flow.Table3D, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := db.db.QueryContext(
		ctx,
		`
SELECT nx, xmin, xmax, ny, ymin, ymax, nz, zmin, zmax, data
FROM corrections
WHERE (
	period=? AND kind=?
)
LIMIT 1
`,
		period, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("conddb: could not run %s table query: %w", kind, err)
	}
	defer rows.Close()

	var tbl *flow.Table3D
	for rows.Next() {
		var (
			x, y, z flow.Axis
			blob    []byte
		)
		err = rows.Scan(
			&x.N, &x.Min, &x.Max,
			&y.N, &y.Min, &y.Max,
			&z.N, &z.Min, &z.Max,
			&blob,
		)
		if err != nil {
			return nil, fmt.Errorf("conddb: could not scan %s table: %w", kind, err)
		}

		tbl, err = decode(x, y, z, blob)
		if err != nil {
			return nil, fmt.Errorf("conddb: could not decode %s table of period %q: %w", kind, period, err)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conddb: could not scan db for %s table: %w", kind, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("conddb: context error while retrieving %s table: %w", kind, err)
	}

	if tbl == nil {
		return nil, fmt.Errorf("conddb: could not find %s table of period %q: %w", kind, period, ErrNotFound)
	}

	return tbl, nil
}

// Corrections returns the correction tables of a period.
// Tables missing from the database are left nil.
func (db *DB) Corrections(ctx context.Context, period string) (flow.Corrections, error) {
	var (
		corr flow.Corrections
		dsts = map[Kind]**flow.Table3D{
			NUACentral: &corr.NUACentral,
			NUAForward: &corr.NUAForward,
			SecForward: &corr.SecForward,
		}
	)

	for _, kind := range Kinds {
		tbl, err := db.Table(ctx, period, kind)
		switch {
		case errors.Is(err, ErrNotFound):
			continue
		case err != nil:
			return corr, fmt.Errorf("conddb: could not retrieve corrections of period %q: %w", period, err)
		}
		*dsts[kind] = tbl
	}

	err := corr.Validate()
	if err != nil {
		return corr, fmt.Errorf("conddb: invalid corrections for period %q: %w", period, err)
	}

	return corr, nil
}

// decode unpacks a table stored as little-endian float64 values,
// in the Table3D.Data order.
func decode(x, y, z flow.Axis, blob []byte) (*flow.Table3D, error) {
	if x.N <= 0 || y.N <= 0 || z.N <= 0 {
		return nil, fmt.Errorf("invalid table shape (%d, %d, %d)", x.N, y.N, z.N)
	}

	n := x.N * y.N * z.N
	if len(blob) != 8*n {
		return nil, fmt.Errorf("invalid table size (got=%d bytes, want=%d)", len(blob), 8*n)
	}

	tbl := flow.NewTable3D(x, y, z)
	for i := range tbl.Data {
		tbl.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}
	return tbl, nil
}

// Encode packs the content of a table for storage in the database.
func Encode(tbl *flow.Table3D) []byte {
	blob := make([]byte, 8*len(tbl.Data))
	for i, v := range tbl.Data {
		binary.LittleEndian.PutUint64(blob[8*i:], math.Float64bits(v))
	}
	return blob
}

// PutTable stores the correction table of the given kind for a period.
func (db *DB) PutTable(ctx context.Context, period string, kind Kind, tbl *flow.Table3D) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.db.ExecContext(
		ctx,
		`
REPLACE INTO corrections
(period, kind, nx, xmin, xmax, ny, ymin, ymax, nz, zmin, zmax, data)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		period, string(kind),
		tbl.X.N, tbl.X.Min, tbl.X.Max,
		tbl.Y.N, tbl.Y.Min, tbl.Y.Max,
		tbl.Z.N, tbl.Z.Min, tbl.Z.Max,
		Encode(tbl),
	)
	if err != nil {
		return fmt.Errorf("conddb: could not store %s table of period %q: %w", kind, period, err)
	}

	return nil
}
