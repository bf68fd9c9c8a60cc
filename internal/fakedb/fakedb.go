// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakedb holds types to fake an in-memory DB.
//
// Queries executed within Run are answered, in order, by the queued
// result sets and recorded with their arguments.
package fakedb // import "github.com/go-lpc/pwg/internal/fakedb"

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sync"
)

var state struct {
	mu      sync.Mutex // serializes Run
	qmu     sync.Mutex // protects rows and queries
	rows    []Rows
	queries []Query
}

// Query is a statement executed against the fake DB.
type Query struct {
	SQL  string
	Args []driver.Value
}

// Run runs f with the result sets rows queued for the queries f executes.
func Run(ctx context.Context, f func(ctx context.Context) error, rows ...Rows) error {
	state.mu.Lock()
	defer state.mu.Unlock()

	state.qmu.Lock()
	state.rows = rows
	state.queries = nil
	state.qmu.Unlock()

	return f(ctx)
}

// Queries returns the statements executed so far by the current Run.
func Queries() []Query {
	state.qmu.Lock()
	defer state.qmu.Unlock()
	return append([]Query(nil), state.queries...)
}

func next(query string, args []driver.Value) *Rows {
	state.qmu.Lock()
	defer state.qmu.Unlock()

	state.queries = append(state.queries, Query{
		SQL:  query,
		Args: append([]driver.Value(nil), args...),
	})

	if len(state.rows) == 0 {
		return &Rows{}
	}
	rows := state.rows[0]
	state.rows = state.rows[1:]
	rows.Values = append([][]driver.Value(nil), rows.Values...)
	return &rows
}

func init() {
	sql.Register("fakedb", &Driver{})
}

type Driver struct{}

// Open returns a new connection to the database.
func (drv *Driver) Open(name string) (driver.Conn, error) {
	return &Conn{}, nil
}

type Conn struct{}

// Prepare returns a prepared statement, bound to this connection.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &Stmt{query: query}, nil
}

// Close invalidates and potentially stops any current
// prepared statements and transactions, marking this
// connection as no longer in use.
func (c *Conn) Close() error {
	return nil
}

// Begin starts and returns a new transaction.
//
// Deprecated: Drivers should implement ConnBeginTx instead (or additionally).
func (c *Conn) Begin() (driver.Tx, error) {
	panic("not implemented")
}

type Stmt struct {
	query string
}

// Close closes the statement.
func (stmt *Stmt) Close() error {
	return nil
}

// NumInput returns the number of placeholder parameters.
//
// NumInput returns -1: the sql package will not sanity check
// Exec or Query argument counts.
func (stmt *Stmt) NumInput() int {
	return -1
}

// Exec executes a query that doesn't return rows, such
// as an INSERT or UPDATE.
//
// Deprecated: Drivers should implement StmtExecContext instead (or additionally).
func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	_ = next(stmt.query, args)
	return driver.RowsAffected(1), nil
}

// Query executes a query that may return rows, such as a
// SELECT.
//
// Deprecated: Drivers should implement StmtQueryContext instead (or additionally).
func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return next(stmt.query, args), nil
}

// Rows is a result set.
type Rows struct {
	Names  []string
	Values [][]driver.Value
}

// Columns returns the names of the columns.
func (rows *Rows) Columns() []string {
	return rows.Names
}

// Close closes the rows iterator.
func (rows *Rows) Close() error {
	return nil
}

// Next is called to populate the next row of data into
// the provided slice. The provided slice will be the same
// size as the Columns() are wide.
//
// Next returns io.EOF when there are no more rows.
func (rows *Rows) Next(dest []driver.Value) error {
	if len(rows.Values) == 0 {
		return io.EOF
	}
	copy(dest, rows.Values[0])
	rows.Values = rows.Values[1:]
	return nil
}

var (
	_ driver.Driver = (*Driver)(nil)
	_ driver.Conn   = (*Conn)(nil)
	_ driver.Stmt   = (*Stmt)(nil)
	_ driver.Rows   = (*Rows)(nil)
)
