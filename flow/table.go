// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"fmt"
	"sort"
)

// Key locates a cell of a cumulant table.
type Key struct {
	Sample int
	Vertex int // z-vertex bin
	Eta    int // eta bin
	Cent   int // centrality bin
	Kind   Kind
}

// Table is a sparse 5-dimensional cumulant table, binned in
// (sample, z-vertex, eta, centrality, kind).
type Table struct {
	Name    string
	Samples int
	Vertex  Axis
	Eta     Axis
	Cent    Axis

	cells map[Key]float64
}

// NewTable creates an empty cumulant table.
func NewTable(name string, samples int, vtx, eta, cent Axis) *Table {
	return &Table{
		Name:    name,
		Samples: samples,
		Vertex:  vtx,
		Eta:     eta,
		Cent:    cent,
		cells:   make(map[Key]float64),
	}
}

// Fill adds v to the cell holding (sample, zvtx, eta, cent, kind).
// Entries outside of the table are dropped.
func (t *Table) Fill(sample int, zvtx, eta, cent float64, kind Kind, v float64) {
	key := Key{
		Sample: sample,
		Vertex: t.Vertex.FindBin(zvtx),
		Eta:    t.Eta.FindBin(eta),
		Cent:   t.Cent.FindBin(cent),
		Kind:   kind,
	}
	if !t.valid(key) {
		return
	}
	t.cells[key] += v
}

func (t *Table) valid(key Key) bool {
	return 0 <= key.Sample && key.Sample < t.Samples &&
		0 <= key.Vertex && key.Vertex < t.Vertex.N &&
		0 <= key.Eta && key.Eta < t.Eta.N &&
		0 <= key.Cent && key.Cent < t.Cent.N &&
		key.Kind < nKinds
}

// At returns the content of the cell at key.
func (t *Table) At(key Key) float64 {
	return t.cells[key]
}

// Add adds v to the cell at key.
func (t *Table) Add(key Key, v float64) error {
	if !t.valid(key) {
		return fmt.Errorf("flow: key %+v out of range for table %q", key, t.Name)
	}
	t.cells[key] += v
	return nil
}

// Len returns the number of filled cells.
func (t *Table) Len() int { return len(t.cells) }

// Keys returns the keys of the filled cells, in a deterministic order.
func (t *Table) Keys() []Key {
	keys := make([]Key, 0, len(t.cells))
	for k := range t.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		switch {
		case a.Sample != b.Sample:
			return a.Sample < b.Sample
		case a.Vertex != b.Vertex:
			return a.Vertex < b.Vertex
		case a.Eta != b.Eta:
			return a.Eta < b.Eta
		case a.Cent != b.Cent:
			return a.Cent < b.Cent
		default:
			return a.Kind < b.Kind
		}
	})
	return keys
}

// Merge adds the content of o into t.
func (t *Table) Merge(o *Table) error {
	if t.Samples != o.Samples || t.Vertex != o.Vertex || t.Eta != o.Eta || t.Cent != o.Cent {
		return fmt.Errorf("flow: could not merge table %q: incompatible binning", o.Name)
	}
	for k, v := range o.cells {
		t.cells[k] += v
	}
	return nil
}

// Output holds the reference and differential cumulant tables,
// one of each per analysed harmonic.
type Output struct {
	Harmonics []int
	Ref       []*Table
	Diff      []*Table
}

// RefName returns the name of the reference table of harmonic n.
func RefName(n int) string { return fmt.Sprintf("cumuRef_v%d", n) }

// DiffName returns the name of the differential table of harmonic n.
func DiffName(n int) string { return fmt.Sprintf("cumuDiff_v%d", n) }

// NewOutput creates empty cumulant tables for the analysis settings cfg.
func NewOutput(cfg Settings) *Output {
	out := &Output{
		Harmonics: append([]int(nil), cfg.Harmonics...),
		Ref:       make([]*Table, len(cfg.Harmonics)),
		Diff:      make([]*Table, len(cfg.Harmonics)),
	}
	for i, n := range cfg.Harmonics {
		out.Ref[i] = NewTable(RefName(n), cfg.Samples, cfg.Vertex, cfg.RefEta, cfg.Cent)
		out.Diff[i] = NewTable(DiffName(n), cfg.Samples, cfg.Vertex, cfg.DiffEta, cfg.Cent)
	}
	return out
}

// Merge adds the tables of o into out.
func (out *Output) Merge(o *Output) error {
	if len(out.Harmonics) != len(o.Harmonics) {
		return fmt.Errorf("flow: could not merge outputs: harmonics mismatch")
	}
	for i, n := range out.Harmonics {
		if o.Harmonics[i] != n {
			return fmt.Errorf("flow: could not merge outputs: harmonics mismatch")
		}
		err := out.Ref[i].Merge(o.Ref[i])
		if err != nil {
			return fmt.Errorf("flow: could not merge reference v%d: %w", n, err)
		}
		err = out.Diff[i].Merge(o.Diff[i])
		if err != nil {
			return fmt.Errorf("flow: could not merge differential v%d: %w", n, err)
		}
	}
	return nil
}
