// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import "fmt"

// Table3D is a dense 3-dimensional table of correction factors.
type Table3D struct {
	X    Axis      `yaml:"x"`
	Y    Axis      `yaml:"y"`
	Z    Axis      `yaml:"z"`
	Data []float64 `yaml:"data,flow"` // x runs fastest
}

// NewTable3D creates a zeroed table with the provided binning.
func NewTable3D(x, y, z Axis) *Table3D {
	return &Table3D{
		X:    x,
		Y:    y,
		Z:    z,
		Data: make([]float64, x.N*y.N*z.N),
	}
}

func (t *Table3D) index(ix, iy, iz int) int {
	return (iz*t.Y.N+iy)*t.X.N + ix
}

func (t *Table3D) inside(ix, iy, iz int) bool {
	return 0 <= ix && ix < t.X.N &&
		0 <= iy && iy < t.Y.N &&
		0 <= iz && iz < t.Z.N
}

// Bin returns the content of bin (ix, iy, iz).
// Bins outside of the table are empty.
func (t *Table3D) Bin(ix, iy, iz int) float64 {
	if !t.inside(ix, iy, iz) {
		return 0
	}
	return t.Data[t.index(ix, iy, iz)]
}

// SetBin sets the content of bin (ix, iy, iz).
func (t *Table3D) SetBin(ix, iy, iz int, v float64) {
	if !t.inside(ix, iy, iz) {
		panic(fmt.Errorf("flow: table bin (%d,%d,%d) out of range", ix, iy, iz))
	}
	t.Data[t.index(ix, iy, iz)] = v
}

// At returns the content of the bin holding (x, y, z).
// Coordinates outside of the table read back as zero.
func (t *Table3D) At(x, y, z float64) float64 {
	return t.Bin(t.X.FindBin(x), t.Y.FindBin(y), t.Z.FindBin(z))
}

func (t *Table3D) validate() error {
	for _, v := range []struct {
		name string
		axis Axis
	}{
		{"x", t.X}, {"y", t.Y}, {"z", t.Z},
	} {
		if err := v.axis.validate(v.name); err != nil {
			return err
		}
	}
	if got, want := len(t.Data), t.X.N*t.Y.N*t.Z.N; got != want {
		return fmt.Errorf("flow: invalid table size (got=%d, want=%d)", got, want)
	}
	return nil
}

// Corrections holds the optional correction tables applied to weight maps.
// A nil table disables the corresponding correction.
type Corrections struct {
	NUACentral *Table3D // (eta, phi, zvtx) acceptance factors for the central detector
	NUAForward *Table3D // (eta, phi, zvtx) acceptance factors for the forward detector
	SecForward *Table3D // (eta, zvtx, n-2) secondary-particle factors for the forward detector
}

// Validate checks the consistency of the non-nil tables.
func (c Corrections) Validate() error {
	for _, v := range []struct {
		name  string
		table *Table3D
	}{
		{"nua-central", c.NUACentral},
		{"nua-forward", c.NUAForward},
		{"sec-forward", c.SecForward},
	} {
		if v.table == nil {
			continue
		}
		if err := v.table.validate(); err != nil {
			return fmt.Errorf("flow: invalid %s table: %w", v.name, err)
		}
	}
	return nil
}
