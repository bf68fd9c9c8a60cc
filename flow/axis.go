// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"fmt"
	"math"
)

// Axis is a uniform binning of [Min, Max) into N bins.
type Axis struct {
	N   int     `yaml:"bins"`
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// NewAxis returns a uniform axis of n bins over [min, max).
func NewAxis(n int, min, max float64) Axis {
	return Axis{N: n, Min: min, Max: max}
}

// Width returns the width of a bin.
func (a Axis) Width() float64 {
	return (a.Max - a.Min) / float64(a.N)
}

// FindBin returns the 0-based index of the bin holding x,
// or -1 if x is outside of [Min, Max).
func (a Axis) FindBin(x float64) int {
	if !(x >= a.Min && x < a.Max) {
		return -1
	}
	i := int(math.Floor((x - a.Min) / a.Width()))
	if i >= a.N {
		// rounding at the upper edge.
		return -1
	}
	return i
}

// Center returns the center of the i-th bin.
func (a Axis) Center(i int) float64 {
	return a.Min + (float64(i)+0.5)*a.Width()
}

// Contains returns whether x is within [Min, Max).
func (a Axis) Contains(x float64) bool {
	return a.FindBin(x) >= 0
}

func (a Axis) validate(name string) error {
	switch {
	case a.N <= 0:
		return fmt.Errorf("flow: invalid number of bins for %s axis (n=%d)", name, a.N)
	case !(a.Min < a.Max):
		return fmt.Errorf("flow: invalid range for %s axis (min=%v, max=%v)", name, a.Min, a.Max)
	}
	return nil
}
