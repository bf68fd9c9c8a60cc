// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xroot provides tools to store the outputs of the analyses
// in ROOT and YODA files.
package xroot // import "github.com/go-lpc/pwg/internal/xroot"

import (
	"fmt"

	"go-hep.org/x/hep/groot/rbase"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/hbook"
)

func hname(ann hbook.Annotation, i int) string {
	if v, ok := ann["name"]; ok {
		if name, ok := v.(string); ok && name != "" {
			return name
		}
	}
	return fmt.Sprintf("h%03d", i)
}

// WriteH1Ds stores the histograms hs in dir, under their "name" annotation.
func WriteH1Ds(dir riofs.Directory, hs ...*hbook.H1D) error {
	for i, h := range hs {
		name := hname(h.Annotation(), i)
		err := dir.Put(name, rhist.NewH1DFrom(h))
		if err != nil {
			return fmt.Errorf("xroot: could not store histogram %q: %w", name, err)
		}
	}
	return nil
}

// WriteH2Ds stores the histograms hs in dir, under their "name" annotation.
func WriteH2Ds(dir riofs.Directory, hs ...*hbook.H2D) error {
	for i, h := range hs {
		name := hname(h.Annotation(), i)
		err := dir.Put(name, rhist.NewH2DFrom(h))
		if err != nil {
			return fmt.Errorf("xroot: could not store histogram %q: %w", name, err)
		}
	}
	return nil
}

// WriteS2Ds stores the scatters ss in dir as graphs with asymmetric
// errors, under their "name" annotation.
func WriteS2Ds(dir riofs.Directory, ss ...*hbook.S2D) error {
	for i, s := range ss {
		name := hname(s.Annotation(), i)
		err := dir.Put(name, rhist.NewGraphAsymmErrorsFrom(s))
		if err != nil {
			return fmt.Errorf("xroot: could not store scatter %q: %w", name, err)
		}
	}
	return nil
}

func putString(dir riofs.Directory, name, v string) error {
	return dir.Put(name, rbase.NewObjString(v))
}

func getString(dir riofs.Directory, name string) (string, error) {
	o, err := dir.Get(name)
	if err != nil {
		return "", err
	}
	str, ok := o.(*rbase.ObjString)
	if !ok {
		return "", fmt.Errorf("invalid type %T for %q", o, name)
	}
	return str.String(), nil
}
