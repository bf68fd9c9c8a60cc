// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xroot

import (
	"fmt"

	"github.com/go-lpc/pwg/flow"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
	"gopkg.in/yaml.v3"
)

// binning describes the binning of a cumulant table.
type binning struct {
	Samples int       `yaml:"samples"`
	Vertex  flow.Axis `yaml:"vertex"`
	Eta     flow.Axis `yaml:"eta"`
	Cent    flow.Axis `yaml:"centrality"`
}

func metaName(name string) string { return name + "_binning" }

// WriteTable stores a cumulant table in dir, as an n-tuple of its filled
// cells, along with its binning.
func WriteTable(dir riofs.Directory, tbl *flow.Table) error {
	meta, err := yaml.Marshal(binning{
		Samples: tbl.Samples,
		Vertex:  tbl.Vertex,
		Eta:     tbl.Eta,
		Cent:    tbl.Cent,
	})
	if err != nil {
		return fmt.Errorf("xroot: could not encode binning of table %q: %w", tbl.Name, err)
	}

	err = putString(dir, metaName(tbl.Name), string(meta))
	if err != nil {
		return fmt.Errorf("xroot: could not store binning of table %q: %w", tbl.Name, err)
	}

	var (
		sample int32
		vtx    int32
		eta    int32
		cent   int32
		kind   int32
		value  float64
	)
	w, err := rtree.NewWriter(dir, tbl.Name, []rtree.WriteVar{
		{Name: "sample", Value: &sample},
		{Name: "vtx", Value: &vtx},
		{Name: "eta", Value: &eta},
		{Name: "cent", Value: &cent},
		{Name: "kind", Value: &kind},
		{Name: "value", Value: &value},
	})
	if err != nil {
		return fmt.Errorf("xroot: could not create n-tuple %q: %w", tbl.Name, err)
	}
	defer w.Close()

	for _, key := range tbl.Keys() {
		sample = int32(key.Sample)
		vtx = int32(key.Vertex)
		eta = int32(key.Eta)
		cent = int32(key.Cent)
		kind = int32(key.Kind)
		value = tbl.At(key)

		_, err = w.Write()
		if err != nil {
			return fmt.Errorf("xroot: could not write cell %+v of table %q: %w", key, tbl.Name, err)
		}
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("xroot: could not close n-tuple %q: %w", tbl.Name, err)
	}

	return nil
}

// ReadTable reads back a cumulant table stored with WriteTable.
func ReadTable(dir riofs.Directory, name string) (*flow.Table, error) {
	meta, err := getString(dir, metaName(name))
	if err != nil {
		return nil, fmt.Errorf("xroot: could not read binning of table %q: %w", name, err)
	}

	var bins binning
	err = yaml.Unmarshal([]byte(meta), &bins)
	if err != nil {
		return nil, fmt.Errorf("xroot: could not decode binning of table %q: %w", name, err)
	}

	o, err := dir.Get(name)
	if err != nil {
		return nil, fmt.Errorf("xroot: could not get n-tuple %q: %w", name, err)
	}
	t, ok := o.(rtree.Tree)
	if !ok {
		return nil, fmt.Errorf("xroot: invalid type %T for n-tuple %q", o, name)
	}

	var (
		tbl = flow.NewTable(name, bins.Samples, bins.Vertex, bins.Eta, bins.Cent)

		sample int32
		vtx    int32
		eta    int32
		cent   int32
		kind   int32
		value  float64
	)
	r, err := rtree.NewReader(t, []rtree.ReadVar{
		{Name: "sample", Value: &sample},
		{Name: "vtx", Value: &vtx},
		{Name: "eta", Value: &eta},
		{Name: "cent", Value: &cent},
		{Name: "kind", Value: &kind},
		{Name: "value", Value: &value},
	})
	if err != nil {
		return nil, fmt.Errorf("xroot: could not create reader for n-tuple %q: %w", name, err)
	}
	defer r.Close()

	err = r.Read(func(ctx rtree.RCtx) error {
		key := flow.Key{
			Sample: int(sample),
			Vertex: int(vtx),
			Eta:    int(eta),
			Cent:   int(cent),
			Kind:   flow.Kind(kind),
		}
		return tbl.Add(key, value)
	})
	if err != nil {
		return nil, fmt.Errorf("xroot: could not read n-tuple %q: %w", name, err)
	}

	return tbl, nil
}

// WriteOutput stores the cumulant tables of a flow analysis in dir.
func WriteOutput(dir riofs.Directory, out *flow.Output) error {
	for i := range out.Harmonics {
		for _, tbl := range []*flow.Table{out.Ref[i], out.Diff[i]} {
			err := WriteTable(dir, tbl)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadOutput reads back the cumulant tables of the harmonics ns.
func ReadOutput(dir riofs.Directory, ns []int) (*flow.Output, error) {
	out := &flow.Output{
		Harmonics: append([]int(nil), ns...),
		Ref:       make([]*flow.Table, len(ns)),
		Diff:      make([]*flow.Table, len(ns)),
	}
	for i, n := range ns {
		ref, err := ReadTable(dir, flow.RefName(n))
		if err != nil {
			return nil, err
		}
		diff, err := ReadTable(dir, flow.DiffName(n))
		if err != nil {
			return nil, err
		}
		out.Ref[i] = ref
		out.Diff[i] = diff
	}
	return out, nil
}
