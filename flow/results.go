// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"math"
	"sort"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/stat"
)

// Point is a flow coefficient measured in an eta bin of a centrality class.
type Point struct {
	Cent int     // centrality bin
	Eta  float64 // eta bin center
	Y    float64 // mean over samples
	Err  float64 // standard error of the mean over samples
}

// Results holds the flow coefficients of harmonic N, as a function of eta.
type Results struct {
	N    int
	Cent Axis

	Ref2  []Point // v_n{2}
	Ref4  []Point // v_n{4}
	Diff2 []Point // v'_n{2}
	Diff4 []Point // v'_n{4}
}

// sums holds the per-sample sums of the four kinds of a table.
type sums [][nKinds]float64

// Reduce computes the flow coefficients of harmonic n from its reference
// and differential cumulant tables.
// Points where the cumulants are undefined in every sample are dropped.
func Reduce(n int, ref, diff *Table) Results {
	res := Results{N: n, Cent: ref.Cent}

	// reference, integrated over vertex and eta, per centrality bin.
	refInt := make(map[int]sums)
	// reference, integrated over vertex, per (centrality, eta) bin.
	refEta := make(map[[2]int]sums)

	for _, key := range ref.Keys() {
		v := ref.At(key)
		s := refInt[key.Cent]
		if s == nil {
			s = make(sums, ref.Samples)
			refInt[key.Cent] = s
		}
		s[key.Sample][key.Kind] += v

		k2 := [2]int{key.Cent, key.Eta}
		se := refEta[k2]
		if se == nil {
			se = make(sums, ref.Samples)
			refEta[k2] = se
		}
		se[key.Sample][key.Kind] += v
	}

	for _, k2 := range sortedKeys(refEta) {
		var (
			s      = refEta[k2]
			v2, v4 []float64
		)
		for i := range s {
			two, four, ok2, ok4 := refCorrs(s[i])
			if ok2 {
				if c2 := two; c2 > 0 {
					v2 = append(v2, math.Sqrt(c2))
				}
			}
			if ok2 && ok4 {
				if c4 := four - 2*two*two; c4 < 0 {
					v4 = append(v4, math.Pow(-c4, 0.25))
				}
			}
		}
		eta := ref.Eta.Center(k2[1])
		if p, ok := newPoint(k2[0], eta, v2); ok {
			res.Ref2 = append(res.Ref2, p)
		}
		if p, ok := newPoint(k2[0], eta, v4); ok {
			res.Ref4 = append(res.Ref4, p)
		}
	}

	if diff == nil {
		return res
	}

	diffEta := make(map[[2]int]sums)
	for _, key := range diff.Keys() {
		k2 := [2]int{key.Cent, key.Eta}
		s := diffEta[k2]
		if s == nil {
			s = make(sums, diff.Samples)
			diffEta[k2] = s
		}
		s[key.Sample][key.Kind] += diff.At(key)
	}

	for _, k2 := range sortedKeys(diffEta) {
		var (
			s      = diffEta[k2]
			r      = refInt[k2[0]]
			v2, v4 []float64
		)
		if r == nil {
			continue
		}
		for i := range s {
			if i >= len(r) {
				break
			}
			two, four, ok2, ok4 := refCorrs(r[i])
			dtwo, dfour, dok2, dok4 := refCorrs(s[i])
			if !ok2 || !dok2 {
				continue
			}
			c2 := two
			if c2 > 0 {
				v2 = append(v2, dtwo/math.Sqrt(c2))
			}
			if !ok4 || !dok4 {
				continue
			}
			c4 := four - 2*two*two
			d4 := dfour - 2*dtwo*two
			if c4 < 0 {
				v4 = append(v4, -d4/math.Pow(-c4, 0.75))
			}
		}
		eta := diff.Eta.Center(k2[1])
		if p, ok := newPoint(k2[0], eta, v2); ok {
			res.Diff2 = append(res.Diff2, p)
		}
		if p, ok := newPoint(k2[0], eta, v4); ok {
			res.Diff4 = append(res.Diff4, p)
		}
	}

	return res
}

// refCorrs returns the event-averaged two- and four-particle correlators.
func refCorrs(s [nKinds]float64) (two, four float64, ok2, ok4 bool) {
	if s[W2] > 0 {
		two = s[W2Two] / s[W2]
		ok2 = true
	}
	if s[W4] > 0 {
		four = s[W4Four] / s[W4]
		ok4 = true
	}
	return two, four, ok2, ok4
}

func newPoint(cent int, eta float64, vs []float64) (Point, bool) {
	switch len(vs) {
	case 0:
		return Point{}, false
	case 1:
		return Point{Cent: cent, Eta: eta, Y: vs[0]}, true
	}
	mean, std := stat.MeanStdDev(vs, nil)
	return Point{
		Cent: cent,
		Eta:  eta,
		Y:    mean,
		Err:  std / math.Sqrt(float64(len(vs))),
	}, true
}

func sortedKeys(m map[[2]int]sums) [][2]int {
	keys := make([][2]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	return keys
}

// Centralities returns the centrality bins with at least one point.
func (res Results) Centralities() []int {
	set := make(map[int]struct{})
	for _, pts := range [][]Point{res.Ref2, res.Ref4, res.Diff2, res.Diff4} {
		for _, p := range pts {
			set[p.Cent] = struct{}{}
		}
	}
	cents := make([]int, 0, len(set))
	for c := range set {
		cents = append(cents, c)
	}
	sort.Ints(cents)
	return cents
}

// S2D returns the points of the centrality bin cent as a scatter,
// with the eta bin half-width as x-error.
func S2D(pts []Point, cent int, etaAxis Axis) *hbook.S2D {
	var (
		dx = 0.5 * etaAxis.Width()
		ps []hbook.Point2D
	)
	for _, p := range pts {
		if p.Cent != cent {
			continue
		}
		ps = append(ps, hbook.Point2D{
			X:    p.Eta,
			Y:    p.Y,
			ErrX: hbook.Range{Min: dx, Max: dx},
			ErrY: hbook.Range{Min: p.Err, Max: p.Err},
		})
	}
	return hbook.NewS2D(ps...)
}
