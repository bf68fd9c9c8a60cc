// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pwg holds physics-analysis tasks for heavy-ion collision data:
// forward-flow cumulants and femtoscopic trio correlations.
//
// The analysis tasks live in sub-packages:
//
//   - cumulant: harmonic accumulators and multi-particle cumulant algebra,
//   - flow: the forward-flow framework and its event-loop task,
//   - femto: the femtoscopy trio analysis,
//   - conddb: the correction-tables condition database.
package pwg // import "github.com/go-lpc/pwg"

import (
	"fmt"
	"runtime/debug"
)

// Version returns the version of pwg and its checksum.
// The returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return versionOf(b)
}

func versionOf(b *debug.BuildInfo) (version, sum string) {
	if b == nil {
		return "", ""
	}

	const root = "github.com/go-lpc/pwg"
	if b.Main.Path == root {
		return b.Main.Version, b.Main.Sum
	}

	for _, m := range b.Deps {
		if m.Path != root {
			continue
		}
		if m.Replace != nil {
			switch {
			case m.Replace.Version != "" && m.Replace.Path != "":
				return fmt.Sprintf("%s %s", m.Replace.Path, m.Replace.Version), m.Replace.Sum
			case m.Replace.Version != "":
				return m.Replace.Version, m.Replace.Sum
			case m.Replace.Path != "":
				return m.Replace.Path, m.Replace.Sum
			default:
				return m.Version + "*", ""
			}
		}
		return m.Version, m.Sum
	}
	return "", ""
}
