// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcnv provides tools to convert events to/from LCIO
// from/to the inputs of the flow and femto analyses.
package xcnv // import "github.com/go-lpc/pwg/internal/xcnv"

const (
	// MCParticles is the name of the LCIO collection of generated particles.
	MCParticles = "MCParticle"

	// event parameters.
	paramZVtx = "ZVertex"
	paramCent = "Centrality"
	paramPsi  = "Psi"
)
