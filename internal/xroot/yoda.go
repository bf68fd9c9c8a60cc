// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xroot

import (
	"fmt"
	"io"
)

// YODAMarshaler is implemented by the hbook values that have a
// YODA representation.
type YODAMarshaler interface {
	MarshalYODA() ([]byte, error)
}

// WriteYODA writes the YODA representation of vs to w.
func WriteYODA(w io.Writer, vs ...YODAMarshaler) error {
	for i, v := range vs {
		raw, err := v.MarshalYODA()
		if err != nil {
			return fmt.Errorf("xroot: could not marshal value %d to YODA: %w", i, err)
		}
		_, err = w.Write(raw)
		if err != nil {
			return fmt.Errorf("xroot: could not write value %d to YODA: %w", i, err)
		}
	}
	return nil
}
