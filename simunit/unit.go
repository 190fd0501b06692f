// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simunit formats simulation metrics in their units.
package simunit

import (
	"fmt"
	"strings"
)

// A Class specifies how values of a unit are scaled for display.
type Class int

const (
	// Decimal values are scaled by powers of 1000 using SI
	// prefixes such as "k" and "M". Delays and bit counts are
	// Decimal.
	Decimal Class = iota
	// Binary values are scaled by powers of 1024 using IEC
	// prefixes such as "Ki" and "Mi".
	Binary
	// Ratio values are fractions in [0, 1] and are shown as
	// percentages.
	Ratio
	// Count values are small integers, such as bit precisions
	// and bandwidths, and are never scaled.
	Count
)

func (c Class) String() string {
	switch c {
	case Decimal:
		return "Decimal"
	case Binary:
		return "Binary"
	case Ratio:
		return "Ratio"
	case Count:
		return "Count"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ClassOf returns the Class of unit. Units measuring bytes are
// Binary, "ratio" and "%" are Ratio, an empty unit is Count, and
// everything else is Decimal.
func ClassOf(unit string) Class {
	switch unit {
	case "":
		return Count
	case "ratio", "%":
		return Ratio
	}
	num := unit
	if i := strings.Index(num, "/"); i >= 0 {
		num = num[:i]
	}
	for _, tok := range strings.Fields(num) {
		switch tok {
		case "B", "KiB", "MiB", "bytes":
			return Binary
		}
	}
	return Decimal
}
