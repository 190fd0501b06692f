// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Scaler divides a number by a factor and formats it with a fixed
// number of digits and a unit prefix.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Value of one Prefix, such as 1000 for "k"
	Prefix string  // Unit prefix, such as "k" or "Mi", or "%"
}

// Format formats val according to s. For example, a Scaler for
// Decimal class formats 91342 as "91.34k".
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

// NoOpScaler formats numbers exactly and without a prefix, for
// output consumed by other programs, such as CSV.
var NoOpScaler = Scaler{-1, 1, ""}

// PercentScaler formats fractions as percentages with one decimal.
var PercentScaler = Scaler{1, 0.01, "%"}

// countScaler formats integers as they are.
var countScaler = Scaler{0, 1, ""}

// A step is one prefix of a Class, with the smallest values that
// format as 100.0, 10.00 and 1.000 under it.
type step struct {
	factor        float64
	prefix        string
	t100, t10, t1 float64
}

var (
	siSteps  = mkSteps(10, 3, 12, "T", "G", "M", "k", "", "m", "µ", "n")
	iecSteps = mkSteps(2, 10, 40, "Ti", "Gi", "Mi", "Ki", "")
)

// Thresholds below the smallest step, by digits after the decimal
// point, starting at 3.
var smallThresholds = mkSmallThresholds()

// mkSteps builds the steps base^top, base^(top-stride), ... for the
// given prefixes.
//
// Thresholds are taken from the printed representation so that they
// agree exactly with how strconv rounds. For base 2, multiplying by
// the factor is exact.
func mkSteps(base, stride, top int, prefixes ...string) []step {
	var steps []step
	exp := top
	for _, p := range prefixes {
		s := step{factor: math.Pow(float64(base), float64(exp)), prefix: p}
		if base == 10 {
			s.t100 = parse("99.995e%d", exp)
			s.t10 = parse("9.9995e%d", exp)
			s.t1 = parse(".99995e%d", exp)
		} else {
			s.t100 = 99.995 * s.factor
			s.t10 = 9.9995 * s.factor
			s.t1 = .99995 * s.factor
		}
		steps = append(steps, s)
		exp -= stride
	}
	return steps
}

func mkSmallThresholds() []float64 {
	var ts []float64
	for exp := -1; exp > -9; exp-- {
		ts = append(ts, parse("9.9995e%d", exp))
	}
	return ts
}

func parse(format string, exp int) float64 {
	f, err := strconv.ParseFloat(fmt.Sprintf(format, exp), 64)
	if err != nil {
		panic(err)
	}
	return f
}

// Scale formats val with at least three significant digits and a
// prefix for cls.
func Scale(val float64, cls Class) string {
	return CommonScale([]float64{val}, cls).Format(val)
}

// CommonScale returns one Scaler for all of vals, such as a table
// column. Every value keeps at least three significant digits.
func CommonScale(vals []float64, cls Class) Scaler {
	var steps []step
	switch cls {
	default:
		panic(fmt.Sprintf("bad Class %v", cls))
	case Ratio:
		return PercentScaler
	case Count:
		for _, v := range vals {
			if v != math.Trunc(v) {
				return NoOpScaler
			}
		}
		return countScaler
	case Decimal:
		steps = siSteps
	case Binary:
		steps = iecSteps
	}

	// The non-zero value closest to zero decides.
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v != 0 && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{3, 1, ""}
	}

	for _, s := range steps {
		switch {
		case min >= s.t100:
			return Scaler{1, s.factor, s.prefix}
		case min >= s.t10:
			return Scaler{2, s.factor, s.prefix}
		case min >= s.t1:
			return Scaler{3, s.factor, s.prefix}
		}
	}

	// Smaller than the smallest step: add digits instead.
	last := steps[len(steps)-1]
	val := min / last.factor
	for i, t := range smallThresholds {
		if val >= t || i == len(smallThresholds)-1 {
			return Scaler{i + 3, last.factor, last.prefix}
		}
	}
	panic("not reachable")
}
