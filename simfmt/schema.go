// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simfmt reads and writes crossbar simulation reports.
//
// A report is a small text file produced by one simulator run. It
// consists of "Label: value[ unit]" lines in arbitrary order, for
// example:
//
//	Crossbar Size: 64*64
//	Bit Precision: 4
//	Crossbar Amount: 1210
//	Crossbar Usage Proportion: 0.71
//	Required Minimum Bandwidth: 512 bits per unit time
//	Bandwidth: 64 bits per unit time
//	Delay: 91342 unit time
//	Total Bits transferred: 3.1e+07 bits
//
// A Schema describes which labels are recognized and how their values
// are typed. Extract turns the text of one report into an immutable
// Record. Files and Loader read whole directories of reports.
//
// This package is designed to be used with the higher-level package
// simproc, which groups Records and selects among them.
package simfmt

import (
	"fmt"
	"strings"
)

// A Kind is the type of a report field's value.
type Kind int

const (
	// Int is a non-negative integer, such as a bit precision.
	Int Kind = iota
	// Float is a non-negative decimal number, such as a delay.
	Float
	// Fraction is a decimal number in [0, 1], such as a usage
	// proportion.
	Fraction
	// Size is a width*height pair of integers.
	Size
	// Text is the rest of the line after the label.
	Text
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Fraction:
		return "fraction"
	case Size:
		return "size"
	case Text:
		return "text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Field describes one recognized report label.
type Field struct {
	// Name is the canonical field name, such as "bandwidth".
	Name string
	// Label is the literal text that precedes the colon in a
	// report, such as "Bandwidth". Labels are matched exactly and
	// only at the start of a line.
	Label string
	// Kind is the type the value must parse as.
	Kind Kind
	// Unit is the unit text written after the value, or "".
	// It is informational when reading.
	Unit string
	// Aliases are alternative names that Schema.Field accepts.
	Aliases []string
}

// Canonical field names of DefaultSchema.
const (
	CrossbarSize      = "crossbar_size"
	BitPrecision      = "bit_precision"
	CrossbarAmount    = "crossbar_amount"
	Usage             = "crossbar_usage_proportion"
	RequiredBandwidth = "required_min_bandwidth"
	Bandwidth         = "bandwidth"
	Delay             = "delay"
	TotalBits         = "total_bits_transferred"
	SimTimeCost       = "sim_time_cost"
)

// DefaultSchema recognizes every label the crossbar simulator writes,
// in the order the simulator writes them.
var DefaultSchema = MustSchema(
	Field{Name: CrossbarSize, Label: "Crossbar Size", Kind: Size},
	Field{Name: BitPrecision, Label: "Bit Precision", Kind: Int},
	Field{Name: CrossbarAmount, Label: "Crossbar Amount", Kind: Int},
	Field{Name: Usage, Label: "Crossbar Usage Proportion", Kind: Fraction, Aliases: []string{"usage", "utilization"}},
	Field{Name: RequiredBandwidth, Label: "Required Minimum Bandwidth", Kind: Float, Unit: "bits per unit time"},
	Field{Name: Bandwidth, Label: "Bandwidth", Kind: Int, Unit: "bits per unit time", Aliases: []string{"bw"}},
	Field{Name: Delay, Label: "Delay", Kind: Float, Unit: "unit time"},
	Field{Name: TotalBits, Label: "Total Bits transferred", Kind: Float, Unit: "bits", Aliases: []string{"total_bits"}},
	Field{Name: SimTimeCost, Label: "Sim Time Cost", Kind: Float, Unit: "s"},
)

// A Schema is an ordered set of Fields. A Schema is immutable once
// constructed and safe for concurrent use.
type Schema struct {
	fields  []Field
	byName  map[string]int // includes aliases
	byLabel map[string]int
}

// NewSchema returns a Schema of the given fields, in order. It
// returns an error if a name, alias, or label is empty or repeated,
// or if a label contains a colon.
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields:  append([]Field(nil), fields...),
		byName:  make(map[string]int),
		byLabel: make(map[string]int),
	}
	for i, f := range s.fields {
		if f.Name == "" || f.Label == "" {
			return nil, fmt.Errorf("field %d: empty name or label", i)
		}
		if strings.Contains(f.Label, ":") {
			return nil, fmt.Errorf("field %s: label %q contains a colon", f.Name, f.Label)
		}
		if _, ok := s.byLabel[f.Label]; ok {
			return nil, fmt.Errorf("field %s: duplicate label %q", f.Name, f.Label)
		}
		s.byLabel[f.Label] = i
		for _, name := range append([]string{f.Name}, f.Aliases...) {
			if name == "" {
				return nil, fmt.Errorf("field %s: empty alias", f.Name)
			}
			if _, ok := s.byName[name]; ok {
				return nil, fmt.Errorf("field %s: duplicate name %q", f.Name, name)
			}
			s.byName[name] = i
		}
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic("simfmt: " + err.Error())
	}
	return s
}

// Fields returns the fields of s in order. The caller must not modify
// the returned slice.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Names returns the canonical names of the fields of s in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the field with the given name or alias.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Canonical returns the canonical name for name, which may be an
// alias, or "" if s has no such field.
func (s *Schema) Canonical(name string) string {
	if i, ok := s.byName[name]; ok {
		return s.fields[i].Name
	}
	return ""
}

func (s *Schema) index(name string) int {
	if i, ok := s.byName[name]; ok {
		return i
	}
	return -1
}
