// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dims are the width and height of a crossbar.
type Dims struct {
	W, H int
}

// Area returns W*H.
func (s Dims) Area() int {
	return s.W * s.H
}

func (s Dims) String() string {
	return strconv.Itoa(s.W) + "*" + strconv.Itoa(s.H)
}

// A Value is a typed field value. Values are comparable with ==.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64 // Float and Fraction kinds
	Size  Dims
	Str   string
}

// IntValue returns an Int Value.
func IntValue(v int64) Value { return Value{Kind: Int, Int: v} }

// FloatValue returns a Float Value.
func FloatValue(v float64) Value { return Value{Kind: Float, Float: v} }

// FractionValue returns a Fraction Value.
func FractionValue(v float64) Value { return Value{Kind: Fraction, Float: v} }

// SizeValue returns a Size Value.
func SizeValue(w, h int) Value { return Value{Kind: Size, Size: Dims{w, h}} }

// TextValue returns a Text Value.
func TextValue(s string) Value { return Value{Kind: Text, Str: s} }

// Float64 returns v as a number. Crossbars are square, so a Size
// is represented by its width. Text is NaN.
func (v Value) Float64() float64 {
	switch v.Kind {
	case Int:
		return float64(v.Int)
	case Size:
		return float64(v.Size.W)
	case Text:
		return math.NaN()
	}
	return v.Float
}

// String formats v the way a report writes it.
func (v Value) String() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Size:
		return v.Size.String()
	case Text:
		return v.Str
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// CompareValues orders a and b numerically and returns -1, 0, or +1.
// Sizes are ordered by area, then width, then height. Text is ordered
// lexically. Values of different kinds are ordered by kind.
func CompareValues(a, b Value) int {
	return a.compare(b)
}

func (v Value) compare(o Value) int {
	if v.Kind != o.Kind {
		return cmpInt(int(v.Kind), int(o.Kind))
	}
	switch v.Kind {
	case Size:
		if c := cmpInt(v.Size.Area(), o.Size.Area()); c != 0 {
			return c
		}
		if c := cmpInt(v.Size.W, o.Size.W); c != 0 {
			return c
		}
		return cmpInt(v.Size.H, o.Size.H)
	case Text:
		return strings.Compare(v.Str, o.Str)
	case Int:
		switch {
		case v.Int < o.Int:
			return -1
		case v.Int > o.Int:
			return 1
		}
		return 0
	}
	a, b := v.Float64(), o.Float64()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// A Record is the structured result of extracting one report.
//
// A field is present in a Record only if its label was found in the
// report and its value parsed as the field's Kind. Records are
// immutable; they are safe to share between goroutines.
type Record struct {
	schema *Schema
	vals   []Value
	has    []bool

	source   string
	fileName string

	// problems are non-fatal coercion failures seen while
	// extracting this Record.
	problems []error
}

// NewRecord constructs a Record from a map of field names (or
// aliases) to Values. Every Value must have its field's Kind.
func NewRecord(schema *Schema, fields map[string]Value) (*Record, error) {
	if schema == nil {
		schema = DefaultSchema
	}
	r := newRecord(schema)
	for name, v := range fields {
		i := schema.index(name)
		if i < 0 {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		if want := schema.fields[i].Kind; v.Kind != want {
			return nil, fmt.Errorf("field %s: have %s value, want %s", name, v.Kind, want)
		}
		r.vals[i], r.has[i] = v, true
	}
	return r, nil
}

func newRecord(schema *Schema) *Record {
	return &Record{
		schema: schema,
		vals:   make([]Value, len(schema.fields)),
		has:    make([]bool, len(schema.fields)),
	}
}

// Schema returns the Schema r was extracted with.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Get returns the value of the named field and whether it is present.
func (r *Record) Get(name string) (Value, bool) {
	i := r.schema.index(name)
	if i < 0 || !r.has[i] {
		return Value{}, false
	}
	return r.vals[i], true
}

// Has reports whether every named field is present in r.
func (r *Record) Has(names ...string) bool {
	for _, name := range names {
		if i := r.schema.index(name); i < 0 || !r.has[i] {
			return false
		}
	}
	return true
}

// Int returns the value of an Int field.
func (r *Record) Int(name string) (int64, bool) {
	v, ok := r.Get(name)
	if !ok || v.Kind != Int {
		return 0, false
	}
	return v.Int, true
}

// Size returns the value of a Size field.
func (r *Record) Size(name string) (Dims, bool) {
	v, ok := r.Get(name)
	if !ok || v.Kind != Size {
		return Dims{}, false
	}
	return v.Size, true
}

// Metric returns the named field as a number. See Value.Float64.
func (r *Record) Metric(name string) (float64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	return v.Float64(), true
}

// Fields returns the canonical names of the fields present in r, in
// schema order.
func (r *Record) Fields() []string {
	var names []string
	for i, f := range r.schema.fields {
		if r.has[i] {
			names = append(names, f.Name)
		}
	}
	return names
}

// Source returns the label of the input r was read from, or "".
func (r *Record) Source() string {
	return r.source
}

// FileName returns the name of the file r was read from, or "".
func (r *Record) FileName() string {
	return r.fileName
}

// WithSource returns a copy of r with the given provenance.
func (r *Record) WithSource(source, fileName string) *Record {
	r2 := *r
	r2.source, r2.fileName = source, fileName
	return &r2
}

// Problems returns the coercion failures that made fields of r absent.
// Each is a *FieldError.
func (r *Record) Problems() []error {
	return r.problems
}

// Equal reports whether r and o have the same schema and the same
// present fields with equal values. Provenance is ignored.
func (r *Record) Equal(o *Record) bool {
	if r.schema != o.schema {
		return false
	}
	for i := range r.vals {
		if r.has[i] != o.has[i] || (r.has[i] && r.vals[i] != o.vals[i]) {
			return false
		}
	}
	return true
}

// String returns r as a space-separated sequence of name:value pairs
// in schema order.
func (r *Record) String() string {
	buf := new(strings.Builder)
	for i, f := range r.schema.fields {
		if !r.has[i] {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(f.Name)
		buf.WriteByte(':')
		buf.WriteString(r.vals[i].String())
	}
	return buf.String()
}

// Compare defines the canonical order of Records that share a
// Schema. Fields are compared in schema order with absent fields
// first; ties are broken by source and then file name. Compare
// returns -1, 0, or +1.
func Compare(a, b *Record) int {
	if a.schema != b.schema {
		panic("simfmt: cannot compare Records with different Schemas")
	}
	for i := range a.vals {
		switch {
		case a.has[i] && !b.has[i]:
			return 1
		case !a.has[i] && b.has[i]:
			return -1
		case !a.has[i]:
			continue
		}
		if c := a.vals[i].compare(b.vals[i]); c != 0 {
			return c
		}
	}
	if c := strings.Compare(a.source, b.source); c != 0 {
		return c
	}
	return strings.Compare(a.fileName, b.fileName)
}
