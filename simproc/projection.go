// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"fmt"
	"hash/maphash"
	"strings"
	"sync"

	"github.com/xbarsim/xbarperf/simfmt"
)

// SourceField is the name of the pseudo-field that projects the
// source label of a Record, such as the directory it was read from.
const SourceField = ".source"

// An Order says how the values of a key field are ordered.
type Order int

const (
	// Numeric orders values ascending. Sizes order by area and
	// text orders lexically. This is the default.
	Numeric Order = iota
	// Fixed orders values by a configured enumeration. Records
	// whose value is not in the enumeration are filtered out.
	Fixed
	// First orders values by when they were first observed.
	First
)

func (o Order) String() string {
	switch o {
	case Numeric:
		return "num"
	case Fixed:
		return "fixed"
	case First:
		return "first"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// A FieldSpec describes one key field of a Projection.
type FieldSpec struct {
	// Name is a field name or alias of the schema, or SourceField.
	Name string
	// Order is the order of the field's values.
	Order Order
	// Values is the enumeration for a Fixed order.
	Values []simfmt.Value
}

// A Field is a single key field of a Projection.
type Field struct {
	// Name is the canonical name of the field.
	Name  string
	Order Order
	Kind  simfmt.Kind

	proj *Projection
	idx  int

	// fixed maps each value of a Fixed order to its rank.
	fixed map[simfmt.Value]int

	// observed records the observation order for a First order.
	// Guarded by proj.mu.
	observed map[simfmt.Value]int
}

// String returns the name of Field f.
func (f *Field) String() string {
	return f.Name
}

// cmp returns <0 if a < b, >0 if a > b, or 0 if a == b or a and b
// are unorderable.
func (f *Field) cmp(a, b simfmt.Value) int {
	switch f.Order {
	case Fixed:
		return f.fixed[a] - f.fixed[b]
	case First:
		f.proj.mu.Lock()
		defer f.proj.mu.Unlock()
		return f.observed[a] - f.observed[b]
	}
	return simfmt.CompareValues(a, b)
}

// A Projection extracts a fixed set of key fields from a Record into
// a Key.
//
// A Projection also implies a sort order over Keys that is
// lexicographic over its fields.
//
// A Projection is safe for concurrent use.
type Projection struct {
	schema *simfmt.Schema
	fields []*Field

	mu   sync.Mutex
	keys map[uint64][]*keyNode
}

// NewProjection returns a Projection over the given key fields. If
// schema is nil, simfmt.DefaultSchema is used.
func NewProjection(schema *simfmt.Schema, specs ...FieldSpec) (*Projection, error) {
	if schema == nil {
		schema = simfmt.DefaultSchema
	}
	p := &Projection{schema: schema, keys: make(map[uint64][]*keyNode)}
	seen := make(map[string]bool)
	for _, spec := range specs {
		f := &Field{Order: spec.Order, proj: p, idx: len(p.fields)}
		if spec.Name == SourceField {
			f.Name, f.Kind = SourceField, simfmt.Text
		} else {
			sf, ok := schema.Field(spec.Name)
			if !ok {
				return nil, fmt.Errorf("unknown field %q", spec.Name)
			}
			f.Name, f.Kind = sf.Name, sf.Kind
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("field %s projected twice", f.Name)
		}
		seen[f.Name] = true

		switch spec.Order {
		case Numeric:
		case Fixed:
			if len(spec.Values) == 0 {
				return nil, fmt.Errorf("field %s: fixed order with no values", f.Name)
			}
			f.fixed = make(map[simfmt.Value]int, len(spec.Values))
			for i, v := range spec.Values {
				if v.Kind != f.Kind {
					return nil, fmt.Errorf("field %s: fixed value %v is %s, want %s", f.Name, v, v.Kind, f.Kind)
				}
				if _, ok := f.fixed[v]; ok {
					return nil, fmt.Errorf("field %s: fixed value %v repeated", f.Name, v)
				}
				f.fixed[v] = i
			}
		case First:
			f.observed = make(map[simfmt.Value]int)
		default:
			return nil, fmt.Errorf("field %s: bad order %v", f.Name, spec.Order)
		}
		p.fields = append(p.fields, f)
	}
	return p, nil
}

// ParseProjection parses a comma-separated list of key fields, such
// as "bit_precision,bandwidth". Each field may be followed by an
// order: "@num", "@first", or a fixed enumeration such as
// "@(16 32 64)". A fixed order implies a filter (see
// Projection.Filter).
func ParseProjection(schema *simfmt.Schema, expr string) (*Projection, error) {
	if schema == nil {
		schema = simfmt.DefaultSchema
	}
	var specs []FieldSpec
	for _, part := range splitProjection(expr) {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("projection %q: empty field", expr)
		}
		name, order, hasOrder := strings.Cut(part, "@")
		spec := FieldSpec{Name: strings.TrimSpace(name)}
		kind := simfmt.Text
		if spec.Name != SourceField {
			f, ok := schema.Field(spec.Name)
			if !ok {
				return nil, fmt.Errorf("projection %q: unknown field %q", expr, spec.Name)
			}
			kind = f.Kind
		}
		switch {
		case !hasOrder, order == "num":
			spec.Order = Numeric
		case order == "first":
			spec.Order = First
		case strings.HasPrefix(order, "(") && strings.HasSuffix(order, ")"):
			spec.Order = Fixed
			for _, s := range strings.Fields(order[1 : len(order)-1]) {
				v, err := simfmt.ParseValue(kind, s)
				if err != nil {
					return nil, fmt.Errorf("projection %q: field %s: bad value %q: %w", expr, spec.Name, s, err)
				}
				spec.Values = append(spec.Values, v)
			}
		default:
			return nil, fmt.Errorf("projection %q: unknown order %q", expr, order)
		}
		specs = append(specs, spec)
	}
	p, err := NewProjection(schema, specs...)
	if err != nil {
		return nil, fmt.Errorf("projection %q: %w", expr, err)
	}
	return p, nil
}

// splitProjection splits expr at commas outside parentheses.
func splitProjection(expr string) []string {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	var parts []string
	depth, start := 0, 0
	for i, ch := range expr {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, expr[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, expr[start:])
}

// Schema returns the record schema of p.
func (p *Projection) Schema() *simfmt.Schema {
	return p.schema
}

// Fields returns the key fields of p in order.
//
// The caller must not modify the returned slice.
func (p *Projection) Fields() []*Field {
	return p.fields
}

// Field returns the key field with the given name or alias, or nil.
func (p *Projection) Field(name string) *Field {
	if name != SourceField {
		name = p.schema.Canonical(name)
	}
	for _, f := range p.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Filter returns the filter implied by the Fixed fields of p, or nil
// if p has none. A Record passes if each of its Fixed key fields is
// absent or one of the enumerated values.
func (p *Projection) Filter() *Filter {
	var fs []*Filter
	for _, f := range p.fields {
		if f.Order != Fixed {
			continue
		}
		f := f
		fs = append(fs, &Filter{
			desc: f.Name + "@fixed",
			match: func(r *simfmt.Record) bool {
				v, ok := fieldValue(r, f.Name)
				if !ok {
					return true
				}
				_, ok = f.fixed[v]
				return ok
			},
		})
	}
	if len(fs) == 0 {
		return nil
	}
	return And(fs...)
}

var keySeed = maphash.MakeSeed()

// Project extracts the key fields of r and returns them as a Key. It
// returns false if r lacks any key field.
//
// Two Keys produced by Project will be == if and only if their
// projected fields have the same values.
func (p *Projection) Project(r *simfmt.Record) (Key, bool) {
	row := make([]simfmt.Value, len(p.fields))
	for i, f := range p.fields {
		v, ok := fieldValue(r, f.Name)
		if !ok {
			return Key{}, false
		}
		row[i] = v
	}
	return p.internRow(row), true
}

func (p *Projection) internRow(row []simfmt.Value) Key {
	var h maphash.Hash
	h.SetSeed(keySeed)
	for _, v := range row {
		h.WriteByte(byte(v.Kind))
		h.WriteString(v.String())
		h.WriteByte(0)
	}
	hash := h.Sum64()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Check if we already have this key.
	for _, key := range p.keys[hash] {
		if key.equalRow(row) {
			return Key{key}
		}
	}

	// Update observation orders.
	for i, f := range p.fields {
		if f.observed == nil {
			continue
		}
		if _, ok := f.observed[row[i]]; !ok {
			f.observed[row[i]] = len(f.observed)
		}
	}

	key := &keyNode{p, row}
	p.keys[hash] = append(p.keys[hash], key)
	return Key{key}
}

// fieldValue returns the named field of r, or the source label of r
// for SourceField.
func fieldValue(r *simfmt.Record, name string) (simfmt.Value, bool) {
	if name == SourceField {
		return simfmt.TextValue(r.Source()), true
	}
	return r.Get(name)
}

// metric is like fieldValue but returns a number.
func metric(r *simfmt.Record, name string) (float64, bool) {
	if name == SourceField {
		return 0, false
	}
	return r.Metric(name)
}
