// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"strings"

	"github.com/xbarsim/xbarperf/simfmt"
)

// A Key is an immutable tuple of field values whose structure is given
// by a Projection. Two Keys are == if they come from the same
// Projection and have identical values.
type Key struct {
	k *keyNode
}

// IsZero reports whether k is a zeroed Key with no projection and no fields.
func (k Key) IsZero() bool {
	return k.k == nil
}

// Get returns the value of Field f in this Key.
//
// It panics if Field f does not come from the same Projection as the
// Key.
func (k Key) Get(f *Field) simfmt.Value {
	if k.IsZero() {
		panic("zero Key has no fields")
	}
	if k.k.proj != f.proj {
		panic("Key and Field have different Projections")
	}
	return k.k.vals[f.idx]
}

// Value returns the value of the named key field.
func (k Key) Value(name string) (simfmt.Value, bool) {
	if k.IsZero() {
		return simfmt.Value{}, false
	}
	f := k.k.proj.Field(name)
	if f == nil {
		return simfmt.Value{}, false
	}
	return k.k.vals[f.idx], true
}

// Projection returns the Projection describing Key k.
func (k Key) Projection() *Projection {
	if k.IsZero() {
		return nil
	}
	return k.k.proj
}

// String returns Key as a space-separated sequence of name:value
// pairs in field order.
func (k Key) String() string {
	return k.string(true)
}

// StringValues returns Key as a space-separated sequence of values in
// field order.
func (k Key) StringValues() string {
	return k.string(false)
}

func (k Key) string(names bool) string {
	if k.IsZero() {
		return "<zero>"
	}
	buf := new(strings.Builder)
	for i, field := range k.k.proj.fields {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if names {
			buf.WriteString(field.Name)
			buf.WriteByte(':')
		}
		buf.WriteString(k.k.vals[i].String())
	}
	return buf.String()
}

// commonProjection returns the Projection that all Keys have, or panics if any
// Key has a different Projection. It returns nil if len(keys) == 0.
func commonProjection(keys []Key) *Projection {
	if len(keys) == 0 {
		return nil
	}
	s := keys[0].Projection()
	for _, k := range keys[1:] {
		if k.Projection() != s {
			panic("Keys must all have the same Projection")
		}
	}
	return s
}

// keyNode is the internal heap-allocated object backing a Key, so that
// Key equality is pointer equality.
type keyNode struct {
	proj *Projection
	vals []simfmt.Value // indexed by Field.idx
}

func (n *keyNode) equalRow(row []simfmt.Value) bool {
	if len(n.vals) != len(row) {
		return false
	}
	for i, v := range n.vals {
		if row[i] != v {
			return false
		}
	}
	return true
}
