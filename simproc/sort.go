// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"sort"
	"strings"

	"github.com/xbarsim/xbarperf/simfmt"
)

// Less reports whether k comes before o in the sort order implied by
// their projection. It panics if k and o have different Projections.
func (k Key) Less(o Key) bool {
	if k.k.proj != o.k.proj {
		panic("cannot compare Keys from different Projections")
	}
	return less(k.k.proj.fields, k.k.vals, o.k.vals)
}

func less(fields []*Field, a, b []simfmt.Value) bool {
	for i, f := range fields {
		if a[i] == b[i] {
			continue
		}
		if c := f.cmp(a[i], b[i]); c != 0 {
			return c < 0
		}
		// Unordered but distinct values, such as 1 and 1.0 of
		// different kinds. Fall back to something total.
		return strings.Compare(a[i].String(), b[i].String()) < 0
	}
	return false
}

// SortKeys sorts a slice of Keys using Key.Less.
// All Keys must have the same Projection.
func SortKeys(keys []Key) {
	if len(keys) == 0 {
		return
	}
	p := commonProjection(keys)
	sort.Slice(keys, func(i, j int) bool {
		return less(p.fields, keys[i].k.vals, keys[j].k.vals)
	})
}
