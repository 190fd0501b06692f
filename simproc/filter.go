// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"fmt"
	"strings"

	"github.com/xbarsim/xbarperf/simfmt"
)

// A Filter is a predicate over Records.
type Filter struct {
	desc  string
	match func(r *simfmt.Record) bool
}

// Match reports whether r passes f. A nil Filter matches everything.
func (f *Filter) Match(r *simfmt.Record) bool {
	if f == nil {
		return true
	}
	return f.match(r)
}

// Apply returns the Records that pass f, in order.
func (f *Filter) Apply(records []*simfmt.Record) []*simfmt.Record {
	out := []*simfmt.Record{}
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f *Filter) String() string {
	if f == nil {
		return "*"
	}
	return f.desc
}

// Eq matches Records whose field name equals v.
func Eq(name string, v simfmt.Value) *Filter {
	return &Filter{
		desc: name + ":" + v.String(),
		match: func(r *simfmt.Record) bool {
			got, ok := fieldValue(r, name)
			return ok && got == v
		},
	}
}

// In matches Records whose field name equals any of vs.
func In(name string, vs ...simfmt.Value) *Filter {
	set := make(map[simfmt.Value]bool, len(vs))
	strs := make([]string, len(vs))
	for i, v := range vs {
		set[v] = true
		strs[i] = v.String()
	}
	return &Filter{
		desc: name + ":(" + strings.Join(strs, " ") + ")",
		match: func(r *simfmt.Record) bool {
			got, ok := fieldValue(r, name)
			return ok && set[got]
		},
	}
}

// Has matches Records in which every named field is present.
func Has(names ...string) *Filter {
	return &Filter{
		desc: "has(" + strings.Join(names, " ") + ")",
		match: func(r *simfmt.Record) bool {
			for _, name := range names {
				if _, ok := fieldValue(r, name); !ok {
					return false
				}
			}
			return true
		},
	}
}

// Not matches Records that f does not match.
func Not(f *Filter) *Filter {
	return &Filter{
		desc:  "-" + f.String(),
		match: func(r *simfmt.Record) bool { return !f.Match(r) },
	}
}

// And matches Records that every one of fs matches. Nil Filters are
// ignored.
func And(fs ...*Filter) *Filter {
	var subs []*Filter
	for _, f := range fs {
		if f != nil {
			subs = append(subs, f)
		}
	}
	switch len(subs) {
	case 0:
		return nil
	case 1:
		return subs[0]
	}
	descs := make([]string, len(subs))
	for i, f := range subs {
		descs[i] = f.String()
	}
	return &Filter{
		desc: strings.Join(descs, " "),
		match: func(r *simfmt.Record) bool {
			for _, f := range subs {
				if !f.match(r) {
					return false
				}
			}
			return true
		},
	}
}

// ParseFilter parses a filter expression: a space-separated list of
// terms that must all match. A term is "name:value", "name:(v1 v2
// ...)", or either prefixed with "-" to negate it. "*" matches
// everything, as does the empty string, for which ParseFilter returns
// a nil Filter.
func ParseFilter(schema *simfmt.Schema, expr string) (*Filter, error) {
	if schema == nil {
		schema = simfmt.DefaultSchema
	}
	terms, err := splitTerms(expr)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, err)
	}
	var fs []*Filter
	for _, term := range terms {
		if term == "*" {
			continue
		}
		neg := strings.HasPrefix(term, "-")
		term = strings.TrimPrefix(term, "-")
		name, val, ok := strings.Cut(term, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("filter %q: term %q is not name:value", expr, term)
		}
		kind := simfmt.Text
		if name != SourceField {
			f, ok := schema.Field(name)
			if !ok {
				return nil, fmt.Errorf("filter %q: unknown field %q", expr, name)
			}
			name, kind = f.Name, f.Kind
		}
		var vals []string
		if strings.HasPrefix(val, "(") && strings.HasSuffix(val, ")") {
			vals = strings.Fields(val[1 : len(val)-1])
		} else {
			vals = []string{val}
		}
		var vs []simfmt.Value
		for _, s := range vals {
			v, err := simfmt.ParseValue(kind, s)
			if err != nil {
				return nil, fmt.Errorf("filter %q: field %s: bad value %q: %w", expr, name, s, err)
			}
			vs = append(vs, v)
		}
		var f *Filter
		if len(vs) == 1 {
			f = Eq(name, vs[0])
		} else {
			f = In(name, vs...)
		}
		if neg {
			f = Not(f)
		}
		fs = append(fs, f)
	}
	return And(fs...), nil
}

// splitTerms splits expr at blanks outside parentheses.
func splitTerms(expr string) ([]string, error) {
	var terms []string
	depth := 0
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			terms = append(terms, cur.String())
			cur.Reset()
		}
	}
	for _, ch := range expr {
		switch {
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses")
			}
		case (ch == ' ' || ch == '\t') && depth == 0:
			flush()
			continue
		}
		cur.WriteRune(ch)
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	flush()
	return terms, nil
}
