// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// A DuplicatePolicy says what Extract does when a label occurs more
// than once in one report.
type DuplicatePolicy int

const (
	// FirstMatch uses the first occurrence of each label and
	// ignores the rest.
	FirstMatch DuplicatePolicy = iota
	// LastMatch uses the last occurrence of each label.
	LastMatch
	// RejectDuplicates fails extraction with a *DuplicateError.
	RejectDuplicates
)

var duplicateNames = map[string]DuplicatePolicy{
	"first": FirstMatch,
	"last":  LastMatch,
	"error": RejectDuplicates,
}

// ParseDuplicatePolicy parses "first", "last", or "error".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	p, ok := duplicateNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown duplicate policy %q (want first, last, or error)", s)
	}
	return p, nil
}

func (p DuplicatePolicy) String() string {
	for name, q := range duplicateNames {
		if p == q {
			return name
		}
	}
	return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
}

// ExtractOptions configure Extract. The zero value extracts every
// DefaultSchema field in non-strict, first-match mode.
type ExtractOptions struct {
	// Schema is the set of recognized fields. If nil,
	// DefaultSchema is used.
	Schema *Schema

	// Strict requires every field in Required to be present. If
	// any is missing, Extract returns an *IncompleteError and no
	// Record.
	Strict bool

	// Required lists the fields Strict mode requires. If empty,
	// every field of Schema is required.
	Required []string

	// Duplicates is the policy for repeated labels.
	Duplicates DuplicatePolicy

	// FileName is used in error messages; it is purely
	// diagnostic.
	FileName string
}

func (o *ExtractOptions) schema() *Schema {
	if o.Schema == nil {
		return DefaultSchema
	}
	return o.Schema
}

// Validate checks that every Required field exists in the schema.
func (o *ExtractOptions) Validate() error {
	s := o.schema()
	for _, name := range o.Required {
		if s.index(name) < 0 {
			return fmt.Errorf("required field %q is not in the schema", name)
		}
	}
	return nil
}

// Extract parses the text of one report into a Record.
//
// Each line of the form "Label: value[ unit]" whose Label is a field
// of the schema contributes that field. Labels match exactly and only
// at the start of a line, so "Bandwidth" never matches "Required
// Minimum Bandwidth". Lines with unknown labels and other text are
// ignored. A value that does not parse as its field's Kind leaves the
// field absent; the failure is available from Record.Problems.
//
// Extract never reads files and keeps no state between calls.
func Extract(data []byte, opts ExtractOptions) (*Record, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	schema := opts.schema()
	fileName := opts.FileName
	if fileName == "" {
		fileName = "<unknown>"
	}

	rec := newRecord(schema)
	seen := make([]int, len(schema.fields)) // line of first occurrence
	failed := make([]*FieldError, len(schema.fields))

	s := bufio.NewScanner(bytes.NewReader(data))
	s.Buffer(nil, len(data)+1) // a report line may be arbitrarily long
	line := 0
	for s.Scan() {
		line++
		label, val, ok := parseLabelLine(s.Bytes())
		if !ok {
			continue
		}
		i, ok := schema.byLabel[string(label)]
		if !ok {
			continue
		}
		field := schema.fields[i]
		if opts.Duplicates == FirstMatch && rec.has[i] {
			// An earlier line already supplied a value. Lines that
			// failed to parse do not count as matches.
			continue
		}
		if seen[i] != 0 && opts.Duplicates == RejectDuplicates {
			return nil, &DuplicateError{fileName, field.Name, seen[i], line}
		}
		if seen[i] == 0 {
			seen[i] = line
		}

		v, err := parseValue(field.Kind, val)
		if err != nil {
			rec.has[i] = false
			failed[i] = &FieldError{fileName, line, field.Name, string(val), err}
			continue
		}
		rec.vals[i], rec.has[i] = v, true
		failed[i] = nil
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", fileName, line, err)
	}

	for _, fe := range failed {
		if fe != nil {
			rec.problems = append(rec.problems, fe)
		}
	}

	if opts.Strict {
		if missing := rec.missing(opts.Required); len(missing) > 0 {
			return nil, &IncompleteError{fileName, missing, rec.problems}
		}
	}
	return rec, nil
}

// missing returns the absent fields among required, or among all
// fields if required is empty, in schema order.
func (r *Record) missing(required []string) []string {
	want := make([]bool, len(r.schema.fields))
	if len(required) == 0 {
		for i := range want {
			want[i] = true
		}
	}
	for _, name := range required {
		want[r.schema.index(name)] = true
	}
	var missing []string
	for i, f := range r.schema.fields {
		if want[i] && !r.has[i] {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// parseLabelLine attempts to parse line as "Label: value", with ok
// reporting whether the line could be parsed. Leading blanks are
// skipped; the label may contain inner spaces but no colon.
func parseLabelLine(line []byte) (label, val []byte, ok bool) {
	line = bytes.TrimLeft(line, " \t")
	i := bytes.IndexByte(line, ':')
	if i <= 0 {
		return nil, nil, false
	}
	label = bytes.TrimRight(line[:i], " \t")
	if len(label) == 0 {
		return nil, nil, false
	}
	val = bytes.TrimSpace(line[i+1:])
	return label, val, true
}

var (
	errNoValue    = errors.New("missing value")
	errSyntax     = errors.New("invalid syntax")
	errOutOfRange = errors.New("fraction out of range [0, 1]")
)

// ParseValue parses s as a value of the given kind, the way Extract
// parses the text after a label.
func ParseValue(kind Kind, s string) (Value, error) {
	return parseValue(kind, bytes.TrimSpace([]byte(s)))
}

// parseValue parses the leading token of val as kind. Anything after
// the first run of blanks is unit text and is ignored. Text takes all
// of val.
func parseValue(kind Kind, val []byte) (Value, error) {
	if kind == Text {
		if len(val) == 0 {
			return Value{}, errNoValue
		}
		return TextValue(string(val)), nil
	}
	tok, _ := splitField(val)
	if len(tok) == 0 {
		return Value{}, errNoValue
	}
	switch kind {
	case Int:
		n, err := atoi(tok)
		if err != nil {
			return Value{}, err
		}
		return IntValue(n), nil
	case Float, Fraction:
		f, err := atof(tok)
		if err != nil {
			return Value{}, err
		}
		if kind == Fraction {
			if f > 1 {
				return Value{}, errOutOfRange
			}
			return FractionValue(f), nil
		}
		return FloatValue(f), nil
	case Size:
		star := bytes.IndexByte(tok, '*')
		if star < 0 {
			return Value{}, errSyntax
		}
		w, err := atoi(tok[:star])
		if err != nil {
			return Value{}, err
		}
		h, err := atoi(tok[star+1:])
		if err != nil {
			return Value{}, err
		}
		return SizeValue(int(w), int(h)), nil
	}
	return Value{}, fmt.Errorf("unknown kind %v", kind)
}

// atoi parses an unsigned decimal integer. Signs, underscores and
// other prefixes strconv would accept are rejected.
func atoi(x []byte) (int64, error) {
	if len(x) == 0 {
		return 0, errSyntax
	}
	for _, ch := range x {
		if ch < '0' || ch > '9' {
			return 0, errSyntax
		}
	}
	n, err := strconv.ParseInt(string(x), 10, 64)
	if err != nil {
		return 0, err.(*strconv.NumError).Err
	}
	return n, nil
}

// atof parses an unsigned decimal number with an optional exponent,
// such as "12", "0.5", ".5", or "1234e-6".
func atof(x []byte) (float64, error) {
	digits := false
	for i, ch := range x {
		switch {
		case ch >= '0' && ch <= '9':
			digits = true
		case ch == '.' || ch == 'e' || ch == 'E':
		case (ch == '+' || ch == '-') && i > 0 && (x[i-1] == 'e' || x[i-1] == 'E'):
		default:
			return 0, errSyntax
		}
	}
	if !digits {
		return 0, errSyntax
	}
	f, err := strconv.ParseFloat(string(x), 64)
	if err != nil {
		return 0, err.(*strconv.NumError).Err
	}
	return f, nil
}

// splitField returns the leading run of non-blank bytes of x and the
// remainder after the blanks that follow it.
func splitField(x []byte) (field, rest []byte) {
	i := bytes.IndexAny(x, " \t")
	if i < 0 {
		return x, nil
	}
	return x[:i], bytes.TrimLeft(x[i:], " \t")
}
