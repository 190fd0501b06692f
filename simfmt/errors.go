// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteRecord is matched by errors.Is for every
// *IncompleteError.
var ErrIncompleteRecord = errors.New("incomplete record")

// A FieldError reports a labeled value that could not be parsed as
// its field's Kind. Extract treats such a field as absent.
type FieldError struct {
	FileName string
	Line     int
	Field    string
	Text     string
	Err      error
}

func (e *FieldError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s:%d: field %s: parsing %q: %v", e.FileName, e.Line, e.Field, e.Text, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// An IncompleteError is returned by Extract in strict mode when a
// required field is absent or failed to parse.
type IncompleteError struct {
	FileName string
	// Missing lists the required fields that are absent, in
	// schema order. This includes fields listed in Problems.
	Missing []string
	// Problems are the coercion failures, if any, that
	// contributed to Missing.
	Problems []error
}

func (e *IncompleteError) Error() string {
	msg := fmt.Sprintf("%s: incomplete record: missing %s", e.FileName, strings.Join(e.Missing, ", "))
	if len(e.Problems) > 0 {
		msg += fmt.Sprintf(" (%d unparsable)", len(e.Problems))
	}
	return msg
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncompleteRecord
}

// A DuplicateError is returned by Extract under RejectDuplicates when
// a label appears more than once in a report.
type DuplicateError struct {
	FileName    string
	Field       string
	First, Line int
}

func (e *DuplicateError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s:%d: field %s already set on line %d", e.FileName, e.Line, e.Field, e.First)
}
