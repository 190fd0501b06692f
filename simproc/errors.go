// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"errors"
	"fmt"

	"github.com/xbarsim/xbarperf/simfmt"
)

// ErrNoData is returned when there is nothing to select from or plot.
var ErrNoData = errors.New("no data")

// A MissingFieldError reports a Record that lacks a field needed for
// scoring.
type MissingFieldError struct {
	Field  string
	Record *simfmt.Record
}

func (e *MissingFieldError) Error() string {
	name := e.Record.FileName()
	if name == "" {
		name = "{" + e.Record.String() + "}"
	}
	return fmt.Sprintf("record %s: missing field %s", name, e.Field)
}
