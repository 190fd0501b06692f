// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"bytes"
	"io"
)

// A Writer writes Records in report format.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewWriter returns a writer that writes reports to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the present fields of rec, one "Label: value[ unit]"
// line each, in schema order. Extracting the output with the same
// schema yields a Record equal to rec.
func (w *Writer) Write(rec *Record) error {
	for i, f := range rec.schema.fields {
		if !rec.has[i] {
			continue
		}
		w.buf.WriteString(f.Label)
		w.buf.WriteString(": ")
		w.buf.WriteString(rec.vals[i].String())
		if f.Unit != "" {
			w.buf.WriteByte(' ')
			w.buf.WriteString(f.Unit)
		}
		w.buf.WriteByte('\n')
	}

	// Flush the buffer out to the io.Writer. Write to the buffer
	// can't fail, so we only have to check if this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
