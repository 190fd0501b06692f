// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"bytes"
	"testing"
)

func TestWriterRoundTrip(t *testing.T) {
	for _, text := range []string{
		fullReport,
		"Crossbar Size: 8*8\nDelay: 12.5\n",
		"",
	} {
		rec := mustExtract(t, text, ExtractOptions{})

		var buf bytes.Buffer
		if err := NewWriter(&buf).Write(rec); err != nil {
			t.Fatal(err)
		}
		rec2 := mustExtract(t, buf.String(), ExtractOptions{})
		if !rec.Equal(rec2) {
			t.Errorf("round trip of %q:\nwrote %q\ngot  %v\nwant %v", text, buf.String(), rec2, rec)
		}
	}
}

func TestWriterFormat(t *testing.T) {
	rec, err := NewRecord(nil, map[string]Value{
		Delay:        FloatValue(100),
		CrossbarSize: SizeValue(16, 16),
		"bw":         IntValue(32),
	})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(rec); err != nil {
		t.Fatal(err)
	}
	want := "Crossbar Size: 16*16\nBandwidth: 32 bits per unit time\nDelay: 100 unit time\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
