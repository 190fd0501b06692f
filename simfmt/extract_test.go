// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const fullReport = `Crossbar Size: 64*64
Bit Precision: 4
Crossbar Amount: 1210
Crossbar Usage Proportion: 0.71
Required Minimum Bandwidth: 512 bits per unit time
Bandwidth: 64 bits per unit time
Delay: 91342 unit time
Total Bits transferred: 31000000 bits

Sim Time Cost: 1234e-6 s
`

func mustExtract(t *testing.T, text string, opts ExtractOptions) *Record {
	t.Helper()
	rec, err := Extract([]byte(text), opts)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return rec
}

func TestExtractFull(t *testing.T) {
	rec := mustExtract(t, fullReport, ExtractOptions{Strict: true})
	want := map[string]Value{
		CrossbarSize:      SizeValue(64, 64),
		BitPrecision:      IntValue(4),
		CrossbarAmount:    IntValue(1210),
		Usage:             FractionValue(0.71),
		RequiredBandwidth: FloatValue(512),
		Bandwidth:         IntValue(64),
		Delay:             FloatValue(91342),
		TotalBits:         FloatValue(31000000),
		SimTimeCost:       FloatValue(1234e-6),
	}
	for name, w := range want {
		got, ok := rec.Get(name)
		if !ok {
			t.Errorf("field %s missing", name)
			continue
		}
		if got != w {
			t.Errorf("field %s: got %v, want %v", name, got, w)
		}
	}
	if len(rec.Problems()) != 0 {
		t.Errorf("unexpected problems: %v", rec.Problems())
	}
}

func TestExtractField(t *testing.T) {
	// Each field parses exactly regardless of which other fields
	// are present.
	type testCase struct {
		line  string
		field string
		want  Value
	}
	for _, test := range []testCase{
		{"Crossbar Size: 8*16", CrossbarSize, SizeValue(8, 16)},
		{"Bit Precision: 8", BitPrecision, IntValue(8)},
		{"Crossbar Amount: 42", CrossbarAmount, IntValue(42)},
		{"Crossbar Usage Proportion: 1", Usage, FractionValue(1)},
		{"Crossbar Usage Proportion: .25", Usage, FractionValue(0.25)},
		{"Bandwidth: 1024 bits per unit time", Bandwidth, IntValue(1024)},
		{"Bandwidth: 16", Bandwidth, IntValue(16)},
		{"Delay: 100 unit time", Delay, FloatValue(100)},
		{"Delay: 12.5", Delay, FloatValue(12.5)},
		{"Total Bits transferred: 3.1e+07 bits", TotalBits, FloatValue(3.1e7)},
		{"  Delay:\t7", Delay, FloatValue(7)},
	} {
		for _, other := range []string{"", fullReport} {
			text := test.line + "\n"
			if other != "" {
				// Put the line first so it wins under FirstMatch.
				text = test.line + "\n" + other
			}
			rec := mustExtract(t, text, ExtractOptions{})
			got, ok := rec.Get(test.field)
			if !ok || got != test.want {
				t.Errorf("%q (with other fields: %v): got %v, %v; want %v", test.line, other != "", got, ok, test.want)
			}
		}
	}
}

func TestExtractLabelAnchoring(t *testing.T) {
	// "Bandwidth" must not match inside "Required Minimum Bandwidth".
	rec := mustExtract(t, "Required Minimum Bandwidth: 512 bits per unit time\n", ExtractOptions{})
	if rec.Has(Bandwidth) {
		t.Errorf("Bandwidth extracted from Required Minimum Bandwidth line: %v", rec)
	}
	if v, ok := rec.Metric(RequiredBandwidth); !ok || v != 512 {
		t.Errorf("required bandwidth: got %v, %v", v, ok)
	}

	// Nor inside a longer line.
	rec = mustExtract(t, "Note - Delay: 5\n", ExtractOptions{})
	if rec.Has(Delay) {
		t.Errorf("Delay extracted from unrelated line: %v", rec)
	}
}

func TestExtractCoercion(t *testing.T) {
	for _, line := range []string{
		"Bit Precision: 4.5",
		"Bit Precision: -4",
		"Bit Precision: +4",
		"Bit Precision: four",
		"Bit Precision:",
		"Crossbar Size: 64",
		"Crossbar Size: 64*",
		"Crossbar Size: 64x64",
		"Crossbar Usage Proportion: 1.5",
		"Delay: NaN",
		"Delay: inf",
		"Delay: 0x10",
		"Delay: 1_000",
		"Delay: 1e999",
	} {
		rec := mustExtract(t, line+"\n", ExtractOptions{})
		if len(rec.Fields()) != 0 {
			t.Errorf("%q: got fields %v, want none", line, rec.Fields())
		}
		probs := rec.Problems()
		if len(probs) != 1 {
			t.Errorf("%q: got %d problems, want 1", line, len(probs))
			continue
		}
		var fe *FieldError
		if !errors.As(probs[0], &fe) {
			t.Errorf("%q: problem %T is not a *FieldError", line, probs[0])
		}
	}
}

func TestExtractStrict(t *testing.T) {
	partial := "Crossbar Size: 8*8\nBit Precision: x\nDelay: 100 unit time\n"

	// Non-strict keeps the partial record.
	rec := mustExtract(t, partial, ExtractOptions{})
	if want := []string{CrossbarSize, Delay}; !reflect.DeepEqual(rec.Fields(), want) {
		t.Errorf("non-strict fields: got %v, want %v", rec.Fields(), want)
	}

	// Strict with all fields required rejects it.
	rec, err := Extract([]byte(partial), ExtractOptions{Strict: true, FileName: "a.txt"})
	if rec != nil || !errors.Is(err, ErrIncompleteRecord) {
		t.Fatalf("strict: got %v, %v; want nil, ErrIncompleteRecord", rec, err)
	}
	ie := err.(*IncompleteError)
	if ie.Missing[0] != BitPrecision || len(ie.Problems) != 1 {
		t.Errorf("strict: got missing %v, problems %v", ie.Missing, ie.Problems)
	}
	if !strings.HasPrefix(err.Error(), "a.txt: incomplete record: missing bit_precision") {
		t.Errorf("strict: bad message %q", err)
	}

	// Strict with a satisfied subset accepts it.
	opts := ExtractOptions{Strict: true, Required: []string{CrossbarSize, Delay}}
	rec = mustExtract(t, partial, opts)
	if !rec.Has(CrossbarSize, Delay) {
		t.Errorf("strict subset: got %v", rec)
	}

	// Unknown required fields are a caller error.
	_, err = Extract([]byte(partial), ExtractOptions{Strict: true, Required: []string{"latency"}})
	if err == nil || errors.Is(err, ErrIncompleteRecord) {
		t.Errorf("unknown required field: got %v", err)
	}
}

func TestExtractDuplicates(t *testing.T) {
	text := "Delay: 100\nBandwidth: 16\nDelay: 200\n"
	check := func(p DuplicatePolicy, want float64) {
		t.Helper()
		rec := mustExtract(t, text, ExtractOptions{Duplicates: p})
		if got, _ := rec.Metric(Delay); got != want {
			t.Errorf("%v: got delay %v, want %v", p, got, want)
		}
	}
	check(FirstMatch, 100)
	check(LastMatch, 200)

	_, err := Extract([]byte(text), ExtractOptions{Duplicates: RejectDuplicates, FileName: "dup.txt"})
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("RejectDuplicates: got %v, want *DuplicateError", err)
	}
	if de.Field != Delay || de.First != 1 || de.Line != 3 {
		t.Errorf("RejectDuplicates: got %+v", de)
	}
	if want := "dup.txt:3: field delay already set on line 1"; err.Error() != want {
		t.Errorf("got %q, want %q", err, want)
	}
}

func TestExtractDuplicateUnparsed(t *testing.T) {
	// A line that fails to parse does not hide a later valid one.
	text := "Delay: pending unit time\nDelay: 100 unit time\n"
	for _, p := range []DuplicatePolicy{FirstMatch, LastMatch} {
		rec := mustExtract(t, text, ExtractOptions{Duplicates: p})
		if got, ok := rec.Metric(Delay); !ok || got != 100 {
			t.Errorf("%v: got delay %v, %v; want 100", p, got, ok)
		}
		if len(rec.Problems()) != 0 {
			t.Errorf("%v: unexpected problems %v", p, rec.Problems())
		}
	}

	// A valid first line still wins over a later unparsable one.
	rec := mustExtract(t, "Delay: 100\nDelay: pending\n", ExtractOptions{})
	if got, ok := rec.Metric(Delay); !ok || got != 100 {
		t.Errorf("got delay %v, %v; want 100", got, ok)
	}
}

func TestExtractLongLine(t *testing.T) {
	text := "Delay: 7 unit time\nNote: " + strings.Repeat("x", 1<<20) + "\nBandwidth: 16\n"
	rec := mustExtract(t, text, ExtractOptions{})
	if !rec.Has(Delay, Bandwidth) {
		t.Errorf("got fields %v, want delay and bandwidth", rec.Fields())
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	for _, name := range []string{"first", "last", "error"} {
		p, err := ParseDuplicatePolicy(name)
		if err != nil || p.String() != name {
			t.Errorf("%s: got %v, %v", name, p, err)
		}
	}
	if _, err := ParseDuplicatePolicy("any"); err == nil {
		t.Errorf("want error for unknown policy")
	}
}

func TestExtractIdempotent(t *testing.T) {
	opts := ExtractOptions{}
	a := mustExtract(t, fullReport, opts)
	b := mustExtract(t, fullReport, opts)
	if !a.Equal(b) || Compare(a, b) != 0 {
		t.Errorf("re-extraction differs:\n%v\n%v", a, b)
	}
}

func TestExtractEmpty(t *testing.T) {
	rec := mustExtract(t, "", ExtractOptions{})
	if len(rec.Fields()) != 0 {
		t.Errorf("got fields %v from empty report", rec.Fields())
	}
	if _, err := Extract(nil, ExtractOptions{Strict: true}); !errors.Is(err, ErrIncompleteRecord) {
		t.Errorf("strict empty: got %v", err)
	}
}

func TestExtractAliases(t *testing.T) {
	rec := mustExtract(t, fullReport, ExtractOptions{})
	for alias, name := range map[string]string{"usage": Usage, "bw": Bandwidth, "total_bits": TotalBits} {
		a, ok1 := rec.Get(alias)
		b, ok2 := rec.Get(name)
		if !ok1 || !ok2 || a != b {
			t.Errorf("alias %s: got %v, want %v", alias, a, b)
		}
		if DefaultSchema.Canonical(alias) != name {
			t.Errorf("Canonical(%s) = %q, want %q", alias, DefaultSchema.Canonical(alias), name)
		}
	}
}
