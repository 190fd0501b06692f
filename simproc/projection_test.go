// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"testing"

	"github.com/xbarsim/xbarperf/simfmt"
)

func TestParseProjection(t *testing.T) {
	check := func(expr string, names ...string) *Projection {
		t.Helper()
		p, err := ParseProjection(nil, expr)
		if err != nil {
			t.Fatalf("%s: %v", expr, err)
		}
		var got []string
		for _, f := range p.Fields() {
			got = append(got, f.Name+"@"+f.Order.String())
		}
		if len(got) != len(names) {
			t.Fatalf("%s: got fields %v, want %v", expr, got, names)
		}
		for i := range got {
			if got[i] != names[i] {
				t.Errorf("%s: got fields %v, want %v", expr, got, names)
				break
			}
		}
		return p
	}
	check("bit_precision,bandwidth", "bit_precision@num", "bandwidth@num")
	check("bw@first", "bandwidth@first")
	check(" .source , usage@num", ".source@num", "crossbar_usage_proportion@num")
	p := check("bandwidth@(16 32 64),crossbar_size@(4*4 8*8)", "bandwidth@fixed", "crossbar_size@fixed")
	if p.Filter() == nil {
		t.Errorf("fixed projection has no filter")
	}
	if p.Field("bw") != p.Fields()[0] {
		t.Errorf("Field(bw) did not resolve the alias")
	}
	if mustParseProjection(t, "bandwidth").Filter() != nil {
		t.Errorf("numeric projection has a filter")
	}

	for _, bad := range []string{
		"latency",
		"bandwidth,",
		"bandwidth,bw",
		"bandwidth@alpha",
		"bandwidth@(16 x)",
		"bandwidth@()",
		"bandwidth@(16 16)",
	} {
		if _, err := ParseProjection(nil, bad); err == nil {
			t.Errorf("%q: want error", bad)
		}
	}
}

func TestKeyInterning(t *testing.T) {
	p := mustParseProjection(t, "bit_precision,bandwidth")
	a, ok1 := p.Project(cfg(t, 16, 100, 8))
	b, ok2 := p.Project(cfg(t, 16, 200, 4))
	c, ok3 := p.Project(cfg(t, 32, 100, 8))
	if !ok1 || !ok2 || !ok3 {
		t.Fatal("Project failed")
	}
	if a != b {
		t.Errorf("equal keys are not ==")
	}
	if a == c {
		t.Errorf("different keys are ==")
	}
	if _, ok := p.Project(mkRecord(t, simfmt.Delay, 1)); ok {
		t.Errorf("Project succeeded on a record without key fields")
	}
	if got, want := a.StringValues(), "4 16"; got != want {
		t.Errorf("StringValues() = %q, want %q", got, want)
	}
	if v, ok := a.Value("bw"); !ok || v != simfmt.IntValue(16) {
		t.Errorf("Value(bw) = %v, %v", v, ok)
	}
	if (Key{}).String() != "<zero>" {
		t.Errorf("zero Key String() = %q", Key{}.String())
	}
}

func TestSortKeys(t *testing.T) {
	type testCase struct {
		expr string
		bws  []int
		want string
	}
	for _, test := range []testCase{
		{"bandwidth", []int{1024, 16, 128, 32}, "16 32 128 1024"},
		{"bandwidth@first", []int{1024, 16, 128, 32}, "1024 16 128 32"},
		{"bandwidth@(1024 16 128 32)", []int{32, 16, 128, 1024}, "1024 16 128 32"},
	} {
		p := mustParseProjection(t, test.expr)
		var keys []Key
		for _, bw := range test.bws {
			k, _ := p.Project(cfg(t, bw, 1, 1))
			keys = append(keys, k)
		}
		SortKeys(keys)
		got := ""
		for i, k := range keys {
			if i > 0 {
				got += " "
			}
			got += k.StringValues()
		}
		if got != test.want {
			t.Errorf("%s: got %s, want %s", test.expr, got, test.want)
		}
	}
}

func TestSortKeysSize(t *testing.T) {
	p := mustParseProjection(t, "crossbar_size")
	var keys []Key
	for _, size := range []int{256, 8, 64, 16} {
		k, _ := p.Project(cfg(t, 16, 1, size))
		keys = append(keys, k)
	}
	SortKeys(keys)
	got := ""
	for _, k := range keys {
		got += k.StringValues() + " "
	}
	if want := "8*8 16*16 64*64 256*256 "; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
