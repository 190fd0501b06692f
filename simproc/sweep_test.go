// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xbarsim/xbarperf/simfmt"
)

func TestSweep(t *testing.T) {
	recs := []*simfmt.Record{
		cfg(t, 32, 300, 16),
		cfg(t, 16, 400, 8),
		cfg(t, 16, 100, 32),
		cfg(t, 16, 200, 16),
		cfg(t, 16, 300, 16).WithSource("", "repeat"),
		cfg(t, 32, 50, 64),
		mkRecord(t, simfmt.Bandwidth, 16, simfmt.CrossbarSize, 4), // no delay
	}
	series, err := Sweep(recs, mustParseProjection(t, "bandwidth"), simfmt.CrossbarSize, simfmt.Delay)
	if err != nil {
		t.Fatal(err)
	}

	type flat struct {
		Label  string
		Points []Point
	}
	var got []flat
	for _, s := range series {
		got = append(got, flat{s.Label, s.Points})
	}
	want := []flat{
		{"16", []Point{{8, 400, 1}, {16, 250, 2}, {32, 100, 1}}},
		{"32", []Point{{16, 300, 1}, {64, 50, 1}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if _, err := Sweep(recs, mustParseProjection(t, "bandwidth"), simfmt.CrossbarSize, simfmt.Usage); err != ErrNoData {
		t.Errorf("no points: got %v, want ErrNoData", err)
	}
}

func TestFrontier(t *testing.T) {
	a := cfg(t, 16, 100, 32)
	b := cfg(t, 32, 50, 8)
	sels := []Selection{{Record: a}, {Record: b}}
	s, err := Frontier(sels, "optimal", simfmt.CrossbarSize, simfmt.Delay)
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{{8, 50, 1}, {32, 100, 1}}
	if diff := cmp.Diff(want, s.Points); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if !s.Key.IsZero() || s.Label != "optimal" {
		t.Errorf("got key %v label %q", s.Key, s.Label)
	}
	if _, err := Frontier(nil, "x", simfmt.CrossbarSize, simfmt.Delay); err != ErrNoData {
		t.Errorf("got %v, want ErrNoData", err)
	}
}
