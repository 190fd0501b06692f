// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xbarsim/xbarperf/simfmt"
)

// mkRecord builds a DefaultSchema record from name/value pairs.
// Values are given as ints, floats, or [2]int sizes.
func mkRecord(t *testing.T, kv ...interface{}) *simfmt.Record {
	t.Helper()
	fields := make(map[string]simfmt.Value)
	for i := 0; i < len(kv); i += 2 {
		name := kv[i].(string)
		f, ok := simfmt.DefaultSchema.Field(name)
		if !ok {
			t.Fatalf("unknown field %s", name)
		}
		var v simfmt.Value
		switch x := kv[i+1].(type) {
		case int:
			switch f.Kind {
			case simfmt.Int:
				v = simfmt.IntValue(int64(x))
			case simfmt.Size:
				v = simfmt.SizeValue(x, x)
			default:
				v = simfmt.FloatValue(float64(x))
			}
		case float64:
			if f.Kind == simfmt.Fraction {
				v = simfmt.FractionValue(x)
			} else {
				v = simfmt.FloatValue(x)
			}
		default:
			t.Fatalf("bad value %v", x)
		}
		fields[name] = v
	}
	r, err := simfmt.NewRecord(nil, fields)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// cfg is a record with a bandwidth, delay and square crossbar size.
func cfg(t *testing.T, bw, delay, size int) *simfmt.Record {
	t.Helper()
	return mkRecord(t, simfmt.BitPrecision, 4, simfmt.Bandwidth, bw, simfmt.Delay, delay, simfmt.CrossbarSize, size)
}

func mustParseProjection(t *testing.T, expr string) *Projection {
	t.Helper()
	p, err := ParseProjection(nil, expr)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func keyStrings(g *Grouping) []string {
	var out []string
	for _, grp := range g.Groups {
		out = append(out, grp.Key.String())
	}
	return out
}

func TestGroupByOrder(t *testing.T) {
	proj := mustParseProjection(t, "bit_precision,bandwidth")
	var recs []*simfmt.Record
	for _, bw := range []int{1024, 16, 128, 32, 16} {
		recs = append(recs, cfg(t, bw, 100, 8))
	}
	g := GroupBy(recs, proj)
	want := []string{
		"bit_precision:4 bandwidth:16",
		"bit_precision:4 bandwidth:32",
		"bit_precision:4 bandwidth:128",
		"bit_precision:4 bandwidth:1024",
	}
	if diff := cmp.Diff(want, keyStrings(g)); diff != "" {
		t.Errorf("group order (-want +got):\n%s", diff)
	}
	if n := len(g.Groups[0].Records); n != 2 {
		t.Errorf("bandwidth 16 group has %d records, want 2", n)
	}
}

func TestGroupByPartition(t *testing.T) {
	proj := mustParseProjection(t, "bandwidth@(16 32 64 128 256 512 1024)")
	recs := []*simfmt.Record{
		cfg(t, 16, 100, 8),
		cfg(t, 48, 100, 8), // not in the enumeration
		cfg(t, 64, 90, 4),
		mkRecord(t, simfmt.Delay, 5), // no bandwidth
		cfg(t, 16, 80, 2),
		cfg(t, 1024, 10, 64),
	}
	g := GroupBy(recs, proj)

	seen := make(map[*simfmt.Record]int)
	for _, grp := range g.Groups {
		if len(grp.Records) == 0 {
			t.Errorf("group %v is empty", grp.Key)
		}
		for _, r := range grp.Records {
			seen[r]++
			if k, _ := proj.Project(r); k != grp.Key {
				t.Errorf("record %v in group %v has key %v", r, grp.Key, k)
			}
		}
	}
	for _, r := range g.Residue {
		seen[r]++
	}
	for _, r := range g.Excluded {
		seen[r]++
	}
	for _, r := range recs {
		if seen[r] != 1 {
			t.Errorf("record %v appears %d times", r, seen[r])
		}
	}
	if len(g.Residue) != 1 || len(g.Excluded) != 1 {
		t.Errorf("got %d residue, %d excluded; want 1, 1", len(g.Residue), len(g.Excluded))
	}
	if g.Len() != 4 {
		t.Errorf("Len() = %d, want 4", g.Len())
	}
	if len(g.All) != len(recs) {
		t.Errorf("All has %d records, want %d", len(g.All), len(recs))
	}
	if got, want := fmt.Sprint(keyStrings(g)), "[bandwidth:16 bandwidth:64 bandwidth:1024]"; got != want {
		t.Errorf("keys %s, want %s", got, want)
	}
}

func TestGroupByOrderIndependent(t *testing.T) {
	var recs []*simfmt.Record
	for _, bw := range []int{16, 32, 64} {
		for _, size := range []int{2, 4, 8, 16} {
			recs = append(recs, cfg(t, bw, 1000/size+bw, size))
		}
	}
	proj := mustParseProjection(t, "bandwidth")
	want := GroupBy(recs, proj)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuf := append([]*simfmt.Record(nil), recs...)
		rng.Shuffle(len(shuf), func(i, j int) { shuf[i], shuf[j] = shuf[j], shuf[i] })
		got := GroupBy(shuf, proj)
		if len(got.Groups) != len(want.Groups) {
			t.Fatalf("got %d groups, want %d", len(got.Groups), len(want.Groups))
		}
		for gi, grp := range got.Groups {
			wg := want.Groups[gi]
			if grp.Key != wg.Key {
				t.Errorf("group %d: key %v, want %v", gi, grp.Key, wg.Key)
			}
			for ri := range grp.Records {
				if grp.Records[ri] != wg.Records[ri] {
					t.Errorf("group %v record %d differs", grp.Key, ri)
				}
			}
		}
	}
}

func TestGroupBySource(t *testing.T) {
	a := cfg(t, 16, 100, 8).WithSource("k2col", "a.txt")
	b := cfg(t, 16, 100, 8).WithSource("im2col", "a.txt")
	g := GroupBy([]*simfmt.Record{a, b}, mustParseProjection(t, ".source,bandwidth"))
	want := []string{".source:im2col bandwidth:16", ".source:k2col bandwidth:16"}
	if diff := cmp.Diff(want, keyStrings(g)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if g.Lookup(g.Groups[1].Key).Records[0] != a {
		t.Errorf("Lookup returned the wrong group")
	}
}

func TestGroupByEmpty(t *testing.T) {
	g := GroupBy(nil, mustParseProjection(t, "bandwidth"))
	if len(g.Groups) != 0 || g.Len() != 0 {
		t.Errorf("got %d groups from no records", len(g.Groups))
	}
	if _, err := Select(g, MinMetric{simfmt.Delay}); err != ErrNoData {
		t.Errorf("Select on empty grouping: got %v, want ErrNoData", err)
	}
}
