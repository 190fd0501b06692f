// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func report(size, prec, bw int, delay float64) string {
	return fmt.Sprintf("Crossbar Size: %d*%d\nBit Precision: %d\nBandwidth: %d\nDelay: %v\n", size, size, prec, bw, delay)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeReports(t, dir, map[string]string{
		"r3.txt":  report(64, 8, 16, 30),
		"r1.txt":  report(16, 4, 32, 10),
		"r2.txt":  report(16, 4, 16, 20),
		"bad.txt": "Crossbar Size: 16*16\nDelay: 5\n",
	})

	strict := ExtractOptions{Strict: true, Required: []string{CrossbarSize, BitPrecision, Bandwidth, Delay}}
	var want []string
	for _, workers := range []int{0, 1, 4} {
		l := &Loader{Options: strict, Workers: workers}
		b, err := l.Load(context.Background(), &Files{Paths: []string{"cnn=" + dir}, AllowLabels: true})
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, r := range b.Records {
			if r.Source() != "cnn" {
				t.Errorf("record %v has source %q", r, r.Source())
			}
			got = append(got, filepath.Base(r.FileName()))
		}
		if want == nil {
			// Canonical order: size 16 before 64, then precision,
			// then bandwidth.
			want = []string{"r2.txt", "r1.txt", "r3.txt"}
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("workers=%d: got %v, want %v", workers, got, want)
		}
		if len(b.Rejected) != 1 || filepath.Base(b.Rejected[0].Path) != "bad.txt" {
			t.Fatalf("workers=%d: got rejected %v", workers, b.Rejected)
		}
		if !errors.Is(b.Rejected[0], ErrIncompleteRecord) {
			t.Errorf("rejection %v is not ErrIncompleteRecord", b.Rejected[0])
		}
	}

	// Non-strict loading keeps the partial record.
	b, err := (&Loader{}).Load(context.Background(), &Files{Paths: []string{dir}})
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Records) != 4 || len(b.Rejected) != 0 {
		t.Errorf("non-strict: got %d records, %d rejected", len(b.Records), len(b.Rejected))
	}
}

func TestLoadEmpty(t *testing.T) {
	b, err := (&Loader{}).Load(context.Background(), &Files{Paths: []string{t.TempDir()}})
	if err != nil {
		t.Fatal(err)
	}
	if b.Records == nil || len(b.Records) != 0 {
		t.Errorf("got %#v, want empty non-nil records", b.Records)
	}
}

func TestLoadCanceled(t *testing.T) {
	dir := t.TempDir()
	writeReports(t, dir, map[string]string{"a.txt": report(8, 1, 16, 1)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		_, err := (&Loader{Workers: workers}).Load(ctx, &Files{Paths: []string{dir}})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: got %v, want context.Canceled", workers, err)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := (&Loader{}).Load(context.Background(), &Files{Paths: []string{filepath.Join(t.TempDir(), "nope")}})
	if err == nil {
		t.Fatal("want error for missing path")
	}
}
