// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeReports creates dir and writes each name/content pair into it.
func writeReports(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0777); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0666); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFilesInputs(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "k2col")
	writeReports(t, dir, map[string]string{
		"b.txt":    "Delay: 2\n",
		"a.txt":    "Delay: 1\n",
		"notes.md": "Delay: 3\n",
	})
	writeReports(t, filepath.Join(dir, "sub"), map[string]string{"c.txt": "Delay: 4\n"})
	single := filepath.Join(tmp, "one.out")
	writeReports(t, tmp, map[string]string{"one.out": "Delay: 5\n"})

	check := func(f *Files, want []Input) {
		t.Helper()
		got, err := f.Inputs()
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v\nwant %v", got, want)
		}
	}

	a, b := filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")

	// Directories are listed in name order and filtered by suffix.
	check(&Files{Paths: []string{dir}}, []Input{{dir, a}, {dir, b}})

	// Explicit files are taken regardless of suffix.
	check(&Files{Paths: []string{single}}, []Input{{single, single}})

	// Repeated paths are disambiguated.
	check(&Files{Paths: []string{dir, dir}}, []Input{
		{dir + "#0", a}, {dir + "#0", b},
		{dir + "#1", a}, {dir + "#1", b},
	})

	// Labels.
	check(&Files{Paths: []string{"k2col=" + dir, "im2col=" + single}, AllowLabels: true},
		[]Input{{"k2col", a}, {"k2col", b}, {"im2col", single}})

	// Without AllowLabels, "=" is part of the path.
	if _, err := (&Files{Paths: []string{"x=" + dir}}).Inputs(); err == nil {
		t.Errorf("want error for nonexistent labeled path")
	}

	// Custom suffix.
	check(&Files{Paths: []string{dir}, Suffix: ".md"}, []Input{{dir, filepath.Join(dir, "notes.md")}})

	// An empty directory has no inputs, but is not an error.
	empty := filepath.Join(tmp, "empty")
	writeReports(t, empty, nil)
	check(&Files{Paths: []string{empty}}, []Input{})
}
