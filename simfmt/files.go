// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// A Files lists report files from a sequence of paths.
//
// Each path may name a report file or a directory. A directory
// contributes every file in it whose name ends in Suffix, in name
// order; subdirectories are not descended into.
//
// Every report carries a source label. By default this is the path
// as given, except that duplicate paths are disambiguated by
// appending "#N". If AllowLabels is true, then entries in Paths may
// be of the form label=path, and the label part is used as the
// source (without any disambiguation).
type Files struct {
	// Paths is the list of files and directories to read.
	Paths []string

	// AllowLabels indicates that custom labels are allowed in
	// Paths.
	AllowLabels bool

	// Suffix selects report files within directories. If empty,
	// ".txt" is used.
	Suffix string
}

// An Input is one report file to read.
type Input struct {
	Source string
	Path   string
}

// Inputs expands Paths into the list of report files to read. It
// lists directories but does not open report files.
func (f *Files) Inputs() ([]Input, error) {
	suffix := f.Suffix
	if suffix == "" {
		suffix = ".txt"
	}

	type root struct {
		path, label string
		isLabeled   bool
	}
	var roots []root
	pathCount := make(map[string]int)
	for _, path := range f.Paths {
		label := path
		isLabeled := false
		if i := strings.Index(path, "="); f.AllowLabels && i >= 0 {
			label, path = path[:i], path[i+1:]
			isLabeled = true
		} else {
			pathCount[path]++
		}
		roots = append(roots, root{path, label, isLabeled})
	}

	// If the same path is given multiple times, disambiguate its
	// source. Otherwise the copies would be indistinguishable
	// duplicates of each other. For explicit labels, we do
	// exactly what the user says.
	pathI := make(map[string]int)
	for i := range roots {
		rt := &roots[i]
		if rt.isLabeled || pathCount[rt.path] == 1 {
			continue
		}
		rt.label = fmt.Sprintf("%s#%d", rt.path, pathI[rt.path])
		pathI[rt.path]++
	}

	inputs := []Input{}
	for _, rt := range roots {
		info, err := os.Stat(rt.path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			inputs = append(inputs, Input{rt.label, rt.path})
			continue
		}
		// ReadDir returns entries sorted by file name.
		ents, err := os.ReadDir(rt.path)
		if err != nil {
			return nil, err
		}
		for _, ent := range ents {
			if ent.IsDir() || !strings.HasSuffix(ent.Name(), suffix) {
				continue
			}
			inputs = append(inputs, Input{rt.label, filepath.Join(rt.path, ent.Name())})
		}
	}
	return inputs, nil
}
