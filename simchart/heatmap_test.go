// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simchart

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/xbarsim/xbarperf/simproc"
)

func testHeatMap() *HeatMap {
	nan := math.NaN()
	return &HeatMap{
		Title: "bit_precision:4 delay",
		X:     Axis{Label: "crossbar_size"},
		Y:     Axis{Label: "bandwidth"},
		Grid: &simproc.Grid{
			X: []float64{8, 16, 64},
			Y: []float64{16, 32},
			Z: [][]float64{{400, 250, nan}, {nan, 300, 50}},
			N: [][]int{{1, 2, 0}, {0, 1, 1}},
		},
	}
}

func TestHeatMapSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testHeatMap(), SVG); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") {
		t.Fatalf("output is not SVG")
	}
	for _, want := range []string{">250<", ">64<", ">bandwidth<"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %s", want)
		}
	}
}

func TestHeatMapPNG(t *testing.T) {
	h := testHeatMap()
	h.Grid = &simproc.Grid{X: []float64{32}, Y: []float64{16}, Z: [][]float64{{7}}, N: [][]int{{1}}}
	dir := t.TempDir()
	path, err := WriteFile(dir, h.Title, h, PNG)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "bit_precision-4_delay.png") {
		t.Errorf("path = %s", path)
	}
}

func TestHeatMapEmpty(t *testing.T) {
	nan := math.NaN()
	for _, g := range []*simproc.Grid{nil, {X: []float64{1}, Y: []float64{1}, Z: [][]float64{{nan}}, N: [][]int{{0}}}} {
		var buf bytes.Buffer
		if err := Render(&buf, &HeatMap{Grid: g}, SVG); err != simproc.ErrNoData {
			t.Errorf("grid %v: got %v, want ErrNoData", g, err)
		}
	}
}
