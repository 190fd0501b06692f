// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"math"
	"sort"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/xbarsim/xbarperf/simfmt"
)

// A Grid is the mean of one metric over every observed pair of two
// other metrics.
type Grid struct {
	// X and Y are the distinct values of the two axis metrics, in
	// ascending order.
	X, Y []float64

	// Z[j][i] is the mean at (X[i], Y[j]), or NaN if no Record has
	// that pair. N[j][i] is the number of Records averaged.
	Z [][]float64
	N [][]int
}

// Pivot averages metric z of records over each (x, y) pair. Records
// lacking x, y, or z are skipped. Pivot returns ErrNoData if no Record
// remains.
func Pivot(records []*simfmt.Record, x, y, z string) (*Grid, error) {
	var xs, ys, zs []float64
	for _, r := range records {
		xv, ok1 := metric(r, x)
		yv, ok2 := metric(r, y)
		zv, ok3 := metric(r, z)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
		zs = append(zs, zv)
	}
	if len(zs) == 0 {
		return nil, ErrNoData
	}

	tab := new(table.Builder).Add("x", xs).Add("y", ys).Add("z", zs).Done()
	g := ggstat.Agg("x", "y")(ggstat.AggMean("z"), ggstat.AggCount("n")).F(tab)
	t := g.Table(g.Tables()[0])
	px := t.MustColumn("x").([]float64)
	py := t.MustColumn("y").([]float64)
	pz := t.MustColumn("mean z").([]float64)
	pn := t.MustColumn("n").([]int)

	grid := &Grid{X: distinct(px), Y: distinct(py)}
	grid.Z = make([][]float64, len(grid.Y))
	grid.N = make([][]int, len(grid.Y))
	for j := range grid.Y {
		grid.Z[j] = make([]float64, len(grid.X))
		grid.N[j] = make([]int, len(grid.X))
		for i := range grid.Z[j] {
			grid.Z[j][i] = math.NaN()
		}
	}
	for k := range pz {
		i := sort.SearchFloat64s(grid.X, px[k])
		j := sort.SearchFloat64s(grid.Y, py[k])
		grid.Z[j][i] = pz[k]
		grid.N[j][i] = pn[k]
	}
	return grid, nil
}

// distinct returns the sorted distinct values of xs.
func distinct(xs []float64) []float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// Range returns the smallest and largest defined value of g.
func (g *Grid) Range() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range g.Z {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	return min, max
}
