// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"sort"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/xbarsim/xbarperf/simfmt"
)

// A Point is one (x, y) observation of a Series. If several Records
// share an x value, Y is their mean and N is their count.
type Point struct {
	X, Y float64
	N    int
}

// A Series is an ordered sequence of Points with a label.
type Series struct {
	// Key identifies the series. It is zero for series that are
	// not derived from a Projection, such as a Frontier.
	Key   Key
	Label string

	// Points are in ascending order of X.
	Points []Point
}

// Sweep pivots records into one Series per Key of proj, plotting
// metric y against metric x. Points with equal x within a Series are
// averaged. Records lacking x, y, or a key field are skipped.
//
// Series are returned in Key order. Sweep returns ErrNoData if no
// Record contributes a Point.
func Sweep(records []*simfmt.Record, proj *Projection, x, y string) ([]*Series, error) {
	var keys []Key
	var xs, ys []float64
	filter := proj.Filter()
	for _, r := range records {
		if !filter.Match(r) {
			continue
		}
		key, ok := proj.Project(r)
		if !ok {
			continue
		}
		xv, ok1 := metric(r, x)
		yv, ok2 := metric(r, y)
		if !ok1 || !ok2 {
			continue
		}
		keys = append(keys, key)
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	if len(keys) == 0 {
		return nil, ErrNoData
	}

	tab := new(table.Builder).Add("series", keys).Add("x", xs).Add("y", ys).Done()
	g := table.GroupBy(tab, "series")
	g = ggstat.Agg("x")(ggstat.AggMean("y"), ggstat.AggCount("n")).F(g)
	g = table.SortBy(g, "x")

	var out []*Series
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		key := gid.Label().(Key)
		s := &Series{Key: key, Label: key.StringValues()}
		px := t.MustColumn("x").([]float64)
		py := t.MustColumn("mean y").([]float64)
		pn := t.MustColumn("n").([]int)
		for i := range px {
			s.Points = append(s.Points, Point{px[i], py[i], pn[i]})
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.Less(out[j].Key)
	})
	return out, nil
}

// Frontier returns the Series through the selected Records, plotting
// metric y against metric x, labeled label. Selections lacking x or y
// are skipped. Frontier returns ErrNoData if none remain.
func Frontier(sels []Selection, label, x, y string) (*Series, error) {
	s := &Series{Label: label}
	for _, sel := range sels {
		xv, ok1 := metric(sel.Record, x)
		yv, ok2 := metric(sel.Record, y)
		if !ok1 || !ok2 {
			continue
		}
		s.Points = append(s.Points, Point{xv, yv, 1})
	}
	if len(s.Points) == 0 {
		return nil, ErrNoData
	}
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].X < s.Points[j].X
	})
	return s, nil
}
