// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/xbarsim/xbarperf/simfmt"
	"github.com/xbarsim/xbarperf/simproc"
	"github.com/xbarsim/xbarperf/simunit"
)

// A table is the tabular result of a command. It is rendered by one
// of the formatters in format.go.
type table struct {
	Title   string
	Columns []*column
	Rows    [][]cell
}

// A column describes one column of a table.
type column struct {
	Name string
	Kind simfmt.Kind
	// Scaler, if non-nil, chooses the display scale of the
	// column's numbers. Otherwise the unit class decides.
	Scaler func(vals []float64) simunit.Scaler
	Class  simunit.Class
}

type cell struct {
	V  simfmt.Value
	OK bool
}

func present(v simfmt.Value) cell { return cell{v, true} }

// fieldColumn returns a column for a field of DefaultSchema.
func fieldColumn(name string) *column {
	f, ok := simfmt.DefaultSchema.Field(name)
	if !ok {
		panic("unknown field " + name)
	}
	c := &column{Name: f.Name, Kind: f.Kind}
	switch f.Kind {
	case simfmt.Int:
		c.Class = simunit.Count
	case simfmt.Fraction:
		c.Class = simunit.Ratio
	case simfmt.Float:
		c.Class = simunit.ClassOf(f.Unit)
	}
	return c
}

func countColumn(name string) *column {
	return &column{Name: name, Kind: simfmt.Int, Class: simunit.Count}
}

func textColumn(name string) *column {
	return &column{Name: name, Kind: simfmt.Text}
}

// scoreColumn shows composite scores in [0, 1] with three decimals.
func scoreColumn(name string) *column {
	return &column{Name: name, Kind: simfmt.Float, Scaler: func([]float64) simunit.Scaler {
		return simunit.Scaler{Prec: 3, Factor: 1}
	}}
}

func (c *column) numeric() bool {
	return c.Kind != simfmt.Text && c.Kind != simfmt.Size
}

// scalers returns the display Scaler of each numeric column, chosen
// over the whole column.
func (t *table) scalers() []simunit.Scaler {
	out := make([]simunit.Scaler, len(t.Columns))
	for i, c := range t.Columns {
		if !c.numeric() {
			continue
		}
		var vals []float64
		for _, row := range t.Rows {
			if row[i].OK {
				vals = append(vals, row[i].V.Float64())
			}
		}
		if c.Scaler != nil {
			out[i] = c.Scaler(vals)
		} else {
			out[i] = simunit.CommonScale(vals, c.Class)
		}
	}
	return out
}

// display returns the cells of t formatted for people.
func (t *table) display() [][]string {
	scalers := t.scalers()
	out := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = make([]string, len(row))
		for i, c := range row {
			switch {
			case !c.OK:
				out[r][i] = "-"
			case t.Columns[i].numeric():
				out[r][i] = scalers[i].Format(c.V.Float64())
			default:
				out[r][i] = c.V.String()
			}
		}
	}
	return out
}

// raw returns the cells of t formatted exactly, as a report writes
// them. Missing cells are empty.
func (t *table) raw() [][]string {
	out := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = make([]string, len(row))
		for i, c := range row {
			if c.OK {
				out[r][i] = c.V.String()
			}
		}
	}
	return out
}

// selectionTable lists one row per selection: the key fields, then
// the given metrics, then the number of candidates and the file.
func selectionTable(title string, sels []simproc.Selection, proj *simproc.Projection, metrics []string, scored bool) *table {
	t := &table{Title: title}
	for _, f := range proj.Fields() {
		if f.Name == simproc.SourceField {
			t.Columns = append(t.Columns, textColumn("source"))
			continue
		}
		t.Columns = append(t.Columns, fieldColumn(f.Name))
	}
	for _, m := range metrics {
		t.Columns = append(t.Columns, fieldColumn(m))
	}
	if scored {
		t.Columns = append(t.Columns, scoreColumn("score"))
	}
	t.Columns = append(t.Columns, countColumn("candidates"), textColumn("file"))

	for _, sel := range sels {
		row := make([]cell, 0, len(t.Columns))
		for _, f := range proj.Fields() {
			row = append(row, present(sel.Key.Get(f)))
		}
		for _, m := range metrics {
			v, ok := sel.Record.Get(m)
			row = append(row, cell{v, ok})
		}
		if scored {
			row = append(row, cell{simfmt.FloatValue(sel.Score), sel.Scored})
		}
		row = append(row,
			present(simfmt.IntValue(int64(sel.Candidates))),
			present(simfmt.TextValue(sel.Record.FileName())))
		t.Rows = append(t.Rows, row)
	}
	return t
}
