// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up many cells at once.
type Table struct {
	cells []cell
	cols  int

	curRow, curCol int
}

type cell struct {
	row, col, span int
	value          string
	leftMargin     string
	alignment      align
	// rule cells are drawn by repeating value across the span.
	rule bool
}

// A CellOption modifies a cell as it is added.
type CellOption func(c *cell)

// LeftMargin sets the text printed before a cell. By default, every
// non-empty cell except the first in a row has a one-space margin.
func LeftMargin(x string) CellOption {
	return func(c *cell) {
		c.leftMargin = x
	}
}

var (
	Left   CellOption = func(c *cell) { c.alignment = alignLeft }
	Center CellOption = func(c *cell) { c.alignment = alignCenter }
	Right  CellOption = func(c *cell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

func (a align) lpad(s string, w int) string {
	switch a {
	default:
		return s
	case alignCenter:
		l := (w - utf8.RuneCountInString(s)) / 2
		return fmt.Sprintf("%*s%s", l, "", s)
	case alignRight:
		return fmt.Sprintf("%*s", w, s)
	}
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	if len(t.cells) > 0 {
		t.curRow++
	}
	t.curCol = 0
	return t
}

// Col skips to column col in table t. Columns are numbered starting
// at 0.
func (t *Table) Col(col int) *Table {
	if col < t.curCol {
		panic(fmt.Sprintf("cannot move from column %d to earlier column %d", t.curCol, col))
	}
	t.curCol = col
	return t
}

// Cell adds a single-column cell at the current row and column.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	return t.Span(1, value, opts...)
}

// Cells adds one single-column cell per value with the same options.
func (t *Table) Cells(values []string, opts ...CellOption) *Table {
	for _, v := range values {
		t.Span(1, v, opts...)
	}
	return t
}

// Span adds a multi-column cell at the current row and column.
func (t *Table) Span(cols int, value string, opts ...CellOption) *Table {
	lMargin := " "
	if t.curCol == 0 || len(value) == 0 {
		// For the left-most column or empty cells, we default
		// to no left margin.
		lMargin = ""
	}
	t.add(cell{t.curRow, t.curCol, cols, value, lMargin, alignLeft, false}, opts)
	return t
}

// Rule adds a row that draws ch across every column of the table.
func (t *Table) Rule(ch rune) *Table {
	t.Row()
	t.add(cell{t.curRow, 0, 0, string(ch), "", alignLeft, true}, nil)
	return t
}

func (t *Table) add(c cell, opts []CellOption) {
	t.cells = append(t.cells, c)
	for _, o := range opts {
		o(&t.cells[len(t.cells)-1])
	}
	t.curCol += c.span
	if t.curCol > t.cols {
		t.cols = t.curCol
	}
}

// Format lays out table t and writes it to w.
func (t *Table) Format(w io.Writer) error {
	// Rules span the whole table, whatever its final width.
	for i := range t.cells {
		if t.cells[i].rule {
			t.cells[i].span = t.cols
		}
	}

	// Collect max length margin for each column.
	lmargin := make([]int, t.cols)
	for _, c := range t.cells {
		if c.span > 0 {
			lmargin[c.col] = max(utf8.RuneCountInString(c.leftMargin), lmargin[c.col])
		}
	}

	// Compute column widths, including their left margins.
	// Consider cells in increasing span width, so multi-column
	// cells only widen columns that are still too narrow.
	ws := make([]int, t.cols)
	sort.SliceStable(t.cells, func(i, j int) bool {
		return t.cells[i].span < t.cells[j].span
	})
	for _, c := range t.cells {
		if c.rule || c.span == 0 {
			continue
		}
		w := utf8.RuneCountInString(c.value) + lmargin[c.col]
		if c.span == 1 {
			ws[c.col] = max(ws[c.col], w)
			continue
		}
		tw := 0
		for col := c.col; col < c.col+c.span; col++ {
			tw += ws[col]
		}
		// Give the shortfall to the last spanned column.
		if tw < w {
			ws[c.col+c.span-1] += w - tw
		}
	}

	// Convert column widths into starting offsets. The offset of
	// column i is where i's left margin begins. The slice
	// includes a final offset for the width of the table.
	offs := make([]int, t.cols+1)
	off := 0
	for i, w := range ws {
		offs[i] = off
		off += w
	}
	offs[len(ws)] = off

	// Put the cells back into top-to-bottom left-to-right order.
	sort.SliceStable(t.cells, func(i, j int) bool {
		if t.cells[i].row != t.cells[j].row {
			return t.cells[i].row < t.cells[j].row
		}
		return t.cells[i].col < t.cells[j].col
	})
	row, off := 0, 0
	for _, c := range t.cells {
		if c.span == 0 {
			continue
		}
		if strings.TrimSpace(c.value) == "" && strings.TrimSpace(c.leftMargin) == "" {
			// Skip empty cells so rows have no trailing
			// spaces.
			continue
		}

		// Get to cell's row.
		for c.row > row {
			if _, err := fmt.Fprintf(w, "\n"); err != nil {
				return err
			}
			row++
			off = 0
		}

		if c.rule {
			if _, err := fmt.Fprint(w, strings.Repeat(c.value, offs[t.cols])); err != nil {
				return err
			}
			off = offs[t.cols]
			continue
		}

		// Space to the cell's starting offset and print its
		// left margin.
		spaces := offs[c.col] - off
		if _, err := fmt.Fprintf(w, "%*s%*s", spaces, "", lmargin[c.col], c.leftMargin); err != nil {
			return err
		}
		off += spaces + lmargin[c.col]

		// Total cell width, excluding the margin just printed.
		tw := offs[c.col+c.span] - offs[c.col] - lmargin[c.col]
		s := c.alignment.lpad(c.value, tw)
		if _, err := fmt.Fprintf(w, "%s", s); err != nil {
			return err
		}
		off += utf8.RuneCountInString(s)
	}
	if len(t.cells) > 0 {
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
