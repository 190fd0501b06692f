// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/safehtml/template"
	"github.com/xbarsim/xbarperf/cmd/xbarstat/internal/texttab"
	"github.com/xbarsim/xbarperf/simfmt"
)

// An outputFormat selects how tables are written.
type outputFormat int

const (
	formatText outputFormat = iota
	formatCSV
	formatHTML
	formatJSON
)

func writeTable(w io.Writer, f outputFormat, t *table) error {
	switch f {
	case formatCSV:
		return formatCSVTable(w, t)
	case formatHTML:
		return formatHTMLTable(w, t)
	case formatJSON:
		return formatJSONTable(w, t)
	}
	return formatTextTable(w, t)
}

func formatTextTable(w io.Writer, t *table) error {
	if t.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", t.Title); err != nil {
			return err
		}
	}
	var tab texttab.Table
	tab.Row()
	for _, c := range t.Columns {
		if c.numeric() {
			tab.Cell(c.Name, texttab.Right)
		} else {
			tab.Cell(c.Name)
		}
	}
	tab.Rule('-')
	for _, row := range t.display() {
		tab.Row()
		for i, s := range row {
			if t.Columns[i].numeric() {
				tab.Cell(s, texttab.Right)
			} else {
				tab.Cell(s)
			}
		}
	}
	return tab.Format(w)
}

func formatCSVTable(w io.Writer, t *table) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	cw.Write(header)
	cw.WriteAll(t.raw())
	cw.Flush()
	return cw.Error()
}

var htmlTemplate = template.Must(template.New("table").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.xbarstat { border-collapse: collapse; }
.xbarstat th { border-bottom: 1px solid #666; padding: 0em 1em; }
.xbarstat td { padding: 0em 1em; }
.xbarstat .num { text-align: right; }
</style>
</head>
<body>
<table class="xbarstat">
<caption>{{.Title}}</caption>
<tr>{{range .Header}}<th class="{{if .Num}}num{{else}}text{{end}}">{{.Text}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td class="{{if .Num}}num{{else}}text{{end}}">{{.Text}}</td>{{end}}</tr>
{{end -}}
</table>
</body>
</html>
`))

type htmlCell struct {
	Num  bool
	Text string
}

func formatHTMLTable(w io.Writer, t *table) error {
	data := struct {
		Title  string
		Header []htmlCell
		Rows   [][]htmlCell
	}{Title: t.Title}
	for _, c := range t.Columns {
		data.Header = append(data.Header, htmlCell{c.numeric(), c.Name})
	}
	for _, row := range t.display() {
		var cells []htmlCell
		for i, s := range row {
			cells = append(cells, htmlCell{t.Columns[i].numeric(), s})
		}
		data.Rows = append(data.Rows, cells)
	}
	return htmlTemplate.Execute(w, data)
}

func formatJSONTable(w io.Writer, t *table) error {
	rows := make([]map[string]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]interface{}, len(row))
		for i, c := range row {
			if !c.OK {
				continue
			}
			switch c.V.Kind {
			case simfmt.Int:
				obj[t.Columns[i].Name] = c.V.Int
			case simfmt.Float, simfmt.Fraction:
				obj[t.Columns[i].Name] = c.V.Float
			default:
				obj[t.Columns[i].Name] = c.V.String()
			}
		}
		rows = append(rows, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Title string                   `json:"title"`
		Rows  []map[string]interface{} `json:"rows"`
	}{t.Title, rows})
}
