// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xbarsim/xbarperf/simchart"
	"github.com/xbarsim/xbarperf/simfmt"
	"github.com/xbarsim/xbarperf/simproc"
)

type heatmapFlags struct {
	x, y, z string
	by      string
}

func newHeatmapCmd(e *env) *cobra.Command {
	var f heatmapFlags
	cmd := &cobra.Command{
		Use:   "heatmap [label=]path...",
		Short: "Map the mean of a metric over two others, one map per key",
		Long: `Heatmap averages the --z metric over every observed pair of the --x and
--y metrics, with one map per distinct value of the --by fields. With
--png or --svg each map is drawn as a grid of colored cells.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.heatmap(cmd.Context(), args, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.x, "x", simfmt.CrossbarSize, "column `field`")
	fl.StringVar(&f.y, "y", simfmt.Bandwidth, "row `field`")
	fl.StringVar(&f.z, "z", simfmt.Delay, "cell `field`")
	fl.StringVar(&f.by, "by", simfmt.BitPrecision, "map key `projection`")
	return cmd
}

func (e *env) heatmap(ctx context.Context, args []string, f heatmapFlags) error {
	var names [3]string
	for i, name := range []string{f.x, f.y, f.z} {
		n, err := canonicalField(name)
		if err != nil {
			return err
		}
		names[i] = n
	}
	x, y, z := names[0], names[1], names[2]
	proj, err := simproc.ParseProjection(simfmt.DefaultSchema, f.by)
	if err != nil {
		return err
	}
	recs, err := e.load(ctx, args)
	if err != nil {
		return err
	}
	g := e.group(recs, proj)
	if g == nil {
		return e.noData("no report has " + f.by)
	}

	type heatmap struct {
		key  simproc.Key
		grid *simproc.Grid
	}
	var maps []heatmap
	for _, grp := range g.Groups {
		grid, err := simproc.Pivot(grp.Records, x, y, z)
		if errors.Is(err, simproc.ErrNoData) {
			continue
		}
		if err != nil {
			return err
		}
		maps = append(maps, heatmap{grp.Key, grid})
	}
	if len(maps) == 0 {
		return e.noData(fmt.Sprintf("no report has %s, %s, and %s", x, y, z))
	}

	t := &table{
		Title:   fmt.Sprintf("%s over %s and %s by %s", z, x, y, f.by),
		Columns: []*column{textColumn("group"), metricColumn(x), metricColumn(y), metricColumn(z), countColumn("n")},
	}
	for _, m := range maps {
		for j, row := range m.grid.Z {
			for i, v := range row {
				if math.IsNaN(v) {
					continue
				}
				t.Rows = append(t.Rows, []cell{
					present(simfmt.TextValue(m.key.String())),
					present(simfmt.FloatValue(m.grid.X[i])),
					present(simfmt.FloatValue(m.grid.Y[j])),
					present(simfmt.FloatValue(v)),
					present(simfmt.IntValue(int64(m.grid.N[j][i]))),
				})
			}
		}
	}
	if err := e.emit(t); err != nil {
		return err
	}
	if !e.charts() {
		return nil
	}
	for _, m := range maps {
		h := &simchart.HeatMap{
			Title: strings.TrimSpace(fmt.Sprintf("%s heatmap %s", z, m.key)),
			X:     simchart.Axis{Label: x},
			Y:     simchart.Axis{Label: y},
			Grid:  m.grid,
		}
		if err := e.writeFigure(h.Title, h); err != nil {
			return err
		}
	}
	return nil
}
