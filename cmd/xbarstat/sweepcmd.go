// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xbarsim/xbarperf/simchart"
	"github.com/xbarsim/xbarperf/simfmt"
	"github.com/xbarsim/xbarperf/simproc"
	"github.com/xbarsim/xbarperf/simunit"
)

type sweepFlags struct {
	x, y       string
	by         string
	logX, logY bool
}

func newSweepCmd(e *env) *cobra.Command {
	var f sweepFlags
	cmd := &cobra.Command{
		Use:   "sweep [label=]path...",
		Short: "Plot one metric against another, one series per key",
		Long: `Sweep pivots reports into series of (x, y) points, one series per distinct
value of the --by fields. Reports with equal x in a series are averaged.

For example, to compare the delay of two mappings across bandwidths:

	xbarstat sweep --by .source,bit_precision k2col=runs/k2col im2col=runs/im2col`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.sweep(cmd.Context(), args, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.x, "x", simfmt.Bandwidth, "x axis `field`")
	fl.StringVar(&f.y, "y", simfmt.Delay, "y axis `field`")
	fl.StringVar(&f.by, "by", simproc.SourceField+","+simfmt.BitPrecision, "series key `projection`")
	fl.BoolVar(&f.logX, "logx", true, "use a log scale for x")
	fl.BoolVar(&f.logY, "logy", false, "use a log scale for y")
	return cmd
}

func newSummaryCmd(e *env) *cobra.Command {
	var metric, by string
	cmd := &cobra.Command{
		Use:   "summary [label=]path...",
		Short: "Summarize a metric over reports of the same configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.summary(cmd.Context(), args, metric, by)
		},
	}
	cmd.Flags().StringVar(&metric, "metric", simfmt.Delay, "summarized `field`")
	cmd.Flags().StringVar(&by, "by", "bit_precision,bandwidth,crossbar_size", "group by `projection`")
	return cmd
}

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import [label=]path...",
		Short: "Archive reports in the --db database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.importReports(cmd.Context(), args)
		},
	}
}

// metricColumn returns a numeric column for a field used as a
// metric. Sizes are shown by width.
func metricColumn(name string) *column {
	c := fieldColumn(name)
	if c.Kind == simfmt.Size {
		c.Class = simunit.Count
	}
	c.Kind = simfmt.Float
	return c
}

func canonicalField(name string) (string, error) {
	f, ok := simfmt.DefaultSchema.Field(name)
	if !ok {
		return "", fmt.Errorf("unknown field %q", name)
	}
	return f.Name, nil
}

func (e *env) sweep(ctx context.Context, args []string, f sweepFlags) error {
	x, err := canonicalField(f.x)
	if err != nil {
		return err
	}
	y, err := canonicalField(f.y)
	if err != nil {
		return err
	}
	proj, err := simproc.ParseProjection(simfmt.DefaultSchema, f.by)
	if err != nil {
		return err
	}
	recs, err := e.load(ctx, args)
	if err != nil {
		return err
	}
	series, err := simproc.Sweep(recs, proj, x, y)
	if errors.Is(err, simproc.ErrNoData) {
		return e.noData(fmt.Sprintf("no report has %s, %s, and %s", f.by, x, y))
	}
	if err != nil {
		return err
	}

	t := &table{
		Title:   fmt.Sprintf("%s vs %s by %s", y, x, f.by),
		Columns: []*column{textColumn("series"), metricColumn(x), metricColumn(y), countColumn("n")},
	}
	for _, s := range series {
		for _, pt := range s.Points {
			t.Rows = append(t.Rows, []cell{
				present(simfmt.TextValue(s.Key.String())),
				present(simfmt.FloatValue(pt.X)),
				present(simfmt.FloatValue(pt.Y)),
				present(simfmt.IntValue(int64(pt.N))),
			})
		}
	}
	if err := e.emit(t); err != nil {
		return err
	}
	if !e.charts() {
		return nil
	}
	return e.writeChart(&simchart.Chart{
		Title:  fmt.Sprintf("%s/%s by %s", y, x, f.by),
		X:      simchart.Axis{Label: x, Log: f.logX},
		Y:      simchart.Axis{Label: y, Log: f.logY},
		Series: series,
	})
}

func (e *env) summary(ctx context.Context, args []string, metric, by string) error {
	metric, err := canonicalField(metric)
	if err != nil {
		return err
	}
	proj, err := simproc.ParseProjection(simfmt.DefaultSchema, by)
	if err != nil {
		return err
	}
	recs, err := e.load(ctx, args)
	if err != nil {
		return err
	}
	g := e.group(recs, proj)
	if g == nil {
		return e.noData("no report has " + by)
	}
	sums := simproc.SummarizeAll(g, metric)
	if len(sums) == 0 {
		return e.noData("no report has " + metric)
	}

	mc := func(name string) *column {
		c := metricColumn(metric)
		c.Name = name
		return c
	}
	spread := &column{Name: "±", Kind: simfmt.Fraction, Class: simunit.Ratio}
	t := &table{
		Title:   fmt.Sprintf("%s by %s", metric, by),
		Columns: []*column{textColumn("group"), countColumn("n"), mc("min"), mc("median"), mc("mean"), mc("max"), spread},
	}
	for _, s := range sums {
		for _, w := range s.Warnings {
			e.log.WithField("group", s.Key.String()).Warn(w)
		}
		t.Rows = append(t.Rows, []cell{
			present(simfmt.TextValue(s.Key.String())),
			present(simfmt.IntValue(int64(s.N))),
			present(simfmt.FloatValue(s.Min)),
			present(simfmt.FloatValue(s.Median)),
			present(simfmt.FloatValue(s.Mean)),
			present(simfmt.FloatValue(s.Max)),
			present(simfmt.FractionValue(s.RelativeSpread / 2)),
		})
	}
	return e.emit(t)
}

func (e *env) importReports(ctx context.Context, args []string) error {
	opts, err := e.cfg.ExtractOptions()
	if err != nil {
		return err
	}
	recs, err := e.loadReports(ctx, args, opts)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return e.noData("no reports to import")
	}
	d, err := e.openDB()
	if err != nil {
		return err
	}
	defer d.Close()

	im, err := d.NewImport(ctx)
	if err != nil {
		return err
	}
	for _, r := range recs {
		if err := im.Insert(ctx, r); err != nil {
			im.Abort()
			return fmt.Errorf("%s: %w", r.FileName(), err)
		}
	}
	if err := im.Commit(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "import %s: %d records\n", im.ID, im.Len())
	return err
}
