// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xbarsim/xbarperf/simchart"
	"github.com/xbarsim/xbarperf/simfmt"
	"github.com/xbarsim/xbarperf/simproc"
)

var (
	bandwidthAxis = simchart.Axis{Label: "bandwidth (bits per unit time)", Log: true}
	delayAxis     = simchart.Axis{Label: "delay (unit time)"}
	sizeAxis      = simchart.Axis{Label: "crossbar size"}
)

func newLowestCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "lowest [label=]path...",
		Short: "Lowest delay for each bit precision and bandwidth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.lowest(cmd.Context(), args)
		},
	}
}

func newOptimalCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "optimal [label=]path...",
		Short: "Lowest delay, then smallest crossbar, for each bit precision and bandwidth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.optimal(cmd.Context(), args)
		},
	}
}

func newEvaluateCmd(e *env) *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "evaluate [label=]path...",
		Short: "Weighted composite score for each bit precision and bandwidth",
		Long: `Evaluate scores configurations with a weighted sum of normalized metrics.

With --policy tiebreak (the default), each bit precision and bandwidth is
represented by its optimal configuration and the score of that configuration
is reported. With --policy weighted, the configuration with the best score is
selected instead. Metric maxima are taken over every grouped report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.evaluate(cmd.Context(), args, policy)
		},
	}
	cmd.Flags().StringVar(&policy, "policy", "tiebreak", "selection `policy`: tiebreak or weighted")
	return cmd
}

// selectGroups loads and groups the reports and applies p. Reports
// lacking any of required are rejected at extraction. It returns nil
// selections, after telling the user, if there is nothing to select
// from.
func (e *env) selectGroups(ctx context.Context, args []string, p simproc.Policy, required ...string) (*simproc.Grouping, []simproc.Selection, error) {
	opts, err := e.cfg.ExtractOptions()
	if err != nil {
		return nil, nil, err
	}
	if len(required) > 0 {
		opts = requireFields(opts, required)
	}
	recs, err := e.loadWith(ctx, args, opts)
	if err != nil {
		return nil, nil, err
	}
	proj, err := e.keyProjection()
	if err != nil {
		return nil, nil, err
	}
	g := e.group(recs, proj)
	if g == nil {
		return nil, nil, e.noData("no report has a bit precision and bandwidth")
	}
	sels, err := simproc.Select(g, p)
	if errors.Is(err, simproc.ErrNoData) || err == nil && len(sels) == 0 {
		return nil, nil, e.noData("no group has a complete record")
	}
	if err != nil {
		return nil, nil, err
	}
	return g, sels, nil
}

func (e *env) lowest(ctx context.Context, args []string) error {
	g, sels, err := e.selectGroups(ctx, args, simproc.MinMetric{Metric: simfmt.Delay})
	if sels == nil {
		return err
	}
	t := selectionTable("Lowest delay", sels, g.Projection, []string{simfmt.CrossbarSize, simfmt.Delay}, false)
	if err := e.emit(t); err != nil {
		return err
	}
	if !e.charts() {
		return nil
	}
	for _, ps := range byPrecision(sels) {
		delay, err := simproc.Frontier(ps.sels, "lowest delay", simfmt.Bandwidth, simfmt.Delay)
		if err != nil {
			return err
		}
		size, err := simproc.Frontier(ps.sels, "crossbar size", simfmt.Bandwidth, simfmt.CrossbarSize)
		if err != nil {
			return err
		}
		for _, c := range []*simchart.Chart{
			{Title: fmt.Sprintf("bit_precision:%d lowest delay", ps.precision), X: bandwidthAxis, Y: delayAxis, Series: []*simproc.Series{delay}},
			{Title: fmt.Sprintf("bit_precision:%d crossbar_size at lowest delay", ps.precision), X: bandwidthAxis, Y: sizeAxis, Series: []*simproc.Series{size}},
		} {
			if err := e.writeChart(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *env) optimal(ctx context.Context, args []string) error {
	p := simproc.MinTiebreak{Primary: simfmt.Delay, Secondary: simfmt.CrossbarSize}
	g, sels, err := e.selectGroups(ctx, args, p)
	if sels == nil {
		return err
	}
	t := selectionTable("Optimal configuration (smallest crossbar at lowest delay)", sels, g.Projection, []string{simfmt.CrossbarSize, simfmt.Delay}, false)
	if err := e.emit(t); err != nil {
		return err
	}
	if !e.charts() {
		return nil
	}

	// One chart per precision: every bandwidth's delay curve over
	// crossbar sizes, and the frontier through the selections.
	bw, err := simproc.NewProjection(simfmt.DefaultSchema, e.cfg.KeySpecs()[1])
	if err != nil {
		return err
	}
	for _, ps := range byPrecision(sels) {
		var recs []*simfmt.Record
		for _, grp := range g.Groups {
			if prec, _ := grp.Records[0].Int(simfmt.BitPrecision); prec == ps.precision {
				recs = append(recs, grp.Records...)
			}
		}
		curves, err := simproc.Sweep(recs, bw, simfmt.CrossbarSize, simfmt.Delay)
		if err != nil {
			return err
		}
		for _, s := range curves {
			s.Label = "bandwidth " + s.Label
		}
		frontier, err := simproc.Frontier(ps.sels, "optimal frontier", simfmt.CrossbarSize, simfmt.Delay)
		if err != nil {
			return err
		}
		c := &simchart.Chart{
			Title:     fmt.Sprintf("bit_precision:%d delay vs crossbar_size", ps.precision),
			X:         sizeAxis,
			Y:         simchart.Axis{Label: delayAxis.Label, Log: true},
			Series:    curves,
			Highlight: frontier,
		}
		if err := e.writeChart(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *env) evaluate(ctx context.Context, args []string, policy string) error {
	w, err := e.cfg.Weighted()
	if err != nil {
		return err
	}
	var p simproc.Policy
	switch policy {
	case "tiebreak":
		p = simproc.MinTiebreak{Primary: simfmt.Delay, Secondary: simfmt.CrossbarSize}
	case "weighted":
		p = w
	default:
		return fmt.Errorf("unknown policy %q (want tiebreak or weighted)", policy)
	}
	// Scoring needs every term metric of every report, so reports
	// without them are rejected like any other incomplete report.
	required := []string{simfmt.BitPrecision, simfmt.Bandwidth, simfmt.Delay, simfmt.CrossbarSize}
	for _, t := range w.Terms {
		required = append(required, t.Metric)
	}
	g, sels, err := e.selectGroups(ctx, args, p, required...)
	if sels == nil {
		return err
	}

	rg, err := simproc.NewRanges(g.All, w.Terms, w.Margin)
	if err != nil {
		return err
	}
	fields := logrus.Fields{"margin": rg.Margin()}
	for _, t := range w.Terms {
		fields[t.Metric] = rg.Max(t.Metric)
	}
	e.log.WithFields(fields).Info("metric maxima")
	for i := range sels {
		if sels[i].Scored {
			continue
		}
		score, err := simproc.Score(sels[i].Record, rg, w.Terms)
		if err != nil {
			return err
		}
		sels[i].Score, sels[i].Scored = score, true
	}

	var metrics []string
	for _, t := range w.Terms {
		metrics = append(metrics, t.Metric)
	}
	if !contains(metrics, simfmt.Delay) {
		metrics = append([]string{simfmt.Delay}, metrics...)
	}
	t := selectionTable(fmt.Sprintf("Evaluation score (%s policy)", policy), sels, g.Projection, metrics, true)
	if err := e.emit(t); err != nil {
		return err
	}
	if !e.charts() {
		return nil
	}

	c := &simchart.Chart{
		Title: "evaluation score",
		X:     bandwidthAxis,
		Y:     simchart.Axis{Label: "score"},
	}
	for _, ps := range byPrecision(sels) {
		s := &simproc.Series{Label: fmt.Sprintf("bit_precision %d", ps.precision)}
		for _, sel := range ps.sels {
			if bw, ok := sel.Record.Metric(simfmt.Bandwidth); ok {
				s.Points = append(s.Points, simproc.Point{X: bw, Y: sel.Score, N: 1})
			}
		}
		sort.Slice(s.Points, func(i, j int) bool { return s.Points[i].X < s.Points[j].X })
		c.Series = append(c.Series, s)
	}
	return e.writeChart(c)
}

type precisionSelections struct {
	precision int64
	sels      []simproc.Selection
}

// byPrecision splits sels by bit precision, keeping their order.
// Selections are in Key order, so each precision is contiguous.
func byPrecision(sels []simproc.Selection) []precisionSelections {
	var out []precisionSelections
	for _, sel := range sels {
		prec, _ := sel.Record.Int(simfmt.BitPrecision)
		if len(out) == 0 || out[len(out)-1].precision != prec {
			out = append(out, precisionSelections{precision: prec})
		}
		last := &out[len(out)-1]
		last.sels = append(last.sels, sel)
	}
	return out
}

// requireFields returns opts in strict mode, requiring fields in
// addition to anything opts already requires.
func requireFields(opts simfmt.ExtractOptions, fields []string) simfmt.ExtractOptions {
	if opts.Strict && len(opts.Required) == 0 {
		// Every field is already required.
		return opts
	}
	var req []string
	if opts.Strict {
		req = append(req, opts.Required...)
	}
	for _, f := range fields {
		if !contains(req, f) {
			req = append(req, f)
		}
	}
	opts.Strict, opts.Required = true, req
	return opts
}

func contains(xs []string, x string) bool {
	for _, y := range xs {
		if x == y {
			return true
		}
	}
	return false
}
