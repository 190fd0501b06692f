// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"

	"github.com/xbarsim/xbarperf/simchart"
	"github.com/xbarsim/xbarperf/simproc"
)

// charts reports whether charts were requested.
func (e *env) charts() bool {
	return e.cfg.Output.ChartDir != ""
}

// writeChart renders c into the chart directory, named after its
// title. A chart with nothing to draw is skipped with a warning.
func (e *env) writeChart(c *simchart.Chart) error {
	return e.writeFigure(c.Title, c)
}

func (e *env) writeFigure(title string, c simchart.Figure) error {
	f, err := e.cfg.ChartFormat()
	if err != nil {
		return err
	}
	path, err := simchart.WriteFile(e.cfg.Output.ChartDir, title, c, f)
	if errors.Is(err, simproc.ErrNoData) {
		e.log.WithField("chart", title).Warn("nothing to plot")
		return nil
	}
	if err != nil {
		return err
	}
	e.log.WithField("file", path).Info("wrote chart")
	return nil
}
