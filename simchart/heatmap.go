// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simchart

import (
	"math"
	"strconv"

	"github.com/xbarsim/xbarperf/simproc"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A HeatMap draws a Grid as colored cells, each labeled with its
// value. Columns and rows are evenly spaced in the order of the
// Grid's X and Y values, so Axis.Log is ignored.
type HeatMap struct {
	Title string
	X, Y  Axis
	Grid  *simproc.Grid

	// Width and Height default to 16cm by 10cm. DPI applies to
	// PNG and defaults to 150.
	Width, Height vg.Length
	DPI           int
}

// Size implements Figure.
func (h *HeatMap) Size() (width, height vg.Length, dpi int) {
	return h.Width, h.Height, h.DPI
}

// Plot builds the gonum plot for h. It returns simproc.ErrNoData if
// h has no defined cell.
func (h *HeatMap) Plot() (*plot.Plot, error) {
	if h.Grid == nil {
		return nil, simproc.ErrNoData
	}
	min, max := h.Grid.Range()
	if min > max {
		return nil, simproc.ErrNoData
	}
	if min == max {
		max = min + 1
	}

	pl := plot.New()
	pl.Title.Text = h.Title
	pl.X.Label.Text = h.X.Label
	pl.Y.Label.Text = h.Y.Label
	pl.X.Tick.Marker = categories(h.Grid.X)
	pl.Y.Tick.Marker = categories(h.Grid.Y)

	hm := plotter.NewHeatMap(gridXYZ{h.Grid}, palette.Heat(12, 1))
	hm.Min, hm.Max = min, max
	pl.Add(hm)

	var xys plotter.XYs
	var labels []string
	for j, row := range h.Grid.Z {
		for i, v := range row {
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(i), Y: float64(j)})
			labels = append(labels, strconv.FormatFloat(v, 'g', 4, 64))
		}
	}
	lab, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range lab.TextStyle {
		lab.TextStyle[i].XAlign = draw.XCenter
		lab.TextStyle[i].YAlign = draw.YCenter
	}
	pl.Add(lab)
	return pl, nil
}

// categories labels cell i with vals[i].
func categories(vals []float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(vals))
	for i, v := range vals {
		ticks[i] = plot.Tick{Value: float64(i), Label: strconv.FormatFloat(v, 'g', -1, 64)}
	}
	return ticks
}

// gridXYZ adapts a Grid to plotter.GridXYZ with cells at integer
// coordinates.
type gridXYZ struct{ g *simproc.Grid }

func (g gridXYZ) Dims() (c, r int)   { return len(g.g.X), len(g.g.Y) }
func (g gridXYZ) Z(c, r int) float64 { return g.g.Z[r][c] }
func (g gridXYZ) X(c int) float64    { return float64(c) }
func (g gridXYZ) Y(r int) float64    { return float64(r) }

func (g gridXYZ) Min() float64 {
	min, _ := g.g.Range()
	return min
}

func (g gridXYZ) Max() float64 {
	_, max := g.g.Range()
	return max
}
