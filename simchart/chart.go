// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simchart draws simproc Series as line charts and simproc
// Grids as heat maps.
package simchart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xbarsim/xbarperf/simproc"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// A Format is an output image format.
type Format int

const (
	PNG Format = iota
	SVG
)

// ParseFormat parses "png" or "svg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	}
	return 0, fmt.Errorf("unknown chart format %q", s)
}

// Ext returns the file name extension of f, without a dot.
func (f Format) Ext() string {
	if f == SVG {
		return "svg"
	}
	return "png"
}

// An Axis configures one axis of a Chart.
type Axis struct {
	Label string
	// Log selects a base-10 logarithmic scale. Every value on a
	// log axis must be positive.
	Log bool
}

// A Chart is a set of Series drawn as lines on shared axes.
type Chart struct {
	Title string
	X, Y  Axis

	// Series are drawn in order, each with its own color and
	// point shape, and listed in the legend by label.
	Series []*simproc.Series

	// Highlight, if non-nil, is drawn on top of Series with a
	// heavy dashed line and star markers, such as the frontier of
	// selected records.
	Highlight *simproc.Series

	// Width and Height default to 16cm by 10cm. DPI applies to
	// PNG and defaults to 150.
	Width, Height vg.Length
	DPI           int
}

const pointRad = 3

// Plot builds the gonum plot for c. It returns simproc.ErrNoData if
// c has no points.
func (c *Chart) Plot() (*plot.Plot, error) {
	n := 0
	for _, s := range c.all() {
		n += len(s.Points)
	}
	if n == 0 {
		return nil, simproc.ErrNoData
	}
	for _, s := range c.all() {
		for _, pt := range s.Points {
			if (c.X.Log && !(pt.X > 0)) || (c.Y.Log && !(pt.Y > 0)) {
				return nil, fmt.Errorf("series %q: point (%v, %v) cannot be drawn on a log axis", s.Label, pt.X, pt.Y)
			}
		}
	}

	pl := plot.New()
	pl.Title.Text = c.Title
	pl.X.Label.Text = c.X.Label
	pl.Y.Label.Text = c.Y.Label
	if c.X.Log {
		pl.X.Scale = plot.LogScale{}
		pl.X.Tick.Marker = plot.LogTicks{}
	}
	if c.Y.Log {
		pl.Y.Scale = plot.LogScale{}
		pl.Y.Tick.Marker = plot.LogTicks{}
	}
	pl.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	for i, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		line, points, err := lineAndPoints(s)
		if err != nil {
			return nil, err
		}
		clr := plotutil.Color(i)
		line.Color = clr
		line.Width = vg.Points(1.5)
		points.Color = clr
		points.Shape = plotutil.Shape(i)
		points.Radius = pointRad
		pl.Add(line, points)
		pl.Legend.Add(s.Label, line, points)
	}

	if h := c.Highlight; h != nil && len(h.Points) > 0 {
		line, points, err := lineAndPoints(h)
		if err != nil {
			return nil, err
		}
		line.Color = color.Black
		line.Width = vg.Points(2.5)
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		points.Color = color.Black
		points.Shape = StarGlyph{}
		points.Radius = 2 * pointRad
		pl.Add(line, points)
		pl.Legend.Add(h.Label, line, points)
	}
	return pl, nil
}

func (c *Chart) all() []*simproc.Series {
	all := c.Series
	if c.Highlight != nil {
		all = append(all[:len(all):len(all)], c.Highlight)
	}
	return all
}

func lineAndPoints(s *simproc.Series) (*plotter.Line, *plotter.Scatter, error) {
	xys := make(plotter.XYs, len(s.Points))
	for i, pt := range s.Points {
		xys[i].X, xys[i].Y = pt.X, pt.Y
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, nil, fmt.Errorf("series %q: %w", s.Label, err)
	}
	points, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, nil, fmt.Errorf("series %q: %w", s.Label, err)
	}
	return line, points, nil
}

// A Figure is a plot with an output size, such as a Chart or a
// HeatMap.
type Figure interface {
	Plot() (*plot.Plot, error)
	// Size returns the image size and PNG resolution. Zero values
	// select the defaults.
	Size() (width, height vg.Length, dpi int)
}

// Size implements Figure.
func (c *Chart) Size() (width, height vg.Length, dpi int) {
	return c.Width, c.Height, c.DPI
}

// Render draws c to w in format f.
func Render(w io.Writer, c Figure, f Format) error {
	pl, err := c.Plot()
	if err != nil {
		return err
	}
	width, height, dpi := c.Size()
	if width == 0 {
		width = 16 * vg.Centimeter
	}
	if height == 0 {
		height = 10 * vg.Centimeter
	}

	var can vg.CanvasWriterTo
	switch f {
	case PNG:
		if dpi == 0 {
			dpi = 150
		}
		can = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(width, height),
			vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(color.White))}
	case SVG:
		can = vgsvg.New(width, height)
	default:
		return fmt.Errorf("bad format %v", f)
	}
	pl.Draw(draw.New(can))
	_, err = can.WriteTo(w)
	return err
}

// WriteFile renders c into dir/name.ext, creating dir if necessary,
// and returns the file's path. name is sanitized for use as a file
// name.
func WriteFile(dir, name string, c Figure, f Format) (string, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(name)+"."+f.Ext())
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Render(file, c, f); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	return path, file.Close()
}

// FileName turns a chart title into a file name.
func FileName(title string) string {
	r := strings.NewReplacer("/", "-per-", " ", "_", ":", "-", "*", "x")
	return r.Replace(title)
}

// StarGlyph is a glyph that draws a five-pointed star outline.
type StarGlyph struct{}

// DrawGlyph implements the Glyph interface.
func (StarGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	c.SetLineStyle(draw.LineStyle{Color: sty.Color, Width: vg.Points(1)})
	r := sty.Radius
	inner := r * 0.382
	p := make(vg.Path, 0, 11)
	for i := 0; i < 10; i++ {
		rad := r
		if i%2 == 1 {
			rad = inner
		}
		θ := math.Pi/2 + float64(i)*math.Pi/5
		q := vg.Point{X: pt.X + rad*vg.Length(math.Cos(θ)), Y: pt.Y + rad*vg.Length(math.Sin(θ))}
		if i == 0 {
			p.Move(q)
		} else {
			p.Line(q)
		}
	}
	p.Close()
	c.Stroke(p)
}
