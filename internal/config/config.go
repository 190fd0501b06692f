// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads xbarstat analysis settings from YAML.
//
// A configuration file looks like
//
//	extract:
//	  strict: true
//	  duplicates: first
//	  workers: 4
//	group:
//	  bandwidths: [16, 32, 64, 128, 256, 512, 1024]
//	evaluate:
//	  margin: 0.1
//	  terms:
//	    - {metric: delay, weight: 0.5, direction: lower}
//	    - {metric: usage, weight: 0.5, direction: higher}
//
// Unknown keys are errors. Omitted keys keep the values of Default.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/xbarsim/xbarperf/simchart"
	"github.com/xbarsim/xbarperf/simfmt"
	"github.com/xbarsim/xbarperf/simproc"
	"gopkg.in/yaml.v3"
)

// Config is the full xbarstat configuration.
type Config struct {
	Extract  Extract  `yaml:"extract"`
	Group    Group    `yaml:"group"`
	Evaluate Evaluate `yaml:"evaluate"`
	Output   Output   `yaml:"output"`
	Database Database `yaml:"database"`
}

// Extract configures report extraction.
type Extract struct {
	Strict bool `yaml:"strict"`
	// Required lists the fields strict mode requires; empty means
	// all of them.
	Required   []string `yaml:"required"`
	Duplicates string   `yaml:"duplicates"`
	Suffix     string   `yaml:"suffix"`
	Workers    int      `yaml:"workers"`
}

// Group configures the grouping key.
type Group struct {
	// Bandwidths and Precisions, if non-empty, are the accepted
	// values of those fields, in presentation order. Records with
	// other values are excluded.
	Bandwidths []int64 `yaml:"bandwidths"`
	Precisions []int64 `yaml:"precisions"`
	// Filter is a filter expression applied before grouping.
	Filter string `yaml:"filter"`
}

// Evaluate configures the weighted policy.
type Evaluate struct {
	Margin float64 `yaml:"margin"`
	Terms  []Term  `yaml:"terms"`
}

// Term is one weighted metric.
type Term struct {
	Metric    string  `yaml:"metric"`
	Weight    float64 `yaml:"weight"`
	Direction string  `yaml:"direction"`
}

// Output configures rendering.
type Output struct {
	// ChartDir, if set, is where charts are written.
	ChartDir    string `yaml:"chart_dir"`
	ChartFormat string `yaml:"chart_format"`
}

// Database configures the record archive.
type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{
		Extract: Extract{
			Duplicates: simfmt.FirstMatch.String(),
			Suffix:     ".txt",
			Workers:    1,
		},
		Evaluate: Evaluate{Margin: simproc.DefaultMargin},
		Output:   Output{ChartFormat: simchart.PNG.Ext()},
		Database: Database{Driver: "sqlite3"},
	}
	for _, t := range simproc.DefaultTerms() {
		c.Evaluate.Terms = append(c.Evaluate.Terms, Term{t.Metric, t.Weight, t.Direction.String()})
	}
	return c
}

// Load reads the configuration file at path over Default. If path is
// empty, it returns Default. Load uses strict parsing: unrecognized
// keys are rejected.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := c.decode(data); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Validate checks the configuration for consistency with
// simfmt.DefaultSchema.
func (c *Config) Validate() error {
	if _, err := c.ExtractOptions(); err != nil {
		return err
	}
	if c.Extract.Workers < 0 {
		return fmt.Errorf("extract.workers must be non-negative, got %d", c.Extract.Workers)
	}
	for _, bw := range c.Group.Bandwidths {
		if bw <= 0 {
			return fmt.Errorf("group.bandwidths: bandwidth must be positive, got %d", bw)
		}
	}
	for _, p := range c.Group.Precisions {
		if p <= 0 {
			return fmt.Errorf("group.precisions: precision must be positive, got %d", p)
		}
	}
	if _, err := c.Filter(); err != nil {
		return fmt.Errorf("group.filter: %w", err)
	}
	if _, err := c.Weighted(); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if c.Output.ChartFormat != "" {
		if _, err := simchart.ParseFormat(c.Output.ChartFormat); err != nil {
			return fmt.Errorf("output.chart_format: %w", err)
		}
	}
	return nil
}

// ExtractOptions returns the extraction options for DefaultSchema.
func (c *Config) ExtractOptions() (simfmt.ExtractOptions, error) {
	dup, err := simfmt.ParseDuplicatePolicy(c.Extract.Duplicates)
	if err != nil {
		return simfmt.ExtractOptions{}, fmt.Errorf("extract.duplicates: %w", err)
	}
	opts := simfmt.ExtractOptions{
		Schema:     simfmt.DefaultSchema,
		Strict:     c.Extract.Strict,
		Required:   c.Extract.Required,
		Duplicates: dup,
	}
	if err := opts.Validate(); err != nil {
		return simfmt.ExtractOptions{}, fmt.Errorf("extract.required: %w", err)
	}
	return opts, nil
}

// KeySpecs returns the (bit_precision, bandwidth) grouping key.
// Configured enumerations make the field order Fixed.
func (c *Config) KeySpecs() []simproc.FieldSpec {
	return []simproc.FieldSpec{
		keySpec(simfmt.BitPrecision, c.Group.Precisions),
		keySpec(simfmt.Bandwidth, c.Group.Bandwidths),
	}
}

func keySpec(name string, values []int64) simproc.FieldSpec {
	spec := simproc.FieldSpec{Name: name}
	if len(values) == 0 {
		return spec
	}
	spec.Order = simproc.Fixed
	for _, v := range values {
		spec.Values = append(spec.Values, simfmt.IntValue(v))
	}
	return spec
}

// Filter returns the configured pre-grouping filter, or nil.
func (c *Config) Filter() (*simproc.Filter, error) {
	if c.Group.Filter == "" {
		return nil, nil
	}
	return simproc.ParseFilter(simfmt.DefaultSchema, c.Group.Filter)
}

// Weighted returns the configured weighted policy.
func (c *Config) Weighted() (simproc.Weighted, error) {
	p := simproc.Weighted{Margin: c.Evaluate.Margin}
	for _, t := range c.Evaluate.Terms {
		dir, err := simproc.ParseDirection(t.Direction)
		if err != nil {
			return simproc.Weighted{}, fmt.Errorf("term %s: %w", t.Metric, err)
		}
		name := t.Metric
		if c := simfmt.DefaultSchema.Canonical(name); c != "" {
			name = c
		}
		p.Terms = append(p.Terms, simproc.Term{
			Metric:    name,
			Weight:    t.Weight,
			Direction: dir,
		})
	}
	if p.Margin < 0 {
		return simproc.Weighted{}, fmt.Errorf("margin must be non-negative, got %v", p.Margin)
	}
	if err := p.Validate(simfmt.DefaultSchema); err != nil {
		return simproc.Weighted{}, err
	}
	return p, nil
}

// ChartFormat returns the configured chart format.
func (c *Config) ChartFormat() (simchart.Format, error) {
	if c.Output.ChartFormat == "" {
		return simchart.PNG, nil
	}
	return simchart.ParseFormat(c.Output.ChartFormat)
}
