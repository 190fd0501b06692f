// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xbarsim/xbarperf/simchart"
	"github.com/xbarsim/xbarperf/simfmt"
	"github.com/xbarsim/xbarperf/simproc"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xbarstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	opts, err := c.ExtractOptions()
	require.NoError(t, err)
	assert.False(t, opts.Strict)
	assert.Equal(t, simfmt.FirstMatch, opts.Duplicates)

	p, err := c.Weighted()
	require.NoError(t, err)
	assert.Equal(t, simproc.DefaultTerms(), p.Terms)
	assert.Equal(t, simproc.DefaultMargin, p.Margin)

	specs := c.KeySpecs()
	require.Len(t, specs, 2)
	assert.Equal(t, simfmt.BitPrecision, specs[0].Name)
	assert.Equal(t, simproc.Numeric, specs[1].Order)

	f, err := c.ChartFormat()
	require.NoError(t, err)
	assert.Equal(t, simchart.PNG, f)
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad(t *testing.T) {
	path := writeTempYAML(t, `
extract:
  strict: true
  required: [bandwidth, delay]
  duplicates: error
  workers: 4
group:
  bandwidths: [16, 32, 64, 128, 256, 512, 1024]
  filter: "bit_precision:4"
evaluate:
  margin: 0.2
  terms:
    - {metric: delay, weight: 0.7, direction: lower}
    - {metric: usage, weight: 0.3, direction: higher}
output:
  chart_dir: charts
  chart_format: svg
`)
	c, err := Load(path)
	require.NoError(t, err)

	opts, err := c.ExtractOptions()
	require.NoError(t, err)
	assert.True(t, opts.Strict)
	assert.Equal(t, []string{simfmt.Bandwidth, simfmt.Delay}, opts.Required)
	assert.Equal(t, simfmt.RejectDuplicates, opts.Duplicates)
	assert.Equal(t, 4, c.Extract.Workers)
	// Unset keys keep their defaults.
	assert.Equal(t, ".txt", c.Extract.Suffix)
	assert.Equal(t, "sqlite3", c.Database.Driver)

	specs := c.KeySpecs()
	assert.Equal(t, simproc.Numeric, specs[0].Order)
	assert.Equal(t, simproc.Fixed, specs[1].Order)
	require.Len(t, specs[1].Values, 7)
	assert.Equal(t, simfmt.IntValue(1024), specs[1].Values[6])

	f, err := c.Filter()
	require.NoError(t, err)
	assert.NotNil(t, f)

	// The terms list replaces the default one and aliases resolve.
	p, err := c.Weighted()
	require.NoError(t, err)
	assert.Equal(t, []simproc.Term{
		{Metric: simfmt.Delay, Weight: 0.7, Direction: simproc.LowerIsBetter},
		{Metric: simfmt.Usage, Weight: 0.3, Direction: simproc.HigherIsBetter},
	}, p.Terms)
	assert.Equal(t, 0.2, p.Margin)

	format, err := c.ChartFormat()
	require.NoError(t, err)
	assert.Equal(t, simchart.SVG, format)
	assert.Equal(t, "charts", c.Output.ChartDir)
}

func TestLoadCommentsOnly(t *testing.T) {
	c, err := Load(writeTempYAML(t, "# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeTempYAML(t, "extract:\n  strcit: true\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	for name, yaml := range map[string]string{
		"duplicates":   "extract: {duplicates: sometimes}",
		"required":     "extract: {required: [latency]}",
		"workers":      "extract: {workers: -1}",
		"bandwidth":    "group: {bandwidths: [0]}",
		"precision":    "group: {precisions: [-4]}",
		"filter":       `group: {filter: "latency:3"}`,
		"direction":    "evaluate: {terms: [{metric: delay, weight: 1, direction: sideways}]}",
		"metric":       "evaluate: {terms: [{metric: latency, weight: 1, direction: lower}]}",
		"weight":       "evaluate: {terms: [{metric: delay, weight: -1, direction: lower}]}",
		"no terms":     "evaluate: {terms: []}",
		"margin":       "evaluate: {margin: -0.5}",
		"chart format": "output: {chart_format: gif}",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeTempYAML(t, yaml))
			assert.Error(t, err)
		})
	}
}
