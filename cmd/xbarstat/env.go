// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xbarsim/xbarperf/internal/config"
	"github.com/xbarsim/xbarperf/simchart"
)

// env is the state shared by all commands: global flags, the loaded
// configuration, and the output streams.
type env struct {
	stdout io.Writer
	log    *logrus.Logger
	cfg    *config.Config

	configPath string
	logLevel   string
	strict     bool
	duplicates string
	workers    int
	suffix     string
	filter     string
	dbDriver   string
	dbDSN      string
	source     string
	csv        bool
	html       bool
	json       bool
	pngDir     string
	svgDir     string

	format outputFormat
}

func newRootCmd(w, wErr io.Writer) *cobra.Command {
	log := logrus.New()
	log.Out = wErr
	log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	e := &env{stdout: w, log: log}

	root := &cobra.Command{
		Use:           "xbarstat",
		Short:         "Select the best crossbar configurations from simulator reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd.Flags())
		},
	}
	root.SetOut(w)
	root.SetErr(wErr)

	f := root.PersistentFlags()
	f.StringVar(&e.configPath, "config", "", "read settings from YAML `file`")
	f.StringVar(&e.logLevel, "log-level", "warning", "log `level`: debug, info, warning, or error")
	f.BoolVar(&e.strict, "strict", false, "reject reports that lack any required field")
	f.StringVar(&e.duplicates, "duplicates", "first", "repeated labels use the `policy`: first, last, or error")
	f.IntVar(&e.workers, "workers", 1, "read `n` reports concurrently")
	f.StringVar(&e.suffix, "suffix", ".txt", "read files ending in `suffix` from directories")
	f.StringVar(&e.filter, "filter", "", "only use records matching `expr`, such as \"bit_precision:(4 8) -bandwidth:16\"")
	f.StringVar(&e.dbDriver, "db-driver", "sqlite3", "SQL `driver` of the archive: sqlite3 or mysql")
	f.StringVar(&e.dbDSN, "db", "", "archive data source `name`")
	f.StringVar(&e.source, "source", "", "read only archived reports with source `label`")
	f.BoolVar(&e.csv, "csv", false, "print results in CSV form")
	f.BoolVar(&e.html, "html", false, "print results as an HTML document")
	f.BoolVar(&e.json, "json", false, "print results as JSON")
	f.StringVar(&e.pngDir, "png", "", "write PNG charts to `dir`")
	f.StringVar(&e.svgDir, "svg", "", "write SVG charts to `dir`")

	root.AddCommand(
		newLowestCmd(e),
		newOptimalCmd(e),
		newEvaluateCmd(e),
		newSweepCmd(e),
		newSummaryCmd(e),
		newHeatmapCmd(e),
		newImportCmd(e),
	)
	return root
}

// setup configures logging and loads the configuration, applying the
// flags the user set on top of it.
func (e *env) setup(flags *pflag.FlagSet) error {
	level, err := logrus.ParseLevel(e.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", e.logLevel)
	}
	e.log.SetLevel(level)

	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if flags.Changed("strict") {
		cfg.Extract.Strict = e.strict
	}
	if flags.Changed("duplicates") {
		cfg.Extract.Duplicates = e.duplicates
	}
	if flags.Changed("workers") {
		cfg.Extract.Workers = e.workers
	}
	if flags.Changed("suffix") {
		cfg.Extract.Suffix = e.suffix
	}
	if flags.Changed("filter") {
		cfg.Group.Filter = e.filter
	}
	if flags.Changed("db-driver") {
		cfg.Database.Driver = e.dbDriver
	}
	if flags.Changed("db") {
		cfg.Database.DSN = e.dbDSN
	}
	switch {
	case e.pngDir != "" && e.svgDir != "":
		return fmt.Errorf("--png and --svg are mutually exclusive")
	case e.pngDir != "":
		cfg.Output.ChartDir, cfg.Output.ChartFormat = e.pngDir, simchart.PNG.Ext()
	case e.svgDir != "":
		cfg.Output.ChartDir, cfg.Output.ChartFormat = e.svgDir, simchart.SVG.Ext()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg

	n := 0
	for _, set := range []struct {
		on bool
		f  outputFormat
	}{{e.csv, formatCSV}, {e.html, formatHTML}, {e.json, formatJSON}} {
		if set.on {
			e.format = set.f
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("--csv, --html, and --json are mutually exclusive")
	}

	e.log.WithFields(logrus.Fields{
		"config":     e.configPath,
		"strict":     cfg.Extract.Strict,
		"duplicates": cfg.Extract.Duplicates,
		"workers":    cfg.Extract.Workers,
	}).Debug("configured")
	return nil
}

// emit writes t in the selected output format.
func (e *env) emit(t *table) error {
	return writeTable(e.stdout, e.format, t)
}

// noData tells the user there was nothing to analyze. It is not an
// error.
func (e *env) noData(what string) error {
	_, err := fmt.Fprintf(e.stdout, "no data: %s\n", what)
	return err
}
