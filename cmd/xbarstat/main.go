// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Xbarstat selects the best crossbar configurations from simulator
// reports.
//
// Usage:
//
//	xbarstat [flags] command [command flags] [label=]path...
//
// Each path is a report file or a directory of report files (*.txt).
// A report is the text output of one crossbar simulation, such as
//
//	Crossbar Size: 64*64
//	Bit Precision: 4
//	Crossbar Amount: 1210
//	Crossbar Usage Proportion: 0.71
//	Required Minimum Bandwidth: 512 bits per unit time
//	Bandwidth: 64 bits per unit time
//	Delay: 91342 unit time
//	Total Bits transferred: 31000000 bits
//
// Reports read from a path are labeled with the path, or with label
// if the path is given as label=path. The label is available as the
// .source field, for example to compare two mappings:
//
//	xbarstat sweep --by .source,bit_precision k2col=runs/k2col im2col=runs/im2col
//
// The commands are:
//
//	lowest    lowest delay for each bit precision and bandwidth
//	optimal   lowest delay, smallest crossbar on ties; charts each
//	          precision's delay curves and their optimal frontier
//	evaluate  weighted composite score of each bandwidth's best
//	          configuration
//	sweep     one metric against another, one series per key
//	summary   distribution of a metric over repeated runs
//	heatmap   mean of a metric over two others, such as delay over
//	          bandwidth and crossbar size for each bit precision
//	import    archive reports in a SQL database
//
// If no paths are given and --db is set, the analysis commands read
// the archived reports instead.
//
// Results are printed as a text table, or with --csv, --html, or --json
// in those formats. With --png or --svg, charts are also written to the
// given directory.
//
// Settings that are not flags, such as the accepted bandwidths and
// the weights of the composite score, come from the YAML file named
// by --config. Flags override the file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/xbarsim/xbarperf/storage/db/sqlite3"
)

var exit = os.Exit // replaced during testing

func main() {
	if err := xbarstat(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "xbarstat: %s\n", err)
		exit(1)
	}
}

// xbarstat runs the command line args, writing results to w and logs
// to wErr.
func xbarstat(ctx context.Context, w, wErr io.Writer, args []string) error {
	root := newRootCmd(w, wErr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
