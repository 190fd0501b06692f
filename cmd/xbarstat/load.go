// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xbarsim/xbarperf/simfmt"
	"github.com/xbarsim/xbarperf/simproc"
	"github.com/xbarsim/xbarperf/storage/db"
)

var errNoInput = errors.New("no reports given; name report files or directories, or set --db")

// load returns the Records to analyze: those in the reports named by
// args, or if there are none, those in the archive. The configured
// filter is applied.
func (e *env) load(ctx context.Context, args []string) ([]*simfmt.Record, error) {
	opts, err := e.cfg.ExtractOptions()
	if err != nil {
		return nil, err
	}
	return e.loadWith(ctx, args, opts)
}

// loadWith is like load but extracts with opts.
func (e *env) loadWith(ctx context.Context, args []string, opts simfmt.ExtractOptions) ([]*simfmt.Record, error) {
	var recs []*simfmt.Record
	var err error
	if len(args) == 0 {
		if e.cfg.Database.DSN == "" {
			return nil, errNoInput
		}
		recs, err = e.loadArchive(ctx, opts)
	} else {
		recs, err = e.loadReports(ctx, args, opts)
	}
	if err != nil {
		return nil, err
	}

	f, err := e.cfg.Filter()
	if err != nil {
		return nil, err
	}
	if f != nil {
		n := len(recs)
		recs = f.Apply(recs)
		e.log.WithFields(logrus.Fields{"filter": f.String(), "kept": len(recs), "dropped": n - len(recs)}).Info("filtered records")
	}
	return recs, nil
}

// loadReports extracts the reports named by args. Reports that
// cannot be extracted are logged and skipped.
func (e *env) loadReports(ctx context.Context, args []string, opts simfmt.ExtractOptions) ([]*simfmt.Record, error) {
	files := &simfmt.Files{Paths: args, AllowLabels: true, Suffix: e.cfg.Extract.Suffix}
	l := &simfmt.Loader{Options: opts, Workers: e.cfg.Extract.Workers}
	b, err := l.Load(ctx, files)
	if err != nil {
		return nil, err
	}
	e.logBatch(b)
	e.log.WithFields(logrus.Fields{"records": len(b.Records), "rejected": len(b.Rejected)}).Info("read reports")
	return b.Records, nil
}

// logBatch logs the rejected reports of b and the fields dropped from
// its Records.
func (e *env) logBatch(b *simfmt.Batch) {
	for _, rej := range b.Rejected {
		e.log.WithFields(logrus.Fields{"file": rej.Path, "source": rej.Source}).WithError(rej.Err).Warn("rejected report")
	}
	for _, r := range b.Records {
		for _, p := range r.Problems() {
			e.log.WithField("file", r.FileName()).WithError(p).Info("dropped field")
		}
	}
}

func (e *env) openDB() (*db.DB, error) {
	if e.cfg.Database.DSN == "" {
		return nil, errors.New("no archive; set --db or database.dsn")
	}
	return db.OpenSQL(e.cfg.Database.Driver, e.cfg.Database.DSN)
}

func (e *env) loadArchive(ctx context.Context, opts simfmt.ExtractOptions) ([]*simfmt.Record, error) {
	d, err := e.openDB()
	if err != nil {
		return nil, err
	}
	defer d.Close()
	if e.source != "" {
		sources, err := d.Sources(ctx)
		if err != nil {
			return nil, err
		}
		if !contains(sources, e.source) {
			return nil, fmt.Errorf("archive has no source %q (have %s)", e.source, strings.Join(sources, ", "))
		}
	}
	b, err := d.Records(ctx, e.source, opts)
	if err != nil {
		return nil, err
	}
	e.logBatch(b)
	e.log.WithFields(logrus.Fields{
		"driver":   e.cfg.Database.Driver,
		"source":   e.source,
		"records":  len(b.Records),
		"rejected": len(b.Rejected),
	}).Info("read archive")
	return b.Records, nil
}

// keyProjection returns the configured (bit_precision, bandwidth)
// Projection.
func (e *env) keyProjection() (*simproc.Projection, error) {
	return simproc.NewProjection(simfmt.DefaultSchema, e.cfg.KeySpecs()...)
}

// group partitions recs by proj. It logs Records that could not be
// grouped and returns nil if no group remains.
func (e *env) group(recs []*simfmt.Record, proj *simproc.Projection) *simproc.Grouping {
	g := simproc.GroupBy(recs, proj)
	for _, r := range g.Residue {
		e.log.WithField("file", r.FileName()).Debug("record lacks a key field")
	}
	e.log.WithFields(logrus.Fields{
		"groups":   len(g.Groups),
		"grouped":  g.Len(),
		"residue":  len(g.Residue),
		"excluded": len(g.Excluded),
	}).Info("grouped records")
	if len(g.Groups) == 0 {
		return nil
	}
	return g
}
