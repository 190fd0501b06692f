// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simfmt

import (
	"context"
	"os"
	"sort"
	"sync"
)

// A Loader reads and extracts a set of report files into a Batch.
type Loader struct {
	// Options are passed to Extract for every report. FileName
	// is set per report.
	Options ExtractOptions

	// Workers is the number of reports read concurrently. Values
	// below 2 read sequentially.
	Workers int
}

// A Batch is the fully materialized result of loading reports.
type Batch struct {
	// Records are the extracted Records in canonical order
	// (see Compare), each carrying its source and file name.
	Records []*Record

	// Rejected are the reports that produced no Record, in path
	// order.
	Rejected []*Rejection
}

// A Rejection is a report that was read but produced no Record,
// because strict extraction found it incomplete or it repeated a
// label under RejectDuplicates.
type Rejection struct {
	Input
	Err error
}

func (r *Rejection) Error() string {
	return r.Err.Error()
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Load reads every input of files. It returns an error only for I/O
// failures or cancellation of ctx; extraction failures are collected
// in Batch.Rejected. The resulting Batch does not depend on the order
// of directory entries or on worker scheduling.
func (l *Loader) Load(ctx context.Context, files *Files) (*Batch, error) {
	if err := l.Options.Validate(); err != nil {
		return nil, err
	}
	inputs, err := files.Inputs()
	if err != nil {
		return nil, err
	}

	type result struct {
		rec *Record
		err error // extraction error
		io  error
	}
	results := make([]result, len(inputs))
	load := func(i int) {
		inp := inputs[i]
		data, err := os.ReadFile(inp.Path)
		if err != nil {
			results[i].io = err
			return
		}
		opts := l.Options
		opts.FileName = inp.Path
		rec, err := Extract(data, opts)
		if err != nil {
			results[i].err = err
			return
		}
		results[i].rec = rec.WithSource(inp.Source, inp.Path)
	}

	workers := l.Workers
	if workers < 2 {
		for i := range inputs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			load(i)
		}
	} else {
		work := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range work {
					load(i)
				}
			}()
		}
	feed:
		for i := range inputs {
			select {
			case work <- i:
			case <-ctx.Done():
				break feed
			}
		}
		close(work)
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	b := &Batch{Records: []*Record{}}
	for i, res := range results {
		switch {
		case res.io != nil:
			return nil, res.io
		case res.err != nil:
			b.Rejected = append(b.Rejected, &Rejection{inputs[i], res.err})
		default:
			b.Records = append(b.Records, res.rec)
		}
	}
	sort.SliceStable(b.Records, func(i, j int) bool {
		return Compare(b.Records[i], b.Records[j]) < 0
	})
	sort.SliceStable(b.Rejected, func(i, j int) bool {
		return b.Rejected[i].Path < b.Rejected[j].Path
	})
	return b, nil
}
