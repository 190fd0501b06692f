// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"fmt"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/xbarsim/xbarperf/simfmt"
)

// A Summary describes the distribution of one metric over the Records
// of a Group, such as repeated runs of one configuration.
type Summary struct {
	Key    Key
	Metric string

	// Values are the observed values in ascending order.
	Values []float64

	N              int
	Min, Max       float64
	Mean, Median   float64
	StdDev         float64
	RelativeSpread float64 // (Max-Min)/Mean, or 0
	MissingRecords int     // members without Metric

	// Warnings are problems with the summary that should be
	// shown along with it. They do not prevent its use.
	Warnings []error
}

// Summarize summarizes metric over the members of grp. It returns
// ErrNoData if no member has metric.
func Summarize(grp *Group, metric string) (*Summary, error) {
	s := &Summary{Key: grp.Key, Metric: metric}
	for _, r := range grp.Records {
		v, ok := r.Metric(metric)
		if !ok {
			s.MissingRecords++
			continue
		}
		s.Values = append(s.Values, v)
	}
	if len(s.Values) == 0 {
		return nil, ErrNoData
	}
	sort.Float64s(s.Values)

	sample := stats.Sample{Xs: s.Values, Sorted: true}
	s.N = len(s.Values)
	s.Min, s.Max = sample.Bounds()
	s.Mean = sample.Mean()
	s.Median = sample.Quantile(0.5)
	if s.N >= 2 {
		s.StdDev = sample.StdDev()
	} else {
		s.Warnings = append(s.Warnings, fmt.Errorf("only one %s value; need at least 2 to estimate spread", metric))
	}
	if s.Mean != 0 {
		s.RelativeSpread = (s.Max - s.Min) / s.Mean
	}
	if s.MissingRecords > 0 {
		s.Warnings = append(s.Warnings, fmt.Errorf("%d of %d records lack %s", s.MissingRecords, len(grp.Records), metric))
	}
	return s, nil
}

// SummarizeAll summarizes metric for every Group of g, in Key order.
// Groups where no member has metric are skipped.
func SummarizeAll(g *Grouping, metric string) []*Summary {
	var out []*Summary
	for _, grp := range g.Groups {
		s, err := Summarize(grp, metric)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// String formats s on one line, such as "delay: n=3 mean=100 ±2.5%".
func (s *Summary) String() string {
	return fmt.Sprintf("%s: n=%d mean=%s ±%.1f%%", s.Metric, s.N, simfmt.FloatValue(s.Mean), 100*s.RelativeSpread/2)
}
