// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"fmt"
	"math"

	"github.com/xbarsim/xbarperf/simfmt"
)

// A Direction says whether smaller or larger values of a metric are
// better.
type Direction int

const (
	// LowerIsBetter metrics are normalized against the maximum
	// over the population, with headroom.
	LowerIsBetter Direction = iota
	// HigherIsBetter metrics must already be in [0, 1] and are
	// used as they are.
	HigherIsBetter
)

func (d Direction) String() string {
	switch d {
	case LowerIsBetter:
		return "lower"
	case HigherIsBetter:
		return "higher"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection parses "lower" or "higher".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "lower":
		return LowerIsBetter, nil
	case "higher":
		return HigherIsBetter, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want lower or higher)", s)
}

// A Term is one weighted metric of a composite score.
type Term struct {
	Metric    string
	Weight    float64
	Direction Direction
}

// DefaultMargin is the headroom added to observed maxima.
const DefaultMargin = 0.1

// DefaultTerms returns the standard composite score: delay, crossbar
// size, crossbar amount and bits transferred (lower is better) and
// crossbar usage (higher is better), equally weighted.
func DefaultTerms() []Term {
	return []Term{
		{simfmt.Delay, 0.2, LowerIsBetter},
		{simfmt.CrossbarSize, 0.2, LowerIsBetter},
		{simfmt.CrossbarAmount, 0.2, LowerIsBetter},
		{simfmt.TotalBits, 0.2, LowerIsBetter},
		{simfmt.Usage, 0.2, HigherIsBetter},
	}
}

// Ranges are the observed maxima of a set of metrics over a
// population of Records.
type Ranges struct {
	max    map[string]float64
	margin float64
}

// NewRanges computes the maxima of the metrics of terms over
// population. Every Record must have every metric; otherwise NewRanges
// returns a *MissingFieldError.
func NewRanges(population []*simfmt.Record, terms []Term, margin float64) (*Ranges, error) {
	if margin < 0 || math.IsNaN(margin) || math.IsInf(margin, 0) {
		return nil, fmt.Errorf("bad margin %v", margin)
	}
	rg := &Ranges{max: make(map[string]float64), margin: margin}
	for _, t := range terms {
		max := 0.0
		for _, r := range population {
			v, ok := metric(r, t.Metric)
			if !ok {
				return nil, &MissingFieldError{t.Metric, r}
			}
			max = math.Max(max, v)
		}
		rg.max[t.Metric] = max
	}
	return rg, nil
}

// Max returns the observed maximum of metric, without headroom.
func (rg *Ranges) Max(metric string) float64 {
	return rg.max[metric]
}

// Margin returns the headroom fraction of rg.
func (rg *Ranges) Margin() float64 {
	return rg.margin
}

// normalize maps v of term t into [0, 1], where 1 is best.
func (rg *Ranges) normalize(t Term, v float64) float64 {
	if t.Direction == HigherIsBetter {
		return math.Max(0, math.Min(v, 1))
	}
	denom := rg.max[t.Metric] * (1 + rg.margin)
	if denom == 0 {
		// Every observation was 0, which is as good as it gets.
		return 1
	}
	return 1 - math.Min(v/denom, 1)
}

// Score returns the composite score of r: the weighted sum of the
// normalized value of each term. Larger scores are better.
func Score(r *simfmt.Record, rg *Ranges, terms []Term) (float64, error) {
	score := 0.0
	for _, t := range terms {
		if _, ok := rg.max[t.Metric]; !ok {
			return 0, fmt.Errorf("metric %s has no range", t.Metric)
		}
		v, ok := metric(r, t.Metric)
		if !ok {
			return 0, &MissingFieldError{t.Metric, r}
		}
		score += t.Weight * rg.normalize(t, v)
	}
	return score, nil
}

// Weighted selects the Record with the largest composite score (see
// Score).
//
// If Ranges is nil, maxima are computed over the whole collection
// passed to GroupBy, not per Group, so Records excluded from grouping
// still count. Every Record of the collection must have every term
// metric.
type Weighted struct {
	Terms  []Term
	Margin float64
	Ranges *Ranges
}

// Validate checks that every term names a numeric field of schema
// and has a non-negative weight.
func (p Weighted) Validate(schema *simfmt.Schema) error {
	if len(p.Terms) == 0 {
		return fmt.Errorf("weighted policy has no terms")
	}
	for _, t := range p.Terms {
		if err := checkMetric(schema, t.Metric); err != nil {
			return err
		}
		if t.Weight < 0 || math.IsNaN(t.Weight) {
			return fmt.Errorf("metric %s: bad weight %v", t.Metric, t.Weight)
		}
	}
	return nil
}

func (p Weighted) Prepare(schema *simfmt.Schema, population []*simfmt.Record) (Ranker, error) {
	if err := p.Validate(schema); err != nil {
		return nil, err
	}
	rg := p.Ranges
	if rg == nil {
		var err error
		rg, err = NewRanges(population, p.Terms, p.Margin)
		if err != nil {
			return nil, err
		}
	}
	w := &weightedRanker{terms: p.Terms, ranges: rg, scores: make(map[*simfmt.Record]float64)}
	for _, r := range population {
		s, err := Score(r, rg, p.Terms)
		if err != nil {
			return nil, err
		}
		w.scores[r] = s
	}
	return w, nil
}

type weightedRanker struct {
	terms  []Term
	ranges *Ranges
	scores map[*simfmt.Record]float64
}

func (w *weightedRanker) Eligible(r *simfmt.Record) bool {
	_, ok := w.scores[r]
	return ok
}

func (w *weightedRanker) Compare(a, b *simfmt.Record) int {
	sa, sb := w.scores[a], w.scores[b]
	switch {
	case sa > sb:
		return -1
	case sa < sb:
		return 1
	}
	return 0
}

func (w *weightedRanker) Score(r *simfmt.Record) float64 {
	return w.scores[r]
}
