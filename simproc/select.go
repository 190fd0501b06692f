// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"fmt"

	"github.com/xbarsim/xbarperf/simfmt"
)

// A Policy decides which Record of a Group is selected.
type Policy interface {
	// Prepare returns a Ranker for one selection pass. population
	// is the whole collection, including Records that were not
	// grouped, which policies that normalize against the
	// collection need.
	Prepare(schema *simfmt.Schema, population []*simfmt.Record) (Ranker, error)
}

// A Ranker orders the Records of a Group.
type Ranker interface {
	// Eligible reports whether r can be ranked at all.
	Eligible(r *simfmt.Record) bool
	// Compare returns <0 if a is preferred to b, >0 if b is
	// preferred to a, and 0 if they rank equally.
	Compare(a, b *simfmt.Record) int
}

// A Scorer is a Ranker that also assigns each Record a score.
type Scorer interface {
	Ranker
	Score(r *simfmt.Record) float64
}

// A Selection is the Record chosen for one Group.
type Selection struct {
	Key    Key
	Record *simfmt.Record

	// Score is the composite score of Record if Scored is set.
	Score  float64
	Scored bool

	// Candidates is the number of eligible Records in the Group.
	Candidates int
}

// Select applies p to every Group of g and returns one Selection per
// Group with at least one eligible Record, in Key order.
//
// Records that rank equally are resolved in favor of the one that
// comes first in canonical order (see simfmt.Compare), so the result
// does not depend on input order. Select returns ErrNoData if g has
// no Groups.
func Select(g *Grouping, p Policy) ([]Selection, error) {
	if len(g.Groups) == 0 {
		return nil, ErrNoData
	}
	ranker, err := p.Prepare(g.Projection.Schema(), g.All)
	if err != nil {
		return nil, err
	}
	scorer, _ := ranker.(Scorer)

	sels := []Selection{}
	for _, grp := range g.Groups {
		var best *simfmt.Record
		n := 0
		for _, r := range grp.Records {
			if !ranker.Eligible(r) {
				continue
			}
			n++
			if best == nil || ranker.Compare(r, best) < 0 {
				best = r
			}
		}
		if best == nil {
			continue
		}
		sel := Selection{Key: grp.Key, Record: best, Candidates: n}
		if scorer != nil {
			sel.Score, sel.Scored = scorer.Score(best), true
		}
		sels = append(sels, sel)
	}
	return sels, nil
}

// MinMetric selects the Record with the smallest value of Metric.
// Records without Metric are not eligible.
type MinMetric struct {
	Metric string
}

func (p MinMetric) Prepare(schema *simfmt.Schema, population []*simfmt.Record) (Ranker, error) {
	if err := checkMetric(schema, p.Metric); err != nil {
		return nil, err
	}
	return p, nil
}

func (p MinMetric) Eligible(r *simfmt.Record) bool {
	return r.Has(p.Metric)
}

func (p MinMetric) Compare(a, b *simfmt.Record) int {
	return cmpMetric(a, b, p.Metric)
}

// MinTiebreak selects the Record with the smallest Primary metric.
// Among Records whose Primary values are exactly equal, it selects
// the smallest Secondary, or the largest if SecondaryLarger is set.
// Records without both metrics are not eligible.
type MinTiebreak struct {
	Primary         string
	Secondary       string
	SecondaryLarger bool
}

func (p MinTiebreak) Prepare(schema *simfmt.Schema, population []*simfmt.Record) (Ranker, error) {
	if err := checkMetric(schema, p.Primary); err != nil {
		return nil, err
	}
	if err := checkMetric(schema, p.Secondary); err != nil {
		return nil, err
	}
	return p, nil
}

func (p MinTiebreak) Eligible(r *simfmt.Record) bool {
	return r.Has(p.Primary, p.Secondary)
}

func (p MinTiebreak) Compare(a, b *simfmt.Record) int {
	if c := cmpMetric(a, b, p.Primary); c != 0 {
		return c
	}
	c := cmpMetric(a, b, p.Secondary)
	if p.SecondaryLarger {
		c = -c
	}
	return c
}

func checkMetric(schema *simfmt.Schema, name string) error {
	f, ok := schema.Field(name)
	if !ok {
		return fmt.Errorf("unknown metric %q", name)
	}
	if f.Kind == simfmt.Text {
		return fmt.Errorf("metric %s is not numeric", f.Name)
	}
	return nil
}

// cmpMetric compares the named field of a and b, which must both be
// present.
func cmpMetric(a, b *simfmt.Record, name string) int {
	va, _ := a.Get(name)
	vb, _ := b.Get(name)
	return simfmt.CompareValues(va, vb)
}
