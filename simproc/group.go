// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simproc

import (
	"sort"

	"github.com/xbarsim/xbarperf/simfmt"
)

// A Group is the set of Records that share a Key.
type Group struct {
	Key Key
	// Records are the members of the group in canonical order
	// (see simfmt.Compare). A Group always has at least one
	// Record.
	Records []*simfmt.Record
}

// A Grouping is a partition of a Record collection by a Projection.
// Every input Record appears in exactly one of Groups, Residue, or
// Excluded.
type Grouping struct {
	Projection *Projection

	// All is the whole collection that was partitioned, in
	// canonical order.
	All []*simfmt.Record

	// Groups are the non-empty groups in Key order.
	Groups []*Group

	// Residue are the Records that lack at least one key field, in
	// canonical order.
	Residue []*simfmt.Record

	// Excluded are the Records rejected by the filter implied by
	// a Fixed key field, in canonical order.
	Excluded []*simfmt.Record

	index map[Key]*Group
}

// GroupBy partitions records by the Key proj projects from each of
// them.
//
// The result does not depend on the order of records unless proj has
// a field ordered by first observation, in which case records are
// observed in the order given.
func GroupBy(records []*simfmt.Record, proj *Projection) *Grouping {
	g := &Grouping{
		Projection: proj,
		All:        append([]*simfmt.Record{}, records...),
		Groups:     []*Group{},
		index:      make(map[Key]*Group),
	}
	filter := proj.Filter()
	for _, r := range records {
		if !filter.Match(r) {
			g.Excluded = append(g.Excluded, r)
			continue
		}
		key, ok := proj.Project(r)
		if !ok {
			g.Residue = append(g.Residue, r)
			continue
		}
		grp := g.index[key]
		if grp == nil {
			grp = &Group{Key: key}
			g.index[key] = grp
			g.Groups = append(g.Groups, grp)
		}
		grp.Records = append(grp.Records, r)
	}

	sort.Slice(g.Groups, func(i, j int) bool {
		return g.Groups[i].Key.Less(g.Groups[j].Key)
	})
	for _, grp := range g.Groups {
		sortRecords(grp.Records)
	}
	sortRecords(g.All)
	sortRecords(g.Residue)
	sortRecords(g.Excluded)
	return g
}

// Lookup returns the Group with Key k, or nil.
func (g *Grouping) Lookup(k Key) *Group {
	return g.index[k]
}

// Len returns the number of grouped Records.
func (g *Grouping) Len() int {
	n := 0
	for _, grp := range g.Groups {
		n += len(grp.Records)
	}
	return n
}

func sortRecords(rs []*simfmt.Record) {
	sort.SliceStable(rs, func(i, j int) bool {
		return simfmt.Compare(rs[i], rs[j]) < 0
	})
}
