// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simproc groups simulation Records and selects among them.
//
// A Projection names the key fields that define a group, such as
// "bit_precision,bandwidth", and how values of each key field are
// ordered. Projecting a Record yields a Key. Keys are interned, so two
// Keys are == if and only if their values are equal, and they can be
// used as map keys.
//
// GroupBy partitions Records into Groups by Key. Select applies a
// Policy to every Group and returns one Selection per Group:
//
//	proj, err := simproc.ParseProjection(nil, "bit_precision,bandwidth")
//	...
//	g := simproc.GroupBy(batch.Records, proj)
//	sels, err := simproc.Select(g, simproc.MinTiebreak{
//		Primary:   simfmt.Delay,
//		Secondary: simfmt.CrossbarSize,
//	})
//
// Grouping and selection are pure functions of their input
// collection: the result does not depend on the order of the input
// Records, except for fields ordered by first observation.
//
// Sweep and Frontier pivot Records into ordered (x, y) series for
// charts, and Summarize describes repeated runs of one configuration.
package simproc
