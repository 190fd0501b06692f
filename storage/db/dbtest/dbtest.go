// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens scratch archives for tests.
package dbtest

import (
	"testing"

	"github.com/xbarsim/xbarperf/storage/db"
	_ "github.com/xbarsim/xbarperf/storage/db/sqlite3"
)

// NewDB makes a connection to an empty in-memory sqlite3 database.
// The database is closed when the test finishes.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.OpenSQL("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	// Make sure the database really is empty.
	imports, err := d.CountImports()
	if err != nil {
		t.Fatal(err)
	}
	if imports != 0 {
		t.Fatalf("found %d row(s) in Imports, want 0", imports)
	}
	return d
}
