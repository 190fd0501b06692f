// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives extracted simulation Records in a SQL database.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/xbarsim/xbarperf/simfmt"
)

// DB is a high-level interface to a Record archive. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	lastImport   *sql.Stmt
	insertImport *sql.Stmt
	insertRecord *sql.Stmt
	insertField  *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to limit the connection pool.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Imports (
	ImportID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Day CHAR(8) NOT NULL,
	Seq INTEGER NOT NULL,
	UNIQUE (Day, Seq)
);
CREATE TABLE IF NOT EXISTS Records (
	ImportID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Source VARCHAR(255),
	FileName VARCHAR(1024),
	Content BLOB,
	PRIMARY KEY (ImportID, RecordID),
{{if not .sqlite3}}
	Index (Source(100)),
{{end}}
	FOREIGN KEY (ImportID) REFERENCES Imports(ImportID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS RecordFields (
	ImportID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Name VARCHAR(255),
	Value VARCHAR(255),
{{if not .sqlite3}}
	Index (Name(100), Value(100)),
{{end}}
	FOREIGN KEY (ImportID, RecordID) REFERENCES Records(ImportID, RecordID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RecordsSource ON Records(Source);
CREATE INDEX IF NOT EXISTS RecordFieldsNameValue ON RecordFields(Name, Value);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.lastImport, err = db.sql.Prepare("SELECT COALESCE(MAX(Seq), 0) FROM Imports WHERE Day = ?")
	if err != nil {
		return err
	}
	db.insertImport, err = db.sql.Prepare("INSERT INTO Imports(Day, Seq) VALUES (?, ?)")
	if err != nil {
		return err
	}
	db.insertRecord, err = db.sql.Prepare("INSERT INTO Records(ImportID, RecordID, Source, FileName, Content) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertField, err = db.sql.Prepare("INSERT INTO RecordFields(ImportID, RecordID, Name, Value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing.
var now = time.Now

// An Import is a set of Records archived together. Nothing written
// to an Import is visible until Commit.
type Import struct {
	// ID is the date-based identifier of the import, of the form
	// YYYYMMDD.N, where N counts imports made on that day.
	ID string

	// id is the numeric primary key.
	id int64
	// recordid is the index of the next record to insert.
	recordid int64
	tx       *sql.Tx
	db       *DB
}

// NewImport starts a new Import.
func (db *DB) NewImport(ctx context.Context) (*Import, error) {
	day := now().UTC().Format("20060102")

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	var seq int64
	if err := tx.StmtContext(ctx, db.lastImport).QueryRowContext(ctx, day).Scan(&seq); err != nil {
		tx.Rollback()
		return nil, err
	}
	seq++
	res, err := tx.StmtContext(ctx, db.insertImport).ExecContext(ctx, day, seq)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Import{
		ID: fmt.Sprintf("%s.%d", day, seq),
		id: id,
		tx: tx,
		db: db,
	}, nil
}

// Insert adds rec to the import. The report text is stored in
// Records.Content as written by simfmt.Writer, and every present field
// is indexed in RecordFields.
func (im *Import) Insert(ctx context.Context, rec *simfmt.Record) error {
	var buf bytes.Buffer
	if err := simfmt.NewWriter(&buf).Write(rec); err != nil {
		return err
	}
	if _, err := im.tx.StmtContext(ctx, im.db.insertRecord).ExecContext(ctx, im.id, im.recordid, rec.Source(), rec.FileName(), buf.Bytes()); err != nil {
		return err
	}
	insertField := im.tx.StmtContext(ctx, im.db.insertField)
	for _, name := range rec.Fields() {
		v, _ := rec.Get(name)
		if _, err := insertField.ExecContext(ctx, im.id, im.recordid, name, v.String()); err != nil {
			return err
		}
	}
	im.recordid++
	return nil
}

// Len returns the number of Records inserted so far.
func (im *Import) Len() int {
	return int(im.recordid)
}

// Commit makes the import visible. The Import must not be used
// afterwards.
func (im *Import) Commit() error {
	return im.tx.Commit()
}

// Abort discards the import.
func (im *Import) Abort() error {
	return im.tx.Rollback()
}

// Records returns the archived Records with the given source label,
// or every Record if source is "". Stored report text is extracted
// again with opts, so the result depends only on the archive content
// and opts. As with simfmt.Loader, reports that fail extraction are
// returned in Batch.Rejected rather than as an error, and Records are
// in canonical order.
func (db *DB) Records(ctx context.Context, source string, opts simfmt.ExtractOptions) (*simfmt.Batch, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	q := "SELECT ImportID, RecordID, Source, FileName, Content FROM Records"
	var args []interface{}
	if source != "" {
		q += " WHERE Source = ?"
		args = append(args, source)
	}
	q += " ORDER BY ImportID, RecordID"
	rows, err := db.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	b := &simfmt.Batch{Records: []*simfmt.Record{}}
	for rows.Next() {
		var (
			importID, recordID int64
			src, fileName      string
			content            []byte
		)
		if err := rows.Scan(&importID, &recordID, &src, &fileName, &content); err != nil {
			return nil, err
		}
		o := opts
		o.FileName = fmt.Sprintf("%s (import %d, record %d)", fileName, importID, recordID)
		rec, err := simfmt.Extract(content, o)
		if err != nil {
			b.Rejected = append(b.Rejected, &simfmt.Rejection{Input: simfmt.Input{Source: src, Path: fileName}, Err: err})
			continue
		}
		b.Records = append(b.Records, rec.WithSource(src, fileName))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(b.Records, func(i, j int) bool {
		return simfmt.Compare(b.Records[i], b.Records[j]) < 0
	})
	return b, nil
}

// Sources returns the distinct source labels in the archive, sorted.
func (db *DB) Sources(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT DISTINCT Source FROM Records ORDER BY Source")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// CountImports returns the number of imports in the archive.
func (db *DB) CountImports() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Imports").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.lastImport, db.insertImport, db.insertRecord, db.insertField} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
