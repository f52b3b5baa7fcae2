package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// EventLog is an append-only record of document changes in a sqlite file
// next to the document. It is an audit trail, not the undo history; undo
// lives in memory with the document.
type EventLog struct {
	db *sql.DB
}

// LogEntry is one recorded change.
type LogEntry struct {
	Seq        uint64
	Op         string
	Summary    string
	Structural bool
	At         time.Time
}

// OpenEventLog opens or creates the change log at path.
func OpenEventLog(ctx context.Context, path string) (*EventLog, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout helps avoid
	// "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS changes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seq INTEGER NOT NULL,
			op TEXT NOT NULL,
			summary TEXT NOT NULL,
			structural INTEGER NOT NULL,
			at_unixms INTEGER NOT NULL
		);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &EventLog{db: db}, nil
}

// Append records one change.
func (l *EventLog) Append(ctx context.Context, seq uint64, op, summary string, structural bool) error {
	s := 0
	if structural {
		s = 1
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO changes(seq, op, summary, structural, at_unixms) VALUES(?, ?, ?, ?, ?)`,
		int64(seq), op, summary, s, time.Now().UTC().UnixMilli())
	return err
}

// Recent returns the latest entries, newest first. limit <= 0 returns all.
func (l *EventLog) Recent(ctx context.Context, limit int) ([]LogEntry, error) {
	q := `SELECT seq, op, summary, structural, at_unixms FROM changes ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = l.db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = l.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		var seq, atMs int64
		var structural int
		if err := rows.Scan(&seq, &e.Op, &e.Summary, &structural, &atMs); err != nil {
			return nil, err
		}
		e.Seq = uint64(seq)
		e.Structural = structural == 1
		e.At = time.UnixMilli(atMs).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (l *EventLog) Close() error { return l.db.Close() }
