package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/pottingshed/verdant/internal/garden"
)

// journalSchema is the DDL executed on first open. IF NOT EXISTS makes it
// safe to run on every startup.
const journalSchema = `
CREATE TABLE IF NOT EXISTS events (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    dest       TEXT NOT NULL,
    object_id  TEXT NOT NULL,
    slot_id    TEXT NOT NULL,
    category   TEXT NOT NULL,
    action     TEXT NOT NULL,
    reason     TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);
`

// Entry is one journaled event row.
type Entry struct {
	ID        int64
	Dest      garden.Dest
	Event     garden.Event
	CreatedAt time.Time
}

// Journal is an append-only sqlite record of every emitted event, kept for
// consumers that poll or replay the stream. It is never read back to
// restore garden state.
type Journal struct {
	db *sql.DB
}

// NewJournal opens (or creates) a sqlite journal at dbPath, enables WAL mode
// and a busy timeout, and creates the schema.
func NewJournal(ctx context.Context, dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	// One connection: sqlite has a single writer, and one pooled
	// connection avoids SQLITE_BUSY between connections that each need
	// their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Publish inserts the notification's events in order, inside one
// transaction so a batch is never half-journaled.
func (j *Journal) Publish(ctx context.Context, n Notification) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("journal: begin: %w", err)
	}
	defer tx.Rollback()

	for _, ev := range n.Events {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (dest, object_id, slot_id, category, action, reason, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(n.Dest), ev.ObjectID, ev.SlotID, ev.Category, string(ev.Action), string(ev.Reason), n.At.UTC())
		if err != nil {
			return fmt.Errorf("journal: insert event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("journal: commit: %w", err)
	}
	return nil
}

// Recent returns up to limit journaled events, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, dest, object_id, slot_id, category, action, reason, created_at
		 FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var dest, action, reason string
		if err := rows.Scan(&e.ID, &dest, &e.Event.ObjectID, &e.Event.SlotID,
			&e.Event.Category, &action, &reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan event: %w", err)
		}
		e.Dest = garden.Dest(dest)
		e.Event.Action = garden.Action(action)
		e.Event.Reason = garden.Reason(reason)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate events: %w", err)
	}
	return entries, nil
}

// Close releases database resources.
func (j *Journal) Close() error {
	return j.db.Close()
}
