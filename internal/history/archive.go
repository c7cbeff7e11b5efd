// Package history persists the store's append-only budget history log to
// SQLite. It is a read-only collaborator of the store: it archives
// snapshots and never feeds data back.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budget/internal/core"

	_ "modernc.org/sqlite"
)

// Source is the slice of the store the archive reads.
type Source interface {
	HistorySince(seq int64) []core.HistoryEntry
}

type Archive struct {
	db        *sql.DB
	batchSize int
	lastSeq   int64
}

// NewArchive opens (or creates) the archive database, runs migrations and
// resumes from the highest sequence number already persisted.
func NewArchive(dbPath string, batchSize int) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	a := &Archive{db: db, batchSize: batchSize}
	if err := a.loadLastSeq(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return a, nil
}

func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *Archive) loadLastSeq(ctx context.Context) error {
	row := a.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM budget_history`)
	if err := row.Scan(&a.lastSeq); err != nil {
		return fmt.Errorf("load last archived seq: %w", err)
	}
	return nil
}

// LastSeq returns the highest sequence number persisted so far.
func (a *Archive) LastSeq() int64 {
	return a.lastSeq
}

// ArchiveNew persists history entries newer than the last archived sequence
// number, at most batchSize per call. Returns the number of rows written.
func (a *Archive) ArchiveNew(ctx context.Context, src Source) (int, error) {
	entries := src.HistorySince(a.lastSeq)
	if len(entries) == 0 {
		return 0, nil
	}
	if len(entries) > a.batchSize {
		entries = entries[:a.batchSize]
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO budget_history (seq, entry_id, date, income, expenses, currency, categories)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		categories, err := json.Marshal(e.Categories)
		if err != nil {
			return 0, fmt.Errorf("marshal categories for seq %d: %w", e.Seq, err)
		}
		if _, err := stmt.ExecContext(ctx, e.Seq, e.ID, e.Date, e.Income, e.Expenses, e.Currency, categories); err != nil {
			return 0, fmt.Errorf("insert history seq %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit archive tx: %w", err)
	}

	a.lastSeq = entries[len(entries)-1].Seq

	slog.InfoContext(ctx, "Archived budget history entries",
		"count", len(entries),
		"last_seq", a.lastSeq)

	return len(entries), nil
}

// Entries reads back archived entries in sequence order, newest last. The
// category snapshots are decoded from their JSON column.
func (a *Archive) Entries(ctx context.Context) ([]core.HistoryEntry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT seq, entry_id, date, income, expenses, currency, categories
		FROM budget_history ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []core.HistoryEntry
	for rows.Next() {
		var e core.HistoryEntry
		var categories []byte
		if err := rows.Scan(&e.Seq, &e.ID, &e.Date, &e.Income, &e.Expenses, &e.Currency, &categories); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if err := json.Unmarshal(categories, &e.Categories); err != nil {
			return nil, fmt.Errorf("decode categories for seq %d: %w", e.Seq, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
