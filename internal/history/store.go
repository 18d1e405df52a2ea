// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists finished conversion attempts in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doc-converter/pkg/types"
)

const (
	// defaultLimit bounds List when no limit is given.
	defaultLimit = 50
	// timeLayout has fixed-width fractions so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and creates the
// schema if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input_name TEXT NOT NULL,
			input_format TEXT,
			output_format TEXT,
			output_path TEXT,
			status TEXT NOT NULL,
			code TEXT,
			message TEXT,
			started_at TEXT NOT NULL,
			duration_ns INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_started_at ON conversions(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one finished attempt.
func (s *Store) Record(ctx context.Context, rec types.ConversionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions
			(input_name, input_format, output_format, output_path, status, code, message, started_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.InputName, string(rec.InputFormat), string(rec.OutputFormat), rec.OutputPath,
		rec.Status, rec.Code, rec.Message,
		rec.StartedAt.UTC().Format(timeLayout), int64(rec.Duration),
	)
	if err != nil {
		return fmt.Errorf("recording conversion of %s: %w", rec.InputName, err)
	}
	return nil
}

// Filter narrows List results.
type Filter struct {
	// Status keeps only attempts with this status (success, failure, cancelled).
	Status string
	// Limit caps the number of records; zero means 50, negative means all.
	Limit int
}

// List returns recorded attempts, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]types.ConversionRecord, error) {
	query := `SELECT id, input_name, input_format, output_format, output_path, status, code, message, started_at, duration_ns
		FROM conversions`
	var args []any
	if f.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, f.Status)
	}
	query += ` ORDER BY started_at DESC, id DESC`

	limit := f.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	out := []types.ConversionRecord{}
	for rows.Next() {
		var (
			rec                      types.ConversionRecord
			inFmt, outFmt, outPath   sql.NullString
			code, message, startedAt sql.NullString
			durationNs               int64
		)
		if err := rows.Scan(&rec.ID, &rec.InputName, &inFmt, &outFmt, &outPath,
			&rec.Status, &code, &message, &startedAt, &durationNs); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		rec.InputFormat = types.Format(inFmt.String)
		rec.OutputFormat = types.Format(outFmt.String)
		rec.OutputPath = outPath.String
		rec.Code = code.String
		rec.Message = message.String
		rec.Duration = time.Duration(durationNs)
		if t, err := time.Parse(timeLayout, startedAt.String); err == nil {
			rec.StartedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Clear removes every recorded attempt and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversions`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}
