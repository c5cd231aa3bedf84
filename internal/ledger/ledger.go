// Package ledger persists per-run history in SQLite.
//
// Each session appends one row describing its outcome counters plus the
// stream-URL fingerprints it produced, so run history survives across
// sessions independently of the JSON dataset. The database is an audit
// trail, not the source of truth for merges; the dataset file is.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"stationpack/internal/station"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded session.
type Run struct {
	SessionID       string
	Query           string
	StartedAt       time.Time
	EndedAt         time.Time
	StationsTotal   int64
	StationsSuccess int64
	StationsFailed  int64
	StationsSkipped int64
	StationsTimeout int64
}

// Open initializes or connects to the ledger database and applies the
// schema when missing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// RecordRun appends one session row.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
            session_id, query, started_at, ended_at,
            stations_total, stations_success, stations_failed,
            stations_skipped, stations_timeout
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.SessionID,
		run.Query,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.EndedAt.UTC().Format(time.RFC3339Nano),
		run.StationsTotal,
		run.StationsSuccess,
		run.StationsFailed,
		run.StationsSkipped,
		run.StationsTimeout,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordStations upserts the stream-URL fingerprints produced by a
// session. Known URLs keep their original first-seen session.
func (s *Store) RecordStations(ctx context.Context, sessionID string, records []station.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fingerprints tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO fingerprints (stream_url, station_name, session_id, first_seen)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(stream_url) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare fingerprint insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Station, rec.Name, sessionID, now); err != nil {
			return fmt.Errorf("insert fingerprint %s: %w", rec.Station, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fingerprints: %w", err)
	}
	return nil
}

// Runs returns the most recent sessions, newest first. A limit of 0
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT session_id, query, started_at, ended_at,
            stations_total, stations_success, stations_failed,
            stations_skipped, stations_timeout
        FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, ended string
		if err := rows.Scan(
			&run.SessionID, &run.Query, &started, &ended,
			&run.StationsTotal, &run.StationsSuccess, &run.StationsFailed,
			&run.StationsSkipped, &run.StationsTimeout,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", started, err)
		}
		if run.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, fmt.Errorf("parse ended_at %q: %w", ended, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FingerprintCount returns the number of distinct stream URLs seen.
func (s *Store) FingerprintCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fingerprints").Scan(&count); err != nil {
		return 0, fmt.Errorf("count fingerprints: %w", err)
	}
	return count, nil
}
