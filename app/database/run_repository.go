package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/flavor-watch/app/match"
)

var _ RunRepository = (*SQLRunRepository)(nil)

type SQLRunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *SQLRunRepository {
	return &SQLRunRepository{db: db}
}

// RecordRun stores the run and its matches in one transaction and returns the run ID.
func (r *SQLRunRepository) RecordRun(ctx context.Context, run Run) (int64, error) {
	flavors, err := json.Marshal(nonNil(run.Flavors))
	if err != nil {
		return 0, fmt.Errorf("failed to encode flavors: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, finished_at, url, topic, flavors, match_count, notified)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.URL, run.Topic, string(flavors), len(run.Matches), run.Notified)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for i, m := range run.Matches {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_matches (run_id, position, wanted, found)
			VALUES (?, ?, ?, ?)
		`, runID, i, m.Wanted, m.Found)
		if err != nil {
			return 0, fmt.Errorf("failed to insert match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// GetLastRun returns the most recent run, or nil when there is none.
func (r *SQLRunRepository) GetLastRun(ctx context.Context) (*Run, error) {
	var (
		run        Run
		startedAt  int64
		finishedAt int64
		flavors    string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, url, topic, flavors, notified
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`).Scan(&run.ID, &startedAt, &finishedAt, &run.URL, &run.Topic, &flavors, &run.Notified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}

	run.StartedAt = time.Unix(startedAt, 0).UTC()
	run.FinishedAt = time.Unix(finishedAt, 0).UTC()

	if err := json.Unmarshal([]byte(flavors), &run.Flavors); err != nil {
		return nil, fmt.Errorf("failed to decode flavors: %w", err)
	}

	run.Matches, err = r.getRunMatches(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

func (r *SQLRunRepository) getRunMatches(ctx context.Context, runID int64) ([]match.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT wanted, found
		FROM run_matches
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run matches: %w", err)
	}
	defer rows.Close()

	matches := []match.Match{}
	for rows.Next() {
		var m match.Match
		if err := rows.Scan(&m.Wanted, &m.Found); err != nil {
			return nil, fmt.Errorf("failed to scan run match: %w", err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

func (r *SQLRunRepository) GetRunCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// GetRecentMatches returns matches newest run first, in match order within a run.
func (r *SQLRunRepository) GetRecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.run_id, m.wanted, m.found, r.topic, r.notified, r.started_at
		FROM run_matches m
		JOIN runs r ON r.id = m.run_id
		ORDER BY r.started_at DESC, r.id DESC, m.position ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent matches: %w", err)
	}
	defer rows.Close()

	records := []MatchRecord{}
	for rows.Next() {
		var (
			record    MatchRecord
			startedAt int64
		)
		if err := rows.Scan(&record.RunID, &record.Wanted, &record.Found, &record.Topic, &record.Notified, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		record.FoundAt = time.Unix(startedAt, 0).UTC()
		records = append(records, record)
	}

	return records, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
