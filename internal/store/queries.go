package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Doctor run operations

// RecordDoctorRun stores a completed doctor run. An empty ID is replaced
// with a new UUID, which is returned.
func (s *Store) RecordDoctorRun(run *DoctorRun) (string, error) {
	id := run.ID
	if id == "" {
		id = uuid.NewString()
	}

	deprecated := run.Deprecated
	if deprecated == nil {
		deprecated = []string{}
	}
	deprecatedJSON, err := json.Marshal(deprecated)
	if err != nil {
		return "", fmt.Errorf("failed to marshal deprecated formulae: %w", err)
	}

	query := `
		INSERT INTO doctor_runs (id, started_at, finished_at, output, deprecated, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		id,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.Output,
		string(deprecatedJSON),
		run.Error,
	)
	if err != nil {
		return "", wrapQueryErr("failed to record doctor run", err)
	}
	return id, nil
}

// LatestDoctorRun returns the most recently finished run, or nil when no run
// has been recorded.
func (s *Store) LatestDoctorRun() (*DoctorRun, error) {
	runs, err := s.ListDoctorRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// ListDoctorRuns returns up to limit runs, newest first. A limit <= 0
// returns every run.
func (s *Store) ListDoctorRuns(limit int) ([]*DoctorRun, error) {
	query := `
		SELECT id, started_at, finished_at, output, deprecated, COALESCE(error, '')
		FROM doctor_runs
		ORDER BY finished_at DESC
		LIMIT ?
	`
	rows, err := s.db.Query(query, sqlLimit(limit))
	if err != nil {
		return nil, wrapQueryErr("failed to list doctor runs", err)
	}
	defer rows.Close()

	var runs []*DoctorRun
	for rows.Next() {
		var run DoctorRun
		var startedAt, finishedAt, deprecatedJSON string
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Output, &deprecatedJSON, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan doctor run: %w", err)
		}
		if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse started_at for run %s: %w", run.ID, err)
		}
		if run.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
			return nil, fmt.Errorf("failed to parse finished_at for run %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(deprecatedJSON), &run.Deprecated); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deprecated formulae for run %s: %w", run.ID, err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate doctor runs: %w", err)
	}
	return runs, nil
}

// Removal operations

// RecordRemoval stores an uninstall attempt and returns its row ID.
func (s *Store) RecordRemoval(r *Removal) (int64, error) {
	removedAt := r.RemovedAt
	if removedAt.IsZero() {
		removedAt = time.Now()
	}

	query := `
		INSERT INTO removals (package, removed_at, output, error)
		VALUES (?, ?, ?, ?)
	`
	result, err := s.db.Exec(query,
		r.Package,
		removedAt.UTC().Format(timeLayout),
		r.Output,
		nullString(r.Error),
	)
	if err != nil {
		return 0, wrapQueryErr(fmt.Sprintf("failed to record removal of %s", r.Package), err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get removal ID: %w", err)
	}
	return id, nil
}

// ListRemovals returns up to limit removals, newest first. A limit <= 0
// returns every removal.
func (s *Store) ListRemovals(limit int) ([]*Removal, error) {
	query := `
		SELECT id, package, removed_at, COALESCE(output, ''), COALESCE(error, '')
		FROM removals
		ORDER BY removed_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.Query(query, sqlLimit(limit))
	if err != nil {
		return nil, wrapQueryErr("failed to list removals", err)
	}
	defer rows.Close()

	var removals []*Removal
	for rows.Next() {
		var r Removal
		var removedAt string
		if err := rows.Scan(&r.ID, &r.Package, &removedAt, &r.Output, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan removal: %w", err)
		}
		if r.RemovedAt, err = time.Parse(timeLayout, removedAt); err != nil {
			return nil, fmt.Errorf("failed to parse removed_at for %s: %w", r.Package, err)
		}
		removals = append(removals, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate removals: %w", err)
	}
	return removals, nil
}

// sqlLimit maps "no limit" to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
