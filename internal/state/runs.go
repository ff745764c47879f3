package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codegate-io/codegate/pkg/models"
)

// RunSummary is the persisted view of one run.
type RunSummary struct {
	ID            string
	Task          string
	Status        models.RunStatus
	BestAttempt   int
	AttemptCount  int
	TotalDuration time.Duration
	TotalTokens   int64
	StartedAt     time.Time
}

// AttemptSummary is the persisted view of one attempt within a run.
type AttemptSummary struct {
	Index         int
	FunctionName  string
	CriticalCount int
	WarningCount  int
	PassedCount   int
	Issues        []models.Issue
	Duration      time.Duration
	Tokens        int64
}

// SaveRun persists a finished run and its attempt history atomically.
func (db *DB) SaveRun(result *models.RunResult) error {
	bestIndex := 0
	if result.BestAttempt != nil {
		bestIndex = result.BestAttempt.Index
	}

	return db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, task, status, best_attempt, attempt_count, total_duration_ms, total_tokens, started_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, result.ID, result.Task, string(result.Status), bestIndex, len(result.Attempts),
			result.TotalDuration.Milliseconds(), result.TotalTokens, formatTime(result.StartedAt))
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, a := range result.Attempts {
			issues, err := json.Marshal(a.Report.Issues)
			if err != nil {
				return fmt.Errorf("marshal issues for attempt %d: %w", a.Index, err)
			}
			_, err = tx.Exec(`
				INSERT INTO attempts (run_id, idx, function_name, critical_count, warning_count, passed_count, issues, duration_ms, tokens)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, result.ID, a.Index, a.Artifact.FunctionName,
				a.Report.CriticalCount(), a.Report.WarningCount(), a.Report.PassedCount(),
				string(issues), a.Duration().Milliseconds(), a.Tokens())
			if err != nil {
				return fmt.Errorf("insert attempt %d: %w", a.Index, err)
			}
		}
		return nil
	})
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	db.mu.RLock()
	defer db.mu.RUnlock()
	rows, err := db.conn.Query(`
		SELECT id, task, status, best_attempt, attempt_count, total_duration_ms, total_tokens, started_at
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		summary, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// GetRun returns one run and its full attempt history.
func (db *DB) GetRun(id string) (*RunSummary, []AttemptSummary, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.conn.QueryRow(`
		SELECT id, task, status, best_attempt, attempt_count, total_duration_ms, total_tokens, started_at
		FROM runs WHERE id = ?
	`, id)
	summary, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.conn.Query(`
		SELECT idx, function_name, critical_count, warning_count, passed_count, issues, duration_ms, tokens
		FROM attempts WHERE run_id = ? ORDER BY idx
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get attempts: %w", err)
	}
	defer rows.Close()

	var attempts []AttemptSummary
	for rows.Next() {
		var a AttemptSummary
		var issuesJSON sql.NullString
		var durationMS int64
		if err := rows.Scan(&a.Index, &a.FunctionName, &a.CriticalCount, &a.WarningCount,
			&a.PassedCount, &issuesJSON, &durationMS, &a.Tokens); err != nil {
			return nil, nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Duration = time.Duration(durationMS) * time.Millisecond
		if issuesJSON.Valid && issuesJSON.String != "" {
			if err := json.Unmarshal([]byte(issuesJSON.String), &a.Issues); err != nil {
				return nil, nil, fmt.Errorf("unmarshal issues for attempt %d: %w", a.Index, err)
			}
		}
		attempts = append(attempts, a)
	}
	return &summary, attempts, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunSummary, error) {
	var r RunSummary
	var status, startedAt string
	var durationMS int64
	if err := s.Scan(&r.ID, &r.Task, &status, &r.BestAttempt, &r.AttemptCount,
		&durationMS, &r.TotalTokens, &startedAt); err != nil {
		return r, err
	}
	r.Status = models.RunStatus(status)
	r.TotalDuration = time.Duration(durationMS) * time.Millisecond
	t, err := parseTime(startedAt)
	if err != nil {
		return r, fmt.Errorf("parse started_at: %w", err)
	}
	r.StartedAt = t
	return r, nil
}
