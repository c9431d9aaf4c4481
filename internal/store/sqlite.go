package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/experiment"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/scenario"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database at path. ":memory:" keeps everything in
// a single in-process connection.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the tables if they do not exist
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			seed_policy TEXT NOT NULL,
			parameters_json TEXT NOT NULL DEFAULT '[]',
			points INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scenario_rows (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			params_json TEXT NOT NULL,
			summary_json TEXT NOT NULL,
			PRIMARY KEY (run_id, idx),
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario)`,
	}
	for _, migration := range migrations {
		if _, err := s.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveScenario stores the table and its rows in one transaction and returns
// the new run ID
func (s *SQLiteStore) SaveScenario(ctx context.Context, table scenario.Table) (string, error) {
	id := uuid.New().String()
	params, err := json.Marshal(nonNil(table.Parameters))
	if err != nil {
		return "", fmt.Errorf("encoding parameters: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, seed, seed_policy, parameters_json, points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, table.Scenario, table.Seed, table.SeedPolicy, string(params), len(table.Rows), s.now().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO scenario_rows (run_id, idx, params_json, summary_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		paramsJSON, err := json.Marshal(row.Params)
		if err != nil {
			return "", fmt.Errorf("encoding row %d params: %w", row.Index, err)
		}
		summaryJSON, err := json.Marshal(row.Summary)
		if err != nil {
			return "", fmt.Errorf("encoding row %d summary: %w", row.Index, err)
		}
		if _, err := stmt.ExecContext(ctx, id, row.Index, string(paramsJSON), string(summaryJSON)); err != nil {
			return "", fmt.Errorf("inserting row %d: %w", row.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// GetRun retrieves a run header by ID
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, scenario, seed, seed_policy, parameters_json, points, created_at
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the most recent runs first
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scenario, seed, seed_policy, parameters_json, points, created_at
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRows returns the rows of a run in grid order
func (s *SQLiteStore) GetRows(ctx context.Context, runID string) ([]scenario.Row, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, params_json, summary_json FROM scenario_rows WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scenario.Row
	for rows.Next() {
		var (
			row                     scenario.Row
			paramsJSON, summaryJSON string
		)
		if err := rows.Scan(&row.Index, &paramsJSON, &summaryJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(paramsJSON), &row.Params); err != nil {
			return nil, fmt.Errorf("decoding row %d params: %w", row.Index, err)
		}
		var summary experiment.Summary
		if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
			return nil, fmt.Errorf("decoding row %d summary: %w", row.Index, err)
		}
		row.Summary = summary
		out = append(out, row)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run        Run
		paramsJSON string
		createdAt  int64
	)
	if err := sc.Scan(&run.ID, &run.Scenario, &run.Seed, &run.SeedPolicy, &paramsJSON, &run.Points, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(paramsJSON), &run.Parameters); err != nil {
		return nil, fmt.Errorf("decoding run %s parameters: %w", run.ID, err)
	}
	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &run, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
