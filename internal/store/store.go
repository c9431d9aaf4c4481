package store

import (
	"context"
	"errors"
	"time"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/scenario"
)

// ErrNotFound is returned when a run ID is unknown
var ErrNotFound = errors.New("run not found")

// Store persists scenario tables
type Store interface {
	Close() error
	Migrate(ctx context.Context) error
	SaveScenario(ctx context.Context, table scenario.Table) (string, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetRows(ctx context.Context, runID string) ([]scenario.Row, error)
}

// Run is the header of one saved scenario table
type Run struct {
	ID         string    `json:"id"`
	Scenario   string    `json:"scenario"`
	Seed       int64     `json:"seed"`
	SeedPolicy string    `json:"seed_policy"`
	Parameters []string  `json:"parameters"`
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"created_at"`
}

// DefaultListLimit is used when ListRuns is given a non-positive limit
const DefaultListLimit = 50
