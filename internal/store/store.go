// Package store persists the history of forecast runs.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/forecast-rugby/internal/model"
)

// ErrNotFound is returned, wrapped, when a run does not exist.
var ErrNotFound = eris.New("run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// defaultListLimit caps ListRuns when the filter has no limit.
const defaultListLimit = 100

// Store defines the persistence interface for forecast runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, msg string, category model.ErrorCategory) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
