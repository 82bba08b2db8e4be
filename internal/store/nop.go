package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/forecast-rugby/internal/model"
)

// NopStore discards run history. GetRun always reports ErrNotFound.
type NopStore struct{}

func (NopStore) Migrate(context.Context) error { return nil }
func (NopStore) Close() error                  { return nil }

func (NopStore) CreateRun(context.Context) (*model.Run, error) {
	now := time.Now().UTC()
	return &model.Run{ID: uuid.New().String(), Status: model.RunStatusRunning, CreatedAt: now, UpdatedAt: now}, nil
}

func (NopStore) CompleteRun(context.Context, string, model.RunStatus, *model.RunResult) error {
	return nil
}

func (NopStore) FailRun(context.Context, string, string, model.ErrorCategory) error { return nil }

func (NopStore) GetRun(context.Context, string) (*model.Run, error) {
	return nil, ErrNotFound
}

func (NopStore) ListRuns(context.Context, RunFilter) ([]model.Run, error) { return nil, nil }
