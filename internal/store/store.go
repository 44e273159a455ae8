// Package store persists resolution runs and the entities they produce.
// Two backends are provided: SQLite for single-machine use and PostgreSQL
// for shared deployments.
package store

import (
	"context"

	"github.com/sells-group/brandscout-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for resolution runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, summary model.RunSummary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Entities
	SaveEntities(ctx context.Context, runID string, entities []model.ResolvedEntity) error
	ListEntities(ctx context.Context, runID string) ([]model.ResolvedEntity, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
