package storage

import (
	"context"

	"tessella/internal/model"
)

// Store defines persistence operations for runs and the artifacts they
// produce. Lookups report presence with a bool instead of an error.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveSolution(ctx context.Context, solution model.SolutionRecord) error
	GetBestSolution(ctx context.Context, runID string) (model.SolutionRecord, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []int) error
	GetFitnessHistory(ctx context.Context, runID string) ([]int, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}
