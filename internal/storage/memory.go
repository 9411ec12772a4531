package storage

import (
	"context"
	"sort"
	"sync"

	"tessella/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	solutions   map[string][]model.SolutionRecord
	history     map[string][]int
	diagnostics map[string][]model.GenerationDiagnostics
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.solutions = make(map[string][]model.SolutionRecord)
	s.history = make(map[string][]int)
	s.diagnostics = make(map[string][]model.GenerationDiagnostics)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

// ListRuns returns every run ordered by ID. Run IDs are ULIDs, so the
// lexicographic order is also the creation order.
func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })
	return runs, nil
}

func (s *MemoryStore) SaveSolution(_ context.Context, solution model.SolutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := solution
	copied.Tiles = append([]model.TileRecord(nil), solution.Tiles...)
	s.solutions[solution.RunID] = append(s.solutions[solution.RunID], copied)
	return nil
}

// GetBestSolution returns the lowest-mismatch solution recorded for the
// run; among equals the one from the latest generation wins.
func (s *MemoryStore) GetBestSolution(_ context.Context, runID string) (model.SolutionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recorded, ok := s.solutions[runID]
	if !ok || len(recorded) == 0 {
		return model.SolutionRecord{}, false, nil
	}
	best := recorded[0]
	for _, candidate := range recorded[1:] {
		if candidate.Mismatches < best.Mismatches ||
			(candidate.Mismatches == best.Mismatches && candidate.Generation > best.Generation) {
			best = candidate
		}
	}
	best.Tiles = append([]model.TileRecord(nil), best.Tiles...)
	return best, true, nil
}

func (s *MemoryStore) SaveFitnessHistory(_ context.Context, runID string, history []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := append([]int(nil), history...)
	s.history[runID] = copied
	return nil
}

func (s *MemoryStore) GetFitnessHistory(_ context.Context, runID string) ([]int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	copied := append([]int(nil), history...)
	return copied, true, nil
}

func (s *MemoryStore) SaveGenerationDiagnostics(_ context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	s.diagnostics[runID] = copied
	return nil
}

func (s *MemoryStore) GetGenerationDiagnostics(_ context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	return copied, true, nil
}
