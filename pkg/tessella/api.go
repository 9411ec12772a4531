package tessella

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"tessella/internal/evo"
	"tessella/internal/model"
	"tessella/internal/puzzle"
	"tessella/internal/storage"
)

const defaultDBPath = "tessella.db"

type Options struct {
	StoreKind string
	DBPath    string
}

// Client is the embeddable front door: it owns a store and drives solver
// runs against it.
type Client struct {
	store       storage.Store
	initialized bool
}

type SolveRequest struct {
	// TileText holds the puzzle as whitespace-separated 4-digit codes,
	// one digit per edge in top, right, bottom, left order.
	TileText string

	// Rows and Cols default to the standard 8x8 grid.
	Rows int
	Cols int

	Population  int
	Generations int
	Seed        int64
	Workers     int

	ParentRatio     float64
	MutationFloor   int
	MutationCap     int
	StagnationBase  int
	StagnationTiers []int
	CrossoverGate   int

	// OnImprovement, when set, receives every new best-so-far board as
	// the run progresses.
	OnImprovement func(ImprovementEvent)
}

type ImprovementEvent struct {
	Generation int
	Mismatches int
	Board      string
}

type SolveSummary struct {
	RunID          string
	BestMismatches int
	Solved         bool
	GenerationsRun int
	Restarts       int
	Improvements   int
	BestBoard      string
}

type FitnessHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type BestSolutionRequest struct {
	RunID  string
	Latest bool
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureInit(ctx)
}

// Solve parses the puzzle, runs the evolutionary search and persists the
// run record, every improvement, the fitness history and the per
// generation diagnostics under a fresh ULID run ID.
func (c *Client) Solve(ctx context.Context, req SolveRequest) (SolveSummary, error) {
	if req.TileText == "" {
		return SolveSummary{}, errors.New("tile text is required")
	}
	geo := puzzle.Geometry{Rows: req.Rows, Cols: req.Cols}
	if req.Rows == 0 && req.Cols == 0 {
		geo = puzzle.Standard()
	}
	if req.Population <= 0 {
		req.Population = 500
	}
	if req.Generations <= 0 {
		req.Generations = 10000
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}

	tiles, err := puzzle.ParseTiles(strings.NewReader(req.TileText), geo)
	if err != nil {
		return SolveSummary{}, fmt.Errorf("parse tiles: %w", err)
	}
	catalog, err := puzzle.NewCatalog(tiles, geo)
	if err != nil {
		return SolveSummary{}, err
	}
	board, err := puzzle.NewBoard(tiles, geo)
	if err != nil {
		return SolveSummary{}, err
	}

	if err := c.ensureInit(ctx); err != nil {
		return SolveSummary{}, err
	}

	runID := ulid.Make().String()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(req.Seed)), 0)
	now := time.Now().UTC()

	var solutions []model.SolutionRecord
	sink := func(best puzzle.Board, mismatches, generation int) {
		solutions = append(solutions, solutionRecord(
			ulid.MustNew(ulid.Timestamp(now), entropy).String(),
			runID, generation, mismatches, best,
		))
		if req.OnImprovement != nil {
			req.OnImprovement(ImprovementEvent{
				Generation: generation,
				Mismatches: mismatches,
				Board:      puzzle.FormatBoard(best),
			})
		}
	}

	monitor, err := evo.NewEvolutionMonitor(evo.MonitorConfig{
		Catalog:         catalog,
		PopulationSize:  req.Population,
		Generations:     req.Generations,
		Workers:         req.Workers,
		Seed:            req.Seed,
		ParentRatio:     req.ParentRatio,
		MutationFloor:   req.MutationFloor,
		MutationCap:     req.MutationCap,
		StagnationBase:  req.StagnationBase,
		StagnationTiers: req.StagnationTiers,
		CrossoverGate:   req.CrossoverGate,
		Sink:            sink,
	})
	if err != nil {
		return SolveSummary{}, err
	}

	result, runErr := monitor.Run(ctx, board)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return SolveSummary{}, runErr
	}

	run := model.RunRecord{
		VersionedRecord: currentVersion(),
		ID:              runID,
		CreatedAtUTC:    now.Format(time.RFC3339Nano),
		Rows:            geo.Rows,
		Cols:            geo.Cols,
		Population:      req.Population,
		Generations:     req.Generations,
		GenerationsRun:  result.GenerationsRun,
		Seed:            req.Seed,
		BestMismatches:  result.BestMismatches,
		Solved:          result.Solved,
	}
	// Persistence uses a fresh context so a cancelled run still lands in
	// the store.
	saveCtx := context.WithoutCancel(ctx)
	if err := c.store.SaveRun(saveCtx, run); err != nil {
		return SolveSummary{}, err
	}
	for _, solution := range solutions {
		if err := c.store.SaveSolution(saveCtx, solution); err != nil {
			return SolveSummary{}, err
		}
	}
	if err := c.store.SaveFitnessHistory(saveCtx, runID, result.BestByGeneration); err != nil {
		return SolveSummary{}, err
	}
	if err := c.store.SaveGenerationDiagnostics(saveCtx, runID, toModelDiagnostics(result.Diagnostics)); err != nil {
		return SolveSummary{}, err
	}

	summary := SolveSummary{
		RunID:          runID,
		BestMismatches: result.BestMismatches,
		Solved:         result.Solved,
		GenerationsRun: result.GenerationsRun,
		Restarts:       result.Restarts,
		Improvements:   len(result.Improvements),
		BestBoard:      puzzle.FormatBoard(result.Best),
	}
	return summary, runErr
}

func (c *Client) Runs(ctx context.Context) ([]model.RunRecord, error) {
	if err := c.ensureInit(ctx); err != nil {
		return nil, err
	}
	return c.store.ListRuns(ctx)
}

func (c *Client) FitnessHistory(ctx context.Context, req FitnessHistoryRequest) ([]int, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return history, nil
}

func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]model.GenerationDiagnostics, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	return diagnostics, nil
}

func (c *Client) BestSolution(ctx context.Context, req BestSolutionRequest) (model.SolutionRecord, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return model.SolutionRecord{}, err
	}
	solution, ok, err := c.store.GetBestSolution(ctx, runID)
	if err != nil {
		return model.SolutionRecord{}, err
	}
	if !ok {
		return model.SolutionRecord{}, fmt.Errorf("no solutions recorded for run id: %s", runID)
	}
	return solution, nil
}

// FormatSolution renders a persisted solution in the same 4-digit code
// layout ParseTiles accepts.
func FormatSolution(solution model.SolutionRecord) (string, error) {
	tiles := make([]puzzle.Tile, len(solution.Tiles))
	for i, record := range solution.Tiles {
		tiles[i] = puzzle.Tile(record.Edges)
	}
	board, err := puzzle.NewBoard(tiles, puzzle.Geometry{Rows: solution.Rows, Cols: solution.Cols})
	if err != nil {
		return "", err
	}
	return puzzle.FormatBoard(board), nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if err := c.ensureInit(ctx); err != nil {
		return "", err
	}
	if latest {
		runs, err := c.store.ListRuns(ctx)
		if err != nil {
			return "", err
		}
		if len(runs) == 0 {
			return "", errors.New("no runs available")
		}
		// ULIDs sort by creation time, so the last entry is the latest.
		return runs[len(runs)-1].ID, nil
	}
	if runID == "" {
		return "", errors.New("run id or latest is required")
	}
	return runID, nil
}

func (c *Client) ensureInit(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func currentVersion() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}
}

func solutionRecord(id, runID string, generation, mismatches int, board puzzle.Board) model.SolutionRecord {
	geo := board.Geometry()
	tiles := make([]model.TileRecord, board.Len())
	for i := 0; i < board.Len(); i++ {
		tiles[i] = model.TileRecord{Edges: board.Tile(i)}
	}
	return model.SolutionRecord{
		VersionedRecord: currentVersion(),
		ID:              id,
		RunID:           runID,
		Generation:      generation,
		Mismatches:      mismatches,
		Rows:            geo.Rows,
		Cols:            geo.Cols,
		Tiles:           tiles,
	}
}

func toModelDiagnostics(diagnostics []evo.GenerationDiagnostics) []model.GenerationDiagnostics {
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	for i, d := range diagnostics {
		out[i] = model.GenerationDiagnostics{
			Generation:      d.Generation,
			BestMismatches:  d.BestMismatches,
			MeanMismatches:  d.MeanMismatches,
			WorstMismatches: d.WorstMismatches,
			MutationRate:    d.MutationRate,
			State:           d.State.String(),
			Restarts:        d.Restarts,
		}
	}
	return out
}
