package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"tessella/internal/storage"
	tessapi "tessella/pkg/tessella"
)

const defaultDBPath = "tessella.db"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "solve":
		return runSolve(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "best":
		return runBest(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := tessapi.New(tessapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}
	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *storeKind == "sqlite" {
		if err := os.Remove(*dbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	client, err := tessapi.New(tessapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}
	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runSolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	inputPath := fs.String("input", "", "puzzle file: whitespace-separated 4-digit tile codes")
	rows := fs.Int("rows", 0, "grid rows (0 uses the standard 8)")
	cols := fs.Int("cols", 0, "grid columns (0 uses the standard 8)")
	population := fs.Int("pop", 500, "population size")
	generations := fs.Int("gens", 10000, "generation budget")
	seed := fs.Int64("seed", 1, "rng seed")
	workers := fs.Int("workers", 4, "worker count")
	profileName := fs.String("profile", "", "named search profile: default|patient|aggressive")
	parentRatio := fs.Float64("parent-ratio", 0, "parent fraction of the population (0 uses the default)")
	mutationFloor := fs.Int("mutation-floor", 0, "adaptive mutation rate floor (0 uses the default)")
	mutationCap := fs.Int("mutation-cap", 0, "adaptive mutation rate cap (0 uses the default)")
	stagnationBase := fs.Int("stagnation-base", 0, "generations without improvement before the first restart (0 uses the default)")
	crossoverGate := fs.Int("gate", 0, "mismatch threshold that engages order crossover (0 uses the default)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	quiet := fs.Bool("quiet", false, "suppress per-improvement output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inputPath == "" {
		return usageError("solve requires -input")
	}

	tileText, err := os.ReadFile(*inputPath)
	if err != nil {
		return err
	}

	client, err := tessapi.New(tessapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := tessapi.SolveRequest{
		TileText:       string(tileText),
		Rows:           *rows,
		Cols:           *cols,
		Population:     *population,
		Generations:    *generations,
		Seed:           *seed,
		Workers:        *workers,
		ParentRatio:    *parentRatio,
		MutationFloor:  *mutationFloor,
		MutationCap:    *mutationCap,
		StagnationBase: *stagnationBase,
		CrossoverGate:  *crossoverGate,
	}
	if err := applyProfile(&req, *profileName); err != nil {
		return err
	}
	if !*quiet {
		req.OnImprovement = func(event tessapi.ImprovementEvent) {
			fmt.Printf("generation %d: %d mismatches\n", event.Generation, event.Mismatches)
		}
	}

	summary, err := client.Solve(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run=%s solved=%t best=%d generations=%d restarts=%d improvements=%d\n",
		summary.RunID, summary.Solved, summary.BestMismatches,
		summary.GenerationsRun, summary.Restarts, summary.Improvements)
	fmt.Print(summary.BestBoard)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	limit := fs.Int("limit", 20, "maximum number of runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := tessapi.New(tessapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if *limit > 0 && len(runs) > *limit {
		runs = runs[len(runs)-*limit:]
	}
	for _, run := range runs {
		fmt.Printf("%s created=%s grid=%dx%d pop=%d gens=%d/%d seed=%d best=%d solved=%t\n",
			run.ID, run.CreatedAtUTC, run.Rows, run.Cols, run.Population,
			run.GenerationsRun, run.Generations, run.Seed, run.BestMismatches, run.Solved)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "maximum number of generations to print (0 prints all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := tessapi.New(tessapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, tessapi.FitnessHistoryRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	for i, mismatches := range history {
		fmt.Printf("generation %d: %d\n", i+1, mismatches)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "maximum number of generations to print (0 prints all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := tessapi.New(tessapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, tessapi.DiagnosticsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	for _, d := range diagnostics {
		fmt.Printf("generation %d: best=%d mean=%.2f worst=%d rate=%d state=%s restarts=%d\n",
			d.Generation, d.BestMismatches, d.MeanMismatches, d.WorstMismatches,
			d.MutationRate, d.State, d.Restarts)
	}
	return nil
}

func runBest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("best", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := tessapi.New(tessapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	solution, err := client.BestSolution(ctx, tessapi.BestSolutionRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	board, err := tessapi.FormatSolution(solution)
	if err != nil {
		return err
	}
	fmt.Printf("run=%s generation=%d mismatches=%d\n", solution.RunID, solution.Generation, solution.Mismatches)
	fmt.Print(board)
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: tessellactl <init|reset|solve|runs|fitness|diagnostics|best> [flags]", msg)
}
