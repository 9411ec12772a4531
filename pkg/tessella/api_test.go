package tessella

import (
	"context"
	"strings"
	"testing"
)

// toyTileText is a 2x2 puzzle with a known zero-mismatch arrangement.
const toyTileText = "1234 5672\n3891 7458\n"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func toySolveRequest(seed int64) SolveRequest {
	return SolveRequest{
		TileText:       toyTileText,
		Rows:           2,
		Cols:           2,
		Population:     50,
		Generations:    500,
		Seed:           seed,
		Workers:        4,
		StagnationBase: 25,
	}
}

func TestClientSolvePersistsRunArtifacts(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	var events []ImprovementEvent
	req := toySolveRequest(7)
	req.OnImprovement = func(event ImprovementEvent) {
		events = append(events, event)
	}

	summary, err := client.Solve(ctx, req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if summary.GenerationsRun == 0 {
		t.Fatal("expected at least one generation")
	}
	if len(events) != summary.Improvements {
		t.Fatalf("callback saw %d events, summary counts %d improvements", len(events), summary.Improvements)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Mismatches >= events[i-1].Mismatches {
			t.Fatalf("event %d does not strictly improve", i)
		}
	}
	if summary.BestBoard == "" {
		t.Fatal("expected formatted best board")
	}

	runs, err := client.Runs(ctx)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != summary.RunID {
		t.Fatalf("expected run %s in listing: %+v", summary.RunID, runs)
	}
	if runs[0].BestMismatches != summary.BestMismatches || runs[0].Solved != summary.Solved {
		t.Fatalf("run record out of sync with summary: %+v", runs[0])
	}

	history, err := client.FitnessHistory(ctx, FitnessHistoryRequest{Latest: true})
	if err != nil {
		t.Fatalf("fitness history: %v", err)
	}
	if len(history) != summary.GenerationsRun {
		t.Fatalf("history has %d entries, run covered %d generations", len(history), summary.GenerationsRun)
	}

	diagnostics, err := client.Diagnostics(ctx, DiagnosticsRequest{RunID: summary.RunID})
	if err != nil {
		t.Fatalf("diagnostics: %v", err)
	}
	if len(diagnostics) != summary.GenerationsRun {
		t.Fatalf("diagnostics have %d entries, run covered %d generations", len(diagnostics), summary.GenerationsRun)
	}

	best, err := client.BestSolution(ctx, BestSolutionRequest{Latest: true})
	if err != nil {
		t.Fatalf("best solution: %v", err)
	}
	if best.RunID != summary.RunID || best.Mismatches != summary.BestMismatches {
		t.Fatalf("best solution out of sync with summary: %+v", best)
	}

	rendered, err := FormatSolution(best)
	if err != nil {
		t.Fatalf("format solution: %v", err)
	}
	if len(strings.Fields(rendered)) != 4 {
		t.Fatalf("rendered board must carry 4 tile codes: %q", rendered)
	}
}

func TestClientSolveRejectsBadInput(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if _, err := client.Solve(ctx, SolveRequest{}); err == nil {
		t.Fatal("expected error for empty tile text")
	}

	req := toySolveRequest(1)
	req.TileText = "12x4 5672 3891 7458"
	if _, err := client.Solve(ctx, req); err == nil {
		t.Fatal("expected error for malformed tile code")
	}

	req = toySolveRequest(1)
	req.TileText = "1234 5672 3891"
	if _, err := client.Solve(ctx, req); err == nil {
		t.Fatal("expected error for wrong tile count")
	}
}

func TestClientRunIDResolution(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if _, err := client.FitnessHistory(ctx, FitnessHistoryRequest{RunID: "x", Latest: true}); err == nil {
		t.Fatal("expected error for run id combined with latest")
	}
	if _, err := client.FitnessHistory(ctx, FitnessHistoryRequest{}); err == nil {
		t.Fatal("expected error for neither run id nor latest")
	}
	if _, err := client.FitnessHistory(ctx, FitnessHistoryRequest{Latest: true}); err == nil {
		t.Fatal("expected error when no runs exist")
	}
	if _, err := client.Diagnostics(ctx, DiagnosticsRequest{RunID: "missing"}); err == nil {
		t.Fatal("expected error for unknown run id")
	}
	if _, err := client.BestSolution(ctx, BestSolutionRequest{RunID: "missing"}); err == nil {
		t.Fatal("expected error for run without solutions")
	}
}

func TestClientSolveHistoryLimit(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	req := toySolveRequest(3)
	req.Generations = 40
	summary, err := client.Solve(ctx, req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}

	history, err := client.FitnessHistory(ctx, FitnessHistoryRequest{RunID: summary.RunID, Limit: 5})
	if err != nil {
		t.Fatalf("fitness history: %v", err)
	}
	if len(history) > 5 {
		t.Fatalf("limit ignored: %d entries", len(history))
	}
}
