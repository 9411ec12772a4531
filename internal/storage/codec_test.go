package storage

import (
	"errors"
	"testing"

	"tessella/internal/model"
)

func TestRunCodecRoundTrip(t *testing.T) {
	input := model.RunRecord{
		VersionedRecord: versioned(),
		ID:              "run-1",
		CreatedAtUTC:    "2026-08-23T10:00:00Z",
		Rows:            8,
		Cols:            8,
		Population:      500,
		Generations:     10000,
		GenerationsRun:  412,
		Seed:            42,
		BestMismatches:  9,
	}

	data, err := EncodeRun(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if output != input {
		t.Fatalf("round trip changed the record: %+v", output)
	}
}

func TestSolutionCodecRoundTrip(t *testing.T) {
	input := model.SolutionRecord{
		VersionedRecord: versioned(),
		ID:              "sol-1",
		RunID:           "run-1",
		Generation:      31,
		Mismatches:      4,
		Rows:            2,
		Cols:            2,
		Tiles: []model.TileRecord{
			{Edges: [4]int{1, 2, 3, 4}},
			{Edges: [4]int{5, 6, 7, 2}},
			{Edges: [4]int{3, 8, 9, 1}},
			{Edges: [4]int{7, 4, 5, 8}},
		},
	}

	data, err := EncodeSolution(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeSolution(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if output.ID != input.ID || len(output.Tiles) != 4 || output.Tiles[2] != input.Tiles[2] {
		t.Fatalf("round trip changed the record: %+v", output)
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	stale := model.RunRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion + 1, CodecVersion: CurrentCodecVersion},
		ID:              "run-1",
	}
	data, err := EncodeRun(stale)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}

	staleSolution := model.SolutionRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion + 1},
		ID:              "sol-1",
	}
	data, err = EncodeSolution(staleSolution)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeSolution(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
}

func TestFitnessHistoryCodec(t *testing.T) {
	input := []int{104, 88, 70, 70, 55}
	data, err := EncodeFitnessHistory(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeFitnessHistory(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(output) != len(input) || output[2] != 70 {
		t.Fatalf("unexpected history: %+v", output)
	}
}

func TestGenerationDiagnosticsCodec(t *testing.T) {
	input := []model.GenerationDiagnostics{
		{Generation: 1, BestMismatches: 88, MeanMismatches: 97.2, WorstMismatches: 110, MutationRate: 25, State: "running"},
		{Generation: 2, BestMismatches: 88, MeanMismatches: 95.8, WorstMismatches: 108, MutationRate: 25, State: "stagnated_restart", Restarts: 1},
	}
	data, err := EncodeGenerationDiagnostics(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeGenerationDiagnostics(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(output) != 2 || output[1].State != "stagnated_restart" {
		t.Fatalf("unexpected diagnostics: %+v", output)
	}
}
