package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// TileRecord is the serialized form of one oriented tile: edge motifs in
// top, right, bottom, left order.
type TileRecord struct {
	Edges [4]int `json:"edges"`
}

// SolutionRecord is a best-so-far arrangement reported during a run.
type SolutionRecord struct {
	VersionedRecord
	ID         string       `json:"id"`
	RunID      string       `json:"run_id"`
	Generation int          `json:"generation"`
	Mismatches int          `json:"mismatches"`
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	Tiles      []TileRecord `json:"tiles"`
}

type RunRecord struct {
	VersionedRecord
	ID             string `json:"id"`
	CreatedAtUTC   string `json:"created_at_utc"`
	Rows           int    `json:"rows"`
	Cols           int    `json:"cols"`
	Population     int    `json:"population"`
	Generations    int    `json:"generations"`
	GenerationsRun int    `json:"generations_run"`
	Seed           int64  `json:"seed"`
	BestMismatches int    `json:"best_mismatches"`
	Solved         bool   `json:"solved"`
}

type GenerationDiagnostics struct {
	Generation      int     `json:"generation"`
	BestMismatches  int     `json:"best_mismatches"`
	MeanMismatches  float64 `json:"mean_mismatches"`
	WorstMismatches int     `json:"worst_mismatches"`
	MutationRate    int     `json:"mutation_rate"`
	State           string  `json:"state"`
	Restarts        int     `json:"restarts"`
}
