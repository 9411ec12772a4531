package evo

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"tessella/internal/puzzle"
)

// State identifies the controller's position in the generational loop.
type State int

const (
	StateRunning State = iota
	StateStagnatedRestart
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStagnatedRestart:
		return "stagnated_restart"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Improvement is one strict best-score improvement observed during a run.
type Improvement struct {
	Generation int
	Mismatches int
}

// Sink receives every new best-so-far board together with its mismatch
// count. The board is a private copy; the sink may keep it.
type Sink func(board puzzle.Board, mismatches, generation int)

type GenerationDiagnostics struct {
	Generation      int
	BestMismatches  int
	MeanMismatches  float64
	WorstMismatches int
	MutationRate    int
	State           State
	Restarts        int
}

type RunResult struct {
	BestByGeneration []int
	Improvements     []Improvement
	Diagnostics      []GenerationDiagnostics
	Best             puzzle.Board
	BestMismatches   int
	GenerationsRun   int
	Restarts         int
	Solved           bool
}

type MonitorConfig struct {
	Catalog        *puzzle.Catalog
	PopulationSize int
	Generations    int
	Workers        int
	Seed           int64

	// ParentRatio is the fraction of the population used as parents and,
	// mirrored, as replacement targets. Defaults to 0.25.
	ParentRatio float64

	// MutationFloor and MutationCap bound the adaptive mutation rate.
	// Defaults 3 and 32.
	MutationFloor int
	MutationCap   int

	// StagnationBase is the number of generations without improvement
	// before the first restart tier fires; StagnationTiers multiply it
	// into escalating patience levels. Defaults: max(10,
	// (1000/population)*1000) and {1, 10, 100}. The counter resets after
	// the last tier fires.
	StagnationBase  int
	StagnationTiers []int

	// CrossoverGate engages the duplicate-aware order crossover once the
	// generation best falls to the gate or below; above it offspring are
	// parent clones shaped by mutation alone. Defaults to 10.
	CrossoverGate int

	// Recombiner and Mutator override the defaults, order crossover over
	// the catalog and the swap/rotate mutator.
	Recombiner Recombiner
	Mutator    Mutator

	Sink Sink
}

// EvolutionMonitor drives the generational loop: evaluate, report
// improvement, restart on stagnation, select, recombine, mutate, replace.
type EvolutionMonitor struct {
	cfg MonitorConfig
	rng *rand.Rand
}

func NewEvolutionMonitor(cfg MonitorConfig) (*EvolutionMonitor, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg.Catalog.Geometry().Tiles() < 2 {
		return nil, fmt.Errorf("geometry must hold at least 2 tiles")
	}
	if cfg.PopulationSize <= 1 {
		return nil, fmt.Errorf("population size must be > 1")
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.ParentRatio == 0 {
		cfg.ParentRatio = 0.25
	}
	if cfg.ParentRatio < 0 || cfg.ParentRatio > 1 {
		return nil, fmt.Errorf("parent ratio must be in (0, 1], got %v", cfg.ParentRatio)
	}
	if cfg.MutationFloor == 0 {
		cfg.MutationFloor = 3
	}
	if cfg.MutationFloor < 1 {
		return nil, fmt.Errorf("mutation floor must be >= 1")
	}
	if cfg.MutationCap == 0 {
		cfg.MutationCap = 32
	}
	if cfg.MutationCap < cfg.MutationFloor {
		return nil, fmt.Errorf("mutation cap %d below floor %d", cfg.MutationCap, cfg.MutationFloor)
	}
	if cfg.StagnationBase == 0 {
		base := (1000 / cfg.PopulationSize) * 1000
		if base < 10 {
			base = 10
		}
		cfg.StagnationBase = base
	}
	if cfg.StagnationBase < 1 {
		return nil, fmt.Errorf("stagnation base must be >= 1")
	}
	if len(cfg.StagnationTiers) == 0 {
		cfg.StagnationTiers = []int{1, 10, 100}
	}
	for i, tier := range cfg.StagnationTiers {
		if tier < 1 {
			return nil, fmt.Errorf("stagnation tier %d must be >= 1", i)
		}
		if i > 0 && tier <= cfg.StagnationTiers[i-1] {
			return nil, fmt.Errorf("stagnation tiers must be strictly increasing")
		}
	}
	if cfg.CrossoverGate == 0 {
		cfg.CrossoverGate = 10
	}
	if cfg.CrossoverGate < 0 {
		return nil, fmt.Errorf("crossover gate must be >= 0")
	}
	if cfg.Recombiner == nil {
		cfg.Recombiner = OrderRecombiner{Catalog: cfg.Catalog}
	}
	if cfg.Mutator == nil {
		cfg.Mutator = SwapRotateMutator{}
	}

	return &EvolutionMonitor{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Run seeds a population from the given board and evolves it until the
// mismatch count reaches zero or the generation budget is spent. On
// context cancellation the current generation completes and the partial
// result is returned together with the context error.
func (m *EvolutionMonitor) Run(ctx context.Context, seed puzzle.Board) (RunResult, error) {
	if !seed.MatchesCatalog(m.cfg.Catalog) {
		return RunResult{}, fmt.Errorf("seed board does not carry the catalog's tile multiset")
	}

	pop, err := SeedPopulation(seed, m.cfg.PopulationSize, m.cfg.Workers, m.rng.Int63())
	if err != nil {
		return RunResult{}, err
	}

	parentCount := ParentCount(m.cfg.PopulationSize, m.cfg.ParentRatio)
	rateTable := mutationRateTable(m.cfg.Catalog.Geometry().Adjacencies(), m.cfg.MutationFloor, m.cfg.MutationCap)

	result := RunResult{
		BestByGeneration: make([]int, 0, m.cfg.Generations),
		Diagnostics:      make([]GenerationDiagnostics, 0, m.cfg.Generations),
		BestMismatches:   math.MaxInt,
	}

	best := seed.Clone()
	bestScore := math.MaxInt
	stagnation := 0
	restarts := 0
	rate := m.cfg.MutationCap
	lastGenBest := -1

	for gen := 1; gen <= m.cfg.Generations; gen++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.finish(&result, best, bestScore, restarts)
			return result, ctxErr
		}

		state := StateRunning
		ranked := EvaluateBoards(pop, m.cfg.Workers)
		genBest := ranked[0]
		result.BestByGeneration = append(result.BestByGeneration, genBest.Mismatches)

		if genBest.Mismatches < bestScore {
			bestScore = genBest.Mismatches
			best = pop.boards[genBest.Index].Clone()
			stagnation = 0
			result.Improvements = append(result.Improvements, Improvement{Generation: gen, Mismatches: bestScore})
			if m.cfg.Sink != nil {
				m.cfg.Sink(best.Clone(), bestScore, gen)
			}
		} else {
			stagnation++
		}

		for tier, multiple := range m.cfg.StagnationTiers {
			if stagnation != m.cfg.StagnationBase*multiple {
				continue
			}
			state = StateStagnatedRestart
			restarts++
			pop, err = SeedPopulation(best, m.cfg.PopulationSize, m.cfg.Workers, m.rng.Int63())
			if err != nil {
				return RunResult{}, err
			}
			if tier == len(m.cfg.StagnationTiers)-1 {
				stagnation = 0
			}
			break
		}

		// The rate lookup is keyed by the generation best and refreshed
		// only when that value moves.
		if genBest.Mismatches != lastGenBest {
			lastGenBest = genBest.Mismatches
			idx := lastGenBest
			if idx >= len(rateTable) {
				idx = len(rateTable) - 1
			}
			rate = rateTable[idx]
		}

		if bestScore == 0 {
			state = StateTerminated
		}
		result.Diagnostics = append(result.Diagnostics, diagnose(ranked, gen, rate, state, restarts))
		if bestScore == 0 {
			break
		}

		parents, worstSlots, selErr := SelectParentsAndWorst(ranked, parentCount)
		if selErr != nil {
			return RunResult{}, selErr
		}

		offspring := make([]puzzle.Board, parentCount)
		for i := 0; i+1 < parentCount; i += 2 {
			mirror := parentCount - 1 - i
			first := pop.boards[parents[i]]
			second := pop.boards[parents[mirror]]

			var o1, o2 puzzle.Board
			if genBest.Mismatches <= m.cfg.CrossoverGate {
				o1, o2 = m.cfg.Recombiner.Recombine(m.rng, first, second)
			} else {
				o1, o2 = first.Clone(), second.Clone()
			}
			offspring[i] = o1
			offspring[mirror] = o2
		}
		for i := range offspring {
			m.cfg.Mutator.Apply(m.rng, &offspring[i], rate)
		}
		for i, slot := range worstSlots {
			pop.boards[slot] = offspring[i]
		}
	}

	m.finish(&result, best, bestScore, restarts)
	return result, nil
}

func (m *EvolutionMonitor) finish(result *RunResult, best puzzle.Board, bestScore, restarts int) {
	result.Best = best
	result.BestMismatches = bestScore
	result.GenerationsRun = len(result.BestByGeneration)
	result.Restarts = restarts
	result.Solved = bestScore == 0
}

func diagnose(ranked []ScoredBoard, generation, rate int, state State, restarts int) GenerationDiagnostics {
	total := 0
	for _, item := range ranked {
		total += item.Mismatches
	}
	return GenerationDiagnostics{
		Generation:      generation,
		BestMismatches:  ranked[0].Mismatches,
		MeanMismatches:  float64(total) / float64(len(ranked)),
		WorstMismatches: ranked[len(ranked)-1].Mismatches,
		MutationRate:    rate,
		State:           state,
		Restarts:        restarts,
	}
}

// mutationRateTable precomputes the rate for every reachable mismatch
// count: proportional to the distance from solved, clamped to
// [floor, cap].
func mutationRateTable(maxMismatch, floorRate, capRate int) []int {
	table := make([]int, maxMismatch+1)
	for i := range table {
		rate := int(float64(i) / float64(maxMismatch) * float64(capRate))
		if rate < floorRate {
			rate = floorRate
		}
		if rate > capRate {
			rate = capRate
		}
		table[i] = rate
	}
	return table
}
