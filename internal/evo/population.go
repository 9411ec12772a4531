package evo

import (
	"fmt"
	"math/rand"
	"sync"

	"tessella/internal/puzzle"
)

// Population owns a fixed-size set of candidate boards. Slots are never
// aliased: every board has private tile storage.
type Population struct {
	boards []puzzle.Board
}

func (p *Population) Size() int {
	return len(p.boards)
}

// Board returns the board in the given slot. The returned value shares
// storage with the slot; callers outside the generational loop must
// Clone before mutating.
func (p *Population) Board(i int) puzzle.Board {
	return p.boards[i]
}

// SeedPopulation fills a population of the given size from a single seed
// board. Slot 0 is an exact copy of the seed; every other slot applies
// tiles/2 rounds of one random swap followed by a rotation of the swapped
// tile to its own working copy. Slots are generated concurrently; each
// slot derives its own random source from rngSeed, so the result does not
// depend on scheduling.
func SeedPopulation(seed puzzle.Board, size, workers int, rngSeed int64) (*Population, error) {
	if size <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if seed.Len() < 2 {
		return nil, fmt.Errorf("seed board must hold at least 2 tiles")
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > size {
		workers = size
	}

	boards := make([]puzzle.Board, size)
	boards[0] = seed.Clone()

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for slot := range jobs {
				rng := rand.New(rand.NewSource(rngSeed + int64(slot)))
				boards[slot] = perturbedCopy(seed, rng)
			}
		}()
	}
	for slot := 1; slot < size; slot++ {
		jobs <- slot
	}
	close(jobs)
	wg.Wait()

	return &Population{boards: boards}, nil
}

func perturbedCopy(seed puzzle.Board, rng *rand.Rand) puzzle.Board {
	board := seed.Clone()
	for i := 0; i < board.Len()/2; i++ {
		swapped, _ := swapRandomTiles(&board, rng)
		board.RotateTile(swapped)
	}
	return board
}

// swapRandomTiles swaps two distinct random positions and returns them.
func swapRandomTiles(b *puzzle.Board, rng *rand.Rand) (int, int) {
	n := b.Len()
	i := rng.Intn(n)
	j := i
	for j == i {
		j = rng.Intn(n)
	}
	b.Swap(i, j)
	return i, j
}
