package evo

import (
	"fmt"
	"sort"
	"sync"

	"tessella/internal/puzzle"
)

// ScoredBoard pairs a population slot with its mismatch count for one
// generation's ranked view. The view is rebuilt every generation and
// never outlives it.
type ScoredBoard struct {
	Index      int
	Mismatches int
}

// EvaluateBoards scores the whole population with a worker pool and
// returns the ranked view, fewest mismatches first. Ties break on slot
// index so the ranking is deterministic.
func EvaluateBoards(p *Population, workers int) []ScoredBoard {
	size := p.Size()
	scored := make([]ScoredBoard, size)

	if workers <= 0 {
		workers = 1
	}
	if workers > size {
		workers = size
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				scored[i] = ScoredBoard{Index: i, Mismatches: puzzle.CountEdgeMismatch(p.boards[i])}
			}
		}()
	}
	for i := 0; i < size; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Mismatches == scored[j].Mismatches {
			return scored[i].Index < scored[j].Index
		}
		return scored[i].Mismatches < scored[j].Mismatches
	})
	return scored
}

// ParentCount converts the parent/replacement fraction into an even slot
// count, at least 2 and at most the population size.
func ParentCount(populationSize int, ratio float64) int {
	count := int(float64(populationSize) * ratio)
	if count%2 != 0 {
		count++
	}
	if count < 2 {
		count = 2
	}
	if count > populationSize {
		count = populationSize
	}
	return count
}

// SelectParentsAndWorst splits the ranked view: the best count slots
// become parents and the worst count slots become replacement targets.
// Individuals in neither group survive untouched.
func SelectParentsAndWorst(ranked []ScoredBoard, count int) (parents, worst []int, err error) {
	if count <= 0 || count > len(ranked) {
		return nil, nil, fmt.Errorf("invalid selection count %d for population %d", count, len(ranked))
	}
	if count%2 != 0 {
		return nil, nil, fmt.Errorf("selection count must be even, got %d", count)
	}

	parents = make([]int, count)
	worst = make([]int, count)
	for i := 0; i < count; i++ {
		parents[i] = ranked[i].Index
		worst[i] = ranked[len(ranked)-count+i].Index
	}
	return parents, worst, nil
}
