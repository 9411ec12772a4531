package evo

import (
	"math/rand"

	"tessella/internal/puzzle"
)

// Mutator perturbs a board in place with an intensity given by rate.
type Mutator interface {
	Name() string
	Apply(rng *rand.Rand, b *puzzle.Board, rate int)
}

// SwapRotateMutator draws a step count uniformly from [0, rate) and
// alternates: even steps swap two distinct random positions, odd steps
// rotate one random tile by a quarter turn. Neither step changes a tile's
// canonical identity, so the catalog multiset is preserved
// unconditionally.
type SwapRotateMutator struct{}

func (SwapRotateMutator) Name() string {
	return "swap_rotate"
}

func (SwapRotateMutator) Apply(rng *rand.Rand, b *puzzle.Board, rate int) {
	if rate <= 0 {
		return
	}
	steps := rng.Intn(rate)
	for s := 0; s < steps; s++ {
		if s%2 == 0 {
			swapRandomTiles(b, rng)
		} else {
			b.RotateTile(rng.Intn(b.Len()))
		}
	}
}
