package evo

import (
	"math/rand"

	"tessella/internal/puzzle"
)

// Recombiner produces two offspring from two parent boards.
type Recombiner interface {
	Name() string
	Recombine(rng *rand.Rand, p1, p2 puzzle.Board) (puzzle.Board, puzzle.Board)
}

// OrderRecombiner is a duplicate-aware two-point order crossover. The
// segment [c1, c2) is inherited crosswise (offspring 2 takes parent 1's
// segment and vice versa); the remaining slots are filled by walking the
// other parent circularly from c2, skipping tiles whose canonical
// identity is already used up. Offspring therefore always carry exactly
// the catalog's multiset, which a plain segment swap cannot guarantee
// when duplicate tiles exist. With a duplicate-free catalog this is
// classic order crossover.
type OrderRecombiner struct {
	Catalog *puzzle.Catalog
}

func (OrderRecombiner) Name() string {
	return "order"
}

func (r OrderRecombiner) Recombine(rng *rand.Rand, p1, p2 puzzle.Board) (puzzle.Board, puzzle.Board) {
	n := p1.Len()
	c1, c2 := drawCrossoverPoints(rng, n)

	o1 := p1.Clone()
	o2 := p2.Clone()

	// Per-offspring identity counters, seeded with the inherited segment.
	used1 := make(map[puzzle.Key]int, r.Catalog.Identities())
	used2 := make(map[puzzle.Key]int, r.Catalog.Identities())
	for i := c1; i < c2; i++ {
		o2.SetTile(i, p1.Tile(i))
		used2[p1.Tile(i).Canonical()]++
		o1.SetTile(i, p2.Tile(i))
		used1[p2.Tile(i).Canonical()]++
	}

	r.fillRemainder(&o2, p2, c1, c2, used2)
	r.fillRemainder(&o1, p1, c1, c2, used1)
	return o1, o2
}

// fillRemainder walks the donor circularly from c2 and places every tile
// whose identity is not yet saturated into the next open slot, also
// scanned circularly from c2, until every slot outside the inherited
// segment is filled.
func (r OrderRecombiner) fillRemainder(o *puzzle.Board, donor puzzle.Board, c1, c2 int, used map[puzzle.Key]int) {
	n := donor.Len()
	remaining := n - (c2 - c1)
	slot := c2 % n
	for i := c2 % n; remaining > 0; i = (i + 1) % n {
		tile := donor.Tile(i)
		key := tile.Canonical()
		if used[key] < r.Catalog.Count(key) {
			o.SetTile(slot, tile)
			used[key]++
			slot = (slot + 1) % n
			remaining--
		}
	}
}

// TwoPointRecombiner swaps the inclusive segment [c1, c2] between the
// parents without duplicate tracking. Only safe for duplicate-free
// catalogs; with duplicates it can produce offspring that no longer carry
// the puzzle's multiset, which the fitness function simply rates as-is.
type TwoPointRecombiner struct{}

func (TwoPointRecombiner) Name() string {
	return "two_point"
}

func (TwoPointRecombiner) Recombine(rng *rand.Rand, p1, p2 puzzle.Board) (puzzle.Board, puzzle.Board) {
	n := p1.Len()
	c1, c2 := drawCrossoverPoints(rng, n)

	o1 := p1.Clone()
	o2 := p2.Clone()
	for i := c1; i <= c2; i++ {
		o1.SetTile(i, p2.Tile(i))
		o2.SetTile(i, p1.Tile(i))
	}
	return o1, o2
}

// OnePointRecombiner swaps the tail from a single random point onward.
// Same multiset caveat as TwoPointRecombiner.
type OnePointRecombiner struct{}

func (OnePointRecombiner) Name() string {
	return "one_point"
}

func (OnePointRecombiner) Recombine(rng *rand.Rand, p1, p2 puzzle.Board) (puzzle.Board, puzzle.Board) {
	n := p1.Len()
	point := rng.Intn(n)

	o1 := p1.Clone()
	o2 := p2.Clone()
	for i := point; i < n; i++ {
		o1.SetTile(i, p2.Tile(i))
		o2.SetTile(i, p1.Tile(i))
	}
	return o1, o2
}

func drawCrossoverPoints(rng *rand.Rand, n int) (int, int) {
	c1 := rng.Intn(n)
	c2 := rng.Intn(n)
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return c1, c2
}
