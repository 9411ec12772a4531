package evo

import (
	"math/rand"
	"testing"

	"tessella/internal/puzzle"
)

// duplicateTiles is a toy multiset with one identity doubled: the second
// tile is a rotated copy of the first.
func duplicateTiles() []puzzle.Tile {
	return []puzzle.Tile{
		{1, 2, 3, 4},
		{3, 4, 1, 2},
		{5, 6, 7, 8},
		{1, 1, 2, 2},
	}
}

func orientedMultiset(boards ...puzzle.Board) map[puzzle.Tile]int {
	out := map[puzzle.Tile]int{}
	for _, b := range boards {
		for i := 0; i < b.Len(); i++ {
			out[b.Tile(i)]++
		}
	}
	return out
}

func shuffledBoard(t *testing.T, tiles []puzzle.Tile, geo puzzle.Geometry, seed int64) puzzle.Board {
	t.Helper()
	board, err := puzzle.NewBoard(tiles, geo)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < board.Len(); i++ {
		swapRandomTiles(&board, rng)
		board.RotateTile(rng.Intn(board.Len()))
	}
	return board
}

func TestOrderRecombinerPreservesMultisetWithDuplicates(t *testing.T) {
	geo := toyGeometry()
	catalog, err := puzzle.NewCatalog(duplicateTiles(), geo)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if !catalog.HasDuplicates() {
		t.Fatal("fixture must contain duplicate identities")
	}
	recombiner := OrderRecombiner{Catalog: catalog}

	for trial := int64(0); trial < 200; trial++ {
		p1 := shuffledBoard(t, duplicateTiles(), geo, trial)
		p2 := shuffledBoard(t, duplicateTiles(), geo, trial+1000)
		rng := rand.New(rand.NewSource(trial))

		o1, o2 := recombiner.Recombine(rng, p1, p2)
		if !o1.MatchesCatalog(catalog) {
			t.Fatalf("trial %d: offspring 1 broke the multiset", trial)
		}
		if !o2.MatchesCatalog(catalog) {
			t.Fatalf("trial %d: offspring 2 broke the multiset", trial)
		}
	}
}

func TestOrderRecombinerStandardBoard(t *testing.T) {
	geo := puzzle.Standard()
	rng := rand.New(rand.NewSource(11))
	tiles := make([]puzzle.Tile, geo.Tiles())
	for i := range tiles {
		// Draw from a narrow motif alphabet so duplicates occur.
		for j := range tiles[i] {
			tiles[i][j] = rng.Intn(3)
		}
	}
	catalog, err := puzzle.NewCatalog(tiles, geo)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	recombiner := OrderRecombiner{Catalog: catalog}

	for trial := int64(0); trial < 50; trial++ {
		p1 := shuffledBoard(t, tiles, geo, trial)
		p2 := shuffledBoard(t, tiles, geo, trial+500)
		o1, o2 := recombiner.Recombine(rand.New(rand.NewSource(trial)), p1, p2)
		if !o1.MatchesCatalog(catalog) || !o2.MatchesCatalog(catalog) {
			t.Fatalf("trial %d: offspring broke the multiset", trial)
		}
	}
}

func TestOrderRecombinerCopiesTilesVerbatim(t *testing.T) {
	geo := toyGeometry()
	catalog, err := puzzle.NewCatalog(duplicateTiles(), geo)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	recombiner := OrderRecombiner{Catalog: catalog}

	p1 := shuffledBoard(t, duplicateTiles(), geo, 5)
	p2 := shuffledBoard(t, duplicateTiles(), geo, 6)

	const seed = int64(9)
	probe := rand.New(rand.NewSource(seed))
	c1, c2 := drawCrossoverPoints(probe, geo.Tiles())

	o1, o2 := recombiner.Recombine(rand.New(rand.NewSource(seed)), p1, p2)

	// Slots outside the inherited segment are filled with physical tiles
	// copied verbatim from the donor parent, each donor position at most
	// once; nothing is fabricated.
	checkFiller := func(o, donor puzzle.Board, label string) {
		t.Helper()
		filler := map[puzzle.Tile]int{}
		for i := 0; i < o.Len(); i++ {
			if i >= c1 && i < c2 {
				continue
			}
			filler[o.Tile(i)]++
		}
		available := orientedMultiset(donor)
		for tile, n := range filler {
			if n > available[tile] {
				t.Fatalf("%s: filler tile %v appears %d times, donor only carries %d", label, tile, n, available[tile])
			}
		}
	}
	checkFiller(o2, p2, "offspring 2")
	checkFiller(o1, p1, "offspring 1")
}

func TestOrderRecombinerInheritedSegment(t *testing.T) {
	geo := toyGeometry()
	catalog, err := puzzle.NewCatalog(duplicateTiles(), geo)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	recombiner := OrderRecombiner{Catalog: catalog}

	p1 := shuffledBoard(t, duplicateTiles(), geo, 21)
	p2 := shuffledBoard(t, duplicateTiles(), geo, 22)

	// Replay the recombiner's point draws to learn the segment bounds.
	const seed = int64(37)
	probe := rand.New(rand.NewSource(seed))
	c1, c2 := drawCrossoverPoints(probe, geo.Tiles())

	o1, o2 := recombiner.Recombine(rand.New(rand.NewSource(seed)), p1, p2)
	for i := c1; i < c2; i++ {
		if o2.Tile(i) != p1.Tile(i) {
			t.Fatalf("offspring 2 slot %d must inherit parent 1's segment", i)
		}
		if o1.Tile(i) != p2.Tile(i) {
			t.Fatalf("offspring 1 slot %d must inherit parent 2's segment", i)
		}
	}
}

func TestOrderRecombinerUniqueCatalogDegeneratesToOX(t *testing.T) {
	geo := toyGeometry()
	tiles := []puzzle.Tile{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{1, 1, 2, 2},
		{3, 3, 4, 4},
	}
	catalog, err := puzzle.NewCatalog(tiles, geo)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if catalog.HasDuplicates() {
		t.Fatal("fixture must be duplicate free")
	}
	recombiner := OrderRecombiner{Catalog: catalog}

	for trial := int64(0); trial < 100; trial++ {
		p1 := shuffledBoard(t, tiles, geo, trial)
		p2 := shuffledBoard(t, tiles, geo, trial+300)
		o1, o2 := recombiner.Recombine(rand.New(rand.NewSource(trial)), p1, p2)
		if !o1.MatchesCatalog(catalog) || !o2.MatchesCatalog(catalog) {
			t.Fatalf("trial %d: offspring broke the permutation", trial)
		}
	}
}

func TestTwoPointRecombinerSwapsSegment(t *testing.T) {
	geo := toyGeometry()
	p1 := shuffledBoard(t, duplicateTiles(), geo, 1)
	p2 := shuffledBoard(t, duplicateTiles(), geo, 2)

	const seed = int64(13)
	probe := rand.New(rand.NewSource(seed))
	c1, c2 := drawCrossoverPoints(probe, geo.Tiles())

	o1, o2 := TwoPointRecombiner{}.Recombine(rand.New(rand.NewSource(seed)), p1, p2)
	for i := 0; i < geo.Tiles(); i++ {
		inSegment := i >= c1 && i <= c2
		wantO1, wantO2 := p1.Tile(i), p2.Tile(i)
		if inSegment {
			wantO1, wantO2 = wantO2, wantO1
		}
		if o1.Tile(i) != wantO1 || o2.Tile(i) != wantO2 {
			t.Fatalf("slot %d: segment swap mismatch", i)
		}
	}
}

func TestOnePointRecombinerSwapsTail(t *testing.T) {
	geo := toyGeometry()
	p1 := shuffledBoard(t, duplicateTiles(), geo, 3)
	p2 := shuffledBoard(t, duplicateTiles(), geo, 4)

	const seed = int64(17)
	probe := rand.New(rand.NewSource(seed))
	point := probe.Intn(geo.Tiles())

	o1, o2 := OnePointRecombiner{}.Recombine(rand.New(rand.NewSource(seed)), p1, p2)
	for i := 0; i < geo.Tiles(); i++ {
		wantO1, wantO2 := p1.Tile(i), p2.Tile(i)
		if i >= point {
			wantO1, wantO2 = wantO2, wantO1
		}
		if o1.Tile(i) != wantO1 || o2.Tile(i) != wantO2 {
			t.Fatalf("slot %d: tail swap mismatch", i)
		}
	}
}
