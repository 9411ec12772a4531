package puzzle

import "fmt"

// Board is an ordered, row-major arrangement of oriented tiles: index i
// sits at row i/cols, column i%cols. A board always holds the full tile
// multiset of its catalog; operators only move and rotate tiles.
type Board struct {
	geo   Geometry
	tiles []Tile
}

// NewBoard copies the given tiles into a board.
func NewBoard(tiles []Tile, geo Geometry) (Board, error) {
	if !geo.valid() {
		return Board{}, fmt.Errorf("invalid geometry %dx%d", geo.Rows, geo.Cols)
	}
	if len(tiles) != geo.Tiles() {
		return Board{}, fmt.Errorf("board requires exactly %d tiles, got %d", geo.Tiles(), len(tiles))
	}
	owned := make([]Tile, len(tiles))
	copy(owned, tiles)
	return Board{geo: geo, tiles: owned}, nil
}

func (b Board) Geometry() Geometry {
	return b.geo
}

func (b Board) Len() int {
	return len(b.tiles)
}

func (b Board) Tile(i int) Tile {
	return b.tiles[i]
}

// Tiles returns a copy of the board's tile sequence.
func (b Board) Tiles() []Tile {
	out := make([]Tile, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// Clone returns a board with its own tile storage.
func (b Board) Clone() Board {
	return Board{geo: b.geo, tiles: b.Tiles()}
}

// Swap exchanges the tiles at positions i and j.
func (b *Board) Swap(i, j int) {
	b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
}

// RotateTile rotates the tile at position i left by one step.
func (b *Board) RotateTile(i int) {
	b.tiles[i] = b.tiles[i].RotateLeft()
}

// SetTile overwrites position i with the given oriented tile.
func (b *Board) SetTile(i int, t Tile) {
	b.tiles[i] = t
}

// MatchesCatalog reports whether the board carries exactly the catalog's
// multiset of canonical identities.
func (b Board) MatchesCatalog(c *Catalog) bool {
	if b.geo != c.geo || len(b.tiles) != c.geo.Tiles() {
		return false
	}
	seen := make(map[Key]int, c.Identities())
	for _, tile := range b.tiles {
		seen[tile.Canonical()]++
	}
	if len(seen) != c.Identities() {
		return false
	}
	for k, n := range seen {
		if c.Count(k) != n {
			return false
		}
	}
	return true
}
