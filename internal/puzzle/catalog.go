package puzzle

import "fmt"

// Catalog maps each canonical tile identity to the number of physical
// copies of that identity in the original puzzle. The multiplicities
// always sum to the geometry's tile count.
type Catalog struct {
	geo    Geometry
	counts map[Key]int
}

// NewCatalog canonicalizes the given tiles and tallies duplicates.
// The tile slice must cover the geometry exactly.
func NewCatalog(tiles []Tile, geo Geometry) (*Catalog, error) {
	if !geo.valid() {
		return nil, fmt.Errorf("invalid geometry %dx%d", geo.Rows, geo.Cols)
	}
	if len(tiles) != geo.Tiles() {
		return nil, fmt.Errorf("catalog requires exactly %d tiles, got %d", geo.Tiles(), len(tiles))
	}

	counts := make(map[Key]int, len(tiles))
	for i, tile := range tiles {
		for _, edge := range tile {
			if edge < 0 || edge > 0xff {
				return nil, fmt.Errorf("tile %d: motif %d does not fit the identity encoding", i, edge)
			}
		}
		counts[tile.Canonical()]++
	}

	return &Catalog{geo: geo, counts: counts}, nil
}

func (c *Catalog) Geometry() Geometry {
	return c.geo
}

// Count returns the multiplicity of a canonical identity, zero when the
// identity is not part of the puzzle.
func (c *Catalog) Count(k Key) int {
	return c.counts[k]
}

// Identities returns the number of distinct canonical identities.
func (c *Catalog) Identities() int {
	return len(c.counts)
}

// HasDuplicates reports whether any identity occurs more than once.
// Duplicate-free catalogs may use the plain segment-swap recombiners.
func (c *Catalog) HasDuplicates() bool {
	return len(c.counts) < c.geo.Tiles()
}

// Counts returns a copy of the multiplicity map for callers that need to
// consume identities, such as the order recombiner's bookkeeping.
func (c *Catalog) Counts() map[Key]int {
	out := make(map[Key]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
