package puzzle

// CountEdgeMismatch returns the number of adjacent edge pairs that do not
// match: for every tile outside the leftmost column its left edge is
// compared against the right edge of the tile before it, and for every
// tile below the top row its top edge is compared against the bottom edge
// of the tile directly above. Zero means solved.
func CountEdgeMismatch(b Board) int {
	cols := b.geo.Cols
	mismatches := 0
	for i, tile := range b.tiles {
		if i%cols != 0 && tile[Left] != b.tiles[i-1][Right] {
			mismatches++
		}
		if i >= cols && tile[Top] != b.tiles[i-cols][Bottom] {
			mismatches++
		}
	}
	return mismatches
}
