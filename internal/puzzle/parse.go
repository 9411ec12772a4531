package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseTiles reads a puzzle description: whitespace-separated codes, one
// per tile, one digit per edge in top, right, bottom, left order. The
// input must describe the geometry's tile count exactly.
func ParseTiles(r io.Reader, geo Geometry) ([]Tile, error) {
	if !geo.valid() {
		return nil, fmt.Errorf("invalid geometry %dx%d", geo.Rows, geo.Cols)
	}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	want := geo.Tiles()
	tiles := make([]Tile, 0, want)
	for scanner.Scan() {
		word := scanner.Text()
		if len(tiles) == want {
			return nil, fmt.Errorf("input has more than %d tiles", want)
		}
		if len(word) != 4 {
			return nil, fmt.Errorf("tile %d: want a 4-digit code, got %q", len(tiles)+1, word)
		}
		var tile Tile
		for i, ch := range word {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("tile %d: invalid motif digit %q", len(tiles)+1, ch)
			}
			tile[i] = int(ch - '0')
		}
		tiles = append(tiles, tile)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read puzzle input: %w", err)
	}
	if len(tiles) != want {
		return nil, fmt.Errorf("input has %d tiles, want %d", len(tiles), want)
	}
	return tiles, nil
}

// FormatBoard renders the board as rows of tile codes, matching the input
// format accepted by ParseTiles.
func FormatBoard(b Board) string {
	var sb strings.Builder
	for i, tile := range b.tiles {
		if i > 0 {
			if i%b.geo.Cols == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		for _, edge := range tile {
			fmt.Fprintf(&sb, "%d", edge)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}
