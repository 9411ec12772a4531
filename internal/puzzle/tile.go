package puzzle

// Edge positions within a tile.
const (
	Top = iota
	Right
	Bottom
	Left
)

// Tile is one square piece: four edge motifs in top, right, bottom, left
// order. Tiles are small value types and are copied freely.
type Tile [4]int

// RotateLeft shifts the edges one position left, turning
// (top, right, bottom, left) into (right, bottom, left, top). Four
// rotations restore the original tile.
func (t Tile) RotateLeft() Tile {
	return Tile{t[Right], t[Bottom], t[Left], t[Top]}
}

// Key is a rotation-invariant tile identity: the numerically smallest of
// the four rotations, packed 8 bits per edge. Two physical copies of the
// same piece share a Key regardless of orientation.
type Key uint32

func (t Tile) pack() Key {
	return Key(t[0])<<24 | Key(t[1])<<16 | Key(t[2])<<8 | Key(t[3])
}

// Canonical returns the tile's rotation-invariant identity. Motifs must
// fit in 8 bits; NewCatalog rejects tiles that do not.
func (t Tile) Canonical() Key {
	best := t.pack()
	rotated := t
	for i := 0; i < 3; i++ {
		rotated = rotated.RotateLeft()
		if k := rotated.pack(); k < best {
			best = k
		}
	}
	return best
}
