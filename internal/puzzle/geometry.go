package puzzle

// Geometry fixes the board dimensions for a run. All operators derive
// index arithmetic from it, so non-standard boards are a configuration
// rather than a special case.
type Geometry struct {
	Rows int
	Cols int
}

// Standard is the 8x8, 64-tile puzzle geometry.
func Standard() Geometry {
	return Geometry{Rows: 8, Cols: 8}
}

// Tiles returns the number of tile positions on the board.
func (g Geometry) Tiles() int {
	return g.Rows * g.Cols
}

// Adjacencies returns the number of interior edge pairs: the maximum
// possible mismatch count. 112 for the standard geometry.
func (g Geometry) Adjacencies() int {
	return g.Rows*(g.Cols-1) + (g.Rows-1)*g.Cols
}

func (g Geometry) valid() bool {
	return g.Rows > 0 && g.Cols > 0
}
