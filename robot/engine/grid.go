package engine

// Grid is the rectangular cell store, indexed [y][x]. The shape is fixed at
// construction; content changes only when the simulator consumes the victim
// cell on a successful pickup.
type Grid struct {
	cells  [][]CellKind
	width  int
	height int
}

// NewGrid builds a grid from validated cells. The input is copied so the
// caller cannot alias the working grid.
func NewGrid(cells [][]CellKind) *Grid {
	copied := make([][]CellKind, len(cells))
	for y, row := range cells {
		copied[y] = make([]CellKind, len(row))
		copy(copied[y], row)
	}

	width := 0
	if len(copied) > 0 {
		width = len(copied[0])
	}

	return &Grid{
		cells:  copied,
		width:  width,
		height: len(copied),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// InBounds reports whether the position lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Classify returns the kind of the cell at p. Positions outside the grid
// classify as free: the open world beyond the walls never collides.
func (g *Grid) Classify(p Position) CellKind {
	if !g.InBounds(p) {
		return CellFree
	}
	return g.cells[p.Y][p.X]
}

// LocateEntry returns the position of the entry cell. Map validation
// guarantees exactly one entry exists; the error is a defensive check only.
func (g *Grid) LocateEntry() (Position, error) {
	for y, row := range g.cells {
		for x, kind := range row {
			if kind == CellEntry {
				return Position{X: x, Y: y}, nil
			}
		}
	}
	return Position{}, ErrNoEntry
}

// ConsumeVictim converts the victim cell at p to free. It fails with
// ErrNoVictimHere if the cell holds anything else.
func (g *Grid) ConsumeVictim(p Position) error {
	if !g.InBounds(p) || g.cells[p.Y][p.X] != CellVictim {
		return ErrNoVictimHere
	}
	g.cells[p.Y][p.X] = CellFree
	return nil
}

// HasVictim reports whether any victim cell remains on the grid.
func (g *Grid) HasVictim() bool {
	for _, row := range g.cells {
		for _, kind := range row {
			if kind == CellVictim {
				return true
			}
		}
	}
	return false
}

// Snapshot returns a deep copy of the current cells for serialization.
func (g *Grid) Snapshot() [][]CellKind {
	out := make([][]CellKind, g.height)
	for y, row := range g.cells {
		out[y] = make([]CellKind, len(row))
		copy(out[y], row)
	}
	return out
}
