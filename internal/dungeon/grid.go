package dungeon

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates a non-positive grid dimension.
	ErrInvalidSize = errors.New("grid width and height must be positive")
	// ErrInvalidGrid indicates cells that break a layout invariant.
	ErrInvalidGrid = errors.New("invalid grid")
)

// Grid is a row-major rectangle of cells. It is only mutated by the
// generator; everything handed to callers is read-only.
type Grid struct {
	width    int
	height   int
	entrance int
	cells    []Cell
}

func newGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Grid{
		width:    width,
		height:   height,
		entrance: -1,
		cells:    make([]Cell, width*height),
	}, nil
}

// Restore rebuilds a grid from stored cells and validates it.
func Restore(width, height int, cells []Cell) (*Grid, error) {
	g, err := newGrid(width, height)
	if err != nil {
		return nil, err
	}
	if len(cells) != len(g.cells) {
		return nil, fmt.Errorf("%w: %d cells for a %dx%d grid", ErrInvalidGrid, len(cells), width, height)
	}
	copy(g.cells, cells)
	for i, c := range g.cells {
		if c.Has(Entrance) {
			g.entrance = i
			break
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Area returns width*height.
func (g *Grid) Area() int { return len(g.cells) }

// Entrance returns the index of the entrance cell.
func (g *Grid) Entrance() int { return g.entrance }

// Cell returns the flags stored at index i.
func (g *Grid) Cell(i int) Cell { return g.cells[i] }

// Cells returns a copy of every cell in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Index converts column x, row y into a cell index.
func (g *Grid) Index(x, y int) int { return y*g.width + x }

// Coords converts a cell index into column and row.
func (g *Grid) Coords(i int) (x, y int) { return i % g.width, i / g.width }

// Validate reports the first broken layout invariant. Doors must stay on
// the grid and be mirrored by the neighbor; there must be one entrance.
func (g *Grid) Validate() error {
	entrances := 0
	for i, c := range g.cells {
		if c.Has(Entrance) {
			entrances++
		}
		for _, d := range Directions {
			if !c.Has(d) {
				continue
			}
			n, ok := Neighbor(g.width, g.height, i, d)
			if !ok {
				return fmt.Errorf("%w: cell %d has a %s door off the grid", ErrInvalidGrid, i, d)
			}
			if !g.cells[n].Has(Opposite(d)) {
				return fmt.Errorf("%w: cell %d has a %s door not mirrored by cell %d", ErrInvalidGrid, i, d, n)
			}
		}
	}
	if entrances != 1 {
		return fmt.Errorf("%w: %d entrances", ErrInvalidGrid, entrances)
	}
	return nil
}
