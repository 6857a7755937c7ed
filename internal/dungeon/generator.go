package dungeon

import (
	"context"
	"errors"
	"fmt"
)

// doorMaskSpan is the exclusive upper bound for a potential-door draw:
// every subset of the four door flags, "none" and "all" included.
const doorMaskSpan = int(Doors) + 1

var (
	// ErrStalled indicates generation hit its pass limit below the coverage target.
	ErrStalled = errors.New("dungeon generation stalled")
	// ErrInvalidConfig indicates generator settings outside their valid range.
	ErrInvalidConfig = errors.New("invalid generator config")
)

// IntSource supplies uniformly distributed integers in [min, max).
type IntSource interface {
	IntBetween(min, max int) (int, error)
}

// Config tunes when generation stops.
type Config struct {
	// Coverage is the discovered fraction of the grid that ends generation
	// after a pass. Must be in (0, 1].
	Coverage float64
	// MaxPasses bounds the number of frontier sweeps before ErrStalled.
	MaxPasses int
}

// DefaultConfig returns a Config with the standard 75% coverage target.
func DefaultConfig() Config {
	return Config{
		Coverage:  0.75,
		MaxPasses: 10000,
	}
}

// Validate reports whether cfg can drive a generator.
func (cfg Config) Validate() error {
	if !(cfg.Coverage > 0 && cfg.Coverage <= 1) {
		return fmt.Errorf("%w: coverage %v must be in (0, 1]", ErrInvalidConfig, cfg.Coverage)
	}
	if cfg.MaxPasses < 1 {
		return fmt.Errorf("%w: max passes %d must be positive", ErrInvalidConfig, cfg.MaxPasses)
	}
	return nil
}

// Generation is the outcome of one run.
type Generation struct {
	Grid *Grid
	// Frontier lists every discovered cell in discovery order, entrance first.
	Frontier []int
	// Passes counts the frontier sweeps performed.
	Passes int
}

// Covered returns how many cells were discovered.
func (g *Generation) Covered() int {
	return len(g.Frontier)
}

// Generator grows dungeons from a random source.
type Generator struct {
	src IntSource
	cfg Config
}

// NewGenerator creates a generator that samples src.
func NewGenerator(src IntSource, cfg Config) (*Generator, error) {
	if src == nil {
		return nil, errors.New("random source is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{src: src, cfg: cfg}, nil
}

// Generate builds a width x height dungeon.
//
// # Growth
//
// An entrance is drawn uniformly from the grid and becomes the first
// frontier entry. Each pass walks the frontier in order, including cells
// appended during the pass. Visiting a cell draws a random subset of the
// four doors and, for each heading in N, E, S, W order whose door is not
// already set and whose neighbor exists and is not yet used, carves the
// door pair when the heading is in the subset. A neighbor whose flags are
// exactly the door just carved has never been reached before and is
// appended to the frontier. The visited cell is then marked used, so no
// later cell may open a door toward it.
//
// # Termination
//
// After a pass, generation stops when every cell is discovered or the
// discovered fraction reaches Config.Coverage. Otherwise the frontier is
// swept again with fresh draws, giving undecided headings another chance.
// After Config.MaxPasses sweeps the partial generation is returned with
// an error wrapping ErrStalled. The context is checked between passes.
//
// # Determinism
//
// The result depends only on the size and on the values drawn from the
// source, so a seeded source reproduces the same grid.
//
// Errors from the source abort generation and no result is returned.
func (g *Generator) Generate(ctx context.Context, width, height int) (*Generation, error) {
	grid, err := newGrid(width, height)
	if err != nil {
		return nil, err
	}
	area := grid.Area()

	entrance, err := g.src.IntBetween(0, area)
	if err != nil {
		return nil, fmt.Errorf("draw entrance: %w", err)
	}
	if entrance < 0 || entrance >= area {
		return nil, fmt.Errorf("draw entrance: index %d outside grid of %d cells", entrance, area)
	}
	grid.entrance = entrance
	grid.cells[entrance] = Entrance | Used

	gen := &Generation{
		Grid:     grid,
		Frontier: make([]int, 1, area),
	}
	gen.Frontier[0] = entrance

passes:
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gen.Passes++
		for i := 0; i < len(gen.Frontier); i++ {
			cell := gen.Frontier[i]
			if err := g.carve(gen, cell); err != nil {
				return nil, err
			}
			grid.cells[cell] |= Used
		}

		covered := gen.Covered()
		switch {
		case covered == area:
			break passes
		case float64(covered) >= g.cfg.Coverage*float64(area):
			break passes
		case gen.Passes >= g.cfg.MaxPasses:
			return gen, fmt.Errorf("%w: covered %d of %d cells after %d passes", ErrStalled, covered, area, gen.Passes)
		}
	}
	return gen, nil
}

// carve opens randomly chosen doors from cell toward neighbors that are
// not yet used.
//
// A neighbor holding exactly one flag, and that flag the door just opened
// toward it, has never been discovered: discovery always leaves at least
// one door, and finalizing sets Used.
func (g *Generator) carve(gen *Generation, cell int) error {
	grid := gen.Grid
	draw, err := g.src.IntBetween(0, doorMaskSpan)
	if err != nil {
		return fmt.Errorf("draw doors for cell %d: %w", cell, err)
	}
	potential := Cell(draw) & Doors

	for _, d := range Directions {
		if grid.cells[cell].Has(d) {
			continue
		}
		n, ok := Neighbor(grid.width, grid.height, cell, d)
		if !ok || grid.cells[n].Has(Used) {
			continue
		}
		back := Opposite(d)
		if potential.Has(d) {
			grid.cells[cell] |= d
			grid.cells[n] |= back
		}
		if grid.cells[n] == back {
			gen.Frontier = append(gen.Frontier, n)
		}
	}
	return nil
}
