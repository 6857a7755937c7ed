package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/dungeongen/internal/dungeon"
)

var (
	// ErrNotFound indicates a requested dungeon record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a dungeon with the same id is already stored.
	ErrAlreadyExists = errors.New("record already exists")
)

// Record is one archived dungeon, enough to re-render it.
type Record struct {
	ID       string
	Seed     int64
	Width    int
	Height   int
	Entrance int
	Covered  int
	Passes   int
	// Cells holds one byte per cell, row-major.
	Cells     []byte
	CreatedAt time.Time
}

// Page is one page of dungeon records, newest first.
type Page struct {
	Records []Record
	// NextPageToken is empty on the last page.
	NextPageToken string
}

// DungeonStore persists generated dungeons.
type DungeonStore interface {
	PutDungeon(ctx context.Context, record Record) error
	GetDungeon(ctx context.Context, id string) (Record, error)
	ListDungeons(ctx context.Context, pageSize int, pageToken string) (Page, error)
}

// NewRecord captures a generation for storage.
func NewRecord(id string, seed int64, gen *dungeon.Generation, createdAt time.Time) Record {
	grid := gen.Grid
	cells := grid.Cells()
	raw := make([]byte, len(cells))
	for i, c := range cells {
		raw[i] = byte(c)
	}
	return Record{
		ID:        id,
		Seed:      seed,
		Width:     grid.Width(),
		Height:    grid.Height(),
		Entrance:  grid.Entrance(),
		Covered:   gen.Covered(),
		Passes:    gen.Passes,
		Cells:     raw,
		CreatedAt: createdAt.UTC(),
	}
}

// Grid rebuilds and validates the stored layout.
func (r Record) Grid() (*dungeon.Grid, error) {
	cells := make([]dungeon.Cell, len(r.Cells))
	for i, b := range r.Cells {
		cells[i] = dungeon.Cell(b)
	}
	grid, err := dungeon.Restore(r.Width, r.Height, cells)
	if err != nil {
		return nil, fmt.Errorf("restore dungeon %s: %w", r.ID, err)
	}
	if grid.Entrance() != r.Entrance {
		return nil, fmt.Errorf("restore dungeon %s: entrance %d does not match stored %d", r.ID, grid.Entrance(), r.Entrance)
	}
	return grid, nil
}
