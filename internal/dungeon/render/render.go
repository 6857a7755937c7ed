// Package render prints finished dungeon grids.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/dungeongen/internal/dungeon"
)

// Layout is the read-only view a renderer needs.
type Layout interface {
	Width() int
	Height() int
	Cell(i int) dungeon.Cell
}

// Mode selects an output format.
type Mode string

const (
	// ModeASCII draws every cell as a 3x3 block of wall glyphs.
	ModeASCII Mode = "ascii"
	// ModeRaw prints one cell bitmask per line.
	ModeRaw Mode = "raw"
)

const (
	wall     = '#'
	open     = ' '
	entrance = 'E'
)

// ParseMode converts a flag value into a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeASCII:
		return ModeASCII, nil
	case ModeRaw:
		return ModeRaw, nil
	default:
		return "", fmt.Errorf("unknown render mode %q (want ascii or raw)", value)
	}
}

// Write renders layout to w in the given mode.
func Write(w io.Writer, layout Layout, mode Mode) error {
	switch mode {
	case ModeASCII:
		return ASCII(w, layout)
	case ModeRaw:
		return Raw(w, layout)
	default:
		return fmt.Errorf("unknown render mode %q", mode)
	}
}

// Raw writes each cell's integer value on its own line, row-major.
func Raw(w io.Writer, layout Layout) error {
	bw := bufio.NewWriter(w)
	area := layout.Width() * layout.Height()
	for i := 0; i < area; i++ {
		if _, err := fmt.Fprintf(bw, "%d\n", layout.Cell(i)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ASCII draws the layout three text rows per grid row. Closed sides are
// walls, open sides are blank, and the entrance is marked in its center.
// Cells never reached by generation are left blank.
func ASCII(w io.Writer, layout Layout) error {
	bw := bufio.NewWriter(w)
	width := layout.Width()
	for y := 0; y < layout.Height(); y++ {
		for rank := 0; rank < 3; rank++ {
			for x := 0; x < width; x++ {
				block := cellRow(layout.Cell(y*width+x), rank)
				if _, err := bw.Write(block[:]); err != nil {
					return err
				}
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// cellRow returns one of the three text rows of a cell block.
func cellRow(c dungeon.Cell, rank int) [3]byte {
	if c == 0 {
		return [3]byte{open, open, open}
	}
	switch rank {
	case 0:
		return [3]byte{wall, side(c, dungeon.DoorNorth), wall}
	case 1:
		center := byte(open)
		if c.Has(dungeon.Entrance) {
			center = entrance
		}
		return [3]byte{side(c, dungeon.DoorWest), center, side(c, dungeon.DoorEast)}
	default:
		return [3]byte{wall, side(c, dungeon.DoorSouth), wall}
	}
}

func side(c dungeon.Cell, d dungeon.Direction) byte {
	if c.Has(d) {
		return open
	}
	return wall
}
