// Package dungeon models door-connected grid dungeons and grows them with
// a randomized, retry-driven flood fill.
package dungeon

import "strings"

// Cell is the flag set stored for one grid position.
type Cell uint8

// Cell flags. The numeric values are part of the raw dump format.
const (
	DoorNorth Cell = 1 << iota
	DoorEast
	DoorSouth
	DoorWest
	Entrance
	Used
)

// Doors is the mask of the four door flags.
const Doors = DoorNorth | DoorEast | DoorSouth | DoorWest

// Direction is one of the four door flags used as a compass heading.
type Direction = Cell

// Directions lists headings in carving order.
var Directions = [4]Direction{DoorNorth, DoorEast, DoorSouth, DoorWest}

// Opposite returns the heading pointing back at the cell d came from.
// Non-door values return 0.
func Opposite(d Direction) Direction {
	switch d {
	case DoorNorth:
		return DoorSouth
	case DoorEast:
		return DoorWest
	case DoorSouth:
		return DoorNorth
	case DoorWest:
		return DoorEast
	default:
		return 0
	}
}

// Has reports whether every flag in f is set on c.
func (c Cell) Has(f Cell) bool {
	return f != 0 && c&f == f
}

// DoorCount returns how many door flags are set.
func (c Cell) DoorCount() int {
	n := 0
	for _, d := range Directions {
		if c.Has(d) {
			n++
		}
	}
	return n
}

// String renders the set flags, e.g. "N|E|entrance".
func (c Cell) String() string {
	if c == 0 {
		return "empty"
	}
	var parts []string
	for _, f := range []struct {
		flag Cell
		name string
	}{
		{DoorNorth, "N"},
		{DoorEast, "E"},
		{DoorSouth, "S"},
		{DoorWest, "W"},
		{Entrance, "entrance"},
		{Used, "used"},
	} {
		if c.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}
