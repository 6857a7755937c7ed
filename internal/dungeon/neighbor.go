package dungeon

// Neighbor returns the index of the cell adjacent to index in direction d.
//
// ok is false when the move would leave the grid or d is not a single
// door flag; the returned index is then meaningless and zero.
func Neighbor(width, height, index int, d Direction) (neighbor int, ok bool) {
	area := width * height
	if width <= 0 || height <= 0 || index < 0 || index >= area {
		return 0, false
	}
	switch d {
	case DoorNorth:
		neighbor, ok = index-width, index-width >= 0
	case DoorSouth:
		neighbor, ok = index+width, index+width < area
	case DoorEast:
		neighbor, ok = index+1, (index+1)%width > 0
	case DoorWest:
		neighbor, ok = index-1, index%width > 0
	}
	if !ok {
		return 0, false
	}
	return neighbor, true
}
