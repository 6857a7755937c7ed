package dungeon

import "testing"

func TestCellFlagValues(t *testing.T) {
	// Raw dumps print these integers.
	want := map[Cell]int{DoorNorth: 1, DoorEast: 2, DoorSouth: 4, DoorWest: 8, Entrance: 16, Used: 32}
	for flag, value := range want {
		if int(flag) != value {
			t.Fatalf("flag %s = %d, want %d", flag, int(flag), value)
		}
	}
}

func TestOpposite(t *testing.T) {
	pairs := map[Direction]Direction{
		DoorNorth: DoorSouth,
		DoorEast:  DoorWest,
		DoorSouth: DoorNorth,
		DoorWest:  DoorEast,
	}
	for d, want := range pairs {
		if got := Opposite(d); got != want {
			t.Fatalf("Opposite(%s) = %s, want %s", d, got, want)
		}
	}
	if got := Opposite(Used); got != 0 {
		t.Fatalf("expected 0 for non-door, got %s", got)
	}
}

func TestCellHasAndString(t *testing.T) {
	c := DoorNorth | DoorWest | Entrance
	if !c.Has(DoorNorth | DoorWest) {
		t.Fatal("expected north and west")
	}
	if c.Has(DoorEast) {
		t.Fatal("unexpected east")
	}
	if c.Has(0) {
		t.Fatal("empty flag set should never match")
	}
	if c.DoorCount() != 2 {
		t.Fatalf("expected 2 doors, got %d", c.DoorCount())
	}
	if got := c.String(); got != "N|W|entrance" {
		t.Fatalf("unexpected string %q", got)
	}
	if got := Cell(0).String(); got != "empty" {
		t.Fatalf("unexpected string %q", got)
	}
}
