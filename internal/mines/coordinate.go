package mines

import "fmt"

// Coordinate addresses a single cell. X grows to the right, Y grows up.
type Coordinate struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// Coordinate implements [fmt.Stringer]
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

/*
Offsets of the eight surrounding cells, bottom row first:

	6 7 8
	4 . 5
	1 2 3
*/
var squareOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
