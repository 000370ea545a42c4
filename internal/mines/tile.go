package mines

import (
	"fmt"
	"strconv"
)

type TileKind uint8

const (
	Empty TileKind = iota
	Numbered
	Mine
)

func (k TileKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Numbered:
		return "numbered"
	case Mine:
		return "mine"
	default:
		return "TileKind(" + strconv.Itoa(int(k)) + ")"
	}
}

/*
Tile is the fixed classification of a cell:

  - -1 is a mine,
  - 0 is an empty cell with no mined neighbours,
  - 1 to 8 is a numbered cell with that many mined neighbours.
*/
type Tile int8

const (
	MineTile  Tile = -1
	EmptyTile Tile = 0
)

// NumberedTile returns the tile for a safe cell with n mined neighbours.
// n == 0 yields [EmptyTile].
func NumberedTile(n uint8) Tile {
	if n > 8 {
		panic(fmt.Sprintf("mines: neighbour count %d out of range", n))
	}
	return Tile(n)
}

func (t Tile) Kind() TileKind {
	switch {
	case t < 0:
		return Mine
	case t == 0:
		return Empty
	default:
		return Numbered
	}
}

func (t Tile) IsMine() bool {
	return t == MineTile
}

// Count is the number of mined neighbours, 0 for mines and empty tiles.
func (t Tile) Count() uint8 {
	if t <= 0 {
		return 0
	}
	return uint8(t)
}

// Tile implements [fmt.Stringer]
func (t Tile) String() string {
	switch t.Kind() {
	case Mine:
		return "*"
	case Empty:
		return " "
	default:
		return strconv.Itoa(int(t))
	}
}
