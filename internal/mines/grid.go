package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * Each item in a Grid is one of the following values:
	 *
	 * 	- 0 to 8 mean the square is open and has a surrounding mine
	 * 	  count.
	 *
	 *  - -1 means the square is flagged.
	 *
	 *  - -2 means the square is unknown.
	 *
	 * 	- 64 means the square is flagged and holds a mine; only shown
	 * 	  once the game is over.
	 *
	 * 	- 65 means the square had a mine revealed by the player.
	 *
	 * 	- 66 means the square was flagged but holds no mine.
	 *
	 * 	- 67 means the square holds a mine the player never found.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return " "
	case s == Flagged:
		return "F"
	case s == CorrectlyFlagged:
		return "*"
	case s == ExplodedMine:
		return "X"
	case s == FalselyFlagged:
		return "!"
	case s == UnflaggedMine:
		return "o"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "?"
	}
}

// Grid is the player's view of a board, row by row.
type Grid []CellState

func (g Grid) ToString(width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
