package mines

import "fmt"

type RevealResult uint8

const (
	AlreadyRevealed RevealResult = iota
	Exploded
	Revealed
)

var revealResultNames = [...]string{
	AlreadyRevealed: "already_revealed",
	Exploded:        "exploded",
	Revealed:        "revealed",
}

func (r RevealResult) String() string {
	if int(r) < len(revealResultNames) {
		return revealResultNames[r]
	}
	return fmt.Sprintf("RevealResult(%d)", r)
}

func (r RevealResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// RevealOutcome is what a reveal did to the board.
type RevealOutcome struct {
	Result RevealResult
	// Revealed lists the cells uncovered by this call, in reveal order.
	// Mines are never part of it.
	Revealed []Coordinate
	// Mine is the cell that exploded; only meaningful when Result is Exploded.
	Mine Coordinate
	// Complete is set on the one reveal that uncovers the last safe cell.
	Complete bool
}

type FlagResult uint8

const (
	NotHidden FlagResult = iota
	FlagPlaced
	FlagRemoved
)

var flagResultNames = [...]string{
	NotHidden:   "not_hidden",
	FlagPlaced:  "flagged",
	FlagRemoved: "unflagged",
}

func (r FlagResult) String() string {
	if int(r) < len(flagResultNames) {
		return flagResultNames[r]
	}
	return fmt.Sprintf("FlagResult(%d)", r)
}

func (r FlagResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

type FlagOutcome struct {
	Result     FlagResult
	Coordinate Coordinate
}
