package mines

import "github.com/sirupsen/logrus"

var Log = logrus.New()

// BoardState tracks which cells of a [TileGrid] the player has uncovered or
// flagged. A flag is only an overlay: revealing a flagged cell clears it.
//
// BoardState is not safe for concurrent use.
type BoardState struct {
	grid       *TileGrid
	hidden     []bool
	flagged    []bool
	nhidden    int
	nflagged   int
	safeHidden int
}

func NewBoardState(grid *TileGrid) *BoardState {
	hidden := make([]bool, grid.Cells())
	for i := range hidden {
		hidden[i] = true
	}
	return &BoardState{
		grid:       grid,
		hidden:     hidden,
		flagged:    make([]bool, grid.Cells()),
		nhidden:    grid.Cells(),
		safeHidden: grid.Cells() - int(grid.TotalMines()),
	}
}

func (b *BoardState) Grid() *TileGrid { return b.grid }

func (b *BoardState) IsHidden(c Coordinate) bool {
	return b.grid.InBounds(c) && b.hidden[b.grid.index(c)]
}

func (b *BoardState) IsFlagged(c Coordinate) bool {
	return b.grid.InBounds(c) && b.flagged[b.grid.index(c)]
}

func (b *BoardState) HiddenCount() int { return b.nhidden }

func (b *BoardState) FlagCount() int { return b.nflagged }

// IsComplete reports whether every safe cell has been revealed. Before any
// mine is revealed this is the same as HiddenCount() == TotalMines().
func (b *BoardState) IsComplete() bool {
	return b.safeHidden == 0
}

func (b *BoardState) uncover(i int) {
	if b.flagged[i] {
		b.flagged[i] = false
		b.nflagged--
	}
	b.hidden[i] = false
	b.nhidden--
	if !b.grid.tiles[i].IsMine() {
		b.safeHidden--
	}
}

func (b *BoardState) revealed(cells []Coordinate) RevealOutcome {
	return RevealOutcome{
		Result:   Revealed,
		Revealed: cells,
		Complete: b.IsComplete(),
	}
}

// Reveal uncovers c. Empty cells expand into their empty region and its
// numbered border; mines are only ever uncovered by revealing them directly.
func (b *BoardState) Reveal(c Coordinate) RevealOutcome {
	if !b.IsHidden(c) {
		return RevealOutcome{Result: AlreadyRevealed}
	}

	i := b.grid.index(c)
	b.uncover(i)

	tile := b.grid.tiles[i]
	if tile.IsMine() {
		Log.WithField("coordinate", c).Info("boom")
		return RevealOutcome{Result: Exploded, Mine: c}
	}

	cells := []Coordinate{c}
	if tile.Kind() == Empty {
		cells = b.flood(c, cells)
	}
	return b.revealed(cells)
}

// flood expands from an empty cell breadth first. A cell is enqueued at most
// once because it leaves the hidden set before it is enqueued.
func (b *BoardState) flood(start Coordinate, cells []Coordinate) []Coordinate {
	queue := []Coordinate{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, nb := range b.grid.Neighbors(c) {
			j := b.grid.index(nb)
			if !b.hidden[j] || b.grid.tiles[j].IsMine() {
				continue
			}
			b.uncover(j)
			cells = append(cells, nb)
			if b.grid.tiles[j].Kind() == Empty {
				queue = append(queue, nb)
			}
		}
	}
	Log.WithFields(logrus.Fields{
		"start":    start,
		"revealed": len(cells),
	}).Debug("flood reveal")
	return cells
}

func (b *BoardState) ToggleFlag(c Coordinate) FlagOutcome {
	if !b.IsHidden(c) {
		return FlagOutcome{Result: NotHidden}
	}
	i := b.grid.index(c)
	b.flagged[i] = !b.flagged[i]
	if b.flagged[i] {
		b.nflagged++
		return FlagOutcome{Result: FlagPlaced, Coordinate: c}
	}
	b.nflagged--
	return FlagOutcome{Result: FlagRemoved, Coordinate: c}
}

// Chord reveals every unflagged hidden neighbour of a revealed numbered cell
// once the player has flagged as many neighbours as the cell's number. It
// stops at the first mine it hits.
func (b *BoardState) Chord(c Coordinate) RevealOutcome {
	if !b.grid.InBounds(c) || b.IsHidden(c) {
		return RevealOutcome{Result: AlreadyRevealed}
	}
	tile := b.grid.Tile(c)
	if tile.Kind() != Numbered {
		return RevealOutcome{Result: AlreadyRevealed}
	}

	flags := 0
	targets := make([]Coordinate, 0, 8)
	for _, nb := range b.grid.Neighbors(c) {
		if b.IsFlagged(nb) {
			flags++
		} else if b.IsHidden(nb) {
			targets = append(targets, nb)
		}
	}
	if flags != int(tile.Count()) || len(targets) == 0 {
		return RevealOutcome{Result: AlreadyRevealed}
	}

	var cells []Coordinate
	for _, t := range targets {
		out := b.Reveal(t)
		switch out.Result {
		case Exploded:
			return RevealOutcome{Result: Exploded, Revealed: cells, Mine: t}
		case Revealed:
			cells = append(cells, out.Revealed...)
		}
	}
	return b.revealed(cells)
}

// Snapshot renders the board as the player sees it. With revealMines set,
// hidden mines and flag verdicts are shown as well, for a finished game.
func (b *BoardState) Snapshot(revealMines bool) Grid {
	grid := make(Grid, len(b.grid.tiles))
	for i, t := range b.grid.tiles {
		mine := t.IsMine()
		switch {
		case !b.hidden[i] && mine:
			grid[i] = ExplodedMine
		case !b.hidden[i]:
			grid[i] = CellState(t.Count())
		case b.flagged[i] && revealMines && mine:
			grid[i] = CorrectlyFlagged
		case b.flagged[i] && revealMines:
			grid[i] = FalselyFlagged
		case b.flagged[i]:
			grid[i] = Flagged
		case revealMines && mine:
			grid[i] = UnflaggedMine
		default:
			grid[i] = Unknown
		}
	}
	return grid
}
