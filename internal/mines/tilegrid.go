package mines

import (
	"fmt"
	"strings"
)

// TileGrid is the immutable layout of a game: dimensions, mines and the
// numbers derived from them. Cells are stored row by row in a flat slice.
type TileGrid struct {
	width, height uint16
	mineCount     uint16
	tiles         []Tile
}

func newTileGrid(width, height uint16) *TileGrid {
	return &TileGrid{
		width:  width,
		height: height,
		tiles:  make([]Tile, int(width)*int(height)),
	}
}

// NewTileGrid builds a grid with mines at exactly the given coordinates.
func NewTileGrid(width, height uint16, mines []Coordinate) (*TileGrid, error) {
	if err := ValidateConfiguration(int(width), int(height), len(mines)); err != nil {
		return nil, err
	}
	g := newTileGrid(width, height)
	for _, c := range mines {
		if !g.InBounds(c) {
			return nil, g.invalid(len(mines), fmt.Sprintf("mine %s is out of bounds", c))
		}
		i := g.index(c)
		if g.tiles[i].IsMine() {
			return nil, g.invalid(len(mines), fmt.Sprintf("duplicate mine at %s", c))
		}
		g.tiles[i] = MineTile
	}
	g.mineCount = uint16(len(mines))
	g.number()
	return g, nil
}

func (g *TileGrid) invalid(mineCount int, reason string) error {
	return &InvalidConfigurationError{
		Width:     int(g.width),
		Height:    int(g.height),
		MineCount: mineCount,
		Reason:    reason,
	}
}

func (g *TileGrid) index(c Coordinate) int {
	return int(c.Y)*int(g.width) + int(c.X)
}

func (g *TileGrid) coordinate(i int) Coordinate {
	w := int(g.width)
	return Coordinate{X: uint16(i % w), Y: uint16(i / w)}
}

// number classifies every safe cell by its count of mined neighbours.
func (g *TileGrid) number() {
	for i, t := range g.tiles {
		if t.IsMine() {
			continue
		}
		var n uint8
		for _, nb := range g.Neighbors(g.coordinate(i)) {
			if g.tiles[g.index(nb)].IsMine() {
				n++
			}
		}
		g.tiles[i] = NumberedTile(n)
	}
}

func (g *TileGrid) Width() uint16 { return g.width }

func (g *TileGrid) Height() uint16 { return g.height }

func (g *TileGrid) TotalMines() uint16 { return g.mineCount }

// Cells is the total number of cells, width * height.
func (g *TileGrid) Cells() int { return len(g.tiles) }

func (g *TileGrid) InBounds(c Coordinate) bool {
	return c.X < g.width && c.Y < g.height
}

// Offset moves c by (dx, dy). The second result is false when the
// destination falls outside the grid.
func (g *TileGrid) Offset(c Coordinate, dx, dy int) (Coordinate, bool) {
	x, y := int(c.X)+dx, int(c.Y)+dy
	if x < 0 || y < 0 || x >= int(g.width) || y >= int(g.height) {
		return Coordinate{}, false
	}
	return Coordinate{X: uint16(x), Y: uint16(y)}, true
}

// Neighbors returns the in-bounds cells surrounding c, in [squareOffsets] order.
// It returns nil when c itself is out of bounds.
func (g *TileGrid) Neighbors(c Coordinate) []Coordinate {
	if !g.InBounds(c) {
		return nil
	}
	ret := make([]Coordinate, 0, len(squareOffsets))
	for _, off := range squareOffsets {
		if nb, ok := g.Offset(c, off[0], off[1]); ok {
			ret = append(ret, nb)
		}
	}
	return ret
}

// Tile returns the tile at c, or [EmptyTile] when c is out of bounds.
func (g *TileGrid) Tile(c Coordinate) Tile {
	if !g.InBounds(c) {
		return EmptyTile
	}
	return g.tiles[g.index(c)]
}

func (g *TileGrid) IsMine(c Coordinate) bool {
	return g.Tile(c).IsMine()
}

func (g *TileGrid) NeighborCount(c Coordinate) uint8 {
	return g.Tile(c).Count()
}

// Mines lists mine coordinates in row order.
func (g *TileGrid) Mines() []Coordinate {
	ret := make([]Coordinate, 0, g.mineCount)
	for i, t := range g.tiles {
		if t.IsMine() {
			ret = append(ret, g.coordinate(i))
		}
	}
	return ret
}

// TileGrid implements [fmt.Stringer]. The top line is the highest row.
func (g *TileGrid) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Map (%d, %d) with %d mines:\n", g.width, g.height, g.mineCount)
	rule := strings.Repeat("-", int(g.width)+2)
	b.WriteString(rule)
	b.WriteByte('\n')
	for y := int(g.height) - 1; y >= 0; y-- {
		b.WriteByte('|')
		for x := range int(g.width) {
			b.WriteString(g.tiles[y*int(g.width)+x].String())
		}
		b.WriteString("|\n")
	}
	b.WriteString(rule)
	return b.String()
}
