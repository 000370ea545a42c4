package mines

import (
	"fmt"
	"slices"
)

// Rand is the randomness [Generate] draws from. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type generateOptions struct {
	safeStart *Coordinate
}

type GenerateOption func(*generateOptions)

// WithSafeStart keeps start free of mines. Its neighbours are kept free as
// well whenever the remaining cells can still hold every mine.
func WithSafeStart(start Coordinate) GenerateOption {
	return func(o *generateOptions) {
		o.safeStart = &start
	}
}

// Generate places exactly mineCount mines uniformly at random and numbers
// the remaining cells.
func Generate(
	width, height, mineCount uint16, r Rand, opts ...GenerateOption,
) (*TileGrid, error) {
	var o generateOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := ValidateConfiguration(
		int(width), int(height), int(mineCount),
	); err != nil {
		return nil, err
	}

	g := newTileGrid(width, height)

	var excluded []int
	if o.safeStart != nil {
		start := *o.safeStart
		if !g.InBounds(start) {
			return nil, g.invalid(
				int(mineCount), fmt.Sprintf("safe start %s is out of bounds", start),
			)
		}
		excluded = append(excluded, g.index(start))
		neighbors := g.Neighbors(start)
		if g.Cells()-1-len(neighbors) >= int(mineCount) {
			for _, nb := range neighbors {
				excluded = append(excluded, g.index(nb))
			}
		}
	}

	/*
	 * Write down the list of possible mine locations, then pick
	 * mineCount of them off the list at random.
	 */
	candidates := make([]int, 0, g.Cells())
	for i := range g.Cells() {
		if !slices.Contains(excluded, i) {
			candidates = append(candidates, i)
		}
	}
	k := len(candidates)
	for range mineCount {
		i := r.IntN(k)
		g.tiles[candidates[i]] = MineTile
		k--
		candidates[i] = candidates[k]
	}

	g.mineCount = mineCount
	g.number()
	return g, nil
}
