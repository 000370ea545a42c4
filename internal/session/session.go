package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/vancomm/minesweeper-board/internal/mines"
)

type Params struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MineCount int `json:"mine_count"`
}

func (p Params) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Width, p.Height, p.MineCount)
}

// Validate checks p against the board limits and the engine's own rules.
func (p Params) Validate(maxWidth, maxHeight int) error {
	if p.Width > maxWidth || p.Height > maxHeight {
		return &mines.InvalidConfigurationError{
			Width:     p.Width,
			Height:    p.Height,
			MineCount: p.MineCount,
			Reason:    fmt.Sprintf("board exceeds %dx%d", maxWidth, maxHeight),
		}
	}
	return mines.ValidateConfiguration(p.Width, p.Height, p.MineCount)
}

type Session struct {
	mu        sync.Mutex
	id        string
	params    Params
	board     *mines.BoardState
	dead, won bool
	startedAt time.Time
	endedAt   time.Time
	touchedAt time.Time
	subs      map[*subscriber]struct{}
}

func (s *Session) over() bool {
	return s.dead || s.won
}

func (s *Session) end(now time.Time) {
	if s.endedAt.IsZero() {
		s.endedAt = now
	}
}

func (s *Session) applyReveal(out mines.RevealOutcome, now time.Time) {
	s.touchedAt = now
	if len(out.Revealed) > 0 {
		s.publish(Event{Kind: EventRevealed, Cells: out.Revealed})
	}
	switch {
	case out.Result == mines.Exploded:
		s.dead = true
		s.end(now)
		s.publish(Event{Kind: EventExploded, Cells: []mines.Coordinate{out.Mine}})
	case out.Complete:
		s.won = true
		s.end(now)
		s.publish(Event{Kind: EventComplete})
	}
}

func (s *Session) applyFlag(out mines.FlagOutcome, now time.Time) {
	s.touchedAt = now
	switch out.Result {
	case mines.FlagPlaced:
		s.publish(Event{Kind: EventFlagged, Cells: []mines.Coordinate{out.Coordinate}})
	case mines.FlagRemoved:
		s.publish(Event{Kind: EventUnflagged, Cells: []mines.Coordinate{out.Coordinate}})
	}
}

// Snapshot is a point-in-time copy of a session, safe to hand to encoders.
type Snapshot struct {
	ID string
	Params
	Grid      mines.Grid
	Dead      bool
	Won       bool
	Hidden    int
	Flags     int
	StartedAt time.Time
	EndedAt   *time.Time
}

func (s *Session) snapshot() *Snapshot {
	snap := &Snapshot{
		ID:        s.id,
		Params:    s.params,
		Grid:      s.board.Snapshot(s.over()),
		Dead:      s.dead,
		Won:       s.won,
		Hidden:    s.board.HiddenCount(),
		Flags:     s.board.FlagCount(),
		StartedAt: s.startedAt,
	}
	if !s.endedAt.IsZero() {
		endedAt := s.endedAt
		snap.EndedAt = &endedAt
	}
	return snap
}
