package session

import (
	"sync"

	"github.com/vancomm/minesweeper-board/internal/mines"
)

type EventKind string

const (
	EventRevealed  EventKind = "revealed"
	EventExploded  EventKind = "exploded"
	EventComplete  EventKind = "complete"
	EventFlagged   EventKind = "flagged"
	EventUnflagged EventKind = "unflagged"
	EventForfeit   EventKind = "forfeit"
)

// Event is a change to a session's board as seen by its subscribers.
type Event struct {
	Kind  EventKind          `json:"kind"`
	Cells []mines.Coordinate `json:"cells,omitempty"`
}

type subscriber struct {
	ch        chan Event
	closeOnce sync.Once
}

func (sub *subscriber) close() {
	sub.closeOnce.Do(func() { close(sub.ch) })
}

// publish must be called with s.mu held. A subscriber whose buffer is full
// is dropped rather than stalling the move.
func (s *Session) publish(e Event) {
	for sub := range s.subs {
		select {
		case sub.ch <- e:
		default:
			delete(s.subs, sub)
			sub.close()
		}
	}
}

func (s *Session) closeSubscribers() {
	for sub := range s.subs {
		sub.close()
	}
	clear(s.subs)
}
