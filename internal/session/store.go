package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-board/internal/mines"
)

var (
	ErrNotFound = errors.New("game session not found")
	ErrGameOver = errors.New("game is over")
)

const subscriberBuffer = 16

// Store keeps game sessions in memory. Moves on one session are applied one
// at a time; different sessions proceed independently.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	rndMu sync.Mutex
	rnd   mines.Rand

	ttl    time.Duration
	now    func() time.Time
	logger logrus.FieldLogger
}

func NewStore(rnd mines.Rand, ttl time.Duration, logger logrus.FieldLogger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		rnd:      rnd,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create generates a new game. When start is set the first click is
// guaranteed safe and is revealed right away.
func (s *Store) Create(params Params, start *mines.Coordinate) (*Snapshot, error) {
	if err := params.Validate(math.MaxUint16, math.MaxUint16); err != nil {
		return nil, err
	}

	var opts []mines.GenerateOption
	if start != nil {
		opts = append(opts, mines.WithSafeStart(*start))
	}

	s.rndMu.Lock()
	grid, err := mines.Generate(
		uint16(params.Width), uint16(params.Height), uint16(params.MineCount),
		s.rnd, opts...,
	)
	s.rndMu.Unlock()
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		id:        uuid.NewString(),
		params:    params,
		board:     mines.NewBoardState(grid),
		startedAt: now,
		touchedAt: now,
		subs:      make(map[*subscriber]struct{}),
	}
	if start != nil {
		sess.applyReveal(sess.board.Reveal(*start), now)
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"session": sess.id,
		"params":  params.String(),
	}).Info("game session created")

	return sess.snapshot(), nil
}

func (s *Store) get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) Get(id string) (*Snapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// move runs fn on a live session under its lock.
func (s *Store) move(id string, fn func(sess *Session, now time.Time)) (*Snapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.over() {
		return nil, ErrGameOver
	}
	fn(sess, s.now())
	if sess.over() {
		s.logger.WithFields(logrus.Fields{
			"session": id,
			"won":     sess.won,
		}).Info("game over")
	}
	return sess.snapshot(), nil
}

func (s *Store) Reveal(id string, c mines.Coordinate) (snap *Snapshot, out mines.RevealOutcome, err error) {
	snap, err = s.move(id, func(sess *Session, now time.Time) {
		out = sess.board.Reveal(c)
		sess.applyReveal(out, now)
	})
	return
}

func (s *Store) Chord(id string, c mines.Coordinate) (snap *Snapshot, out mines.RevealOutcome, err error) {
	snap, err = s.move(id, func(sess *Session, now time.Time) {
		out = sess.board.Chord(c)
		sess.applyReveal(out, now)
	})
	return
}

func (s *Store) Flag(id string, c mines.Coordinate) (snap *Snapshot, out mines.FlagOutcome, err error) {
	snap, err = s.move(id, func(sess *Session, now time.Time) {
		out = sess.board.ToggleFlag(c)
		sess.applyFlag(out, now)
	})
	return
}

// Forfeit ends a running game as lost. Forfeiting a finished game only
// returns its final state.
func (s *Store) Forfeit(id string) (*Snapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.over() {
		now := s.now()
		sess.dead = true
		sess.end(now)
		sess.touchedAt = now
		sess.publish(Event{Kind: EventForfeit})
		s.logger.WithField("session", id).Info("game forfeited")
	}
	return sess.snapshot(), nil
}

// Subscribe returns a channel of events for session id. The channel is
// closed when ctx ends, when unsubscribe is called, when the subscriber
// falls behind, or when the session expires.
func (s *Store) Subscribe(ctx context.Context, id string) (<-chan Event, func(), error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, nil, err
	}

	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	sess.mu.Lock()
	sess.subs[sub] = struct{}{}
	sess.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			sess.mu.Lock()
			delete(sess.subs, sub)
			sess.mu.Unlock()
			sub.close()
		})
	}
	stop := context.AfterFunc(ctx, unsubscribe)
	return sub.ch, func() {
		stop()
		unsubscribe()
	}, nil
}

// Len is the number of sessions held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions untouched for longer than the store's ttl and
// returns how many were dropped.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		if now.Sub(sess.touchedAt) > s.ttl {
			sess.closeSubscribers()
			delete(s.sessions, id)
			n++
		}
		sess.mu.Unlock()
	}
	if n > 0 {
		s.logger.WithFields(logrus.Fields{
			"expired": n,
			"left":    len(s.sessions),
		}).Debug("swept game sessions")
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}
