package session

import (
	"context"
	"io"
	"math/rand/v2"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-board/internal/mines"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewStore(rand.New(rand.NewPCG(1, 2)), time.Hour, logger)
}

func at(x, y uint16) *mines.Coordinate {
	return &mines.Coordinate{X: x, Y: y}
}

// crowded is a 3x3 game whose only safe cell is the centre.
func crowded(t *testing.T, s *Store) *Snapshot {
	t.Helper()
	snap, err := s.Create(Params{Width: 3, Height: 3, MineCount: 8}, at(1, 1))
	require.NoError(t, err)
	return snap
}

func TestCreate(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.Create(Params{Width: 9, Height: 9, MineCount: 10}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, 81, snap.Hidden)
	assert.Len(t, snap.Grid, 81)
	for _, cell := range snap.Grid {
		assert.Equal(t, mines.Unknown, cell)
	}
	assert.False(t, snap.Dead)
	assert.Nil(t, snap.EndedAt)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	assert.Equal(t, 1, s.Len())
}

func TestCreateWithStart(t *testing.T) {
	s := newTestStore(t)

	snap := crowded(t, s)
	assert.Equal(t, mines.CellState(8), snap.Grid[4])
	assert.Equal(t, 8, snap.Hidden)
	assert.True(t, snap.Won)
	assert.NotNil(t, snap.EndedAt)
}

func TestCreateInvalid(t *testing.T) {
	s := newTestStore(t)
	for _, params := range []Params{
		{Width: 5, Height: 5, MineCount: 25},
		{Width: 0, Height: 5, MineCount: 0},
		{Width: 70000, Height: 1, MineCount: 1},
	} {
		_, err := s.Create(params, nil)
		assert.ErrorIs(t, err, mines.ErrInvalidConfiguration, params.String())
	}
	_, err := s.Create(Params{Width: 3, Height: 3, MineCount: 1}, at(3, 3))
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)
	assert.Equal(t, 0, s.Len())
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, Params{Width: 30, Height: 16, MineCount: 99}.Validate(30, 16))
	assert.ErrorIs(t, Params{Width: 31, Height: 16, MineCount: 99}.Validate(30, 16), mines.ErrInvalidConfiguration)
	assert.ErrorIs(t, Params{Width: 2, Height: 2, MineCount: 4}.Validate(30, 16), mines.ErrInvalidConfiguration)
	assert.ErrorIs(t, Params{Width: 1000, Height: 100, MineCount: 70000}.Validate(1000, 1000), mines.ErrInvalidConfiguration)
}

func TestNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Reveal("nope", mines.Coordinate{})
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Flag("nope", mines.Coordinate{})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Forfeit("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Subscribe(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevealMineEndsGame(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Create(Params{Width: 3, Height: 3, MineCount: 8}, nil)
	require.NoError(t, err)

	mine := s.sessions[snap.ID].board.Grid().Mines()[0]
	snap, out, err := s.Reveal(snap.ID, mine)
	require.NoError(t, err)
	require.Equal(t, mines.Exploded, out.Result)
	assert.Equal(t, mine, out.Mine)
	assert.True(t, snap.Dead)
	assert.NotNil(t, snap.EndedAt)
	assert.Contains(t, snap.Grid, mines.ExplodedMine)
	assert.Contains(t, snap.Grid, mines.UnflaggedMine)

	_, _, err = s.Reveal(snap.ID, mines.Coordinate{X: 2, Y: 2})
	assert.ErrorIs(t, err, ErrGameOver)
	_, _, err = s.Flag(snap.ID, mines.Coordinate{X: 2, Y: 2})
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestFlagAndForfeit(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Create(Params{Width: 9, Height: 9, MineCount: 10}, nil)
	require.NoError(t, err)

	snap, out, err := s.Flag(snap.ID, mines.Coordinate{X: 4, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, mines.FlagPlaced, out.Result)
	assert.Equal(t, 1, snap.Flags)
	assert.Equal(t, mines.Flagged, snap.Grid[4*9+4])

	snap, err = s.Forfeit(snap.ID)
	require.NoError(t, err)
	assert.True(t, snap.Dead)
	assert.False(t, snap.Won)
	endedAt := *snap.EndedAt

	snap, err = s.Forfeit(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, endedAt, *snap.EndedAt)
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Create(Params{Width: 9, Height: 9, MineCount: 10}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	events, _, err := s.Subscribe(ctx, snap.ID)
	require.NoError(t, err)

	_, _, err = s.Flag(snap.ID, mines.Coordinate{X: 1, Y: 1})
	require.NoError(t, err)
	_, _, err = s.Flag(snap.ID, mines.Coordinate{X: 1, Y: 1})
	require.NoError(t, err)
	_, err = s.Forfeit(snap.ID)
	require.NoError(t, err)

	cell := []mines.Coordinate{{X: 1, Y: 1}}
	assert.Equal(t, Event{Kind: EventFlagged, Cells: cell}, <-events)
	assert.Equal(t, Event{Kind: EventUnflagged, Cells: cell}, <-events)
	assert.Equal(t, Event{Kind: EventForfeit}, <-events)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestSubscribeRevealEvents(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Create(Params{Width: 2, Height: 1, MineCount: 0}, nil)
	require.NoError(t, err)

	events, unsubscribe, err := s.Subscribe(context.Background(), snap.ID)
	require.NoError(t, err)
	defer unsubscribe()

	_, out, err := s.Reveal(snap.ID, mines.Coordinate{X: 0, Y: 0})
	require.NoError(t, err)
	assert.True(t, out.Complete)

	assert.Equal(t, EventRevealed, (<-events).Kind)
	assert.Equal(t, Event{Kind: EventComplete}, <-events)
}

func TestUnsubscribeReleasesGoroutines(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Create(Params{Width: 9, Height: 9, MineCount: 10}, nil)
	require.NoError(t, err)

	baseline := runtime.NumGoroutine()
	for range 100 {
		events, unsubscribe, err := s.Subscribe(context.Background(), snap.ID)
		require.NoError(t, err)
		unsubscribe()
		unsubscribe()
		_, ok := <-events
		require.False(t, ok)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, s.sessions[snap.ID].subs)
}

func TestSlowSubscriberDropped(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Create(Params{Width: 9, Height: 9, MineCount: 10}, nil)
	require.NoError(t, err)

	events, _, err := s.Subscribe(context.Background(), snap.ID)
	require.NoError(t, err)

	for range subscriberBuffer + 1 {
		_, _, err := s.Flag(snap.ID, mines.Coordinate{X: 0, Y: 0})
		require.NoError(t, err)
	}

	n := 0
	for range events {
		n++
	}
	assert.Equal(t, subscriberBuffer, n)
}

func TestSweep(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	old, err := s.Create(Params{Width: 9, Height: 9, MineCount: 10}, nil)
	require.NoError(t, err)
	events, _, err := s.Subscribe(context.Background(), old.ID)
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	fresh, err := s.Create(Params{Width: 9, Height: 9, MineCount: 10}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Sweep(now.Add(5*time.Minute)))
	assert.Equal(t, 1, s.Sweep(now.Add(11*time.Minute)))

	_, err = s.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(fresh.ID)
	assert.NoError(t, err)

	_, ok := <-events
	assert.False(t, ok)
}

func TestRunStopsWithContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx, time.Millisecond) }()
	cancel()
	assert.NoError(t, <-done)
}

func TestConcurrentMoves(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.Create(Params{Width: 30, Height: 16, MineCount: 99}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for x := range uint16(30) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range uint16(16) {
				s.Flag(snap.ID, mines.Coordinate{X: x, Y: y})
			}
		}()
	}
	wg.Wait()

	snap, err = s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 30*16, snap.Flags)
}
