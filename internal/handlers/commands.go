package handlers

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-board/internal/session"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrReadOnly       = errors.New("moves require a session token")
)

func iterBySep(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 2,
	"c": 2,
	"r": 0,
}

type command struct {
	name string
	x, y int
}

func parseCommand(c string) (command, error) {
	parts := strings.Fields(c)
	if len(parts) == 0 {
		return command{}, ErrUnknownCommand
	}

	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return command{}, fmt.Errorf("%s: invalid number of arguments", parts[0])
	}

	cmd := command{name: parts[0]}
	if nargs == 2 {
		var err error
		if cmd.x, err = strconv.Atoi(parts[1]); err != nil {
			return command{}, fmt.Errorf("%w: first argument must be an int", ErrInvalidPosition)
		}
		if cmd.y, err = strconv.Atoi(parts[2]); err != nil {
			return command{}, fmt.Errorf("%w: second argument must be an int", ErrInvalidPosition)
		}
	}
	return cmd, nil
}

// executeCommand applies cmd to session id. Anything but "g" needs owner
// rights.
func executeCommand(
	store *session.Store, id string, owner bool, cmd command,
) (*session.Snapshot, error) {
	if cmd.name == "g" {
		return store.Get(id)
	}
	if !owner {
		return nil, ErrReadOnly
	}
	if cmd.name == "r" {
		return store.Forfeit(id)
	}

	at, err := toCoordinate(cmd.x, cmd.y)
	if err != nil {
		return nil, err
	}
	switch cmd.name {
	case "o":
		snap, _, err := store.Reveal(id, at)
		return snap, err
	case "f":
		snap, _, err := store.Flag(id, at)
		return snap, err
	case "c":
		snap, _, err := store.Chord(id, at)
		return snap, err
	}
	return nil, ErrUnknownCommand
}
