package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-board/internal/config"
	"github.com/vancomm/minesweeper-board/internal/middleware"
	"github.com/vancomm/minesweeper-board/internal/mines"
	"github.com/vancomm/minesweeper-board/internal/session"
)

var (
	ErrUnauthorized = errors.New("session token required")
	ErrForbidden    = errors.New("token belongs to another session")
)

type GameHandler struct {
	logger logrus.FieldLogger
	store  *session.Store
	jwt    *config.JWT
	ws     *config.WebSocket
	board  config.Board
	dec    *schema.Decoder
}

func NewGameHandler(
	logger logrus.FieldLogger,
	store *session.Store,
	jwt *config.JWT,
	ws *config.WebSocket,
	board config.Board,
) *GameHandler {
	handler := &GameHandler{
		logger: logger,
		store:  store,
		jwt:    jwt,
		ws:     ws,
		board:  board,
		dec:    newDecoder(),
	}

	return handler
}

func (g GameHandler) defaults() session.Params {
	return session.Params{
		Width:     g.board.Width,
		Height:    g.board.Height,
		MineCount: g.board.MineCount,
	}
}

// authorize checks that the request carries a token issued for session id.
func (g GameHandler) authorize(r *http.Request, id string) error {
	claims, ok := middleware.SessionClaims(r.Context())
	if !ok {
		return ErrUnauthorized
	}
	if claims.SessionID != id {
		return ErrForbidden
	}
	return nil
}

// statusOf maps domain errors to response codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, mines.ErrInvalidConfiguration),
		errors.Is(err, ErrInvalidPosition):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (g GameHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		g.logger.WithFields(logrus.Fields{
			"uri":   r.RequestURI,
			"error": err,
		}).Error("unable to handle game request")
	}
	sendErrorOrLog(w, g.logger, status, err)
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dto, err := ParseCreateNewGameDTO(g.dec, query, g.defaults())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	params := dto.Params()
	if err := params.Validate(g.board.MaxWidth, g.board.MaxHeight); err != nil {
		g.fail(w, r, err)
		return
	}

	start, err := dto.Start()
	if err != nil {
		g.fail(w, r, err)
		return
	}

	snap, err := g.store.Create(params, start)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	token, err := g.jwt.IssueSessionToken(snap.ID)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameDTO{
		GameSessionDTO: NewGameSessionDTO(snap),
		Token:          token,
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	snap, err := g.store.Get(r.PathValue("id"))
	if err != nil {
		g.fail(w, r, err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameSessionDTO(snap))
}

// move handles the shared prologue of every board action: the caller must
// own the session and name a cell.
func (g GameHandler) move(
	w http.ResponseWriter, r *http.Request,
	act func(id string, at mines.Coordinate) (*session.Snapshot, *OutcomeDTO, error),
) {
	id := r.PathValue("id")
	if err := g.authorize(r, id); err != nil {
		g.fail(w, r, err)
		return
	}

	at, err := ParsePosition(g.dec, r.URL.Query())
	if err != nil {
		g.fail(w, r, err)
		return
	}

	snap, outcome, err := act(id, at)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	sendJSONOrLog(w, g.logger, MoveDTO{
		GameSessionDTO: NewGameSessionDTO(snap),
		Outcome:        outcome,
	})
}

func (g GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, func(id string, at mines.Coordinate) (*session.Snapshot, *OutcomeDTO, error) {
		snap, out, err := g.store.Reveal(id, at)
		return snap, NewRevealOutcomeDTO(out), err
	})
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, func(id string, at mines.Coordinate) (*session.Snapshot, *OutcomeDTO, error) {
		snap, out, err := g.store.Flag(id, at)
		return snap, NewFlagOutcomeDTO(out), err
	})
}

func (g GameHandler) Chord(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, func(id string, at mines.Coordinate) (*session.Snapshot, *OutcomeDTO, error) {
		snap, out, err := g.store.Chord(id, at)
		return snap, NewRevealOutcomeDTO(out), err
	})
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := g.authorize(r, id); err != nil {
		g.fail(w, r, err)
		return
	}

	snap, err := g.store.Forfeit(id)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameSessionDTO(snap))
}
