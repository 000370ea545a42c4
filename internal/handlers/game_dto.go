package handlers

import (
	"errors"
	"fmt"
	"math"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-board/internal/mines"
	"github.com/vancomm/minesweeper-board/internal/session"
)

var ErrInvalidPosition = errors.New("invalid cell position")

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateNewGameDTO struct {
	Width     int  `schema:"width"`
	Height    int  `schema:"height"`
	MineCount int  `schema:"mine_count"`
	X         *int `schema:"x"`
	Y         *int `schema:"y"`
}

// ParseCreateNewGameDTO decodes src over defaults, so omitted dimensions
// fall back to the configured board.
func ParseCreateNewGameDTO(
	dec *schema.Decoder, src map[string][]string, defaults session.Params,
) (CreateNewGameDTO, error) {
	dto := CreateNewGameDTO{
		Width:     defaults.Width,
		Height:    defaults.Height,
		MineCount: defaults.MineCount,
	}
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto CreateNewGameDTO) Params() session.Params {
	return session.Params{
		Width:     dto.Width,
		Height:    dto.Height,
		MineCount: dto.MineCount,
	}
}

// Start is the first click, if the client sent one.
func (dto CreateNewGameDTO) Start() (*mines.Coordinate, error) {
	if dto.X == nil && dto.Y == nil {
		return nil, nil
	}
	if dto.X == nil || dto.Y == nil {
		return nil, fmt.Errorf("%w: both x and y are required", ErrInvalidPosition)
	}
	c, err := toCoordinate(*dto.X, *dto.Y)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type PositionDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(dec *schema.Decoder, src map[string][]string) (mines.Coordinate, error) {
	var dto PositionDTO
	if err := dec.Decode(&dto, src); err != nil {
		return mines.Coordinate{}, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}
	return toCoordinate(dto.X, dto.Y)
}

// toCoordinate rejects positions no board can address. Positions past the
// edge of a particular board are left for the board to ignore.
func toCoordinate(x, y int) (mines.Coordinate, error) {
	if x < 0 || y < 0 || x > math.MaxUint16 || y > math.MaxUint16 {
		return mines.Coordinate{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidPosition, x, y)
	}
	return mines.Coordinate{X: uint16(x), Y: uint16(y)}, nil
}

type GameSessionDTO struct {
	GameSessionId string     `json:"game_session_id"`
	Grid          mines.Grid `json:"grid"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	MineCount     int        `json:"mine_count"`
	Hidden        int        `json:"hidden"`
	Flags         int        `json:"flags"`
	Dead          bool       `json:"dead"`
	Won           bool       `json:"won"`
	StartedAt     int64      `json:"started_at"`
	EndedAt       *int64     `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(s *session.Snapshot) *GameSessionDTO {
	var endedAt *int64
	if s.EndedAt != nil {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionId: s.ID,
		Grid:          s.Grid,
		Width:         s.Width,
		Height:        s.Height,
		MineCount:     s.MineCount,
		Hidden:        s.Hidden,
		Flags:         s.Flags,
		Dead:          s.Dead,
		Won:           s.Won,
		StartedAt:     s.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
}

type NewGameDTO struct {
	*GameSessionDTO
	Token string `json:"token"`
}

type OutcomeDTO struct {
	Result   string             `json:"result"`
	Revealed []mines.Coordinate `json:"revealed,omitempty"`
	Mine     *mines.Coordinate  `json:"mine,omitempty"`
	Complete bool               `json:"complete,omitempty"`
	Cell     *mines.Coordinate  `json:"cell,omitempty"`
}

func NewRevealOutcomeDTO(out mines.RevealOutcome) *OutcomeDTO {
	dto := &OutcomeDTO{
		Result:   out.Result.String(),
		Revealed: out.Revealed,
		Complete: out.Complete,
	}
	if out.Result == mines.Exploded {
		mine := out.Mine
		dto.Mine = &mine
	}
	return dto
}

func NewFlagOutcomeDTO(out mines.FlagOutcome) *OutcomeDTO {
	dto := &OutcomeDTO{Result: out.Result.String()}
	if out.Result != mines.NotHidden {
		cell := out.Coordinate
		dto.Cell = &cell
	}
	return dto
}

type MoveDTO struct {
	*GameSessionDTO
	Outcome *OutcomeDTO `json:"outcome,omitempty"`
}
