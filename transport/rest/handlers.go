package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solver/internal/usecase"
)

var ErrBadRequest = errors.New("bad request")

type gameUseCase interface {
	NewGame(ctx context.Context, humanMark tictactoe.Mark) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, move tictactoe.Move) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error

	Analyze(position tictactoe.Position) (*usecase.Analysis, error)
}

// AnalyzeRequest carries a board either in compact notation ("XOX/OXO/...")
// or as a 3x3 array of marks.
type AnalyzeRequest struct {
	Board json.RawMessage `json:"board"`
}

type NewGameRequest struct {
	Mark tictactoe.Mark `json:"mark"`
}

// TurnRequest uses pointers so a missing coordinate is not read as 0.
type TurnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func NewHandlers(logger *slog.Logger, gameUseCase gameUseCase) *Handlers {
	return &Handlers{
		logger:      logger.With("component", "rest"),
		gameUseCase: gameUseCase,
	}
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	position, err := parseBoard(req.Board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	analysis, err := that.gameUseCase.Analyze(position)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, analysis)
}

func (that *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	game, err := that.gameUseCase.NewGame(r.Context(), req.Mark)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Handlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeError(w, fmt.Errorf("%w: row and col are required", ErrBadRequest))
		return
	}

	move := tictactoe.Move{Row: *req.Row, Col: *req.Col}

	game, err := that.gameUseCase.MakeTurn(r.Context(), chi.URLParam(r, "id"), move)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeBody decodes a JSON body into v; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	return nil
}

func parseBoard(raw json.RawMessage) (tictactoe.Position, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return tictactoe.Position{}, fmt.Errorf("%w: board is required", ErrBadRequest)
	}

	if raw[0] == '"' {
		var notation string
		if err := json.Unmarshal(raw, &notation); err != nil {
			return tictactoe.Position{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}

		position, err := tictactoe.ParsePosition(notation)
		if err != nil {
			return tictactoe.Position{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}

		return position, nil
	}

	var position tictactoe.Position
	if err := json.Unmarshal(raw, &position); err != nil {
		return tictactoe.Position{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	return position, nil
}

func (that *Handlers) writeError(w http.ResponseWriter, err error) {
	var status int

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidMove):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrNotYourTurn), errors.Is(err, apperror.ErrGameFinished):
		status = http.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, apperror.ErrInvalidPosition),
		errors.Is(err, tictactoe.ErrUnknownMark):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
