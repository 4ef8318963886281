package entity

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is a session between a human and the solver bot.
type Game struct {
	ID        string             `json:"id"`
	Board     tictactoe.Position `json:"board"`
	HumanMark tictactoe.Mark     `json:"human_mark"`
	BotMark   tictactoe.Mark     `json:"bot_mark"`
	Turn      tictactoe.Mark     `json:"player_turn"`
	Winner    string             `json:"winner"`
	Status    string             `json:"status"`
}

func NewGame(id string, humanMark tictactoe.Mark) *Game {
	game := &Game{
		ID:        id,
		Board:     tictactoe.Initial(),
		HumanMark: humanMark,
		BotMark:   humanMark.Opponent(),
	}

	game.UpdateGameState()

	return game
}

// UpdateGameState derives turn, winner and status from the board.
func (that *Game) UpdateGameState() {
	if winner, ok := that.Board.Winner(); ok {
		that.Winner = string(winner)
		that.Status = StatusFinished
		that.Turn = tictactoe.EmptyCell
		return
	}

	// tie
	if that.Board.IsTerminal() {
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = tictactoe.EmptyCell
		return
	}

	that.Winner = ""
	that.Status = StatusOngoing
	that.Turn = that.Board.Turn()
}

// MakeTurn places mark at move if it is mark's turn.
func (that *Game) MakeTurn(mark tictactoe.Mark, move tictactoe.Move) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	board, err := that.Board.Apply(move)
	if err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	that.Board = board
	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsBotTurn() bool {
	return that.IsOngoing() && that.Turn == that.BotMark
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func GetRandomMark() tictactoe.Mark {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return tictactoe.PlayerX
	}
	return tictactoe.PlayerO
}
