package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	MakeTurn(game *entity.Game) (tictactoe.Move, error)
}

type botService struct {
	logger *slog.Logger
}

func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
	}
}

// MakeTurn plays the optimal move for the bot's mark.
func (that *botService) MakeTurn(game *entity.Game) (tictactoe.Move, error) {
	if game.IsOngoing() && game.Turn != game.BotMark {
		return tictactoe.Move{}, apperror.ErrNotYourTurn
	}

	result := minimax.Solve(game.Board)
	if !result.HasMove {
		return tictactoe.Move{}, ErrNoAvailableMoves
	}

	that.logger.Debug("search finished",
		"game_id", game.ID,
		"board", game.Board.String(),
		"move", result.Move.String(),
		"score", result.Score,
		"nodes", result.Nodes,
	)

	if err := game.MakeTurn(game.BotMark, result.Move); err != nil {
		return tictactoe.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return result.Move, nil
}
