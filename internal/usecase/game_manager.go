package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (tictactoe.Move, error)
}

// GameManager runs sessions between a human and the solver bot.
type GameManager struct {
	logger     *slog.Logger
	gameRepo   gameRepo
	botService botService
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, botService botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:   gameRepo,
		botService: botService,
	}
}

// NewGame starts a session where the human plays humanMark, a random mark if empty.
// When the bot plays X its first move is already on the board.
func (that *GameManager) NewGame(ctx context.Context, humanMark tictactoe.Mark) (*entity.Game, error) {
	log := that.logger.With("method", "NewGame")

	switch humanMark {
	case tictactoe.EmptyCell:
		humanMark = entity.GetRandomMark()
	case tictactoe.PlayerX, tictactoe.PlayerO:
	default:
		return nil, fmt.Errorf("%w: %q", tictactoe.ErrUnknownMark, humanMark)
	}

	game := entity.NewGame(uuid.NewString(), humanMark)

	if game.IsBotTurn() {
		if _, err := that.botService.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("failed to make bot turn: %w", err)
		}
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "game_id", game.ID, "human_mark", game.HumanMark)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeTurn applies the human's move and, unless the game ended, the bot's reply.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, move tictactoe.Move) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "game_id", gameID)

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err = game.MakeTurn(game.HumanMark, move); err != nil {
		return game, fmt.Errorf("failed make turn: %w", err)
	}

	if game.IsBotTurn() {
		reply, err := that.botService.MakeTurn(game)
		if err != nil {
			return nil, fmt.Errorf("failed to make bot turn: %w", err)
		}

		log.Debug("bot replied", "move", reply.String())
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner)
	}

	return game, nil
}

// DeleteGame removes a session before its TTL expires.
func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.With("method", "DeleteGame").Info("game deleted", "game_id", id)

	return nil
}
