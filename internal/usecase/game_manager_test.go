package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/service"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

const (
	x = tictactoe.PlayerX
	o = tictactoe.PlayerO
	e = tictactoe.EmptyCell
)

var (
	errRedisDown = errors.New("redis down")
	errBotBroken = errors.New("bot broken")
)

func newTestManager(t *testing.T) (*GameManager, *mockGameRepo) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMockGameRepo(t)

	return NewGameManager(logger, repo, service.NewBotService(logger)), repo
}

func TestGameManager_NewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Human plays X and moves first", func(t *testing.T) {
		// Given: a repository accepting the new game
		manager, repo := newTestManager(t)
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(nil).Once()

		// When: creating a game for X
		game, err := manager.NewGame(ctx, x)

		// Then: the board is empty and it's the human's turn
		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, tictactoe.Initial(), game.Board)
		assert.Equal(t, x, game.Turn)
		assert.Equal(t, o, game.BotMark)
	})

	t.Run("Bot opens when the human plays O", func(t *testing.T) {
		// Given: a repository accepting the new game
		manager, repo := newTestManager(t)
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(nil).Once()

		// When: creating a game for O
		game, err := manager.NewGame(ctx, o)

		// Then: the bot already placed one X
		require.NoError(t, err)
		assert.Len(t, game.Board.LegalMoves(), 8)
		assert.Equal(t, o, game.Turn)
	})

	t.Run("Random mark when none is given", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(nil).Once()

		game, err := manager.NewGame(ctx, e)

		require.NoError(t, err)
		assert.Contains(t, []tictactoe.Mark{x, o}, game.HumanMark)
		assert.Equal(t, game.HumanMark, game.Turn)
	})

	t.Run("Error on unknown mark", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, err := manager.NewGame(ctx, "Z")

		assert.ErrorIs(t, err, tictactoe.ErrUnknownMark)
	})

	t.Run("Error when storage fails", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()

		game, err := manager.NewGame(ctx, x)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})

	t.Run("Error when the bot fails to open", func(t *testing.T) {
		// Given: a bot that cannot move
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		bot := &mockBotService{}
		bot.On("MakeTurn", mock.AnythingOfType("*entity.Game")).Return(tictactoe.Move{}, errBotBroken).Once()
		manager := NewGameManager(logger, newMockGameRepo(t), bot)

		// When: creating a game where the bot opens
		_, err := manager.NewGame(ctx, o)

		// Then: the bot error is returned and nothing is stored
		require.ErrorIs(t, err, errBotBroken)
		bot.AssertExpectations(t)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Bot replies to the human move", func(t *testing.T) {
		// Given: a stored game where the human plays X
		manager, repo := newTestManager(t)
		game := entity.NewGame("g1", x)
		repo.On("GetByID", mock.Anything, "g1").Return(game, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, game).Return(nil).Once()

		// When: the human plays the center
		updated, err := manager.MakeTurn(ctx, "g1", tictactoe.Move{Row: 1, Col: 1})

		// Then: both moves are on the board and it's the human's turn again
		require.NoError(t, err)
		assert.Equal(t, x, updated.Board[1][1])
		assert.Len(t, updated.Board.LegalMoves(), 7)
		assert.Equal(t, x, updated.Turn)
	})

	t.Run("Bot blocks the threat", func(t *testing.T) {
		// Given: X threatens the top row
		manager, repo := newTestManager(t)
		game := &entity.Game{
			ID:        "g1",
			Board:     tictactoe.Position{{x, e, e}, {e, o, e}, {e, e, e}},
			HumanMark: x,
			BotMark:   o,
		}
		game.UpdateGameState()
		repo.On("GetByID", mock.Anything, "g1").Return(game, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, game).Return(nil).Once()

		// When: the human completes the threat
		updated, err := manager.MakeTurn(ctx, "g1", tictactoe.Move{Row: 0, Col: 1})

		// Then: the bot blocks it
		require.NoError(t, err)
		assert.Equal(t, o, updated.Board[0][2])
	})

	t.Run("Finished game is stored without a bot reply", func(t *testing.T) {
		// Given: the human can complete a line
		manager, repo := newTestManager(t)
		game := &entity.Game{
			ID:        "g1",
			Board:     tictactoe.Position{{x, x, e}, {o, o, e}, {e, e, e}},
			HumanMark: x,
			BotMark:   o,
		}
		game.UpdateGameState()
		repo.On("GetByID", mock.Anything, "g1").Return(game, nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, game).Return(nil).Once()

		// When: the human wins
		updated, err := manager.MakeTurn(ctx, "g1", tictactoe.Move{Row: 0, Col: 2})

		// Then: the game is finished
		require.NoError(t, err)
		assert.True(t, updated.IsFinished())
		assert.Equal(t, "X", updated.Winner)
		assert.Len(t, updated.Board.LegalMoves(), 4)
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		manager, repo := newTestManager(t)
		game := entity.NewGame("g1", o)
		game.Board = tictactoe.Position{{x, e, e}, {e, e, e}, {e, e, e}}
		game.UpdateGameState()
		repo.On("GetByID", mock.Anything, "g1").Return(game, nil).Once()

		_, err := manager.MakeTurn(ctx, "g1", tictactoe.Move{Row: 0, Col: 0})

		assert.ErrorIs(t, err, apperror.ErrInvalidMove)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		manager, repo := newTestManager(t)
		game := &entity.Game{
			ID:        "g1",
			Board:     tictactoe.Position{{x, x, x}, {o, o, e}, {e, e, e}},
			HumanMark: o,
			BotMark:   x,
		}
		game.UpdateGameState()
		repo.On("GetByID", mock.Anything, "g1").Return(game, nil).Once()

		_, err := manager.MakeTurn(ctx, "g1", tictactoe.Move{Row: 1, Col: 2})

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Error on unknown game", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "missing").Return(nil, apperror.ErrGameNotFound).Once()

		game, err := manager.MakeTurn(ctx, "missing", tictactoe.Move{})

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, game)
	})
}

func TestGameManager_DeleteGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the game", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("DeleteByID", mock.Anything, "g1").Return(nil).Once()

		err := manager.DeleteGame(ctx, "g1")

		assert.NoError(t, err)
	})

	t.Run("Error on unknown game", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("DeleteByID", mock.Anything, "missing").Return(apperror.ErrGameNotFound).Once()

		err := manager.DeleteGame(ctx, "missing")

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameManager_Analyze(t *testing.T) {
	manager, _ := newTestManager(t)

	t.Run("Ongoing position", func(t *testing.T) {
		// Given: X to move with a win available
		position := tictactoe.Position{{x, o, x}, {o, x, o}, {e, e, e}}

		// When: analyzing it
		analysis, err := manager.Analyze(position)

		// Then: the win is reported
		require.NoError(t, err)
		assert.Equal(t, "XOX/OXO/...", analysis.Board)
		assert.Equal(t, x, analysis.Turn)
		assert.False(t, analysis.Terminal)
		assert.Equal(t, 1, analysis.Outcome)
		require.NotNil(t, analysis.BestMove)
		assert.Equal(t, tictactoe.Move{Row: 2, Col: 0}, *analysis.BestMove)
		assert.Equal(t, []tictactoe.Move{{Row: 2, Col: 0}}, analysis.Continuation)
	})

	t.Run("Terminal position", func(t *testing.T) {
		// Given: X already won
		position := tictactoe.Position{{x, x, x}, {o, o, e}, {e, e, e}}

		// When: analyzing it
		analysis, err := manager.Analyze(position)

		// Then: there is no move to suggest
		require.NoError(t, err)
		assert.True(t, analysis.Terminal)
		assert.Equal(t, x, analysis.Winner)
		assert.Equal(t, 1, analysis.Utility)
		assert.Empty(t, analysis.Turn)
		assert.Nil(t, analysis.BestMove)
		assert.Empty(t, analysis.Continuation)
	})

	t.Run("Continuation follows the best move to the outcome", func(t *testing.T) {
		// Given: a position where O must defend
		position := tictactoe.Position{{x, e, e}, {e, e, e}, {e, e, e}}

		// When: analyzing it
		analysis, err := manager.Analyze(position)
		require.NoError(t, err)

		// Then: the line opens with the best move and ends at the forced outcome
		require.NotNil(t, analysis.BestMove)
		require.NotEmpty(t, analysis.Continuation)
		assert.Equal(t, *analysis.BestMove, analysis.Continuation[0])

		for _, move := range analysis.Continuation {
			position, err = position.Apply(move)
			require.NoError(t, err)
		}

		assert.True(t, position.IsTerminal())
		assert.Equal(t, analysis.Outcome, position.Utility())
		assert.Equal(t, 0, analysis.Outcome)
	})

	t.Run("Error on unreachable position", func(t *testing.T) {
		_, err := manager.Analyze(tictactoe.Position{{o, o, e}, {e, e, e}, {e, e, e}})

		assert.ErrorIs(t, err, apperror.ErrInvalidPosition)
	})
}
