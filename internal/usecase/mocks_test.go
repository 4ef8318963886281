package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

type mockGameRepo struct {
	mock.Mock
}

func newMockGameRepo(t *testing.T) *mockGameRepo {
	repo := &mockGameRepo{}
	repo.Test(t)

	t.Cleanup(func() { repo.AssertExpectations(t) })

	return repo
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockBotService struct {
	mock.Mock
}

func (that *mockBotService) MakeTurn(game *entity.Game) (tictactoe.Move, error) {
	args := that.Called(game)

	move, _ := args.Get(0).(tictactoe.Move)

	return move, args.Error(1)
}
