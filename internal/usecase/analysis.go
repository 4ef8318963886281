package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

// Analysis describes a position and its optimal continuation.
type Analysis struct {
	Board      string           `json:"board"`
	Turn       tictactoe.Mark   `json:"turn,omitempty"`
	Winner     tictactoe.Mark   `json:"winner,omitempty"`
	Terminal   bool             `json:"terminal"`
	Utility    int              `json:"utility"`
	LegalMoves []tictactoe.Move `json:"legal_moves"`
	BestMove   *tictactoe.Move  `json:"best_move,omitempty"`
	// Outcome is the utility reached when both sides play optimally.
	Outcome      int              `json:"outcome"`
	Continuation []tictactoe.Move `json:"continuation"`
	Nodes        int              `json:"nodes"`
}

// Analyze validates position and solves it.
func (that *GameManager) Analyze(position tictactoe.Position) (*Analysis, error) {
	if err := position.Validate(); err != nil {
		return nil, fmt.Errorf("failed to analyze: %w", err)
	}

	winner, _ := position.Winner()
	result := minimax.Solve(position)

	line, err := continuation(position, result)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze: %w", err)
	}

	analysis := &Analysis{
		Board:        position.String(),
		Winner:       winner,
		Terminal:     position.IsTerminal(),
		Utility:      position.Utility(),
		LegalMoves:   position.LegalMoves(),
		Outcome:      result.Score,
		Continuation: line,
		Nodes:        result.Nodes,
	}

	if !analysis.Terminal {
		analysis.Turn = position.Turn()
	}

	if result.HasMove {
		analysis.BestMove = &result.Move
	}

	that.logger.Debug("position analyzed", "board", analysis.Board, "outcome", analysis.Outcome, "nodes", analysis.Nodes)

	return analysis, nil
}

// continuation starts from the move Solve already chose, so the root is not
// searched twice; only the subtrees along the line are searched again.
func continuation(position tictactoe.Position, result minimax.Result) ([]tictactoe.Move, error) {
	if !result.HasMove {
		return []tictactoe.Move{}, nil
	}

	next, err := position.Apply(result.Move)
	if err != nil {
		return nil, err
	}

	_, rest := minimax.PlayOut(next)

	return append([]tictactoe.Move{result.Move}, rest...), nil
}
