// Package minimax solves tic-tac-toe positions by exhaustive adversarial search.
//
// X maximizes and O minimizes the utility of the terminal positions. The whole
// game tree is explored: no pruning, caching or depth limit is applied, the
// tree below the empty board has fewer than 9! leaves.
package minimax

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-solver/internal/tictactoe"
)

// Result is the outcome of a search from one position.
type Result struct {
	// Score is the value of the position assuming optimal play from both sides.
	Score int
	// Move is the optimal move for the player to move. Valid only if HasMove.
	Move    tictactoe.Move
	HasMove bool
	// Nodes counts the positions visited, the root included.
	Nodes int
}

// BestMove returns the optimal move for the player to move, or false if the
// game is already over. Among equally good moves the first one in row-major
// order is returned.
func BestMove(position tictactoe.Position) (tictactoe.Move, bool) {
	result := Solve(position)
	return result.Move, result.HasMove
}

// Value returns the game-theoretic value of the position from X's point of view.
func Value(position tictactoe.Position) int {
	return Solve(position).Score
}

// Solve searches the full game tree below position.
func Solve(position tictactoe.Position) Result {
	var nodes int

	score, move, ok := search(position, &nodes)

	return Result{
		Score:   score,
		Move:    move,
		HasMove: ok,
		Nodes:   nodes,
	}
}

// PlayOut plays optimal moves for both sides until the game ends and returns
// the final position along with the moves played.
func PlayOut(position tictactoe.Position) (tictactoe.Position, []tictactoe.Move) {
	var line []tictactoe.Move

	for {
		move, ok := BestMove(position)
		if !ok {
			return position, line
		}

		// a move returned by the search is always legal
		next, err := position.Apply(move)
		if err != nil {
			panic(err)
		}

		position = next
		line = append(line, move)
	}
}

func search(position tictactoe.Position, nodes *int) (int, tictactoe.Move, bool) {
	*nodes++

	if position.IsTerminal() {
		return position.Utility(), tictactoe.Move{}, false
	}

	maximizing := position.Turn() == tictactoe.PlayerX

	bestScore := math.MaxInt
	if maximizing {
		bestScore = math.MinInt
	}

	var bestMove tictactoe.Move

	for _, move := range position.LegalMoves() {
		child, err := position.Apply(move)
		if err != nil {
			panic(err)
		}

		score, _, _ := search(child, nodes)

		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestScore = score
			bestMove = move
		}
	}

	return bestScore, bestMove, true
}
