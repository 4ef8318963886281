package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

const Size = 3

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

var (
	ErrOutOfRange   = errors.New("cell is out of range")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrUnknownMark  = errors.New("unknown mark")

	// WinLines holds every row, column and diagonal as (row, col) triples.
	WinLines = [8][3]Move{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
)

// Mark is the content of a cell. A player is identified by its non-empty mark.
type Mark string

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Move is a zero-based (row, col) pair.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// InRange reports whether the move addresses a cell of the board.
func (that Move) InRange() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

// Position is an immutable snapshot of the board. Being an array it is copied
// on assignment, so a derived position never aliases its parent.
type Position [Size][Size]Mark

// Initial returns the empty board.
func Initial() Position {
	return Position{}
}

// Turn returns the player to move, derived from the marks on the board.
func (that Position) Turn() Mark {
	x, o := that.count()
	if x > o {
		return PlayerO
	}
	return PlayerX
}

// LegalMoves returns every empty cell in row-major order.
func (that Position) LegalMoves() []Move {
	moves := make([]Move, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if that[row][col] == EmptyCell {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Apply returns a new position with the mark of the player to move placed at move.
func (that Position) Apply(move Move) (Position, error) {
	if !move.InRange() {
		return that, fmt.Errorf("%w: %w %s", apperror.ErrInvalidMove, ErrOutOfRange, move)
	}

	if that[move.Row][move.Col] != EmptyCell {
		return that, fmt.Errorf("%w: %w %s", apperror.ErrInvalidMove, ErrCellOccupied, move)
	}

	next := that
	next[move.Row][move.Col] = that.Turn()

	return next, nil
}

// Winner returns the player holding a full line, if any.
func (that Position) Winner() (Mark, bool) {
	for _, line := range WinLines {
		a := that.at(line[0])
		if a != EmptyCell && a == that.at(line[1]) && a == that.at(line[2]) {
			return a, true
		}
	}

	return EmptyCell, false
}

// IsTerminal reports whether the game is over by a win or a full board.
func (that Position) IsTerminal() bool {
	if _, ok := that.Winner(); ok {
		return true
	}

	return that.isFull()
}

// Utility scores the position from X's point of view: +1 X won, -1 O won, 0 otherwise.
func (that Position) Utility() int {
	winner, _ := that.Winner()

	switch winner {
	case PlayerX:
		return 1
	case PlayerO:
		return -1
	default:
		return 0
	}
}

// Validate checks a position received from outside the package: only known
// marks, a mark count reachable by alternating play and at most one winner.
func (that Position) Validate() error {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			switch that[row][col] {
			case EmptyCell, PlayerX, PlayerO:
			default:
				return fmt.Errorf("%w: %w %q at (%d, %d)", apperror.ErrInvalidPosition, ErrUnknownMark, that[row][col], row, col)
			}
		}
	}

	x, o := that.count()
	if x-o != 0 && x-o != 1 {
		return fmt.Errorf("%w: X has %d marks, O has %d", apperror.ErrInvalidPosition, x, o)
	}

	var xWins, oWins bool
	for _, line := range WinLines {
		a := that.at(line[0])
		if a != EmptyCell && a == that.at(line[1]) && a == that.at(line[2]) {
			xWins = xWins || a == PlayerX
			oWins = oWins || a == PlayerO
		}
	}

	switch {
	case xWins && oWins:
		return fmt.Errorf("%w: both players have a line", apperror.ErrInvalidPosition)
	case xWins && x == o:
		return fmt.Errorf("%w: O moved after X won", apperror.ErrInvalidPosition)
	case oWins && x > o:
		return fmt.Errorf("%w: X moved after O won", apperror.ErrInvalidPosition)
	}

	return nil
}

func (that Position) at(move Move) Mark {
	return that[move.Row][move.Col]
}

func (that Position) count() (int, int) {
	var x, o int
	for _, row := range that {
		for _, cell := range row {
			switch cell {
			case PlayerX:
				x++
			case PlayerO:
				o++
			}
		}
	}

	return x, o
}

// isFull reports whether no empty cell remains.
func (that Position) isFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}
