package tictactoe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrBadNotation = errors.New("bad board notation")

// ParsePosition reads the compact row-major notation, e.g. "XOX/OXO/...".
// Marks are case-insensitive ('x', 'o' read as X, O); '.', '-', '_' and ' '
// denote empty cells; '/' and line breaks are ignored.
func ParsePosition(notation string) (Position, error) {
	var (
		position Position
		cell     int
	)

	for _, r := range notation {
		var mark Mark

		switch r {
		case '/', '\n', '\r':
			continue
		case 'X', 'x':
			mark = PlayerX
		case 'O', 'o':
			mark = PlayerO
		case '.', '-', '_', ' ':
			mark = EmptyCell
		default:
			return Position{}, fmt.Errorf("%w: unexpected %q", ErrBadNotation, r)
		}

		if cell >= Size*Size {
			return Position{}, fmt.Errorf("%w: more than %d cells", ErrBadNotation, Size*Size)
		}

		position[cell/Size][cell%Size] = mark
		cell++
	}

	if cell != Size*Size {
		return Position{}, fmt.Errorf("%w: got %d cells, want %d", ErrBadNotation, cell, Size*Size)
	}

	return position, nil
}

// String renders the position in the notation accepted by ParsePosition.
func (that Position) String() string {
	var sb strings.Builder

	for row := 0; row < Size; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}

		for col := 0; col < Size; col++ {
			if that[row][col] == EmptyCell {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(that[row][col]))
		}
	}

	return sb.String()
}

// UnmarshalJSON accepts only "", "X" and "O".
func (that *Mark) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal mark: %w", err)
	}

	switch mark := Mark(raw); mark {
	case PlayerX, PlayerO, EmptyCell:
		*that = mark
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMark, raw)
	}
}
