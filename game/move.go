package game

import (
	"fmt"
	"math/bits"
	"strconv"
)

// Move is the single cell filled by a placement.
type Move struct {
	bb BitBoard
}

// NoMove is the empty move carried by the root of a search tree.
var NoMove = Move{}

func NewMove(bb BitBoard) Move {
	return Move{bb: bb}
}

func (m Move) BitBoard() BitBoard {
	return m.bb
}

func (m Move) IsEmpty() bool {
	return m.bb == Empty
}

// Column returns the zero-based column of the move, or -1 for NoMove.
func (m Move) Column() int {
	if m.bb == Empty {
		return -1
	}
	return bits.TrailingZeros64(uint64(m.bb)) % Columns
}

func (m Move) String() string {
	if m.bb == Empty {
		return "none"
	}
	return strconv.Itoa(m.Column())
}

// FromColumn returns the move that drops a piece into col.
func FromColumn(pos *Position, col int) (Move, error) {
	if col < 0 || col >= Columns {
		return NoMove, fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	bb := pos.LegalMoves().Column(col)
	if bb == Empty {
		return NoMove, fmt.Errorf("%w: %d", ErrColumnFull, col)
	}
	return Move{bb: bb}, nil
}
