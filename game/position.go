package game

import (
	"fmt"
	"strings"
)

// Position is the occupancy of both players and the side to move. It is
// mutated in place by Play and Unplay, which are exact inverses.
type Position struct {
	Occupancy [2]BitBoard // indexed by Player
	Turn      Player
}

// NewPosition returns the empty grid with Yellow to move.
func NewPosition() Position {
	return Position{Turn: Yellow}
}

// NewCustomPosition builds a position from the raw occupancy masks used by
// the c4i protocol.
func NewCustomPosition(red, yellow BitBoard, turn Player) Position {
	var pos Position
	pos.Occupancy[Red] = red
	pos.Occupancy[Yellow] = yellow
	pos.Turn = turn
	return pos
}

func (p *Position) All() BitBoard {
	return p.Occupancy[Yellow] | p.Occupancy[Red]
}

// Winner returns the player holding four in a row. Yellow is checked first.
func (p *Position) Winner() (Player, bool) {
	if HasFour(p.Occupancy[Yellow]) {
		return Yellow, true
	}
	if HasFour(p.Occupancy[Red]) {
		return Red, true
	}
	return 0, false
}

// LegalMoves returns one bit per non-full column, at its lowest empty cell.
func (p *Position) LegalMoves() BitBoard {
	all := p.All()
	return ((all << Columns) | FirstRank) ^ all
}

func (p *Position) IsTerminal() bool {
	if _, ok := p.Winner(); ok {
		return true
	}
	return p.All().IsFull()
}

// Play places mv for the side to move. mv must come from LegalMoves.
func (p *Position) Play(mv Move) {
	p.Occupancy[p.Turn] |= mv.bb
	p.Turn = p.Turn.Other()
}

// Unplay takes back mv, the last move played.
func (p *Position) Unplay(mv Move) {
	p.Turn = p.Turn.Other()
	p.Occupancy[p.Turn] ^= mv.bb
}

func (p *Position) IsEmpty() bool {
	return p.All() == Empty
}

// Plies returns the number of pieces on the grid.
func (p *Position) Plies() int {
	return p.All().Len()
}

// Validate checks that the players never share a cell and that every piece
// rests on the bottom rank or on another piece.
func (p *Position) Validate() error {
	if overlap := p.Occupancy[Yellow] & p.Occupancy[Red]; overlap != Empty {
		return fmt.Errorf("%w: %v", ErrOverlap, overlap)
	}
	all := p.All()
	if floating := all &^ ((all << Columns) | FirstRank); floating != Empty {
		return fmt.Errorf("%w: %v", ErrFloating, floating)
	}
	return nil
}

func (p *Position) String() string {
	var sb strings.Builder
	for rank := Ranks - 1; rank >= 0; rank-- {
		for col := range Columns {
			cell := Idx(rank*Columns + col)
			switch {
			case p.Occupancy[Yellow]&cell != Empty:
				sb.WriteByte('Y')
			case p.Occupancy[Red]&cell != Empty:
				sb.WriteByte('R')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "turn: %s\n", p.Turn)
	return sb.String()
}
