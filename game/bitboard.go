package game

import (
	"fmt"
	"math/bits"
)

// BitBoard holds one bit per cell. Bit i is rank i/8, column i%8, with rank 0
// at the bottom of the grid.
type BitBoard uint64

const (
	Empty BitBoard = 0
	Full  BitBoard = ^BitBoard(0)

	FileA     BitBoard = 0x0101010101010101
	FileH     BitBoard = 0x8080808080808080
	NotFileA  BitBoard = ^FileA
	NotFileH  BitBoard = ^FileH
	FirstRank BitBoard = 0xff
)

// Idx returns a board with only bit idx set.
func Idx(idx int) BitBoard {
	return BitBoard(1) << idx
}

func (b BitBoard) Len() int {
	return bits.OnesCount64(uint64(b))
}

func (b BitBoard) IsEmpty() bool {
	return b == Empty
}

func (b BitBoard) IsFull() bool {
	return b == Full
}

// Column returns the bits of b that lie in column col.
func (b BitBoard) Column(col int) BitBoard {
	return b & (FileA << col)
}

// Moves splits b into single-bit moves, lowest bit first.
func (b BitBoard) Moves() []Move {
	moves := make([]Move, 0, Columns)
	for b != Empty {
		moves = append(moves, Move{bb: b & -b})
		b &= b - 1
	}
	return moves
}

// Nth returns the n-th lowest set bit of b as a move. It is the allocation
// free form of b.Moves()[n] used on the rollout path.
func (b BitBoard) Nth(n int) Move {
	for range n {
		b &= b - 1
	}
	if b == Empty {
		panic(fmt.Sprintf("bitboard has fewer than %d moves", n+1))
	}
	return Move{bb: b & -b}
}

func (b BitBoard) String() string {
	return fmt.Sprintf("%#x", uint64(b))
}

// Each scan ANDs the board with itself shifted one step in a direction, three
// times. A bit survives only at the end of four consecutive set bits. The file
// masks drop bits that wrapped around the edge of a rank.

func horizontal(b BitBoard) BitBoard {
	tmp := b
	for range 3 {
		tmp &= (tmp << 1) & NotFileA
	}
	return tmp
}

func vertical(b BitBoard) BitBoard {
	tmp := b
	for range 3 {
		tmp &= tmp << Columns
	}
	return tmp
}

// diagonal runs from the bottom-left to the top-right (a1-h8).
func diagonal(b BitBoard) BitBoard {
	tmp := b
	for range 3 {
		tmp &= (tmp << (Columns + 1)) & NotFileA
	}
	return tmp
}

// antiDiagonal runs from the bottom-right to the top-left (h1-a8).
func antiDiagonal(b BitBoard) BitBoard {
	tmp := b
	for range 3 {
		tmp &= (tmp << (Columns - 1)) & NotFileH
	}
	return tmp
}

// HasFour reports whether b contains four in a row in any direction.
func HasFour(b BitBoard) bool {
	return horizontal(b)|vertical(b)|diagonal(b)|antiDiagonal(b) != Empty
}
