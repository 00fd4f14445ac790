// Package game implements a Connect-4 position on bitboards: one 64-bit
// occupancy mask per player over an 8x8 grid, with move generation and win
// detection done by shifting and masking whole boards at once.
package game

import "errors"

const (
	Columns = 8
	Ranks   = 8
)

var (
	ErrInvalidColumn = errors.New("column out of range")
	ErrColumnFull    = errors.New("column is full")
	ErrOverlap       = errors.New("players share an occupied cell")
	ErrFloating      = errors.New("piece without support below it")
)
