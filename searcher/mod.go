// Package searcher implements Monte Carlo Tree Search over a game.Position.
//
// The tree is walked with a Zipper: the cursor owns the focused node and keeps
// the ancestors, each with the focused child detached, on a path stack. One
// scratch position is threaded through every round and is restored to the
// starting position when the round's backpropagation reaches the root.
package searcher

import (
	"connect4/game"
	"errors"
	"fmt"
)

var ErrNoLegalMoves = errors.New("no legal moves in position")

// Outcome is the result of a game, seen by the player to move when the
// outcome was produced.
type Outcome int

const (
	Won Outcome = iota
	Lost
	Drawn
)

// Negate returns the same result seen by the opponent.
func (o Outcome) Negate() Outcome {
	switch o {
	case Won:
		return Lost
	case Lost:
		return Won
	default:
		return Drawn
	}
}

func (o Outcome) Reward() float64 {
	switch o {
	case Won:
		return WIN
	case Lost:
		return LOSS
	default:
		return DRAW
	}
}

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Drawn:
		return "drawn"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// outcomeFor scores a terminal position for player.
func outcomeFor(pos *game.Position, player game.Player) Outcome {
	winner, ok := pos.Winner()
	switch {
	case !ok:
		return Drawn
	case winner == player:
		return Won
	default:
		return Lost
	}
}
