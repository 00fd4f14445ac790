// Package engine referees Connect-4 games between agents, either in-process
// searchers or engine binaries spoken to over c4i.
package engine

import (
	"connect4/game"
	"context"
	"errors"
	"time"
)

var (
	ErrOddGames     = errors.New("number of games must be even and positive")
	ErrEngineExited = errors.New("engine closed its output")
	ErrBadResponse  = errors.New("malformed engine response")
)

// Agent chooses a column for the side to move in pos.
type Agent interface {
	Name() string
	FindMove(ctx context.Context, pos game.Position, budget time.Duration) (int, error)
	Close() error
}
