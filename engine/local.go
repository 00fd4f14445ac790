package engine

import (
	"connect4/game"
	"connect4/searcher"
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// LocalEngine runs the searcher in the calling goroutine.
type LocalEngine struct {
	name string
	mcts *searcher.MCTS
}

func NewLocalEngine(name string, mcts *searcher.MCTS) *LocalEngine {
	return &LocalEngine{name: name, mcts: mcts}
}

func (e *LocalEngine) Name() string {
	return e.name
}

// FindMove searches for up to budget. Cancelling ctx stops the search at its
// next check and returns ctx's error.
func (e *LocalEngine) FindMove(ctx context.Context, pos game.Position, budget time.Duration) (int, error) {
	var stop atomic.Bool
	release := context.AfterFunc(ctx, func() { stop.Store(true) })
	defer release()

	move, metrics, err := e.mcts.Search(pos, budget, &stop)
	if err != nil {
		return -1, err
	}
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	log.Debug().
		Str("agent", e.name).
		Str("move", move.String()).
		Int64("rounds", metrics.Rounds).
		Dur("duration", metrics.Duration).
		Msg("local search complete")
	return move.Column(), nil
}

func (e *LocalEngine) Close() error {
	return nil
}
