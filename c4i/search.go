package c4i

import (
	"connect4/game"
	"connect4/searcher"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrSearchInProgress = errors.New("search already in progress")
	ErrNoSearch         = errors.New("no search has been started")
)

type job struct {
	done chan struct{}
	move game.Move
	err  error
}

// SearchHandler runs at most one search at a time on a background goroutine.
// The caller and the worker share only the two flags and the job's done
// channel; the position and tree live inside the worker.
type SearchHandler struct {
	mcts       *searcher.MCTS
	shouldStop atomic.Bool
	searching  atomic.Bool

	mu      sync.Mutex
	current *job
}

func NewSearchHandler(mcts *searcher.MCTS) *SearchHandler {
	return &SearchHandler{mcts: mcts}
}

// Search starts searching pos for up to budget. onDone, if not nil, is called
// on the worker goroutine with the result, after IsSearching reports false.
// A request made while a search is running is refused with
// ErrSearchInProgress.
func (h *SearchHandler) Search(pos game.Position, budget time.Duration, onDone func(game.Move, error)) error {
	if pos.IsTerminal() {
		return searcher.ErrNoLegalMoves
	}
	if !h.searching.CompareAndSwap(false, true) {
		log.Warn().Msg("refusing search request: search already in progress")
		return ErrSearchInProgress
	}
	h.shouldStop.Store(false)

	j := &job{done: make(chan struct{})}
	h.mu.Lock()
	h.current = j
	h.mu.Unlock()

	log.Debug().Dur("budget", budget).Int("plies", pos.Plies()).Str("turn", pos.Turn.String()).Msg("search started")

	go func() {
		defer close(j.done)

		move, metrics, err := h.mcts.Search(pos, budget, &h.shouldStop)
		j.move, j.err = move, err
		h.searching.Store(false)

		if err != nil {
			log.Error().Err(err).Msg("search failed")
		} else {
			log.Info().
				Str("move", move.String()).
				Int64("rounds", metrics.Rounds).
				Int64("terminalLeaves", metrics.TerminalLeaves).
				Dur("duration", metrics.Duration).
				Str("stop", string(metrics.Stop)).
				Msg("search complete")
		}

		if onDone != nil {
			onDone(move, err)
		}
	}()
	return nil
}

// StopSearch asks the running search to finish. It does not wait; the worker
// notices the request at its next round check.
func (h *SearchHandler) StopSearch() {
	h.shouldStop.Store(true)
}

func (h *SearchHandler) IsSearching() bool {
	return h.searching.Load()
}

// Wait blocks until the latest search has finished and returns its move.
func (h *SearchHandler) Wait() (game.Move, error) {
	h.mu.Lock()
	j := h.current
	h.mu.Unlock()

	if j == nil {
		return game.NoMove, ErrNoSearch
	}
	<-j.done
	return j.move, j.err
}
