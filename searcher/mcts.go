package searcher

import (
	"connect4/game"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"
)

// Infinite is a time budget that only the stop flag can end.
const Infinite time.Duration = math.MaxInt64

type Option func(m *MCTS)

// MCTS holds the search configuration. Each call to Search builds its own
// tree, scratch position, random source and metrics collector, so one MCTS
// may serve concurrent searches.
type MCTS struct {
	rounds        int
	checkInterval int
	seed          uint64
	seeded        bool
	newMetrics    func() MetricsCollector
}

// WithRounds caps the number of rounds per search.
func WithRounds(rounds int) Option {
	return func(m *MCTS) {
		if rounds > 0 {
			m.rounds = rounds
		}
	}
}

func WithCheckInterval(rounds int) Option {
	return func(m *MCTS) {
		if rounds > 0 {
			m.checkInterval = rounds
		}
	}
}

// WithSeed makes rollouts reproducible.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
		m.seeded = true
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.newMetrics = NewMetricsCollector
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		checkInterval: CheckInterval,
		newMetrics:    NewNoMetricsCollector,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Search runs rounds of selection, expansion, simulation and backpropagation
// from start until the round cap is hit, or, checked every check interval,
// the budget has elapsed or stop is set. stop may be nil.
func (m *MCTS) Search(start game.Position, budget time.Duration, stop *atomic.Bool) (game.Move, Metrics, error) {
	if start.IsTerminal() {
		return game.NoMove, Metrics{}, ErrNoLegalMoves
	}

	pos := start
	rng := m.newRand()
	z := NewTree().Zipper()

	metrics := m.newMetrics()
	metrics.Start()
	begin := time.Now()
	for rounds := 1; ; rounds++ {
		round(z, &pos, rounds, rng, metrics)

		if m.rounds > 0 && rounds >= m.rounds {
			metrics.Stopped(StopRounds)
			break
		}
		if rounds%m.checkInterval == 0 {
			if stop != nil && stop.Load() {
				metrics.Stopped(StopCancelled)
				break
			}
			if time.Since(begin) > budget {
				metrics.Stopped(StopTime)
				break
			}
		}
	}

	tree := z.IntoTree()
	tree.FlipRootPerspective()
	return tree.Best(), metrics.Complete(), nil
}

func round(z *Zipper, pos *game.Position, rounds int, rng *rand.Rand, metrics MetricsCollector) {
	z.Select(pos, rounds)
	if pos.IsTerminal() {
		metrics.AddTerminalLeaf()
	}
	z.Expand(pos)
	outcome := simulate(pos, rng)
	z.Backpropagate(pos, outcome)
	metrics.AddRound()
}

func (m *MCTS) newRand() *rand.Rand {
	seed := m.seed
	if !m.seeded {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// simulate plays uniformly random moves until the game ends, then takes them
// all back. The outcome is for the player to move when the rollout began.
func simulate(pos *game.Position, rng *rand.Rand) Outcome {
	player := pos.Turn

	var played [game.Columns * game.Ranks]game.Move
	n := 0
	for !pos.IsTerminal() {
		legal := pos.LegalMoves()
		move := legal.Nth(rng.Intn(legal.Len()))
		pos.Play(move)
		played[n] = move
		n++
	}

	outcome := outcomeFor(pos, player)
	for n > 0 {
		n--
		pos.Unplay(played[n])
	}
	return outcome
}
