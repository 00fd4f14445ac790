package engine

import (
	"connect4/experiments/metrics"
	"connect4/game"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Match pits two agents against each other with a fixed time budget per move.
// Agents are numbered 1 and 2 in the order given to NewMatch.
type Match struct {
	agents  [2]Agent
	budgets [2]time.Duration
}

// Session tallies a series of games from agent 1's point of view.
type Session struct {
	Games   int
	Wins1   int
	Draws   int
	Wins2   int
	Records []metrics.GameMetric
	Moves   [][]metrics.MoveMetric // Per game, in the order of Records
}

func NewMatch(agent1, agent2 Agent, budget time.Duration) *Match {
	return &Match{
		agents:  [2]Agent{agent1, agent2},
		budgets: [2]time.Duration{budget, budget},
	}
}

// SetBudgets gives each agent its own time budget per move.
func (m *Match) SetBudgets(budget1, budget2 time.Duration) {
	m.budgets = [2]time.Duration{budget1, budget2}
}

// Play runs one game with agent first (1 or 2) playing yellow. An agent that
// names a full or nonexistent column forfeits. An agent error ends the game
// without a result.
func (m *Match) Play(ctx context.Context, first int) (metrics.GameMetric, []metrics.MoveMetric, error) {
	if first != 1 && first != 2 {
		return metrics.GameMetric{}, nil, fmt.Errorf("no agent %d", first)
	}

	var seats [2]int // Agent number per colour
	seats[game.Yellow] = first
	seats[game.Red] = 3 - first

	result := metrics.GameMetric{StartingAgent: first, StartTime: time.Now()}
	moves := []metrics.MoveMetric{}
	pos := game.NewPosition()

	log.Debug().Str("yellow", m.agent(seats[game.Yellow]).Name()).Str("red", m.agent(seats[game.Red]).Name()).Msg("game started")

	for !pos.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return result, moves, err
		}
		seat := seats[pos.Turn]
		agent := m.agent(seat)

		begin := time.Now()
		col, err := agent.FindMove(ctx, pos, m.budgets[seat-1])
		if err != nil {
			return result, moves, fmt.Errorf("agent %s failed to move: %w", agent.Name(), err)
		}
		moves = append(moves, metrics.MoveMetric{
			Ply:      pos.Plies() + 1,
			Agent:    seat,
			Player:   pos.Turn.String(),
			Column:   col,
			Duration: time.Since(begin),
		})

		move, err := game.FromColumn(&pos, col)
		if err != nil {
			log.Warn().Err(err).Str("agent", agent.Name()).Msg("illegal move forfeits the game")
			result.Forfeit = true
			result.Winner = 3 - seat
			break
		}
		pos.Play(move)
	}

	if winner, ok := pos.Winner(); ok && !result.Forfeit {
		result.Winner = seats[winner]
	}
	result.Plies = pos.Plies()
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result, moves, nil
}

// PlayMany plays n games, alternating which agent moves first so that each
// opens n/2 of them.
func (m *Match) PlayMany(ctx context.Context, n int) (Session, error) {
	if n <= 0 || n%2 != 0 {
		return Session{}, ErrOddGames
	}

	s := Session{}
	for i := 0; i < n; i++ {
		first := 1 + i%2
		record, moves, err := m.Play(ctx, first)
		if err != nil {
			return s, fmt.Errorf("game %d of %d: %w", i+1, n, err)
		}
		s.add(record, moves)

		log.Info().
			Int("game", i+1).
			Int("of", n).
			Int("winner", record.Winner).
			Int("plies", record.Plies).
			Bool("forfeit", record.Forfeit).
			Msg("game over")
	}
	return s, nil
}

// Close closes both agents.
func (m *Match) Close() error {
	return errors.Join(m.agents[0].Close(), m.agents[1].Close())
}

func (m *Match) agent(seat int) Agent {
	return m.agents[seat-1]
}

func (s *Session) add(record metrics.GameMetric, moves []metrics.MoveMetric) {
	s.Games++
	switch record.Winner {
	case 1:
		s.Wins1++
	case 2:
		s.Wins2++
	default:
		s.Draws++
	}
	s.Records = append(s.Records, record)
	s.Moves = append(s.Moves, moves)
}

func (s Session) String() string {
	return fmt.Sprintf("%d games: +%d =%d -%d", s.Games, s.Wins1, s.Draws, s.Wins2)
}
