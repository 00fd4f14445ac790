// Package experiments runs self-play tournaments between differently
// configured searchers and stores the results as CSV tables.
package experiments

import (
	"connect4/engine"
	"connect4/experiments/metrics"
	"connect4/searcher"
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	NumGames   = 20 // Per match up
	TimeBudget = 10 * time.Millisecond
)

// Strength pairs agents with growing round caps against a time-limited
// baseline.
func Strength(ctx context.Context, root string) error {
	baseline := metrics.AgentConfig{ID: 0, Duration: TimeBudget}
	configs := []metrics.AgentConfig{
		{ID: 1, Rounds: 1_000},
		{ID: 2, Rounds: 10_000},
		{ID: 3, Rounds: 50_000},
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	writer, err := metrics.NewWriter(root, "strength")
	if err != nil {
		return err
	}
	return RunMatchups(ctx, append(configs, baseline), matchUps, NumGames, writer)
}

// RunMatchups plays games per match up, several match ups at a time, and
// writes the configs, games and moves through writer.
func RunMatchups(ctx context.Context, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig, games int, writer *metrics.Writer) error {
	log.Info().Int("matchUps", len(matchUps)).Int("games", games).Msg("starting experiment")

	var mu sync.Mutex
	sessions := make([]engine.Session, len(matchUps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for mi, matchUp := range matchUps {
		g.Go(func() error {
			config1, config2 := matchUp[0], matchUp[1]
			match := engine.NewMatch(
				engine.NewLocalEngine(fmt.Sprintf("agent%d", config1.ID), createMCTS(config1)),
				engine.NewLocalEngine(fmt.Sprintf("agent%d", config2.ID), createMCTS(config2)),
				config1.Duration,
			)
			match.SetBudgets(budget(config1), budget(config2))
			defer match.Close()

			session, err := match.PlayMany(gctx, games)
			if err != nil {
				return fmt.Errorf("match up %d: %w", mi+1, err)
			}

			mu.Lock()
			sessions[mi] = session
			mu.Unlock()
			log.Info().Int("matchUp", mi+1).Int("agent1", config1.ID).Int("agent2", config2.ID).Stringer("session", session).Msg("completed match up")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	for mi, session := range sessions {
		for gi, record := range session.Records {
			id := len(gameRecords) + 1
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         id,
				Agent1:     matchUps[mi][0].ID,
				Agent2:     matchUps[mi][1].ID,
				GameMetric: record,
			})
			for _, move := range session.Moves[gi] {
				moveRecords = append(moveRecords, metrics.MoveRecord{Game: id, MoveMetric: move})
			}
		}
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to store game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to store move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment results")
	return nil
}

// budget is the per-move time budget of config, unbounded when only a round
// cap is given.
func budget(config metrics.AgentConfig) time.Duration {
	if config.Duration <= 0 {
		return searcher.Infinite
	}
	return config.Duration
}

func createMCTS(config metrics.AgentConfig) *searcher.MCTS {
	options := []searcher.Option{searcher.WithMetrics()}

	if config.Rounds > 0 {
		options = append(options, searcher.WithRounds(config.Rounds))
	}
	if config.Seed != 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}
	return searcher.NewMCTS(options...)
}
