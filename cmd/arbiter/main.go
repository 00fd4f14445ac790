// Arbiter referees games between two c4i engines, or between two in-process
// searchers with -selfplay.
package main

import (
	"connect4/engine"
	"connect4/experiments"
	"connect4/experiments/metrics"
	"connect4/searcher"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	engine1 := flag.String("engine1", "", "path to the first engine binary")
	engine2 := flag.String("engine2", "", "path to the second engine binary")
	games := flag.Int("games", 2, "number of games, must be even")
	moveTime := flag.Duration("movetime", 100*time.Millisecond, "time budget per move")
	out := flag.String("out", "", "directory for CSV results, none if empty")
	selfPlay := flag.Bool("selfplay", false, "play two in-process searchers instead of engine binaries")
	strength := flag.Bool("strength", false, "run the round-cap strength experiment and exit")
	level := flag.String("log-level", "info", "zerolog level (trace, debug, info, warn, error)")
	flag.Parse()

	setupLogging(*level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *strength {
		root := *out
		if root == "" {
			root = "results"
		}
		if err := experiments.Strength(ctx, root); err != nil {
			log.Fatal().Err(err).Msg("strength experiment failed")
		}
		return
	}

	agent1, agent2, err := agents(ctx, *selfPlay, *engine1, *engine2)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up agents")
	}
	match := engine.NewMatch(agent1, agent2, *moveTime)
	defer match.Close()

	log.Info().Str("agent1", agent1.Name()).Str("agent2", agent2.Name()).Int("games", *games).Dur("movetime", *moveTime).Msg("starting match")
	session, err := match.PlayMany(ctx, *games)
	if err != nil {
		log.Error().Err(err).Msg("match aborted")
	}
	fmt.Printf("%s vs %s: %s\n", agent1.Name(), agent2.Name(), session)

	if *out != "" && session.Games > 0 {
		if err := store(*out, session); err != nil {
			log.Error().Err(err).Msg("failed to store results")
		}
	}
}

func agents(ctx context.Context, selfPlay bool, path1, path2 string) (engine.Agent, engine.Agent, error) {
	if selfPlay {
		return engine.NewLocalEngine("local1", searcher.NewMCTS(searcher.WithMetrics())),
			engine.NewLocalEngine("local2", searcher.NewMCTS(searcher.WithMetrics())),
			nil
	}
	if path1 == "" || path2 == "" {
		return nil, nil, errors.New("both -engine1 and -engine2 are required without -selfplay")
	}
	remotes, err := engine.StartRemotes(ctx, path1, path2)
	if err != nil {
		return nil, nil, err
	}
	return remotes[0], remotes[1], nil
}

func store(root string, session engine.Session) error {
	writer, err := metrics.NewWriter(root, "match")
	if err != nil {
		return err
	}

	gameRecords := make([]metrics.GameRecord, 0, len(session.Records))
	moveRecords := []metrics.MoveRecord{}
	for i, record := range session.Records {
		gameRecords = append(gameRecords, metrics.GameRecord{ID: i + 1, Agent1: 1, Agent2: 2, GameMetric: record})
		for _, move := range session.Moves[i] {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: i + 1, MoveMetric: move})
		}
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored match results")
	return nil
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	noColor := !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        colorable.NewColorable(os.Stderr),
		NoColor:    noColor,
		TimeFormat: time.TimeOnly,
	})
}
