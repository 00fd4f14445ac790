package main

import (
	"connect4/c4i"
	"connect4/searcher"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// The engine speaks c4i on stdin and stdout. Logs go to stderr.
func main() {
	level := flag.String("log-level", "info", "zerolog level (trace, debug, info, warn, error)")
	seed := flag.Uint64("seed", 0, "rollout seed, 0 for a time-based one")
	rounds := flag.Int("rounds", 0, "round cap per search, 0 for none")
	flag.Parse()

	setupLogging(*level)

	options := []searcher.Option{searcher.WithMetrics()}
	if *seed != 0 {
		options = append(options, searcher.WithSeed(*seed))
	}
	if *rounds > 0 {
		options = append(options, searcher.WithRounds(*rounds))
	}

	handler := c4i.NewSearchHandler(searcher.NewMCTS(options...))
	if err := c4i.NewInterface(handler, os.Stdout).Run(os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("c4i session failed")
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
}
