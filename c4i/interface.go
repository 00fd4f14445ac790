package c4i

import (
	"bufio"
	"connect4/game"
	"connect4/searcher"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	EngineName   = "connect4-mcts 0.1.0"
	EngineAuthor = "connect4 authors"
)

// Interface executes c4i commands against a SearchHandler and writes the
// responses. Search results arrive from the worker goroutine, so every write
// goes through send.
type Interface struct {
	handler  *SearchHandler
	position game.Position

	mu  sync.Mutex
	out io.Writer
}

func NewInterface(handler *SearchHandler, out io.Writer) *Interface {
	return &Interface{
		handler:  handler,
		position: game.NewPosition(),
		out:      out,
	}
}

// Run reads commands until exit or end of input. Malformed lines are answered
// with a warning and skipped. Any active search is stopped and joined before
// Run returns.
func (c *Interface) Run(in io.Reader) error {
	defer c.shutdown()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			log.Debug().Err(err).Str("line", line).Msg("malformed command")
			if err := c.send("warn " + err.Error()); err != nil {
				return err
			}
			continue
		}

		exit, err := c.Execute(cmd)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read command: %w", err)
	}
	return nil
}

// Execute applies one command. The returned error is an output failure;
// refused operations are reported on the stream as warnings.
func (c *Interface) Execute(cmd Command) (exit bool, err error) {
	switch cmd.Type {
	case C4I:
		return false, c.send(
			"id name "+EngineName,
			"id author "+EngineAuthor,
			"",
			"option name turn type string default yellow",
			"c4iok",
		)
	case IsReady:
		return false, c.send("readyok")
	case Exit:
		return true, nil
	case Stop:
		c.handler.StopSearch()
	case StartPosition:
		c.position = game.NewPosition()
	case CustomPosition:
		pos := game.NewCustomPosition(cmd.Red, cmd.Yellow, c.position.Turn)
		if err := pos.Validate(); err != nil {
			return false, c.send("warn " + err.Error())
		}
		c.position = pos
	case SetTurn:
		c.position.Turn = cmd.Turn
	case GoInfinite:
		return false, c.search(searcher.Infinite)
	case GoTime:
		return false, c.search(cmd.Budget)
	}
	return false, nil
}

func (c *Interface) search(budget time.Duration) error {
	err := c.handler.Search(c.position, budget, func(move game.Move, err error) {
		if err != nil {
			return
		}
		if err := c.send("bestmove " + move.String()); err != nil {
			log.Error().Err(err).Msg("failed to send best move")
		}
	})
	if err != nil {
		return c.send("warn " + err.Error())
	}
	return nil
}

func (c *Interface) shutdown() {
	c.handler.StopSearch()
	if _, err := c.handler.Wait(); err == nil {
		log.Debug().Msg("search joined on shutdown")
	}
}

func (c *Interface) send(lines ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range lines {
		if _, err := fmt.Fprintln(c.out, line); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	return nil
}
