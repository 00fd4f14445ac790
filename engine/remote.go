package engine

import (
	"bufio"
	"connect4/game"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	HandshakeTimeout = 5 * time.Second
	stopGrace        = time.Second
	exitGrace        = 2 * time.Second
)

// RemoteEngine drives an engine over c4i. Lines from the engine are read by a
// background goroutine and consumed by whichever request is waiting.
type RemoteEngine struct {
	name  string
	cmd   *exec.Cmd // nil when not backed by a process
	stdin io.WriteCloser

	lines   chan string
	done    chan struct{}
	readErr error

	closeOnce sync.Once
}

// StartRemote launches the engine binary at path and performs the handshake.
func StartRemote(ctx context.Context, path string) (*RemoteEngine, error) {
	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin of %s: %w", path, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout of %s: %w", path, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", path, err)
	}

	e := newRemote(filepath.Base(path), stdin, stdout)
	e.cmd = cmd

	ctx, cancel := context.WithTimeout(ctx, HandshakeTimeout)
	defer cancel()
	if err := e.Handshake(ctx); err != nil {
		return nil, errors.Join(err, e.Close())
	}
	return e, nil
}

// StartRemotes launches and handshakes every engine concurrently. On failure
// the engines that did start are closed.
func StartRemotes(ctx context.Context, paths ...string) ([]*RemoteEngine, error) {
	engines := make([]*RemoteEngine, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			e, err := StartRemote(gctx, path)
			if err != nil {
				return err
			}
			engines[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, e := range engines {
			if e != nil {
				e.Close()
			}
		}
		return nil, err
	}
	return engines, nil
}

func newRemote(name string, stdin io.WriteCloser, stdout io.Reader) *RemoteEngine {
	e := &RemoteEngine{
		name:  name,
		stdin: stdin,
		lines: make(chan string, 16),
		done:  make(chan struct{}),
	}
	go e.readLoop(stdout)
	return e
}

func (e *RemoteEngine) readLoop(r io.Reader) {
	defer close(e.lines)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case e.lines <- scanner.Text():
		case <-e.done:
			return
		}
	}
	e.readErr = scanner.Err()
}

func (e *RemoteEngine) Name() string {
	return e.name
}

// Handshake announces c4i and waits for c4iok. The engine's advertised name
// replaces the default one.
func (e *RemoteEngine) Handshake(ctx context.Context) error {
	if err := e.send("c4i"); err != nil {
		return err
	}
	for {
		line, err := e.next(ctx)
		if err != nil {
			return fmt.Errorf("handshake with %s failed: %w", e.name, err)
		}
		if name, ok := strings.CutPrefix(line, "id name "); ok {
			e.name = name
		}
		if line == "c4iok" {
			log.Debug().Str("engine", e.name).Msg("handshake complete")
			return nil
		}
	}
}

// FindMove sends the position and a timed go, then waits for bestmove. If ctx
// ends first, or the engine answers with a warning, the engine is told to stop
// and any late answer is discarded.
func (e *RemoteEngine) FindMove(ctx context.Context, pos game.Position, budget time.Duration) (int, error) {
	setup := fmt.Sprintf("position custom %d %d", uint64(pos.Occupancy[game.Red]), uint64(pos.Occupancy[game.Yellow]))
	if pos.IsEmpty() {
		setup = "position startpos"
	}
	err := e.send(
		setup,
		"setoption turn "+pos.Turn.String(),
		"go time "+strconv.FormatInt(budget.Microseconds(), 10),
	)
	if err != nil {
		return -1, err
	}

	answer, err := e.expect(ctx, "bestmove ")
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, ErrBadResponse) {
			e.abandon()
		}
		return -1, err
	}
	col, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return -1, fmt.Errorf("%w from %s: bestmove %s", ErrBadResponse, e.name, answer)
	}
	return col, nil
}

// Close asks the engine to exit and reaps the process, killing it if it does
// not go in time.
func (e *RemoteEngine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		_ = e.send("exit")
		err = e.stdin.Close()
		close(e.done)
		if e.cmd == nil {
			return
		}

		exited := make(chan error, 1)
		go func() { exited <- e.cmd.Wait() }()
		select {
		case waitErr := <-exited:
			err = errors.Join(err, waitErr)
		case <-time.After(exitGrace):
			log.Warn().Str("engine", e.name).Msg("engine ignored exit, killing it")
			_ = e.cmd.Process.Kill()
			<-exited
		}
	})
	return err
}

// abandon stops an unanswered search and drains its bestmove so the next
// request does not read it. An engine that refused the search sends none and
// is given up on after stopGrace.
func (e *RemoteEngine) abandon() {
	if err := e.send("stop"); err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopGrace)
	defer cancel()
	for {
		_, err := e.expect(ctx, "bestmove ")
		if err == nil {
			return
		}
		if !errors.Is(err, ErrBadResponse) {
			log.Debug().Err(err).Str("engine", e.name).Msg("no bestmove after stop")
			return
		}
	}
}

func (e *RemoteEngine) expect(ctx context.Context, prefix string) (string, error) {
	for {
		line, err := e.next(ctx)
		if err != nil {
			return "", err
		}
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return rest, nil
		}
		if warning, ok := strings.CutPrefix(line, "warn "); ok {
			log.Warn().Str("engine", e.name).Msg(warning)
			return "", fmt.Errorf("%w from %s: warn %s", ErrBadResponse, e.name, warning)
		}
		log.Trace().Str("engine", e.name).Str("line", line).Msg("ignored engine output")
	}
}

func (e *RemoteEngine) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-e.lines:
		if !ok {
			if e.readErr != nil {
				return "", fmt.Errorf("%w: %s: %w", ErrEngineExited, e.name, e.readErr)
			}
			return "", fmt.Errorf("%w: %s", ErrEngineExited, e.name)
		}
		return line, nil
	}
}

func (e *RemoteEngine) send(lines ...string) error {
	for _, line := range lines {
		if _, err := io.WriteString(e.stdin, line+"\n"); err != nil {
			return fmt.Errorf("failed to write to %s: %w", e.name, err)
		}
	}
	return nil
}
