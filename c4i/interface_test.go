package c4i

import (
	"bytes"
	"connect4/game"
	"connect4/searcher"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Split(strings.TrimRight(b.buf.String(), "\n"), "\n")
}

func (b *syncBuffer) Contains(s string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Contains(b.buf.String(), s)
}

// session runs an Interface over a pipe until the returned writer is closed.
func session(t *testing.T, options ...searcher.Option) (io.WriteCloser, *syncBuffer, <-chan error) {
	t.Helper()
	in, w := io.Pipe()
	out := &syncBuffer{}
	iface := NewInterface(NewSearchHandler(searcher.NewMCTS(options...)), out)

	done := make(chan error, 1)
	go func() { done <- iface.Run(in) }()
	return w, out, done
}

func send(t *testing.T, w io.Writer, lines ...string) {
	t.Helper()
	for _, line := range lines {
		_, err := io.WriteString(w, line+"\n")
		require.NoError(t, err)
	}
}

func bestMove(t *testing.T, out *syncBuffer) int {
	t.Helper()
	col := -1
	require.Eventually(t, func() bool {
		for _, line := range out.Lines() {
			if rest, ok := strings.CutPrefix(line, "bestmove "); ok {
				col = int(rest[0] - '0')
				return true
			}
		}
		return false
	}, 5*time.Second, time.Millisecond)
	return col
}

func TestInterfaceHandshake(t *testing.T) {
	w, out, done := session(t)
	send(t, w, "c4i", "", "isready", "exit")
	require.NoError(t, <-done)

	lines := out.Lines()
	require.Equal(t, "id name "+EngineName, lines[0])
	require.Contains(t, lines, "option name turn type string default yellow")
	require.Contains(t, lines, "c4iok")
	require.Equal(t, "readyok", lines[len(lines)-1])
}

func TestInterfaceMalformedCommand(t *testing.T) {
	w, out, done := session(t)
	send(t, w, "frobnicate", "isready")
	require.NoError(t, w.Close())
	require.NoError(t, <-done)

	lines := out.Lines()
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "warn "), lines[0])
	require.Equal(t, "readyok", lines[1])
}

func TestInterfaceGoTime(t *testing.T) {
	w, out, done := session(t)
	send(t, w, "position startpos", "setoption turn yellow", "go time 100000")

	col := bestMove(t, out)
	require.GreaterOrEqual(t, col, 0)
	require.Less(t, col, game.Columns)

	send(t, w, "exit")
	require.NoError(t, <-done)
}

func TestInterfaceStopBeforeResponse(t *testing.T) {
	w, out, done := session(t)
	send(t, w, "position startpos", "go time 100000", "stop")

	col := bestMove(t, out)
	require.GreaterOrEqual(t, col, 0)
	require.Less(t, col, game.Columns)

	send(t, w, "exit")
	require.NoError(t, <-done)
}

func TestInterfaceFindsWin(t *testing.T) {
	w, out, done := session(t, searcher.WithSeed(7))
	send(t, w, "position custom 4210752 2105376", "setoption turn yellow", "go time 20000")

	require.Equal(t, 5, bestMove(t, out))

	send(t, w, "exit")
	require.NoError(t, <-done)
}

func TestInterfaceInvalidPosition(t *testing.T) {
	w, out, done := session(t)
	send(t, w, "position custom 1 1", "position custom 256 0")
	require.NoError(t, w.Close())
	require.NoError(t, <-done)

	lines := out.Lines()
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "warn "+game.ErrOverlap.Error()), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "warn "+game.ErrFloating.Error()), lines[1])
}

func TestInterfaceExitStopsSearch(t *testing.T) {
	w, out, done := session(t)
	send(t, w, "go infinite", "exit")

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("exit did not end an infinite search")
	}
	require.True(t, out.Contains("bestmove "))
}
