package experiments

import (
	"connect4/experiments/metrics"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return len(rows) - 1 // Header
}

func TestRunMatchups(t *testing.T) {
	writer, err := metrics.NewWriter(t.TempDir(), "smoke")
	require.NoError(t, err)

	baseline := metrics.AgentConfig{ID: 0, Rounds: 50, Seed: 1}
	configs := []metrics.AgentConfig{
		{ID: 1, Rounds: 100, Seed: 2},
		{ID: 2, Duration: time.Millisecond, Seed: 3},
	}
	matchUps := [][2]metrics.AgentConfig{
		{baseline, configs[0]},
		{baseline, configs[1]},
	}

	err = RunMatchups(context.Background(), append(configs, baseline), matchUps, 2, writer)
	require.NoError(t, err)

	require.Equal(t, 3, countRows(t, filepath.Join(writer.Dir(), "agent_configs.csv")))
	require.Equal(t, 4, countRows(t, filepath.Join(writer.Dir(), "game_records.csv")))
	require.GreaterOrEqual(t, countRows(t, filepath.Join(writer.Dir(), "move_records.csv")), 4*7)
}

func TestRunMatchupsRejectsOddGames(t *testing.T) {
	writer, err := metrics.NewWriter(t.TempDir(), "odd")
	require.NoError(t, err)

	config := metrics.AgentConfig{ID: 1, Rounds: 10}
	err = RunMatchups(context.Background(), nil, [][2]metrics.AgentConfig{{config, config}}, 1, writer)
	require.Error(t, err)
	require.NoFileExists(t, filepath.Join(writer.Dir(), "game_records.csv"))
}
