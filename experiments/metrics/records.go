package metrics

import "time"

// AgentConfig describes an in-process MCTS agent taking part in an experiment.
type AgentConfig struct {
	ID       int
	Duration time.Duration // Time budget per move
	Rounds   int           // Round cap per move, 0 for none
	Seed     uint64        // Rollout seed, 0 for a time-based one
}

// GameMetric summarises one finished game. Agents are numbered 1 and 2 in the
// order they were given to the match.
type GameMetric struct {
	StartingAgent int // Agent playing yellow
	Winner        int // 0 for a draw
	Forfeit       bool
	Plies         int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}

type MoveMetric struct {
	Ply      int
	Agent    int
	Player   string // Colour
	Column   int
	Duration time.Duration
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID
	Agent2 int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}
