package searcher

import (
	"sync/atomic"
	"time"
)

type StopReason string

const (
	StopNone      StopReason = ""
	StopRounds    StopReason = "rounds"
	StopTime      StopReason = "time"
	StopCancelled StopReason = "cancelled"
)

type Metrics struct {
	StartTime      time.Time
	Duration       time.Duration
	Rounds         int64
	TerminalLeaves int64 // Rounds whose selection ended on a finished game
	Stop           StopReason
}

type MetricsCollector interface {
	Start()
	AddRound()
	AddTerminalLeaf()
	Stopped(reason StopReason)
	Complete() Metrics
}

type metricsCollector struct {
	startTime      time.Time
	rounds         atomic.Int64
	terminalLeaves atomic.Int64
	stop           atomic.Value
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.rounds.Store(0)
	m.terminalLeaves.Store(0)
	m.stop.Store(StopNone)
}

func (m *metricsCollector) AddRound() {
	m.rounds.Add(1)
}

func (m *metricsCollector) AddTerminalLeaf() {
	m.terminalLeaves.Add(1)
}

func (m *metricsCollector) Stopped(reason StopReason) {
	m.stop.Store(reason)
}

func (m *metricsCollector) Complete() Metrics {
	reason, _ := m.stop.Load().(StopReason)
	return Metrics{
		StartTime:      m.startTime,
		Duration:       time.Since(m.startTime),
		Rounds:         m.rounds.Load(),
		TerminalLeaves: m.terminalLeaves.Load(),
		Stop:           reason,
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                    {}
func (m *noMetricsCollector) AddRound()                 {}
func (m *noMetricsCollector) AddTerminalLeaf()          {}
func (m *noMetricsCollector) Stopped(reason StopReason) {}
func (m *noMetricsCollector) Complete() Metrics         { return Metrics{} }
