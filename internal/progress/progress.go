// Package progress reports count/total updates for the load and compose
// phases. Reporters are observational only.
package progress

import (
	"log/slog"
	"time"
)

// Phase names a stage of a run.
type Phase string

const (
	Load    Phase = "load"
	Compose Phase = "compose"
)

// Reporter receives progress updates. Step may be called from several
// goroutines at once.
type Reporter interface {
	Start(phase Phase, total int)
	Step(phase Phase, done, total int)
	Finish(phase Phase)
}

// Nop discards all updates.
type Nop struct{}

func (Nop) Start(Phase, int)     {}
func (Nop) Step(Phase, int, int) {}
func (Nop) Finish(Phase)         {}

// Log reports through a slog.Logger: phase boundaries at info, steps at debug.
type Log struct {
	logger  *slog.Logger
	started map[Phase]time.Time
}

// NewLog returns a Reporter writing to logger.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger, started: make(map[Phase]time.Time)}
}

// Start and Finish are called from the orchestrating goroutine only.
func (l *Log) Start(phase Phase, total int) {
	l.started[phase] = time.Now()
	l.logger.Info("Phase started.", "phase", phase, "total", total)
}

func (l *Log) Step(phase Phase, done, total int) {
	l.logger.Debug("Progress.", "phase", phase, "done", done, "total", total)
}

func (l *Log) Finish(phase Phase) {
	l.logger.Info("Phase finished.", "phase", phase, "elapsed", time.Since(l.started[phase]))
}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return Nop{}
	}
	return r
}
