package agent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"moltbot/internal/core/domain"
	"moltbot/internal/core/ports"
)

// Config carries the orchestrator's tunables.
type Config struct {
	// Interval is the sleep between cycles. The effective period is
	// interval plus however long the cycle itself took.
	Interval time.Duration
	// FetchLimit is how many recent posts to pull each cycle.
	FetchLimit int
	// ThreadLimit is how many active discussions to expand with their
	// comments before deciding.
	ThreadLimit int
}

// Agent drives the fetch -> decide -> act -> report loop against one
// platform. Everything runs on a single goroutine; the only suspension
// points are network calls and the inter-cycle sleep.
type Agent struct {
	platform ports.Platform
	brain    ports.Brain
	notifier ports.Notifier
	memory   *Memory
	log      *zap.SugaredLogger

	interval    time.Duration
	fetchLimit  int
	threadLimit int
}

func New(platform ports.Platform, brain ports.Brain, notifier ports.Notifier, cfg Config, logger *zap.SugaredLogger) *Agent {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 50
	}
	if cfg.ThreadLimit <= 0 {
		cfg.ThreadLimit = 3
	}
	if logger == nil {
		logger = zap.S()
	}

	return &Agent{
		platform:    platform,
		brain:       brain,
		notifier:    notifier,
		memory:      NewMemory(),
		log:         logger.With("platform", platform.Name()),
		interval:    cfg.Interval,
		fetchLimit:  cfg.FetchLimit,
		threadLimit: cfg.ThreadLimit,
	}
}

// Memory exposes the agent's in-memory state, mainly for tests.
func (a *Agent) Memory() *Memory { return a.memory }

// Run loops cycles until the context is cancelled. One cycle's failure
// never stops the loop; only cancellation does.
func (a *Agent) Run(ctx context.Context) error {
	for {
		report := a.RunCycle(ctx)
		cyclesCounter.Inc()
		a.log.Infow("cycle complete",
			"cycle", report.Cycle,
			"actions", len(report.Results),
			"succeeded", report.Counted(domain.OutcomeSucceeded),
			"failed", report.Counted(domain.OutcomeFailed),
			"skipped", report.Counted(domain.OutcomeSkipped),
		)

		select {
		case <-time.After(a.interval):
		case <-ctx.Done():
			a.log.Infow("shutting down", "reason", ctx.Err())
			return nil
		}
	}
}
