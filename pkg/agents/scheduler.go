package agents

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rumeelabs/braingraph/pkg/metrics"
	"github.com/rumeelabs/braingraph/pkg/trace"
)

// DefaultBackoff is the pause after a failed cycle before the agent's
// regular interval resumes.
const DefaultBackoff = 5 * time.Second

// Scheduler drives a roster of agents, one goroutine each. Agents share the
// Deps but fail independently: an error or panic in one cycle is logged,
// recorded and followed by a backoff, nothing more.
type Scheduler struct {
	agents  []Agent
	deps    Deps
	backoff time.Duration
	log     *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler for the given roster. Nil Metrics, Trace
// and Log deps are replaced with no-ops.
func NewScheduler(deps Deps, roster ...Agent) *Scheduler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNoopCollector()
	}
	if deps.Trace == nil {
		deps.Trace = &trace.NoopExporter{}
	}
	return &Scheduler{
		agents:  roster,
		deps:    deps,
		backoff: DefaultBackoff,
		log:     deps.Log.Named("scheduler"),
	}
}

// Start launches every agent loop. Calling Start on a running scheduler is
// a no-op. The provided context bounds the whole run; cancelling it has the
// same effect as Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, a := range s.agents {
		s.wg.Add(1)
		go s.runAgent(runCtx, a)
	}
	s.log.Info("scheduler started", zap.Int("agents", len(s.agents)))
}

// Stop cancels all agent loops and waits for them to finish their current
// cycle. In-flight AI calls are not interrupted beyond context
// cancellation; results arriving after cancellation are discarded before
// commit by the agents themselves.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) runAgent(ctx context.Context, a Agent) {
	defer s.wg.Done()

	log := s.log.Named(a.Name())
	timer := time.NewTimer(a.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		start := time.Now()
		err := s.runCycle(ctx, a)
		elapsed := time.Since(start)

		status := "success"
		errType := ""
		if err != nil {
			status = "error"
			errType = "agent"
			log.Warn("cycle failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		} else {
			log.Debug("cycle complete", zap.Duration("elapsed", elapsed))
		}
		s.deps.Metrics.RecordAgentCycle(ctx, a.Name(), status, elapsed.Milliseconds())
		s.deps.Trace.Export(ctx, &trace.Record{
			Timestamp:   start,
			OperationID: uuid.NewString(),
			Operation:   "agent_cycle",
			Agent:       a.Name(),
			DurationMs:  elapsed.Milliseconds(),
			Status:      status,
			ErrorType:   errType,
		})

		// A failed cycle retries after the backoff, replacing the
		// regular interval rather than adding to it.
		next := a.Interval()
		if err != nil {
			next = s.backoff
		}
		timer.Reset(next)
	}
}

// runCycle converts an agent panic into an error so one bad cycle cannot
// kill the loop.
func (s *Scheduler) runCycle(ctx context.Context, a Agent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent %s panicked: %v", a.Name(), r)
		}
	}()
	return a.Process(ctx, s.deps)
}
