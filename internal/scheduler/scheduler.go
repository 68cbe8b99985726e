package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/pista-scheduler/internal/appointlet"
	"github.com/example/pista-scheduler/internal/clock"
	"github.com/example/pista-scheduler/internal/court"
	"github.com/example/pista-scheduler/internal/jobs"
)

// Executor performs the single booking attempt for a due job.
type Executor interface {
	Execute(ctx context.Context, ct court.Court, start time.Time) (appointlet.Record, error)
}

// Scheduler arms one wall-clock timer per held job and fires each job
// exactly once. Per-job lifecycle: Pending (timer armed) -> Firing
// (attempt in flight) -> Removed. User cancellation and post-attempt
// cleanup share the same removal path; there is no separate cancelled
// state and a job is never re-armed.
type Scheduler struct {
	Jobs  *jobs.Store
	Exec  Executor
	Clock clock.Clock
	Log   *zap.Logger

	mu      sync.Mutex
	baseCtx context.Context
	timers  map[string]*time.Timer
	firing  map[string]struct{}
}

func New(js *jobs.Store, exec Executor, clk clock.Clock, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Jobs:    js,
		Exec:    exec,
		Clock:   clk,
		Log:     log,
		baseCtx: context.Background(),
		timers:  make(map[string]*time.Timer),
		firing:  make(map[string]struct{}),
	}
}

// Start arms timers for every job already held (re-arming after a
// restart) and keeps ctx as the base context for fires.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	return s.Reload(ctx)
}

// Reload reconciles armed timers with the job store: timers whose job is
// gone are stopped, held jobs without a timer get one. The delay is
// clamped to zero, so a job whose fire time already passed (the process
// was down, or the clock skewed) still executes promptly instead of
// being dropped.
func (s *Scheduler) Reload(ctx context.Context) error {
	list, err := s.Jobs.List(ctx)
	if err != nil {
		return err
	}

	held := make(map[string]struct{}, len(list))
	for _, j := range list {
		held[j.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		if _, ok := held[id]; !ok {
			t.Stop()
			delete(s.timers, id)
		}
	}

	now := s.Clock.Now()
	for _, j := range list {
		if _, ok := s.timers[j.ID]; ok {
			continue
		}
		if _, ok := s.firing[j.ID]; ok {
			continue
		}
		delay := j.FireAt.Sub(now)
		if delay < 0 {
			delay = 0
		}
		j := j
		s.timers[j.ID] = time.AfterFunc(delay, func() { s.fire(j) })
		s.Log.Info("job armed",
			zap.String("job_id", j.ID),
			zap.String("court", j.Court),
			zap.Time("fire_at", j.FireAt),
			zap.Duration("delay", delay))
	}
	return nil
}

// Cancel stops the job's timer, if armed, and removes the job. The timer
// will not fire afterwards. Cancelling an unknown id is a no-op.
func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()
	return s.Jobs.Remove(ctx, id)
}

// Stop disarms every pending timer. In-flight attempts finish on their
// own; their jobs are still removed afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Armed reports how many timers are currently pending.
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) fire(j jobs.Job) {
	s.mu.Lock()
	if _, ok := s.timers[j.ID]; !ok {
		// cancelled between the timer firing and this goroutine running
		s.mu.Unlock()
		return
	}
	delete(s.timers, j.ID)
	s.firing[j.ID] = struct{}{}
	ctx := s.baseCtx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.firing, j.ID)
		s.mu.Unlock()
	}()

	ct, ok := j.CourtDef()
	if !ok {
		s.Log.Error("job references unknown court", zap.String("job_id", j.ID), zap.String("court", j.Court))
	} else {
		if _, err := s.Exec.Execute(ctx, ct, j.DesiredStart); err != nil {
			s.Log.Warn("scheduled booking attempt failed",
				zap.String("job_id", j.ID), zap.Error(err))
		} else {
			s.Log.Info("scheduled booking succeeded", zap.String("job_id", j.ID))
		}
	}

	// One attempt per job, success or failure: the job goes away so it
	// can never submit twice.
	if err := s.Jobs.Remove(ctx, j.ID); err != nil {
		s.Log.Error("job cleanup failed", zap.String("job_id", j.ID), zap.Error(err))
	}
}
