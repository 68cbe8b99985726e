package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/example/pista-scheduler/internal/appointlet"
	"github.com/example/pista-scheduler/internal/clock"
	"github.com/example/pista-scheduler/internal/court"
	"github.com/example/pista-scheduler/internal/jobs"
	"github.com/example/pista-scheduler/internal/store"
)

type fakeExec struct {
	mu    sync.Mutex
	err   error
	calls []string
	fired chan string
}

func newFakeExec(err error) *fakeExec {
	return &fakeExec{err: err, fired: make(chan string, 16)}
}

func (f *fakeExec) Execute(_ context.Context, ct court.Court, _ time.Time) (appointlet.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ct.Key)
	f.mu.Unlock()
	f.fired <- ct.Key
	return appointlet.Record{ID: "bk"}, f.err
}

func (f *fakeExec) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newScheduler(t *testing.T, exec Executor) (*Scheduler, *jobs.Store) {
	t.Helper()
	js := jobs.NewStore(store.NewMemory())
	s := New(js, exec, clock.NewReal(), zaptest.NewLogger(t))
	t.Cleanup(s.Stop)
	return s, js
}

func waitFired(t *testing.T, exec *fakeExec) string {
	t.Helper()
	select {
	case key := <-exec.fired:
		return key
	case <-time.After(3 * time.Second):
		t.Fatal("timer never fired")
		return ""
	}
}

func jobAbsent(ctx context.Context, js *jobs.Store, id string) func() bool {
	return func() bool {
		list, err := js.List(ctx)
		if err != nil {
			return false
		}
		for _, j := range list {
			if j.ID == id {
				return false
			}
		}
		return true
	}
}

func TestPastDueJobFiresImmediately(t *testing.T) {
	ctx := context.Background()
	exec := newFakeExec(nil)
	s, js := newScheduler(t, exec)

	j, err := js.Create(ctx, court.Padel, time.Now().Add(48*time.Hour), time.Now().Add(-5*time.Minute))
	require.NoError(t, err)

	require.NoError(t, s.Start(ctx))

	assert.Equal(t, "padel", waitFired(t, exec))
	assert.Eventually(t, jobAbsent(ctx, js, j.ID), 2*time.Second, 10*time.Millisecond,
		"job must be removed after its single attempt")
}

func TestFutureJobStaysPending(t *testing.T) {
	ctx := context.Background()
	exec := newFakeExec(nil)
	s, js := newScheduler(t, exec)

	_, err := js.Create(ctx, court.Padel, time.Now().Add(48*time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, 1, s.Armed())

	select {
	case <-exec.fired:
		t.Fatal("job fired an hour early")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestCancelStopsTimerAndRemovesJob(t *testing.T) {
	ctx := context.Background()
	exec := newFakeExec(nil)
	s, js := newScheduler(t, exec)

	j, err := js.Create(ctx, court.Padel, time.Now().Add(48*time.Hour), time.Now().Add(300*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, s.Start(ctx))

	require.NoError(t, s.Cancel(ctx, j.ID))
	assert.Equal(t, 0, s.Armed())
	assert.True(t, jobAbsent(ctx, js, j.ID)())

	select {
	case <-exec.fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestCancelUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, newFakeExec(nil))
	require.NoError(t, s.Start(ctx))
	assert.NoError(t, s.Cancel(ctx, "never-existed"))
}

func TestFailedAttemptStillRemovesJobAndOthersProceed(t *testing.T) {
	ctx := context.Background()
	exec := newFakeExec(errors.New("slot taken"))
	s, js := newScheduler(t, exec)

	j1, err := js.Create(ctx, court.Padel, time.Now().Add(48*time.Hour), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	j2, err := js.Create(ctx, court.Frontenis, time.Now().Add(48*time.Hour), time.Now().Add(-time.Minute))
	require.NoError(t, err)

	require.NoError(t, s.Start(ctx))

	waitFired(t, exec)
	waitFired(t, exec)

	assert.Eventually(t, jobAbsent(ctx, js, j1.ID), 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, jobAbsent(ctx, js, j2.ID), 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, exec.callCount(), "each job attempts exactly once, failure or not")
}

func TestReloadDoesNotDuplicateTimers(t *testing.T) {
	ctx := context.Background()
	exec := newFakeExec(nil)
	s, js := newScheduler(t, exec)

	_, err := js.Create(ctx, court.Padel, time.Now().Add(48*time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Reload(ctx))
	require.NoError(t, s.Reload(ctx))

	assert.Equal(t, 1, s.Armed())
}

func TestDelayComesFromInjectedClock(t *testing.T) {
	ctx := context.Background()
	exec := newFakeExec(nil)
	js := jobs.NewStore(store.NewMemory())

	// The mock clock sits well past fireAt, so the job is past due no
	// matter what the wall clock says.
	mock := clock.NewMock(time.Date(2025, 6, 11, 2, 0, 0, 0, time.UTC))
	s := New(js, exec, mock, zaptest.NewLogger(t))
	t.Cleanup(s.Stop)

	_, err := js.Create(ctx, court.Frontenis,
		time.Date(2025, 6, 13, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, "frontenis", waitFired(t, exec))
}

func TestReloadDropsTimersForRemovedJobs(t *testing.T) {
	ctx := context.Background()
	exec := newFakeExec(nil)
	s, js := newScheduler(t, exec)

	j, err := js.Create(ctx, court.Padel, time.Now().Add(48*time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.Start(ctx))
	require.Equal(t, 1, s.Armed())

	// removed behind the scheduler's back (e.g. by the CLI)
	require.NoError(t, js.Remove(ctx, j.ID))
	require.NoError(t, s.Reload(ctx))
	assert.Equal(t, 0, s.Armed())
}
