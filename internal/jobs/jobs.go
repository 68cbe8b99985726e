package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/example/pista-scheduler/internal/court"
	"github.com/example/pista-scheduler/internal/store"
)

// Job is a persisted request to attempt one booking automatically at
// FireAt. A job is removed exactly once, right after its single attempt
// completes, whatever the outcome; jobs are never retried or re-armed.
type Job struct {
	ID           string    `json:"id"`
	Court        string    `json:"court"`
	DesiredStart time.Time `json:"desiredStart"`
	FireAt       time.Time `json:"fireAt"`
}

// CourtDef resolves the job's court definition.
func (j Job) CourtDef() (court.Court, bool) {
	return court.ByKey(j.Court)
}

func (j Job) Validate() error {
	if _, ok := court.ByKey(j.Court); !ok {
		return errors.Newf("jobs: unknown court %q", j.Court)
	}
	if j.DesiredStart.IsZero() {
		return errors.New("jobs: desired start required")
	}
	if j.FireAt.IsZero() {
		return errors.New("jobs: fire time required")
	}
	return nil
}

// Store owns the persisted job list. Every mutation rewrites the full
// list synchronously so jobs survive a restart; armed timers do not, and
// are re-armed from this list on startup.
type Store struct {
	mu sync.Mutex
	st store.Store
}

func NewStore(st store.Store) *Store {
	return &Store{st: st}
}

// Create persists a new job with a fresh id and returns it.
func (s *Store) Create(ctx context.Context, ct court.Court, desiredStart, fireAt time.Time) (Job, error) {
	j := Job{
		ID:           uuid.NewString(),
		Court:        ct.Key,
		DesiredStart: desiredStart,
		FireAt:       fireAt,
	}
	if err := j.Validate(); err != nil {
		return Job{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return Job{}, err
	}
	list = append([]Job{j}, list...)
	if err := s.st.Set(ctx, store.KeyJobs, list); err != nil {
		return Job{}, err
	}
	return j, nil
}

// List returns the currently held jobs, newest first.
func (s *Store) List(ctx context.Context) ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get looks up one job by id.
func (s *Store) Get(ctx context.Context, id string) (Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return Job{}, false, err
	}
	for _, j := range list {
		if j.ID == id {
			return j, true, nil
		}
	}
	return Job{}, false, nil
}

// Remove deletes the job with the given id. Removing an id that is no
// longer held is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]Job, 0, len(list))
	for _, j := range list {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return s.st.Set(ctx, store.KeyJobs, kept)
}

func (s *Store) load(ctx context.Context) ([]Job, error) {
	var list []Job
	if err := s.st.Get(ctx, store.KeyJobs, &list); err != nil {
		return nil, err
	}
	return list, nil
}
