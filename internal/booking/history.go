package booking

import (
	"context"

	"github.com/example/pista-scheduler/internal/appointlet"
	"github.com/example/pista-scheduler/internal/store"
)

// History is the persisted list of confirmed bookings, most recent first.
// Records are append-only from this subsystem's point of view.
type History struct {
	st store.Store
}

func NewHistory(st store.Store) *History {
	return &History{st: st}
}

func (h *History) List(ctx context.Context) ([]appointlet.Record, error) {
	var recs []appointlet.Record
	if err := h.st.Get(ctx, store.KeyBookings, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Add prepends rec and persists the whole list.
func (h *History) Add(ctx context.Context, rec appointlet.Record) error {
	recs, err := h.List(ctx)
	if err != nil {
		return err
	}
	recs = append([]appointlet.Record{rec}, recs...)
	return h.st.Set(ctx, store.KeyBookings, recs)
}
