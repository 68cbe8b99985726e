package booking

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/example/pista-scheduler/internal/appointlet"
	"github.com/example/pista-scheduler/internal/court"
	"github.com/example/pista-scheduler/internal/notify"
	"github.com/example/pista-scheduler/internal/profile"
	"github.com/example/pista-scheduler/internal/store"
)

// Executor performs one booking attempt: validate the profile, build the
// payload, submit once, record the outcome. No retries; the call is not
// idempotent upstream, so callers must not invoke it twice for the same
// desired slot.
type Executor struct {
	Client  *appointlet.Client
	Store   store.Store
	History *History
	Notify  notify.Notifier
	Log     *zap.Logger
}

// Execute books start on ct for the persisted profile. The profile check
// happens before any network call: an incomplete profile fails locally
// with profile.ErrIncomplete and nothing is submitted.
func (e *Executor) Execute(ctx context.Context, ct court.Court, start time.Time) (appointlet.Record, error) {
	p, err := profile.Load(ctx, e.Store)
	if err != nil {
		return appointlet.Record{}, err
	}
	if err := p.Validate(); err != nil {
		e.Notify.Failure("Completa tus ajustes", "Rellena email, nombre, apellidos, localitat y teléfono")
		return appointlet.Record{}, err
	}

	end := start.Add(ct.Duration())
	req := appointlet.BookingRequest{
		Organization: court.Organization,
		Timezone:     court.Timezone,
		Email:        p.Email,
		Fields: appointlet.Fields{
			Nom:       p.FirstName,
			LastName:  p.LastName,
			Localitat: p.Locality,
			Telefon:   p.Phone,
		},
		Bookable: ct.Bookable,
		Service:  ct.Service,
		Start:    appointlet.WireTime(start),
		End:      appointlet.WireTime(end),
	}

	rec, err := e.Client.CreateBooking(ctx, req)
	if err != nil {
		e.Notify.Failure("No se pudo reservar", rejectionDetail(err))
		return appointlet.Record{}, err
	}

	if err := e.History.Add(ctx, rec); err != nil {
		// The booking exists upstream even if we could not record it.
		e.Log.Error("booking confirmed but history write failed",
			zap.String("booking_id", rec.ID), zap.Error(err))
	}
	e.Notify.Success("Reserva confirmada", "La verás en Mis reservas")
	return rec, nil
}

func rejectionDetail(err error) string {
	var rej *appointlet.RejectionError
	if errors.As(err, &rej) && rej.Detail != "" {
		return rej.Detail
	}
	return err.Error()
}
