package profile

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/example/pista-scheduler/internal/store"
)

// ErrIncomplete means at least one required profile field is empty. A
// booking is never attempted against an incomplete profile.
var ErrIncomplete = errors.New("profile: incomplete")

// Profile holds the requester details sent with every booking. All five
// fields must be non-empty for a booking to be valid. JSON tags keep the
// stored document compatible with the settings the web client wrote.
type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"nom"`
	LastName  string `json:"lastName"`
	Locality  string `json:"localitat"`
	Phone     string `json:"telefon"`
}

// Validate reports which required field is missing, if any.
func (p Profile) Validate() error {
	switch {
	case p.Email == "":
		return errors.WithDetail(ErrIncomplete, "email required")
	case p.FirstName == "":
		return errors.WithDetail(ErrIncomplete, "first name required")
	case p.LastName == "":
		return errors.WithDetail(ErrIncomplete, "last name required")
	case p.Locality == "":
		return errors.WithDetail(ErrIncomplete, "locality required")
	case p.Phone == "":
		return errors.WithDetail(ErrIncomplete, "phone required")
	}
	return nil
}

// Load reads the persisted profile; a missing or corrupt settings slot
// yields the empty profile.
func Load(ctx context.Context, st store.Store) (Profile, error) {
	var p Profile
	if err := st.Get(ctx, store.KeySettings, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Save replaces the persisted profile.
func Save(ctx context.Context, st store.Store, p Profile) error {
	return st.Set(ctx, store.KeySettings, p)
}
