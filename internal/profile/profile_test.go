package profile

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pista-scheduler/internal/store"
)

func complete() Profile {
	return Profile{
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Ferrer",
		Locality:  "Estivella",
		Phone:     "600123123",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, complete().Validate())

	for _, mutate := range []func(*Profile){
		func(p *Profile) { p.Email = "" },
		func(p *Profile) { p.FirstName = "" },
		func(p *Profile) { p.LastName = "" },
		func(p *Profile) { p.Locality = "" },
		func(p *Profile) { p.Phone = "" },
	} {
		p := complete()
		mutate(&p)
		err := p.Validate()
		assert.True(t, errors.Is(err, ErrIncomplete))
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	require.NoError(t, Save(ctx, st, complete()))
	got, err := Load(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, complete(), got)
}

func TestLoadMissingOrCorruptYieldsEmpty(t *testing.T) {
	ctx := context.Background()

	st := store.NewMemory()
	got, err := Load(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, Profile{}, got)
	assert.Error(t, got.Validate())

	st.Corrupt(store.KeySettings)
	got, err = Load(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, Profile{}, got)
}
