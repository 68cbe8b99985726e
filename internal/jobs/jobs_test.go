package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pista-scheduler/internal/court"
	"github.com/example/pista-scheduler/internal/store"
)

func TestStore_CreateListRemove(t *testing.T) {
	ctx := context.Background()
	s := NewStore(store.NewMemory())

	start := time.Date(2025, 6, 13, 6, 0, 0, 0, time.UTC)
	fireAt := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	j1, err := s.Create(ctx, court.Padel, start, fireAt)
	require.NoError(t, err)
	j2, err := s.Create(ctx, court.Frontenis, start.Add(time.Hour), fireAt)
	require.NoError(t, err)
	assert.NotEqual(t, j1.ID, j2.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest first
	assert.Equal(t, j2.ID, list[0].ID)
	assert.Equal(t, j1.ID, list[1].ID)

	require.NoError(t, s.Remove(ctx, j1.ID))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, j2.ID, list[0].ID)
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewStore(store.NewMemory())

	require.NoError(t, s.Remove(ctx, "no-such-id"))

	j, err := s.Create(ctx, court.Padel, time.Now().Add(48*time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, j.ID))
	require.NoError(t, s.Remove(ctx, j.ID))
}

func TestStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	backing := store.NewMemory()

	first := NewStore(backing)
	j, err := first.Create(ctx, court.Padel, time.Now().Add(48*time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)

	// A fresh Store over the same backing sees the persisted list.
	second := NewStore(backing)
	list, err := second.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, j.ID, list[0].ID)
}

func TestStore_CorruptSlotYieldsEmptyList(t *testing.T) {
	ctx := context.Background()
	backing := store.NewMemory()
	backing.Corrupt(store.KeyJobs)

	list, err := NewStore(backing).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestJob_Validate(t *testing.T) {
	start := time.Date(2025, 6, 13, 6, 0, 0, 0, time.UTC)
	fireAt := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, Job{ID: "x", Court: "padel", DesiredStart: start, FireAt: fireAt}.Validate())
	assert.Error(t, Job{ID: "x", Court: "tennis", DesiredStart: start, FireAt: fireAt}.Validate())
	assert.Error(t, Job{ID: "x", Court: "padel", FireAt: fireAt}.Validate())
	assert.Error(t, Job{ID: "x", Court: "padel", DesiredStart: start}.Validate())
}

func TestJob_CourtDef(t *testing.T) {
	ct, ok := Job{Court: "frontenis"}.CourtDef()
	require.True(t, ok)
	assert.Equal(t, 60, ct.Minutes)

	_, ok = Job{Court: "squash"}.CourtDef()
	assert.False(t, ok)
}
