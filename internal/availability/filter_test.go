package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestOnLocalDate_MadridEvening(t *testing.T) {
	madrid := mustLoc(t, "Europe/Madrid")
	slots := []time.Time{
		time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 10, 22, 30, 0, 0, time.UTC), // 00:30 local on the 11th
		time.Date(2025, 6, 11, 5, 0, 0, 0, time.UTC),
	}
	date, err := ParseDate("2025-06-11")
	require.NoError(t, err)

	got := OnLocalDate(slots, date, madrid)
	require.Len(t, got, 2)
	assert.Equal(t, slots[1], got[0])
	assert.Equal(t, slots[2], got[1])
}

func TestOnLocalDate_MidnightBoundary(t *testing.T) {
	madrid := mustLoc(t, "Europe/Madrid")
	// Local midnight of 2025-06-11 is 2025-06-10T22:00Z (UTC+2 in June).
	justBefore := time.Date(2025, 6, 10, 21, 59, 0, 0, time.UTC)
	atMidnight := time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC)
	justAfter := time.Date(2025, 6, 10, 22, 1, 0, 0, time.UTC)

	tenth, err := ParseDate("2025-06-10")
	require.NoError(t, err)
	eleventh, err := ParseDate("2025-06-11")
	require.NoError(t, err)

	assert.Equal(t, []time.Time{justBefore}, OnLocalDate([]time.Time{justBefore, atMidnight, justAfter}, tenth, madrid))
	assert.Equal(t, []time.Time{atMidnight, justAfter}, OnLocalDate([]time.Time{justBefore, atMidnight, justAfter}, eleventh, madrid))
}

func TestOnLocalDate_PreservesInputOrder(t *testing.T) {
	madrid := mustLoc(t, "Europe/Madrid")
	date, err := ParseDate("2025-06-11")
	require.NoError(t, err)

	later := time.Date(2025, 6, 11, 18, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 6, 11, 7, 0, 0, 0, time.UTC)

	got := OnLocalDate([]time.Time{later, earlier}, date, madrid)
	require.Len(t, got, 2)
	assert.Equal(t, later, got[0])
	assert.Equal(t, earlier, got[1])
}

func TestOnLocalDate_Empty(t *testing.T) {
	madrid := mustLoc(t, "Europe/Madrid")
	date, err := ParseDate("2025-06-11")
	require.NoError(t, err)
	assert.Empty(t, OnLocalDate(nil, date, madrid))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("11/06/2025")
	assert.Error(t, err)
}
