package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteoagente/weathertool/internal/weather"
)

func inv(id string, at time.Time) weather.Invocation {
	return weather.Invocation{
		ID:      id,
		City:    "madrid",
		Outcome: weather.OutcomeOK,
		At:      at,
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := NewMemoryStore(0, 0)

	now := time.Now().UTC()
	s.Record(inv("a", now.Add(-2*time.Second)))
	s.Record(inv("b", now.Add(-1*time.Second)))
	s.Record(inv("c", now))

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)

	// Non-positive or oversized limits return everything retained.
	assert.Len(t, s.Recent(0), 3)
	assert.Len(t, s.Recent(10), 3)
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s.Record(inv(fmt.Sprintf("inv-%d", i), now))
	}

	assert.Equal(t, 2, s.Len())

	recent := s.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "inv-4", recent[0].ID)
	assert.Equal(t, "inv-3", recent[1].ID)
}

func TestRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Minute)

	now := time.Now().UTC()
	s.Record(inv("stale", now.Add(-2*time.Hour)))
	s.Record(inv("fresh", now))

	assert.Equal(t, 1, s.Len())

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, "fresh", latest.ID)
}

func TestLatestEmpty(t *testing.T) {
	s := NewMemoryStore(10, 0)

	_, err := s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecentEmpty(t *testing.T) {
	s := NewMemoryStore(10, 0)
	assert.Empty(t, s.Recent(5))
}
