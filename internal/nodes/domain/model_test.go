package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	all := []Status{StatusPending, StatusLive, StatusRejected, StatusWithered}

	allowed := map[Status]map[Status]bool{
		StatusPending: {StatusLive: true, StatusRejected: true},
		StatusLive:    {StatusWithered: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusLive.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusWithered.Terminal())
}

func TestNode_ReferenceTime(t *testing.T) {
	published := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	responded := published.Add(36 * time.Hour)

	t.Run("unpublished node has no reference time", func(t *testing.T) {
		n := &Node{Status: StatusPending}
		_, ok := n.ReferenceTime()
		assert.False(t, ok)
	})

	t.Run("falls back to publish time", func(t *testing.T) {
		n := &Node{Status: StatusLive, PublishedAt: &published}
		ref, ok := n.ReferenceTime()
		require.True(t, ok)
		assert.Equal(t, published, ref)
	})

	t.Run("prefers last response time", func(t *testing.T) {
		n := &Node{Status: StatusLive, PublishedAt: &published, LastResponseAt: &responded}
		ref, ok := n.ReferenceTime()
		require.True(t, ok)
		assert.Equal(t, responded, ref)
	})
}

func TestNode_ShouldWither(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	t.Run("silent past the threshold", func(t *testing.T) {
		n := &Node{Status: StatusLive, PublishedAt: at(4 * 24 * time.Hour)}
		assert.True(t, n.ShouldWither(now, DefaultWitherDays))
	})

	t.Run("exactly at the threshold", func(t *testing.T) {
		n := &Node{Status: StatusLive, PublishedAt: at(3 * 24 * time.Hour)}
		assert.True(t, n.ShouldWither(now, DefaultWitherDays))
	})

	t.Run("one second short of the threshold", func(t *testing.T) {
		n := &Node{Status: StatusLive, PublishedAt: at(3*24*time.Hour - time.Second)}
		assert.False(t, n.ShouldWither(now, DefaultWitherDays))
	})

	t.Run("recent response resets the clock", func(t *testing.T) {
		n := &Node{
			Status:         StatusLive,
			PublishedAt:    at(10 * 24 * time.Hour),
			LastResponseAt: at(24 * time.Hour),
		}
		assert.False(t, n.ShouldWither(now, DefaultWitherDays))
	})

	t.Run("non-live nodes never wither", func(t *testing.T) {
		for _, s := range []Status{StatusPending, StatusRejected, StatusWithered} {
			n := &Node{Status: s, PublishedAt: at(30 * 24 * time.Hour)}
			assert.False(t, n.ShouldWither(now, DefaultWitherDays), "status %s", s)
		}
	})

	t.Run("never published", func(t *testing.T) {
		n := &Node{Status: StatusLive}
		assert.False(t, n.ShouldWither(now, DefaultWitherDays))
	})
}

func TestNode_DaysSinceResponse(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	published := now.Add(-50 * time.Hour)

	n := &Node{Status: StatusLive, PublishedAt: &published}
	days, ok := n.DaysSinceResponse(now)
	require.True(t, ok)
	assert.Equal(t, 2, days, "50 hours floors to 2 days")
}
