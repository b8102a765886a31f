package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionGuard_Allow(t *testing.T) {
	t.Run("blocks after the burst is spent", func(t *testing.T) {
		g := NewSubmissionGuard(4)

		for i := 0; i < 4; i++ {
			assert.True(t, g.Allow("10.0.0.1"), "request %d within burst", i)
		}
		assert.False(t, g.Allow("10.0.0.1"))
	})

	t.Run("addresses are limited independently", func(t *testing.T) {
		g := NewSubmissionGuard(1)

		assert.True(t, g.Allow("10.0.0.1"))
		assert.False(t, g.Allow("10.0.0.1"))
		assert.True(t, g.Allow("10.0.0.2"))
	})

	t.Run("zero config falls back to one per minute", func(t *testing.T) {
		g := NewSubmissionGuard(0)

		assert.True(t, g.Allow("10.0.0.1"))
		assert.False(t, g.Allow("10.0.0.1"))
	})
}
