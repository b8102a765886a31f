package cronjob

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler(t *testing.T) {
	t.Run("fires the sweep on schedule", func(t *testing.T) {
		fired := make(chan struct{}, 1)
		s := NewScheduler("* * * * * *", func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
		s.Start()
		defer s.Stop()

		select {
		case <-fired:
		case <-time.After(3 * time.Second):
			t.Fatal("sweep never fired")
		}
	})

	t.Run("bad spec never starts", func(t *testing.T) {
		s := NewScheduler("not a cron spec", func() {
			t.Error("sweep must not run")
		})
		s.Start()
		assert.Nil(t, s.c)
		s.Stop()
	})
}
