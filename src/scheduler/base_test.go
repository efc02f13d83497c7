package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"portfolio/src/scheduler"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledTask(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	t.Run("should run the task on schedule until cancelled", func(t *testing.T) {
		var runs int32
		task, err := scheduler.NewScheduledTask("count", "@every 1s", time.Second, func(ctx context.Context) error {
			atomic.AddInt32(&runs, 1)
			return errors.New("failures do not stop the schedule")
		}, logger)
		require.NoError(t, err)

		assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 5*time.Second, 100*time.Millisecond)
		task.Cancel()

		after := atomic.LoadInt32(&runs)
		time.Sleep(1500 * time.Millisecond)
		assert.Equal(t, after, atomic.LoadInt32(&runs))
	})

	t.Run("should reject an invalid spec", func(t *testing.T) {
		_, err := scheduler.NewScheduledTask("bad", "every minute", time.Second, func(ctx context.Context) error { return nil }, logger)
		assert.Error(t, err)
	})
}
