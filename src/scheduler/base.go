package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Task is one run of a scheduled job.
type Task func(ctx context.Context) error

type ScheduledTask struct {
	name   string
	cronID cron.EntryID
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduledTask runs task on cronSpec until Cancel is called. Each run gets a context
// bounded by timeout that is also cancelled by Cancel. Runs never overlap: a run still going
// when the next one is due makes that one skip.
func NewScheduledTask(name, cronSpec string, timeout time.Duration, task Task, logger *logrus.Logger) (*ScheduledTask, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	ctx, cancel := context.WithCancel(context.Background())
	s := &ScheduledTask{
		name:   name,
		cron:   c,
		ctx:    ctx,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		if ctx.Err() != nil {
			return
		}
		s.run(task, timeout, logger)
	})
	if err != nil {
		cancel()
		return nil, err
	}

	s.cronID = id
	c.Start()
	return s, nil
}

func (s *ScheduledTask) run(task Task, timeout time.Duration, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	start := time.Now()
	entry := logger.WithField("task", s.name)
	if err := task(ctx); err != nil {
		entry.WithError(err).Error("scheduled task failed")
		return
	}
	entry.WithField("elapsed", time.Since(start).String()).Debug("scheduled task done")
}

// Cancel stops future runs and cancels the one in progress, if any.
func (s *ScheduledTask) Cancel() {
	s.cron.Remove(s.cronID)
	s.cancel()
	s.cron.Stop()
}
