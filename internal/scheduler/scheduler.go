// Package scheduler runs the background jobs that keep dashboard data
// fresh: quote refresh, daily snapshots and report cleanup. Every run gets
// its own request id so job log lines correlate the same way HTTP requests
// do.
package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/mfarghaly/egx_dashboard_api/utils"
)

type jobFn func(ctx context.Context) error

type Scheduler struct {
	scheduler gocron.Scheduler
}

func New() *Scheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		panic(err.Error())
	}
	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Stop() {
	_ = s.scheduler.Shutdown()
}

// NewIntervalJob schedules fn every interval. Jobs like the quote refresh
// pass startImmediately so the cache is warm right after boot.
func (s *Scheduler) NewIntervalJob(name string, fn jobFn, interval time.Duration, startImmediately bool) {
	s.register(gocron.DurationJob(interval), name, fn, startImmediately)
}

// NewCrontabJob schedules fn by crontab expression (with seconds field),
// used for the end-of-day snapshot run.
func (s *Scheduler) NewCrontabJob(name string, fn jobFn, crontab string, startImmediately bool) {
	s.register(gocron.CronJob(crontab, true), name, fn, startImmediately)
}

func (s *Scheduler) register(definition gocron.JobDefinition, name string, fn jobFn, startImmediately bool) {
	// singleton mode: a slow run never overlaps the next tick
	opts := []gocron.JobOption{gocron.WithSingletonMode(gocron.LimitModeReschedule)}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.scheduler.NewJob(definition, gocron.NewTask(s.runWithRecover(fn, name)), opts...)
	if err != nil {
		slog.Error("can't create scheduler job", slog.String("jobName", name), slog.String("err", err.Error()))
		panic(err.Error())
	}
}

func (s *Scheduler) runWithRecover(fn jobFn, jobName string) func(ctx context.Context) {
	return func(ctx context.Context) {
		ctx = utils.CtxWithRqID(ctx, "")
		rqID := utils.GetRequestIDFromCtx(ctx)

		defer func() {
			if r := recover(); r != nil {
				slog.Error(
					"panic recovered in scheduler job",
					slog.String("rqID", rqID),
					slog.String("jobName", jobName),
					slog.Any("panic", r),
					slog.String("stacktrace", string(debug.Stack())),
				)
			}
		}()

		start := time.Now()
		slog.Info("job start", slog.String("rqID", rqID), slog.String("jobName", jobName))

		err := fn(ctx)
		if err != nil {
			slog.Error("job failed", slog.String("rqID", rqID), slog.String("jobName", jobName), slog.String("err", err.Error()))
			return
		}
		slog.Info("job completed", slog.String("rqID", rqID), slog.String("jobName", jobName), slog.String("duration", time.Since(start).String()))
	}
}
