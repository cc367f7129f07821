package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs background jobs on cron schedules.
type Scheduler struct {
	*cron.Cron
	log *zap.Logger
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

func New(log *zap.Logger) *Scheduler {
	log = log.Named("cron")
	logger := cronLogger{log.Sugar()}
	return &Scheduler{
		Cron: cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger))),
		log:  log,
	}
}

// AddJob schedules fn under a name used in log output. Failures are logged
// and the job stays scheduled.
func (s *Scheduler) AddJob(name, spec string, fn func(ctx context.Context) error) (cron.EntryID, error) {
	return s.Cron.AddFunc(spec, func() {
		start := time.Now()
		if err := fn(context.Background()); err != nil {
			s.log.Error("job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.log.Debug("job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
}

// Shutdown stops scheduling and waits up to 30 seconds for running jobs.
func (s *Scheduler) Shutdown() {
	ctx, cancel := context.WithTimeout(s.Cron.Stop(), 30*time.Second)
	defer cancel()
	<-ctx.Done()
}
