package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/config"
	"github.com/mamadbah2/dyecalc/internal/service/notify"
)

// DigestSource renders the production digest text.
type DigestSource interface {
	GenerateDigest(ctx context.Context) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	digests  DigestSource
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, digests DigestSource, notifier notify.Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	// Standard 5-field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:     c,
		schedule: cfg.CronSchedule,
		digests:  digests,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Start registers the production digest job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.sendDigest); err != nil {
		return fmt.Errorf("schedule production digest: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunDigest(ctx); err != nil {
		s.logger.Error("production digest failed", zap.Error(err))
		return
	}
	s.logger.Info("production digest sent successfully")
}

// RunDigest generates the digest and broadcasts it once.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	digest, err := s.digests.GenerateDigest(ctx)
	if err != nil {
		return fmt.Errorf("generate digest: %w", err)
	}
	if err := s.notifier.Broadcast(ctx, digest); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}
