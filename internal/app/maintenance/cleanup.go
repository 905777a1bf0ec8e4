package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/services"
	"github.com/pricedesk/pricedesk/pkg/logger"
)

const (
	defaultHistoryRetentionDays = 365
	defaultHistorySpec          = "@daily"
)

// Cleaner runs background maintenance, currently the pricing-history
// retention job. History rows older than the retention window are purged on
// a cron schedule.
type Cleaner struct {
	pricings  *services.PricingService
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	retention int
	schedule  string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for retention comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithHistoryRetentionDays adjusts how long pricing history is retained.
func WithHistoryRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.retention = days
		}
	}
}

// WithHistorySchedule overrides the cron specification for the history job.
func WithHistorySchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.schedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults.
func NewCleaner(db *gorm.DB, opts ...Option) (*Cleaner, error) {
	pricings, err := services.NewPricingService(db)
	if err != nil {
		return nil, err
	}

	cleaner := &Cleaner{
		pricings:  pricings,
		now:       time.Now,
		retention: defaultHistoryRetentionDays,
		schedule:  defaultHistorySpec,
		log:       logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner, nil
}

// Start registers the retention job with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if _, err := c.cron.AddFunc(c.schedule, func() {
		if err := c.purgeHistories(context.Background()); err != nil {
			c.log.Warn("history cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all cleanup routines sequentially. Primarily used in
// tests and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	if err := c.purgeHistories(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (c *Cleaner) purgeHistories(ctx context.Context) error {
	cutoff := c.now().AddDate(0, 0, -c.retention)
	removed, err := c.pricings.PurgeHistoriesBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		c.log.Info("purged pricing history",
			zap.Int64("rows", removed),
			zap.Time("cutoff", cutoff))
	}
	return nil
}
