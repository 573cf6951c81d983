package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/furiarock-backend/pkg/logger"
)

const (
	CartCleanupJobName        = "cart-cleanup"
	defaultAbandonedRetention = 15 * 24 * time.Hour
)

type cartPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteAbandonedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type CartCleanupJobParams struct {
	Logger    *logger.Logger
	Carts     cartPurger
	Retention time.Duration
	Now       func() time.Time
}

// CartCleanupJob removes active carts past their expiry and abandoned carts
// untouched for longer than the retention window. Orders keep their own
// snapshot, so no order depends on a deleted cart.
type CartCleanupJob struct {
	logg      *logger.Logger
	carts     cartPurger
	retention time.Duration
	now       func() time.Time
}

func NewCartCleanupJob(params CartCleanupJobParams) (*CartCleanupJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultAbandonedRetention
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &CartCleanupJob{
		logg:      params.Logger,
		carts:     params.Carts,
		retention: retention,
		now:       now,
	}, nil
}

func (j *CartCleanupJob) Name() string { return CartCleanupJobName }

// Run attempts both sweeps even when the first one fails.
func (j *CartCleanupJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	cutoff := now.Add(-j.retention)

	var errs error
	expired, err := j.carts.DeleteExpired(ctx, now)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("delete expired carts: %w", err))
	}
	abandoned, err := j.carts.DeleteAbandonedBefore(ctx, cutoff)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("delete abandoned carts: %w", err))
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"expired_deleted":   expired,
		"abandoned_deleted": abandoned,
		"abandoned_cutoff":  cutoff,
	}), "cart cleanup finished")
	return errs
}
