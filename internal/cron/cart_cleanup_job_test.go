package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/furiarock-backend/internal/cart"
	"github.com/angelmondragon/furiarock-backend/pkg/db/dbtest"
	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
)

type fakePurger struct {
	expiredAt  time.Time
	cutoff     time.Time
	expiredErr error
	calls      int
}

func (f *fakePurger) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.calls++
	f.expiredAt = now
	if f.expiredErr != nil {
		return 0, f.expiredErr
	}
	return 3, nil
}

func (f *fakePurger) DeleteAbandonedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return 1, nil
}

func TestCartCleanupJobComputesCutoffs(t *testing.T) {
	now := time.Date(2026, 3, 16, 4, 0, 0, 0, time.UTC)
	purger := &fakePurger{}
	job, err := NewCartCleanupJob(CartCleanupJobParams{
		Logger:    logger.Nop(),
		Carts:     purger,
		Retention: 48 * time.Hour,
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)
	require.Equal(t, CartCleanupJobName, job.Name())

	require.NoError(t, job.Run(context.Background()))
	require.Equal(t, now, purger.expiredAt)
	require.Equal(t, now.Add(-48*time.Hour), purger.cutoff)
}

func TestCartCleanupJobRunsBothSweepsOnError(t *testing.T) {
	purger := &fakePurger{expiredErr: errors.New("db down")}
	job, err := NewCartCleanupJob(CartCleanupJobParams{Logger: logger.Nop(), Carts: purger})
	require.NoError(t, err)
	require.Equal(t, defaultAbandonedRetention, job.retention)

	err = job.Run(context.Background())
	require.ErrorContains(t, err, "delete expired carts")
	require.Equal(t, 2, purger.calls)
}

func TestCartCleanupJobAgainstDatabase(t *testing.T) {
	conn := dbtest.Open(t)
	now := time.Date(2026, 3, 16, 4, 0, 0, 0, time.UTC)

	seed := func(sessionID string, status enums.CartStatus, expiresAt, updatedAt time.Time) {
		t.Helper()
		c := models.Cart{SessionID: sessionID, Status: status, ExpiresAt: expiresAt}
		require.NoError(t, conn.Create(&c).Error)
		require.NoError(t, conn.Model(&c).UpdateColumn("updated_at", updatedAt).Error)
	}
	seed("expired", enums.CartStatusActive, now.Add(-time.Hour), now.Add(-2*time.Hour))
	seed("live", enums.CartStatusActive, now.Add(time.Hour), now)
	seed("old-abandoned", enums.CartStatusAbandoned, now.Add(24*time.Hour), now.Add(-20*24*time.Hour))
	seed("recent-abandoned", enums.CartStatusAbandoned, now.Add(24*time.Hour), now.Add(-24*time.Hour))

	job, err := NewCartCleanupJob(CartCleanupJobParams{
		Logger: logger.Nop(),
		Carts:  cart.NewRepository(conn),
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)
	require.NoError(t, job.Run(context.Background()))

	var remaining []string
	require.NoError(t, conn.Model(&models.Cart{}).Order("session_id").Pluck("session_id", &remaining).Error)
	require.Equal(t, []string{"live", "recent-abandoned"}, remaining)
}
