package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dukerupert/shopery/internal/telemetry"
)

// JobCleanup is the job name used in logs and metrics.
const JobCleanup = "cleanup"

// CleanupStore is the subset of repository.Querier the cleanup job uses.
type CleanupStore interface {
	DeleteExpiredGuestCarts(ctx context.Context, before time.Time) (int64, error)
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
	DeleteExpiredCodes(ctx context.Context, before time.Time) (int64, error)
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	GuestCartsDeleted int64 `json:"guest_carts_deleted"`
	SessionsDeleted   int64 `json:"sessions_deleted"`
	CodesDeleted      int64 `json:"codes_deleted"`
}

// RunCleanup deletes guest carts, sessions and one-time codes that expired
// before now.
// Guest cart items go with their cart through ON DELETE CASCADE.
func RunCleanup(ctx context.Context, store CleanupStore, now time.Time, metrics *telemetry.BusinessMetrics, logger zerolog.Logger) (*CleanupResult, error) {
	result := &CleanupResult{}

	n, err := store.DeleteExpiredGuestCarts(ctx, now)
	if err != nil {
		metrics.RecordJob(JobCleanup, err)
		return nil, fmt.Errorf("failed to delete expired guest carts: %w", err)
	}
	result.GuestCartsDeleted = n
	metrics.RecordCleanup("guest_carts", n)

	n, err = store.DeleteExpiredSessions(ctx, now)
	if err != nil {
		metrics.RecordJob(JobCleanup, err)
		return result, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	result.SessionsDeleted = n
	metrics.RecordCleanup("sessions", n)

	n, err = store.DeleteExpiredCodes(ctx, now)
	if err != nil {
		metrics.RecordJob(JobCleanup, err)
		return result, fmt.Errorf("failed to delete expired codes: %w", err)
	}
	result.CodesDeleted = n
	metrics.RecordCleanup("codes", n)

	metrics.RecordJob(JobCleanup, nil)
	logger.Info().
		Int64("guest_carts_deleted", result.GuestCartsDeleted).
		Int64("sessions_deleted", result.SessionsDeleted).
		Int64("codes_deleted", result.CodesDeleted).
		Msg("cleanup completed")
	return result, nil
}
