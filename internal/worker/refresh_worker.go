package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/ledger"
)

// InsightRefresher recomputes a user's insights from the store. It must fail
// rather than return placeholder messages when the data cannot be loaded.
type InsightRefresher interface {
	RefreshInsights(ctx context.Context, userID string) ([]string, error)
}

// RefreshWorker recomputes and archives insights whenever a user's ledger
// changes. Refreshes for the same user may overlap; only the one started
// last is allowed to write its result.
type RefreshWorker struct {
	refresher InsightRefresher
	archive   ledger.InsightArchive
	versions  *cache.Versions
	now       func() time.Time
}

func NewRefreshWorker(refresher InsightRefresher, archive ledger.InsightArchive) *RefreshWorker {
	return &RefreshWorker{
		refresher: refresher,
		archive:   archive,
		versions:  cache.NewVersions(),
		now:       time.Now,
	}
}

// HandleChange processes a single ledger change message from AMQP.
func (w *RefreshWorker) HandleChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"user_id", msg.UserID,
		"collection", msg.Collection,
		"operation", msg.Operation)

	at := msg.Timestamp
	if at.IsZero() {
		at = w.now()
	}
	saved, err := w.Refresh(ctx, msg.UserID, at)
	if err != nil {
		return err
	}
	if !saved {
		slog.DebugContext(ctx, "Dropped superseded insight refresh", "user_id", msg.UserID)
	}
	return nil
}

// Refresh recomputes the insights of userID and archives them stamped with
// at. It reports false when a newer refresh for the same user started in the
// meantime, in which case nothing is written.
func (w *RefreshWorker) Refresh(ctx context.Context, userID string, at time.Time) (bool, error) {
	version := w.versions.Bump(userID)

	list, err := w.refresher.RefreshInsights(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("refresh insights for %s: %w", userID, err)
	}
	if !w.versions.IsCurrent(userID, version) {
		return false, nil
	}
	if err := w.archive.SaveInsights(ctx, userID, list, at); err != nil {
		return false, fmt.Errorf("save insights for %s: %w", userID, err)
	}

	slog.InfoContext(ctx, "Insights refreshed",
		"user_id", userID,
		"count", len(list))
	return true, nil
}

// RefreshAll refreshes each user in turn, typically at startup to cover
// changes published while the worker was down. Failures are logged and
// counted; the run continues.
func (w *RefreshWorker) RefreshAll(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		slog.InfoContext(ctx, "No users to refresh on startup")
		return nil
	}

	successCount := 0
	errorCount := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := w.Refresh(ctx, userID, w.now()); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh insights during startup",
				"user_id", userID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup refresh completed",
		"total", len(userIDs),
		"refreshed", successCount,
		"errors", errorCount)
	return nil
}
