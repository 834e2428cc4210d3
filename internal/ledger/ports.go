// Package ledger declares the store contract the rest of the module consumes.
// Every collection is scoped by user ID and returned newest first.
package ledger

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// BackupInfo describes a backup document kept in the store.
type BackupInfo struct {
	ID        string
	CreatedAt time.Time
	Size      int
}

// Ports for outbound adapters.
type (
	// Reader supplies the four collections a refresh needs.
	Reader interface {
		FetchIncome(ctx context.Context, userID string) ([]core.Transaction, error)
		FetchExpenses(ctx context.Context, userID string) ([]core.Transaction, error)
		FetchSavings(ctx context.Context, userID string) ([]core.Transaction, error)
		FetchSavingsGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error)
	}

	TransactionWriter interface {
		// AddTransaction stores tx, assigning an ID and, when missing, a timestamp.
		AddTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID string, kind core.Kind, id string) error
		// Reset deletes every transaction and goal of the user. Categories and
		// the profile are kept.
		Reset(ctx context.Context, userID string) error
	}

	GoalStore interface {
		AddGoal(ctx context.Context, userID string, g core.SavingsGoal) (core.SavingsGoal, error)
		// GetGoal returns core.ErrGoalNotFound for unknown IDs.
		GetGoal(ctx context.Context, userID, id string) (core.SavingsGoal, error)
		UpdateGoal(ctx context.Context, userID string, g core.SavingsGoal) error
		DeleteGoal(ctx context.Context, userID, id string) error
	}

	CategoryStore interface {
		AddCategory(ctx context.Context, userID string, c core.Category) (core.Category, error)
		ListCategories(ctx context.Context, userID string, typ core.Kind) ([]core.Category, error)
		RenameCategory(ctx context.Context, userID, id, name string) error
		DeleteCategory(ctx context.Context, userID, id string) error
	}

	ProfileStore interface {
		// GetProfile returns a profile with default settings when none was saved.
		GetProfile(ctx context.Context, userID string) (core.Profile, error)
		UpdateProfile(ctx context.Context, userID string, p core.Profile) error
	}

	// InsightArchive keeps the latest generated insight list per user.
	InsightArchive interface {
		SaveInsights(ctx context.Context, userID string, insights []string, at time.Time) error
		// LatestInsights returns nil and a zero time when nothing was saved.
		LatestInsights(ctx context.Context, userID string) ([]string, time.Time, error)
	}

	// BackupArchive keeps encoded backup documents per user. Reset leaves
	// them in place.
	BackupArchive interface {
		SaveBackup(ctx context.Context, userID string, data []byte, at time.Time) (BackupInfo, error)
		// ListBackups returns the user's backups, newest first.
		ListBackups(ctx context.Context, userID string) ([]BackupInfo, error)
		// GetBackup returns core.ErrBackupNotFound for unknown IDs.
		GetBackup(ctx context.Context, userID, id string) ([]byte, error)
		DeleteBackup(ctx context.Context, userID, id string) error
	}

	// Store is implemented by every concrete adapter.
	Store interface {
		Reader
		TransactionWriter
		GoalStore
		CategoryStore
		ProfileStore
		InsightArchive
		BackupArchive
		Ping(ctx context.Context) error
		Close() error
	}
)
