package backup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type (
	// Source is what an export reads.
	Source interface {
		ledger.Reader
		ledger.ProfileStore
	}

	// Target is what a restore writes.
	Target interface {
		ledger.TransactionWriter
		ledger.GoalStore
		ledger.ProfileStore
	}

	// Report counts the records a restore re-added and those it skipped as
	// invalid.
	Report struct {
		Income   int `json:"income"`
		Expenses int `json:"expenses"`
		Savings  int `json:"savings"`
		Goals    int `json:"savingsGoals"`
		Skipped  int `json:"skipped"`
	}
)

// Export reads every collection and the profile of userID into a document.
func Export(ctx context.Context, src Source, userID string, n core.Normalizer, now time.Time) (Document, error) {
	income, err := src.FetchIncome(ctx, userID)
	if err != nil {
		return Document{}, fmt.Errorf("fetch income: %w", err)
	}
	expenses, err := src.FetchExpenses(ctx, userID)
	if err != nil {
		return Document{}, fmt.Errorf("fetch expenses: %w", err)
	}
	savings, err := src.FetchSavings(ctx, userID)
	if err != nil {
		return Document{}, fmt.Errorf("fetch savings: %w", err)
	}
	goals, err := src.FetchSavingsGoals(ctx, userID)
	if err != nil {
		return Document{}, fmt.Errorf("fetch savings goals: %w", err)
	}
	profile, err := src.GetProfile(ctx, userID)
	if err != nil {
		return Document{}, fmt.Errorf("get profile: %w", err)
	}
	return NewDocument(profile,
		n.NormalizeTransactions(income),
		n.NormalizeTransactions(expenses),
		n.NormalizeTransactions(savings),
		n.NormalizeGoals(goals),
		now), nil
}

// Restore clears the user's transactions and goals, then re-adds the
// contents. Records that fail validation are logged and skipped; a store
// error aborts the restore.
//
// Income and expenses without a category are filed under "Other". Goals are
// re-created ongoing, as when first added. Timestamps from the document are
// kept so trends survive the round trip.
func Restore(ctx context.Context, dst Target, userID string, c Contents) (Report, error) {
	var report Report

	if err := dst.Reset(ctx, userID); err != nil {
		return report, fmt.Errorf("reset user data: %w", err)
	}

	if c.Profile != nil || c.Settings != nil {
		profile, err := dst.GetProfile(ctx, userID)
		if err != nil {
			return report, fmt.Errorf("get profile: %w", err)
		}
		if c.Profile != nil {
			profile.Name = c.Profile.Name
			profile.Phone = c.Profile.Phone
			profile.SavingsGoal = c.Profile.SavingsGoal
		}
		if c.Settings != nil {
			profile.Settings = *c.Settings
		}
		if err := dst.UpdateProfile(ctx, userID, profile); err != nil {
			return report, fmt.Errorf("update profile: %w", err)
		}
	}

	for _, group := range []struct {
		txs   []core.Transaction
		count *int
	}{
		{c.Income, &report.Income},
		{c.Expenses, &report.Expenses},
		{c.Savings, &report.Savings},
	} {
		for _, tx := range group.txs {
			tx.ID = ""
			if tx.Kind != core.Saving {
				tx.Category = core.CategoryOrOther(strings.TrimSpace(tx.Category))
			}
			if err := tx.Validate(); err != nil {
				slog.WarnContext(ctx, "Skipping invalid backup record",
					"user_id", userID, "kind", tx.Kind, "error", err)
				report.Skipped++
				continue
			}
			if _, err := dst.AddTransaction(ctx, userID, tx); err != nil {
				return report, fmt.Errorf("restore %s: %w", tx.Kind, err)
			}
			*group.count++
		}
	}

	for _, g := range c.Goals {
		g.ID = ""
		g.Status = core.GoalOngoing
		if err := g.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid backup goal",
				"user_id", userID, "goal", g.Name, "error", err)
			report.Skipped++
			continue
		}
		if _, err := dst.AddGoal(ctx, userID, g); err != nil {
			return report, fmt.Errorf("restore goal: %w", err)
		}
		report.Goals++
	}

	slog.InfoContext(ctx, "Backup restored",
		"user_id", userID,
		"income", report.Income,
		"expenses", report.Expenses,
		"savings", report.Savings,
		"goals", report.Goals,
		"skipped", report.Skipped)
	return report, nil
}
