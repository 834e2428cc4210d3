package http

import (
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// JSON representations of the domain types.
type (
	transactionView struct {
		ID          string    `json:"id"`
		Kind        core.Kind `json:"kind"`
		Amount      float64   `json:"amount"`
		Category    string    `json:"category,omitempty"`
		Description string    `json:"description,omitempty"`
		Timestamp   time.Time `json:"timestamp"`
	}

	categoryView struct {
		ID        string    `json:"id"`
		Type      core.Kind `json:"type"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
	}

	goalView struct {
		ID           string            `json:"id"`
		Name         string            `json:"goalName"`
		TargetAmount float64           `json:"targetAmount"`
		SavedAmount  float64           `json:"savedAmount"`
		DurationType core.DurationType `json:"durationType,omitempty"`
		Deadline     *time.Time        `json:"goalDeadline,omitempty"`
		Status       core.GoalStatus   `json:"status"`
		CreatedAt    time.Time         `json:"timestamp"`
		Progress     float64           `json:"progress"`
		Remaining    float64           `json:"remaining"`
		Exceeded     bool              `json:"exceeded"`
	}

	categoryTotalView struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}

	monthView struct {
		Month    string  `json:"month"`
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
		Net      float64 `json:"net"`
	}

	dashboardView struct {
		Currency          string              `json:"currency"`
		TotalIncome       float64             `json:"totalIncome"`
		TotalExpenses     float64             `json:"totalExpenses"`
		TotalSavings      float64             `json:"totalSavings"`
		Balance           float64             `json:"balance"`
		Formatted         map[string]string   `json:"formatted"`
		TopCategories     []categoryTotalView `json:"topCategories"`
		ExpenseCategories []categoryTotalView `json:"expenseCategories"`
		IncomeCategories  []categoryTotalView `json:"incomeCategories"`
		Trend             []monthView         `json:"monthlyTrend"`
		Recent            []transactionView   `json:"recentTransactions"`
	}

	settingsView struct {
		Currency      string `json:"currency"`
		Theme         string `json:"theme"`
		Notifications bool   `json:"notifications"`
	}

	profileView struct {
		Name        string       `json:"name"`
		Phone       string       `json:"phone"`
		SavingsGoal float64      `json:"savingsGoal"`
		Settings    settingsView `json:"settings"`
	}

	backupView struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"createdAt"`
		Size      int       `json:"size"`
	}
)

func newTransactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		Kind:        t.Kind,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Timestamp:   t.Timestamp,
	}
}

func newTransactionViews(txs []core.Transaction) []transactionView {
	out := make([]transactionView, len(txs))
	for i, t := range txs {
		out[i] = newTransactionView(t)
	}
	return out
}

func newCategoryView(c core.Category) categoryView {
	return categoryView{ID: c.ID, Type: c.Type, Name: c.Name, CreatedAt: c.CreatedAt}
}

func newGoalView(s aggregate.GoalSummary) goalView {
	g := s.Goal
	v := goalView{
		ID:           g.ID,
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		SavedAmount:  g.SavedAmount,
		DurationType: g.DurationType,
		Status:       g.Status,
		CreatedAt:    g.CreatedAt,
		Progress:     s.Progress,
		Remaining:    s.Remaining,
		Exceeded:     s.Exceeded,
	}
	if !g.Deadline.IsZero() {
		deadline := g.Deadline
		v.Deadline = &deadline
	}
	return v
}

// goalViewOf summarizes a single goal.
func goalViewOf(g core.SavingsGoal) goalView {
	return newGoalView(aggregate.SummarizeGoals([]core.SavingsGoal{g})[0])
}

func newCategoryTotalViews(totals []aggregate.CategoryTotal) []categoryTotalView {
	out := make([]categoryTotalView, len(totals))
	for i, c := range totals {
		out[i] = categoryTotalView{Name: c.Name, Amount: c.Amount}
	}
	return out
}

func newDashboardView(d aggregate.Dashboard, cfg core.DisplayConfig) dashboardView {
	snap := d.Snapshot
	v := dashboardView{
		Currency:          cfg.Currency,
		TotalIncome:       snap.TotalIncome,
		TotalExpenses:     snap.TotalExpenses,
		TotalSavings:      snap.TotalSavings,
		Balance:           snap.Balance(),
		TopCategories:     newCategoryTotalViews(d.TopCategories),
		ExpenseCategories: newCategoryTotalViews(snap.ExpenseCategories),
		IncomeCategories:  newCategoryTotalViews(snap.IncomeCategories),
		Trend:             make([]monthView, len(d.Trend)),
		Recent:            newTransactionViews(d.Recent),
		Formatted: map[string]string{
			"totalIncome":   cfg.Format(snap.TotalIncome),
			"totalExpenses": cfg.Format(snap.TotalExpenses),
			"totalSavings":  cfg.Format(snap.TotalSavings),
			"balance":       formatSigned(cfg, snap.Balance()),
		},
	}
	for i, m := range d.Trend {
		v.Trend[i] = monthView{Month: m.Key, Income: m.Income, Expenses: m.Expenses, Net: m.Net()}
	}
	return v
}

func newProfileView(p core.Profile) profileView {
	return profileView{
		Name:        p.Name,
		Phone:       p.Phone,
		SavingsGoal: p.SavingsGoal,
		Settings: settingsView{
			Currency:      p.Settings.Currency,
			Theme:         p.Settings.Theme,
			Notifications: p.Settings.Notifications,
		},
	}
}

func formatSigned(cfg core.DisplayConfig, v float64) string {
	if v < 0 {
		return "-" + cfg.Format(v)
	}
	return cfg.Format(v)
}

func newBackupView(b ledger.BackupInfo) backupView {
	return backupView{ID: b.ID, CreatedAt: b.CreatedAt, Size: b.Size}
}

func newBackupViews(list []ledger.BackupInfo) []backupView {
	out := make([]backupView, len(list))
	for i, b := range list {
		out[i] = newBackupView(b)
	}
	return out
}
