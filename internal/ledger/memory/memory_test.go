package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestStoreAddAndFetchNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []float64{10, 20, 30} {
		_, err := s.AddTransaction(ctx, "u1", core.Transaction{
			Kind: core.Expense, Category: "Food", Amount: amount, Timestamp: base.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}
	got, err := s.FetchExpenses(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Amount != 30 || got[2].Amount != 10 {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("expected unique ids, got %q and %q", got[0].ID, got[1].ID)
	}

	other, _ := s.FetchExpenses(ctx, "u2")
	if len(other) != 0 {
		t.Fatalf("users must be isolated, got %+v", other)
	}
	income, _ := s.FetchIncome(ctx, "u1")
	if len(income) != 0 {
		t.Fatalf("kinds must be isolated, got %+v", income)
	}
}

func TestStoreAddTransactionValidates(t *testing.T) {
	s := New()
	_, err := s.AddTransaction(context.Background(), "u1", core.Transaction{Kind: core.Income, Amount: 5})
	if !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}

func TestStoreAddTransactionStampsTime(t *testing.T) {
	s := New()
	fixed := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	tx, err := s.AddTransaction(context.Background(), "u1", core.Transaction{Kind: core.Saving, Amount: 5})
	if err != nil || !tx.Timestamp.Equal(fixed) {
		t.Fatalf("tx=%+v err=%v", tx, err)
	}
}

func TestStoreDeleteAndReset(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, _ := s.AddTransaction(ctx, "u1", core.Transaction{Kind: core.Saving, Amount: 5})
	if err := s.DeleteTransaction(ctx, "u1", core.Saving, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "u1", core.Saving, tx.ID); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	_, _ = s.AddTransaction(ctx, "u1", core.Transaction{Kind: core.Income, Category: "Salary", Amount: 5})
	_, _ = s.AddGoal(ctx, "u1", core.SavingsGoal{Name: "Car", TargetAmount: 100})
	_, _ = s.AddCategory(ctx, "u1", core.Category{Type: core.Income, Name: "Salary"})
	if err := s.Reset(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	income, _ := s.FetchIncome(ctx, "u1")
	goals, _ := s.FetchSavingsGoals(ctx, "u1")
	cats, _ := s.ListCategories(ctx, "u1", core.Income)
	if len(income) != 0 || len(goals) != 0 {
		t.Fatalf("reset left data: income=%v goals=%v", income, goals)
	}
	if len(cats) != 1 {
		t.Fatalf("reset must keep categories, got %v", cats)
	}
}

func TestStoreGoalLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	g, err := s.AddGoal(ctx, "u1", core.SavingsGoal{Name: "Car", TargetAmount: 100})
	if err != nil {
		t.Fatal(err)
	}
	if g.Status != core.GoalOngoing || g.ID == "" {
		t.Fatalf("unexpected goal: %+v", g)
	}
	g.SavedAmount = 40
	if err := s.UpdateGoal(ctx, "u1", g); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetGoal(ctx, "u1", g.ID)
	if err != nil || got.SavedAmount != 40 {
		t.Fatalf("GetGoal = %+v, %v", got, err)
	}
	if err := s.DeleteGoal(ctx, "u1", g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetGoal(ctx, "u1", g.ID); !errors.Is(err, core.ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
	if _, err := s.AddGoal(ctx, "u1", core.SavingsGoal{Name: "x"}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestStoreCategories(t *testing.T) {
	ctx := context.Background()
	s := New()
	food, err := s.AddCategory(ctx, "u1", core.Category{Type: core.Expense, Name: "  Food "})
	if err != nil || food.Name != "Food" {
		t.Fatalf("AddCategory = %+v, %v", food, err)
	}
	_, _ = s.AddCategory(ctx, "u1", core.Category{Type: core.Income, Name: "Salary"})
	if _, err := s.AddCategory(ctx, "u1", core.Category{Type: core.Saving, Name: "x"}); !errors.Is(err, core.ErrInvalidCategoryType) {
		t.Fatalf("expected ErrInvalidCategoryType, got %v", err)
	}

	if err := s.RenameCategory(ctx, "u1", food.ID, "Groceries"); err != nil {
		t.Fatal(err)
	}
	cats, _ := s.ListCategories(ctx, "u1", core.Expense)
	if len(cats) != 1 || cats[0].Name != "Groceries" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
	if err := s.RenameCategory(ctx, "u1", food.ID, " "); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := s.DeleteCategory(ctx, "u1", food.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteCategory(ctx, "u1", food.ID); !errors.Is(err, core.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestStoreProfileDefaults(t *testing.T) {
	ctx := context.Background()
	s := New()
	p, err := s.GetProfile(ctx, "u1")
	if err != nil || p.Settings.Currency != core.DefaultCurrency || !p.Settings.Notifications {
		t.Fatalf("GetProfile = %+v, %v", p, err)
	}
	p.Settings.Currency = "USD"
	p.Name = "Asha"
	_ = s.UpdateProfile(ctx, "u1", p)
	got, _ := s.GetProfile(ctx, "u1")
	if got.Name != "Asha" || got.Settings.Currency != "USD" {
		t.Fatalf("profile not saved: %+v", got)
	}
}

func TestStoreInsightsKeepLatest(t *testing.T) {
	ctx := context.Background()
	s := New()
	if got, at, _ := s.LatestInsights(ctx, "u1"); got != nil || !at.IsZero() {
		t.Fatalf("expected nothing saved, got %v at %v", got, at)
	}
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = s.SaveInsights(ctx, "u1", []string{"new"}, t1.Add(time.Hour))
	_ = s.SaveInsights(ctx, "u1", []string{"stale"}, t1)
	got, at, _ := s.LatestInsights(ctx, "u1")
	if len(got) != 1 || got[0] != "new" || !at.Equal(t1.Add(time.Hour)) {
		t.Fatalf("LatestInsights = %v at %v", got, at)
	}
}

func TestStoreReadsDoNotCreateUsers(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.FetchIncome(ctx, "ghost")
	_, _ = s.FetchSavingsGoals(ctx, "ghost")
	_, _ = s.GetGoal(ctx, "ghost", "g1")
	_, _ = s.ListCategories(ctx, "ghost", core.Expense)
	_, _ = s.GetProfile(ctx, "ghost")
	_, _, _ = s.LatestInsights(ctx, "ghost")
	_ = s.DeleteTransaction(ctx, "ghost", core.Income, "t1")
	_ = s.UpdateGoal(ctx, "ghost", core.SavingsGoal{ID: "g1"})
	_ = s.RenameCategory(ctx, "ghost", "c1", "x")
	_ = s.Reset(ctx, "ghost")
	if len(s.users) != 0 {
		t.Fatalf("reads created %d user entries", len(s.users))
	}

	_, _ = s.AddTransaction(ctx, "u1", core.Transaction{Kind: core.Saving, Amount: 1})
	if len(s.users) != 1 {
		t.Fatalf("write must create the user, got %d entries", len(s.users))
	}
}

func TestStoreBackups(t *testing.T) {
	ctx := context.Background()
	s := New()
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first, _ := s.SaveBackup(ctx, "u1", []byte("one"), t1)
	second, _ := s.SaveBackup(ctx, "u1", []byte("two!"), t1.Add(time.Minute))

	list, _ := s.ListBackups(ctx, "u1")
	if len(list) != 2 || list[0].ID != second.ID || list[0].Size != 4 || list[1].ID != first.ID {
		t.Fatalf("ListBackups = %+v", list)
	}

	data, err := s.GetBackup(ctx, "u1", first.ID)
	if err != nil || string(data) != "one" {
		t.Fatalf("GetBackup = %q, %v", data, err)
	}
	data[0] = 'X'
	if again, _ := s.GetBackup(ctx, "u1", first.ID); string(again) != "one" {
		t.Fatalf("stored backup was mutated through the returned slice: %q", again)
	}

	_ = s.Reset(ctx, "u1")
	if list, _ := s.ListBackups(ctx, "u1"); len(list) != 2 {
		t.Fatalf("reset must keep backups, got %+v", list)
	}
	if err := s.DeleteBackup(ctx, "u1", first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetBackup(ctx, "u1", first.ID); !errors.Is(err, core.ErrBackupNotFound) {
		t.Fatalf("expected ErrBackupNotFound, got %v", err)
	}
	if err := s.DeleteBackup(ctx, "u2", second.ID); !errors.Is(err, core.ErrBackupNotFound) {
		t.Fatalf("expected ErrBackupNotFound for another user, got %v", err)
	}
}
