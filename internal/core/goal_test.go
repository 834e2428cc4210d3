package core

import (
	"testing"
	"time"
)

func TestRefreshStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		goal        SavingsGoal
		wantStatus  GoalStatus
		wantChanged bool
	}{
		{
			name:        "deadline in future stays ongoing",
			goal:        SavingsGoal{Status: GoalOngoing, Deadline: now.Add(time.Hour)},
			wantStatus:  GoalOngoing,
			wantChanged: false,
		},
		{
			name:        "deadline reached exactly completes",
			goal:        SavingsGoal{Status: GoalOngoing, Deadline: now},
			wantStatus:  GoalCompleted,
			wantChanged: true,
		},
		{
			name:        "already completed is untouched",
			goal:        SavingsGoal{Status: GoalCompleted, Deadline: now.Add(-time.Hour)},
			wantStatus:  GoalCompleted,
			wantChanged: false,
		},
		{
			name:        "no deadline never expires",
			goal:        SavingsGoal{Status: GoalOngoing},
			wantStatus:  GoalOngoing,
			wantChanged: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.goal.RefreshStatus(now)
			if got.Status != tt.wantStatus || changed != tt.wantChanged {
				t.Errorf("RefreshStatus() = (%v, %v), want (%v, %v)", got.Status, changed, tt.wantStatus, tt.wantChanged)
			}
		})
	}
}

func TestDeadlineFromDuration(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := DeadlineFromDuration(now, 6); !got.Equal(time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("6 months: got %v", got)
	}
	if got := DeadlineFromDuration(now, 0); !got.Equal(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("default months: got %v", got)
	}
}

func TestCategoryMatching(t *testing.T) {
	if !SameCategory(" Food ", "food") {
		t.Fatal("expected case-insensitive match")
	}
	if CategoryOrOther("  ") != OtherCategory || CategoryOrOther("Rent") != "Rent" {
		t.Fatal("unexpected CategoryOrOther result")
	}
	txs := []Transaction{
		{ID: "1", Category: "Food"},
		{ID: "2", Category: "Rent"},
		{ID: "3", Category: "FOOD "},
	}
	got := FilterByCategory(txs, "food")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}
