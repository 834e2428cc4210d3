package insights

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestGenerator() *Generator {
	g := NewGenerator(aggregate.NewEngine(time.UTC), 30)
	g.Now = func() time.Time { return fixedNow }
	return g
}

func daysAgo(n int) time.Time {
	return fixedNow.AddDate(0, 0, -n)
}

func tx(kind core.Kind, category string, amount float64, ts time.Time) core.Transaction {
	return core.Transaction{Kind: kind, Category: category, Amount: amount, Timestamp: ts}
}

func TestGenerateLengthBounds(t *testing.T) {
	var many []core.Transaction
	for i := 0; i < 200; i++ {
		many = append(many, tx(core.Expense, "Food", 10, daysAgo(i%25)))
	}
	tests := []struct {
		name string
		in   aggregate.Input
	}{
		{"empty", aggregate.Input{}},
		{"only old data", aggregate.Input{Income: []core.Transaction{tx(core.Income, "Salary", 100, daysAgo(90))}}},
		{"busy user", aggregate.Input{
			Income:   []core.Transaction{tx(core.Income, "Salary", 5000, daysAgo(1))},
			Expenses: many,
			Savings:  []core.Transaction{{Kind: core.Saving, Amount: 300, Timestamp: daysAgo(2)}},
			Goals: []core.SavingsGoal{
				{Name: "Car", TargetAmount: 1000, SavedAmount: 250, Status: core.GoalOngoing},
				{Name: "Trip", TargetAmount: 100, SavedAmount: 100, Status: core.GoalCompleted},
			},
		}},
	}
	g := newTestGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Generate(tt.in)
			if len(got) < MinInsights || len(got) > MaxInsights {
				t.Fatalf("got %d insights: %v", len(got), got)
			}
		})
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	got := newTestGenerator().Generate(aggregate.Input{})
	want := []string{
		"You have about 0.0 transactions per day. Consider tracking more regularly for better insights. 📊",
		"Consider setting savings goals to stay motivated and track your progress! 🎯",
		"Keep tracking your finances regularly for better insights. 📈",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Generate(empty) =\n%q\nwant\n%q", got, want)
	}
}

func TestGenerateCapsAtFive(t *testing.T) {
	in := aggregate.Input{
		Income:   []core.Transaction{tx(core.Income, "Salary", 1000, daysAgo(3))},
		Expenses: []core.Transaction{tx(core.Expense, "Food", 300, daysAgo(1)), tx(core.Expense, "Food", 100, daysAgo(10))},
		Savings:  []core.Transaction{{Kind: core.Saving, Amount: 200, Timestamp: daysAgo(2)}},
		Goals: []core.SavingsGoal{
			{TargetAmount: 100, SavedAmount: 50, Status: core.GoalOngoing},
			{TargetAmount: 100, SavedAmount: 100, Status: core.GoalArchived},
		},
	}
	got := newTestGenerator().Generate(in)
	if len(got) != MaxInsights {
		t.Fatalf("expected %d insights, got %d: %v", MaxInsights, len(got), got)
	}
	if !strings.HasPrefix(got[0], "You've saved 200 in the last 30 days") {
		t.Errorf("first insight = %q", got[0])
	}
	for _, s := range got {
		if strings.Contains(s, "savings goal") && strings.Contains(s, "achieved") {
			t.Errorf("insight past the cap was kept: %q", s)
		}
	}
}

func TestWindowExcludesOldRecords(t *testing.T) {
	in := aggregate.Input{
		Expenses: []core.Transaction{
			tx(core.Expense, "Food", 10, daysAgo(5)),
			tx(core.Expense, "Food", 99, daysAgo(31)),
		},
	}
	w := newTestGenerator().Window(in)
	if len(w.Expenses) != 1 || w.TotalExpenses != 10 {
		t.Fatalf("window = %+v", w)
	}
}

func TestTopExpenseCategoryShare(t *testing.T) {
	w := newTestGenerator().Window(aggregate.Input{Expenses: []core.Transaction{
		tx(core.Expense, "Food", 300, daysAgo(1)),
		tx(core.Expense, "Food", 200, daysAgo(2)),
		tx(core.Expense, "Transport", 100, daysAgo(3)),
	}})
	got, ok := TopExpenseCategory(w)
	want := "Food is your biggest expense category at 83.3% of total spending. 🎯"
	if !ok || got != want {
		t.Fatalf("TopExpenseCategory() = %q, %v", got, ok)
	}
}

func TestTopExpenseCategoryZeroTotal(t *testing.T) {
	w := Window{ExpenseCategories: []aggregate.CategoryTotal{{Name: "Food", Amount: 0}}}
	got, ok := TopExpenseCategory(w)
	if !ok || got != "Food is your biggest expense category at 0% of total spending. 🎯" {
		t.Fatalf("TopExpenseCategory() = %q, %v", got, ok)
	}
	if _, ok := TopExpenseCategory(Window{}); ok {
		t.Fatal("expected no insight without expenses")
	}
}

func TestWeekOverWeek(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		current  float64
		want     string
	}{
		{"fifty percent rise", 100, 150, "Your Food expenses increased by 50.0% compared to last week. 📈"},
		{"below threshold", 100, 103, ""},
		{"drop", 200, 50, "Your Food expenses decreased by 75.0% compared to last week. 📉"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Window{ExpenseWeeks: []aggregate.CategoryWeeks{{
				Category: "Food",
				Weeks: []aggregate.WeekBucket{
					{Start: "2024-03-03", Amount: tt.previous},
					{Start: "2024-03-10", Amount: tt.current},
				},
			}}}
			got, ok := WeekOverWeek(w)
			if ok != (tt.want != "") || got != tt.want {
				t.Errorf("WeekOverWeek() = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
}

func TestWeekOverWeekSkipsSingleWeekCategories(t *testing.T) {
	w := Window{ExpenseWeeks: []aggregate.CategoryWeeks{
		{Category: "Rent", Weeks: []aggregate.WeekBucket{{Start: "2024-03-10", Amount: 900}}},
		{Category: "Fuel", Weeks: []aggregate.WeekBucket{{Start: "2024-03-03", Amount: 0}, {Start: "2024-03-10", Amount: 40}}},
	}}
	got, ok := WeekOverWeek(w)
	if !ok || got != "Your Fuel expenses increased by 100.0% compared to last week. 📈" {
		t.Fatalf("WeekOverWeek() = %q, %v", got, ok)
	}
}

func TestWeekOverWeekFromTransactions(t *testing.T) {
	// 2024-03-17 is a Sunday.
	w := newTestGenerator().Window(aggregate.Input{Expenses: []core.Transaction{
		tx(core.Expense, "Food", 150, time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC)),
		tx(core.Expense, "Food", 100, time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)),
	}})
	got, ok := WeekOverWeek(w)
	if !ok || !strings.Contains(got, "increased by 50.0%") {
		t.Fatalf("WeekOverWeek() = %q, %v", got, ok)
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		current, previous, want float64
	}{
		{150, 100, 50},
		{50, 100, -50},
		{10, 0, 100},
		{0, 0, 0},
		{10, -20, 150},
	}
	for _, tt := range tests {
		if got := PercentChange(tt.current, tt.previous); got != tt.want {
			t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestIncomeExpenseRatio(t *testing.T) {
	tests := []struct {
		name    string
		income  float64
		expense float64
		want    string
	}{
		{"saving", 1000, 750, "You're saving 25.0% of your income this month. Keep it up! 🎉"},
		{"deficit", 1000, 1200, "Your expenses exceed income by 20.0%. Consider budgeting to improve this. ⚠️"},
		{"break even", 1000, 1000, "Your expenses exceed income by 0.0%. Consider budgeting to improve this. ⚠️"},
		{"no income", 0, 50, ""},
		{"no expenses", 50, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IncomeExpenseRatio(Window{TotalIncome: tt.income, TotalExpenses: tt.expense})
			if ok != (tt.want != "") || got != tt.want {
				t.Errorf("IncomeExpenseRatio() = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
}

func TestTransactionFrequency(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  string
	}{
		{"sparse", 15, "You have about 0.5 transactions per day. Consider tracking more regularly for better insights. 📊"},
		{"steady", 60, ""},
		{"busy", 120, "You're actively tracking with 4.0 transactions per day. Great financial awareness! 👏"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TransactionFrequency(Window{Days: 30, Expenses: make([]core.Transaction, tt.count)})
			if ok != (tt.want != "") || got != tt.want {
				t.Errorf("TransactionFrequency() = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
}

func TestSavingsTrend(t *testing.T) {
	if got, ok := SavingsTrend(Window{Days: 30, TotalSavings: -40.4}); !ok || got != "Your savings decreased by 40 in the last 30 days. Consider reviewing your expenses. 📉" {
		t.Errorf("SavingsTrend(negative) = %q, %v", got, ok)
	}
	if _, ok := SavingsTrend(Window{Days: 30}); ok {
		t.Error("expected no insight for zero savings")
	}
}

func TestGoalRules(t *testing.T) {
	ongoing := core.SavingsGoal{TargetAmount: 400, SavedAmount: 100, Status: core.GoalOngoing}
	legacy := core.SavingsGoal{TargetAmount: 100, SavedAmount: 0}
	done := core.SavingsGoal{TargetAmount: 10, SavedAmount: 10, Status: core.GoalCompleted}
	dropped := core.SavingsGoal{TargetAmount: 10, Status: core.GoalNotAchieved}

	w := Window{Goals: []core.SavingsGoal{ongoing, legacy, done, done}}
	if got, _ := ActiveGoalsProgress(w); got != "You're 20.0% towards your savings goals. Keep saving! 🎯" {
		t.Errorf("ActiveGoalsProgress() = %q", got)
	}
	if got, _ := CompletedGoals(w); got != "You've achieved 2 savings goals! Amazing progress! 🏆" {
		t.Errorf("CompletedGoals() = %q", got)
	}
	if _, ok := GoalsPrompt(w); ok {
		t.Error("GoalsPrompt should stay silent when goals are tracked")
	}

	single := Window{Goals: []core.SavingsGoal{done}}
	if got, _ := CompletedGoals(single); got != "You've achieved 1 savings goal! Amazing progress! 🏆" {
		t.Errorf("CompletedGoals(single) = %q", got)
	}

	stale := Window{Goals: []core.SavingsGoal{dropped}}
	if got, ok := GoalsPrompt(stale); !ok || got != "Set some savings goals to track your progress and stay motivated! 💪" {
		t.Errorf("GoalsPrompt(stale) = %q, %v", got, ok)
	}

	zero := Window{Goals: []core.SavingsGoal{{Status: core.GoalOngoing}}}
	if got, _ := ActiveGoalsProgress(zero); got != "You're 0% towards your savings goals. Keep saving! 🎯" {
		t.Errorf("ActiveGoalsProgress(zero target) = %q", got)
	}
}

func TestPaddingUsesFiller(t *testing.T) {
	g := newTestGenerator()
	g.Rules = []Rule{GoalsPrompt}
	got := g.Evaluate(Window{TotalIncome: 10, TotalExpenses: 5})
	want := "Your income exceeds expenses - you're on the right track! 🌟"
	if len(got) != MinInsights || got[1] != want || got[2] != want {
		t.Fatalf("Evaluate() = %q", got)
	}
	if Filler(Window{TotalExpenses: 1}) != "Consider reviewing your budget to reduce expenses. 💡" {
		t.Error("unexpected filler for overspending")
	}
}

func TestGenerateFromFallsBack(t *testing.T) {
	g := newTestGenerator()
	got := g.GenerateFrom(context.Background(), func(context.Context) (aggregate.Input, error) {
		return aggregate.Input{}, errors.New("store unavailable")
	})
	if !reflect.DeepEqual(got, Fallback()) {
		t.Fatalf("GenerateFrom() = %q, want fallback", got)
	}

	got = g.GenerateFrom(context.Background(), func(context.Context) (aggregate.Input, error) {
		return aggregate.Input{}, nil
	})
	if reflect.DeepEqual(got, Fallback()) {
		t.Fatal("successful load must not produce the fallback")
	}
}
