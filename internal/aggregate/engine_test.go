package aggregate

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"fintrack/internal/core"
)

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func expense(category string, amount float64, ts time.Time) core.Transaction {
	return core.Transaction{Kind: core.Expense, Category: category, Amount: amount, Timestamp: ts}
}

func income(category string, amount float64, ts time.Time) core.Transaction {
	return core.Transaction{Kind: core.Income, Category: category, Amount: amount, Timestamp: ts}
}

func TestTotalEmpty(t *testing.T) {
	if got := Total(nil); got != 0 {
		t.Fatalf("Total(nil) = %v", got)
	}
	snap := NewEngine(nil).Snapshot(Input{})
	if snap.TotalIncome != 0 || snap.TotalExpenses != 0 || snap.TotalSavings != 0 {
		t.Fatalf("expected zero totals, got %+v", snap)
	}
	if len(snap.ExpenseCategories) != 0 || len(snap.MonthlyTrend) != 0 || len(snap.RecentTransactions) != 0 {
		t.Fatalf("expected empty sequences, got %+v", snap)
	}
}

func TestGroupByCategoryTopCategoryScenario(t *testing.T) {
	ts := at(2024, 5, 1)
	expenses := []core.Transaction{
		expense("Food", 300, ts),
		expense("Food", 200, ts),
		expense("Transport", 100, ts),
	}
	got := GroupByCategory(expenses)
	want := []CategoryTotal{{Name: "Food", Amount: 500}, {Name: "Transport", Amount: 100}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GroupByCategory() = %+v, want %+v", got, want)
	}
	top := TopCategories(got, 1)
	share := top[0].Amount / Total(expenses) * 100
	if top[0].Name != "Food" || core.FixedString(share, 1) != "83.3" {
		t.Fatalf("top category = %+v share %v", top[0], share)
	}
}

func TestGroupByCategoryFallsBackToOther(t *testing.T) {
	got := GroupByCategory([]core.Transaction{{Amount: 4}, {Category: " ", Amount: 1}, {Category: "Rent", Amount: 2}})
	if len(got) != 2 || got[0].Name != core.OtherCategory || got[0].Amount != 5 {
		t.Fatalf("unexpected grouping: %+v", got)
	}
}

func TestCategoryTotalsSumToTotal(t *testing.T) {
	var expenses []core.Transaction
	for i := 0; i < 50; i++ {
		expenses = append(expenses, expense(fmt.Sprintf("c%d", i%7), float64(i)*1.37, at(2024, 1, 1)))
	}
	var sum float64
	for _, c := range GroupByCategory(expenses) {
		sum += c.Amount
	}
	if math.Abs(sum-Total(expenses)) > 1e-9 {
		t.Fatalf("category sum %v != total %v", sum, Total(expenses))
	}
}

func TestTopCategoriesStableAndTruncated(t *testing.T) {
	totals := []CategoryTotal{
		{"a", 10}, {"b", 30}, {"c", 10}, {"d", 5}, {"e", 30}, {"f", 1}, {"g", 2},
	}
	got := TopCategories(totals, DefaultTopCategories)
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name
	}
	want := []string{"b", "e", "a", "c", "d"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("TopCategories names = %v, want %v", names, want)
	}
	if totals[0].Name != "a" {
		t.Fatal("input must not be reordered")
	}
}

func TestMonthlyTrendSelectsLastSixPopulatedMonths(t *testing.T) {
	var inc []core.Transaction
	for i := 0; i < 18; i++ {
		inc = append(inc, income("Salary", 100, time.Date(2023, time.Month(1+i), 10, 0, 0, 0, 0, time.UTC)))
	}
	e := NewEngine(time.UTC)
	trend := e.MonthlyTrend(inc, nil)
	if len(trend) != 18 {
		t.Fatalf("expected 18 buckets, got %d", len(trend))
	}
	shown := LastMonths(trend, DefaultTrendMonths)
	var keys []string
	for _, b := range shown {
		keys = append(keys, b.Key)
	}
	want := []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
}

func TestMonthlyTrendDoesNotZeroFill(t *testing.T) {
	e := NewEngine(time.UTC)
	trend := e.MonthlyTrend(
		[]core.Transaction{income("Salary", 1000, at(2024, 1, 5)), {Amount: 50}},
		[]core.Transaction{expense("Food", 200, at(2024, 4, 5)), expense("Food", 50, at(2024, 1, 20))},
	)
	want := []MonthBucket{
		{Key: "2024-01", Income: 1000, Expenses: 50},
		{Key: "2024-04", Income: 0, Expenses: 200},
	}
	if !reflect.DeepEqual(trend, want) {
		t.Fatalf("trend = %+v, want %+v", trend, want)
	}
	if nets := NetSeries(trend); nets[0] != 950 || nets[1] != -200 {
		t.Fatalf("net series = %v", nets)
	}
}

func TestMonthKeyUsesEngineLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	e := NewEngine(loc)
	ts := time.Date(2024, 1, 31, 22, 0, 0, 0, time.UTC)
	if got := e.MonthKey(ts); got != "2024-02" {
		t.Fatalf("MonthKey = %q, want 2024-02", got)
	}
}

func TestNetIsFinite(t *testing.T) {
	b := MonthBucket{Income: math.Inf(1), Expenses: math.Inf(1)}
	if b.Net() != 0 {
		t.Fatalf("Net() = %v, want 0", b.Net())
	}
}

func TestWeeklyIncome(t *testing.T) {
	now := at(2024, 3, 18)
	inc := []core.Transaction{
		income("Salary", 100, at(2024, 3, 1)),
		income("Salary", 10, at(2024, 3, 7)),
		income("Bonus", 20, at(2024, 3, 8)),
		income("Bonus", 30, at(2024, 3, 21)),
		income("Bonus", 40, at(2024, 3, 31)),
		income("Old", 1000, at(2024, 2, 10)),
		income("LastYear", 1000, at(2023, 3, 10)),
		{Amount: 5},
	}
	got := NewEngine(time.UTC).WeeklyIncome(inc, now)
	want := [4]float64{110, 20, 30, 40}
	if got != want {
		t.Fatalf("WeeklyIncome = %v, want %v", got, want)
	}
}

func TestWeekOfMonth(t *testing.T) {
	cases := map[int]int{1: 0, 7: 0, 8: 1, 14: 1, 15: 2, 21: 2, 22: 3, 31: 3}
	for day, want := range cases {
		if got := WeekOfMonth(day); got != want {
			t.Errorf("WeekOfMonth(%d) = %d, want %d", day, got, want)
		}
	}
}

func TestWeeklyByCategory(t *testing.T) {
	e := NewEngine(time.UTC)
	// 2024-03-10 is a Sunday.
	txs := []core.Transaction{
		expense("Food", 150, at(2024, 3, 12)),
		expense("Rent", 900, at(2024, 3, 11)),
		expense("Food", 60, at(2024, 3, 6)),
		expense("Food", 40, at(2024, 3, 3)),
	}
	got := e.WeeklyByCategory(txs)
	if len(got) != 2 || got[0].Category != "Food" || got[1].Category != "Rent" {
		t.Fatalf("unexpected categories: %+v", got)
	}
	want := []WeekBucket{{Start: "2024-03-03", Amount: 100}, {Start: "2024-03-10", Amount: 150}}
	if !reflect.DeepEqual(got[0].Weeks, want) {
		t.Fatalf("Food weeks = %+v, want %+v", got[0].Weeks, want)
	}
}

func TestRecentTransactions(t *testing.T) {
	var inc, exp []core.Transaction
	for i := 0; i < 7; i++ {
		inc = append(inc, core.Transaction{ID: fmt.Sprintf("i%d", i), Amount: 10, Timestamp: at(2024, 5, 20-2*i)})
		exp = append(exp, core.Transaction{ID: fmt.Sprintf("e%d", i), Amount: 3, Timestamp: at(2024, 5, 19-2*i)})
	}
	got := RecentTransactions(inc, exp, DefaultRecentLimit)
	if len(got) != 10 {
		t.Fatalf("expected 10 records, got %d", len(got))
	}
	wantIDs := []string{"i0", "e0", "i1", "e1", "i2", "e2", "i3", "e3", "i4", "e4"}
	for i, tx := range got {
		if tx.ID != wantIDs[i] {
			t.Fatalf("position %d = %s, want %s", i, tx.ID, wantIDs[i])
		}
		if tx.ID[0] == 'e' && tx.Amount != -3 {
			t.Fatalf("expense amount not negated: %+v", tx)
		}
	}
	if exp[0].Amount != 3 {
		t.Fatal("input expenses must not be mutated")
	}
}

func TestSince(t *testing.T) {
	from := at(2024, 5, 1)
	txs := []core.Transaction{
		{ID: "new", Timestamp: at(2024, 5, 2)},
		{ID: "edge", Timestamp: from},
		{ID: "old", Timestamp: at(2024, 4, 30)},
		{ID: "none"},
	}
	got := Since(txs, from)
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "edge" {
		t.Fatalf("Since = %+v", got)
	}
}

func TestSnapshotIsIdempotent(t *testing.T) {
	in := Input{
		Income:   []core.Transaction{income("Salary", 1000, at(2024, 1, 5)), income("Gift", 50, at(2024, 2, 5))},
		Expenses: []core.Transaction{expense("Food", 30, at(2024, 2, 6)), expense("Rent", 500, at(2024, 1, 6)), expense("Food", 12, at(2024, 1, 2))},
		Savings:  []core.Transaction{{Kind: core.Saving, Amount: 100, Timestamp: at(2024, 1, 9)}},
	}
	e := NewEngine(time.UTC)
	a, b := e.Snapshot(in), e.Snapshot(in)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("snapshots differ:\n%+v\n%+v", a, b)
	}
	if a.TotalIncome != 1050 || a.TotalExpenses != 542 || a.TotalSavings != 100 || a.Balance() != 508 {
		t.Fatalf("unexpected totals: %+v", a)
	}
}

func TestDashboardSelection(t *testing.T) {
	in := Input{
		Expenses: []core.Transaction{
			expense("A", 1, at(2024, 1, 1)),
			expense("B", 0, at(2024, 1, 1)),
			expense("C", 7, at(2024, 1, 1)),
		},
	}
	d := NewEngine(time.UTC).Dashboard(in)
	if len(d.TopCategories) != 2 || d.TopCategories[0].Name != "C" || d.TopCategories[1].Name != "A" {
		t.Fatalf("unexpected top categories: %+v", d.TopCategories)
	}
	if len(d.Trend) != 1 || d.NetTrend[0] != -8 {
		t.Fatalf("unexpected trend: %+v %v", d.Trend, d.NetTrend)
	}
	if len(d.Recent) != 3 {
		t.Fatalf("expected 3 recent, got %d", len(d.Recent))
	}
}
