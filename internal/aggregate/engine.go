// Package aggregate derives dashboard figures from normalized transaction
// collections. Every function is pure and total: empty or partial input
// produces zeroed results, never errors.
package aggregate

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

const (
	// DefaultTopCategories is how many categories a top-N display shows.
	DefaultTopCategories = 5
	// DefaultTrendMonths is how many populated months a trend display shows.
	DefaultTrendMonths = 6
	// DefaultRecentLimit is how many records per collection feed the recent list.
	DefaultRecentLimit = 5

	monthKeyLayout = "2006-01"
	weekKeyLayout  = "2006-01-02"
)

type (
	// Input is the full set of collections for one user, each ordered newest
	// first as returned by the store.
	Input struct {
		Income   []core.Transaction
		Expenses []core.Transaction
		Savings  []core.Transaction
		Goals    []core.SavingsGoal
	}

	CategoryTotal struct {
		Name   string
		Amount float64
	}

	// MonthBucket accumulates income and expenses for one calendar month.
	MonthBucket struct {
		Key      string // YYYY-MM
		Income   float64
		Expenses float64
	}

	WeekBucket struct {
		Start  string // YYYY-MM-DD of the Sunday opening the week
		Amount float64
	}

	// CategoryWeeks holds one category's weekly sums, oldest week first.
	CategoryWeeks struct {
		Category string
		Weeks    []WeekBucket
	}

	// Snapshot is recomputed from scratch on every request.
	Snapshot struct {
		TotalIncome        float64
		TotalExpenses      float64
		TotalSavings       float64
		ExpenseCategories  []CategoryTotal
		IncomeCategories   []CategoryTotal
		MonthlyTrend       []MonthBucket
		RecentTransactions []core.Transaction
	}
)

// Net returns income minus expenses, or 0 when the difference is not finite.
func (b MonthBucket) Net() float64 {
	return core.Finite(b.Income - b.Expenses)
}

// Balance returns total income minus total expenses.
func (s Snapshot) Balance() float64 {
	return core.Finite(s.TotalIncome - s.TotalExpenses)
}

// Engine holds the calendar settings used for time bucketing.
type Engine struct {
	Location    *time.Location
	RecentLimit int
}

// NewEngine returns an engine bucketing times in loc (UTC when nil).
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{Location: loc, RecentLimit: DefaultRecentLimit}
}

func (e *Engine) location() *time.Location {
	if e == nil || e.Location == nil {
		return time.UTC
	}
	return e.Location
}

func (e *Engine) recentLimit() int {
	if e == nil || e.RecentLimit <= 0 {
		return DefaultRecentLimit
	}
	return e.RecentLimit
}

// Snapshot computes every aggregate for in.
func (e *Engine) Snapshot(in Input) Snapshot {
	return Snapshot{
		TotalIncome:        Total(in.Income),
		TotalExpenses:      Total(in.Expenses),
		TotalSavings:       Total(in.Savings),
		ExpenseCategories:  GroupByCategory(in.Expenses),
		IncomeCategories:   GroupByCategory(in.Income),
		MonthlyTrend:       e.MonthlyTrend(in.Income, in.Expenses),
		RecentTransactions: RecentTransactions(in.Income, in.Expenses, e.recentLimit()),
	}
}

// Total sums the amounts of txs.
func Total(txs []core.Transaction) float64 {
	var sum float64
	for _, t := range txs {
		sum += t.Amount
	}
	return core.Finite(sum)
}

// GroupByCategory sums amounts per category in first-encountered order.
// Records without a category are grouped under core.OtherCategory.
func GroupByCategory(txs []core.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, t := range txs {
		name := core.CategoryOrOther(t.Category)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, CategoryTotal{Name: name})
		}
		out[i].Amount += t.Amount
	}
	return out
}

// TopCategories returns the n largest totals, largest first. Ties keep
// their input order.
func TopCategories(totals []CategoryTotal, n int) []CategoryTotal {
	sorted := append([]CategoryTotal(nil), totals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// MonthKey formats t as YYYY-MM in the engine's location.
func (e *Engine) MonthKey(t time.Time) string {
	return t.In(e.location()).Format(monthKeyLayout)
}

// MonthlyTrend buckets income and expenses by calendar month, ordered by
// month key. Only months with at least one record appear; records without a
// timestamp are skipped.
func (e *Engine) MonthlyTrend(income, expenses []core.Transaction) []MonthBucket {
	buckets := make(map[string]*MonthBucket)
	bucket := func(t time.Time) *MonthBucket {
		key := e.MonthKey(t)
		b, ok := buckets[key]
		if !ok {
			b = &MonthBucket{Key: key}
			buckets[key] = b
		}
		return b
	}
	for _, t := range income {
		if !t.Timestamp.IsZero() {
			bucket(t.Timestamp).Income += t.Amount
		}
	}
	for _, t := range expenses {
		if !t.Timestamp.IsZero() {
			bucket(t.Timestamp).Expenses += t.Amount
		}
	}

	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// LastMonths returns the n most recent populated months of a sorted trend.
// Missing calendar months are not filled in.
func LastMonths(trend []MonthBucket, n int) []MonthBucket {
	if n < 0 || len(trend) <= n {
		return trend
	}
	return trend[len(trend)-n:]
}

// NetSeries returns the net value of each bucket.
func NetSeries(trend []MonthBucket) []float64 {
	out := make([]float64, len(trend))
	for i, b := range trend {
		out[i] = b.Net()
	}
	return out
}

// WeekOfMonth maps a day of month onto one of four fixed ranges:
// 1-7, 8-14, 15-21 and 22 to the end of the month.
func WeekOfMonth(day int) int {
	switch {
	case day <= 7:
		return 0
	case day <= 14:
		return 1
	case day <= 21:
		return 2
	default:
		return 3
	}
}

// WeeklyIncome sums income in the calendar month containing now into the
// four WeekOfMonth ranges. Records from other months are ignored.
func (e *Engine) WeeklyIncome(income []core.Transaction, now time.Time) [4]float64 {
	var weeks [4]float64
	loc := e.location()
	now = now.In(loc)
	for _, t := range income {
		if t.Timestamp.IsZero() {
			continue
		}
		ts := t.Timestamp.In(loc)
		if ts.Year() != now.Year() || ts.Month() != now.Month() {
			continue
		}
		weeks[WeekOfMonth(ts.Day())] += t.Amount
	}
	return weeks
}

// WeekStart returns the Sunday opening the week that contains t, at
// midnight in the engine's location.
func (e *Engine) WeekStart(t time.Time) time.Time {
	t = t.In(e.location())
	return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// WeeklyByCategory groups txs by category and Sunday-start week. Categories
// keep first-encountered order; weeks are sorted oldest first.
func (e *Engine) WeeklyByCategory(txs []core.Transaction) []CategoryWeeks {
	index := make(map[string]int)
	var cats []CategoryWeeks
	weekSums := make([]map[string]float64, 0)
	for _, t := range txs {
		if t.Timestamp.IsZero() {
			continue
		}
		name := core.CategoryOrOther(t.Category)
		i, ok := index[name]
		if !ok {
			i = len(cats)
			index[name] = i
			cats = append(cats, CategoryWeeks{Category: name})
			weekSums = append(weekSums, make(map[string]float64))
		}
		weekSums[i][e.WeekStart(t.Timestamp).Format(weekKeyLayout)] += t.Amount
	}
	for i := range cats {
		weeks := make([]WeekBucket, 0, len(weekSums[i]))
		for start, amount := range weekSums[i] {
			weeks = append(weeks, WeekBucket{Start: start, Amount: amount})
		}
		sort.Slice(weeks, func(a, b int) bool { return weeks[a].Start < weeks[b].Start })
		cats[i].Weeks = weeks
	}
	return cats
}

// RecentTransactions merges the first limit income and expense records,
// negating expense amounts, newest first. Both inputs must already be
// ordered newest first; only the merged list is sorted here.
func RecentTransactions(income, expenses []core.Transaction, limit int) []core.Transaction {
	out := make([]core.Transaction, 0, 2*limit)
	out = append(out, head(income, limit)...)
	for _, t := range head(expenses, limit) {
		t.Amount = -t.Amount
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Since returns the records stamped at or after from. Records without a
// timestamp are dropped.
func Since(txs []core.Transaction, from time.Time) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if !t.Timestamp.IsZero() && !t.Timestamp.Before(from) {
			out = append(out, t)
		}
	}
	return out
}

func head(txs []core.Transaction, n int) []core.Transaction {
	if n < 0 {
		n = 0
	}
	if len(txs) > n {
		return txs[:n]
	}
	return txs
}
