package aggregate

import "fintrack/internal/core"

// Dashboard is the display selection made from a Snapshot: the top expense
// categories, the most recent populated months and the latest transactions.
type Dashboard struct {
	Snapshot      Snapshot
	TopCategories []CategoryTotal
	Trend         []MonthBucket
	NetTrend      []float64
	Recent        []core.Transaction
}

// Dashboard computes the snapshot for in and selects what the dashboard
// shows. Categories with a non-positive total are left out of the top list.
func (e *Engine) Dashboard(in Input) Dashboard {
	snap := e.Snapshot(in)

	var top []CategoryTotal
	for _, c := range TopCategories(snap.ExpenseCategories, DefaultTopCategories) {
		if c.Amount > 0 {
			top = append(top, c)
		}
	}

	trend := LastMonths(snap.MonthlyTrend, DefaultTrendMonths)
	return Dashboard{
		Snapshot:      snap,
		TopCategories: top,
		Trend:         trend,
		NetTrend:      NetSeries(trend),
		Recent:        head(snap.RecentTransactions, DefaultRecentLimit),
	}
}
