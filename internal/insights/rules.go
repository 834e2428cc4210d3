package insights

import (
	"fmt"
	"math"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

// Rule inspects a window and contributes at most one insight.
type Rule func(w Window) (string, bool)

// ChangeThreshold is the minimum week-over-week change, in percent, worth
// reporting.
const ChangeThreshold = 5.0

// DefaultRules is the fixed evaluation order of the insight battery.
var DefaultRules = []Rule{
	SavingsTrend,
	TopExpenseCategory,
	WeekOverWeek,
	IncomeExpenseRatio,
	TransactionFrequency,
	ActiveGoalsProgress,
	CompletedGoals,
	GoalsPrompt,
}

// SavingsTrend reports the net amount saved in the window.
func SavingsTrend(w Window) (string, bool) {
	switch {
	case w.TotalSavings > 0:
		return fmt.Sprintf("You've saved %s in the last %d days. Great job! 💰",
			core.FixedString(w.TotalSavings, 0), w.Days), true
	case w.TotalSavings < 0:
		return fmt.Sprintf("Your savings decreased by %s in the last %d days. Consider reviewing your expenses. 📉",
			core.FixedString(math.Abs(w.TotalSavings), 0), w.Days), true
	}
	return "", false
}

// TopExpenseCategory names the category with the largest share of spending.
func TopExpenseCategory(w Window) (string, bool) {
	top := aggregate.TopCategories(w.ExpenseCategories, 1)
	if len(top) == 0 {
		return "", false
	}
	share := "0"
	if w.TotalExpenses > 0 {
		share = core.FixedString(top[0].Amount/w.TotalExpenses*100, 1)
	}
	return fmt.Sprintf("%s is your biggest expense category at %s%% of total spending. 🎯", top[0].Name, share), true
}

// PercentChange returns the change from previous to current in percent.
// A zero previous value yields 100 when current is non-zero, else 0.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current != 0 {
			return 100
		}
		return 0
	}
	return core.Finite((current - previous) / math.Abs(previous) * 100)
}

// WeekOverWeek compares the two most recent weekly totals of the first
// expense category that has at least two weeks of data.
func WeekOverWeek(w Window) (string, bool) {
	for _, cw := range w.ExpenseWeeks {
		n := len(cw.Weeks)
		if n < 2 {
			continue
		}
		change := PercentChange(cw.Weeks[n-1].Amount, cw.Weeks[n-2].Amount)
		if math.Abs(change) <= ChangeThreshold {
			return "", false
		}
		direction, marker := "increased", "📈"
		if change < 0 {
			direction, marker = "decreased", "📉"
		}
		return fmt.Sprintf("Your %s expenses %s by %s%% compared to last week. %s",
			cw.Category, direction, core.FixedString(math.Abs(change), 1), marker), true
	}
	return "", false
}

// IncomeExpenseRatio reports the savings rate, or the deficit rate when
// spending exceeds income. Both totals must be positive.
func IncomeExpenseRatio(w Window) (string, bool) {
	if w.TotalIncome <= 0 || w.TotalExpenses <= 0 {
		return "", false
	}
	net := w.TotalIncome - w.TotalExpenses
	rate := core.FixedString(math.Abs(net)/w.TotalIncome*100, 1)
	if net > 0 {
		return fmt.Sprintf("You're saving %s%% of your income this month. Keep it up! 🎉", rate), true
	}
	return fmt.Sprintf("Your expenses exceed income by %s%%. Consider budgeting to improve this. ⚠️", rate), true
}

// TransactionFrequency comments on how often the user records activity.
func TransactionFrequency(w Window) (string, bool) {
	perDay := w.PerDay()
	switch {
	case perDay < 1:
		return fmt.Sprintf("You have about %s transactions per day. Consider tracking more regularly for better insights. 📊",
			core.FixedString(perDay, 1)), true
	case perDay > 3:
		return fmt.Sprintf("You're actively tracking with %s transactions per day. Great financial awareness! 👏",
			core.FixedString(perDay, 1)), true
	}
	return "", false
}

// ActiveGoalsProgress reports combined progress over every ongoing goal.
func ActiveGoalsProgress(w Window) (string, bool) {
	var target, saved float64
	active := 0
	for _, g := range w.Goals {
		if !g.Status.IsActive() {
			continue
		}
		active++
		target += g.TargetAmount
		saved += g.SavedAmount
	}
	if active == 0 {
		return "", false
	}
	pct := "0"
	if target > 0 {
		pct = core.FixedString(saved/target*100, 1)
	}
	return fmt.Sprintf("You're %s%% towards your savings goals. Keep saving! 🎯", pct), true
}

// CompletedGoals counts goals that reached completion.
func CompletedGoals(w Window) (string, bool) {
	n := w.completedGoals()
	if n == 0 {
		return "", false
	}
	plural := ""
	if n > 1 {
		plural = "s"
	}
	return fmt.Sprintf("You've achieved %d savings goal%s! Amazing progress! 🏆", n, plural), true
}

// GoalsPrompt nudges the user to set goals when none are ongoing or
// completed.
func GoalsPrompt(w Window) (string, bool) {
	if len(w.Goals) == 0 {
		return "Consider setting savings goals to stay motivated and track your progress! 🎯", true
	}
	if w.activeGoals() == 0 && w.completedGoals() == 0 {
		return "Set some savings goals to track your progress and stay motivated! 💪", true
	}
	return "", false
}

// Filler returns the generic message used to pad a short insight list.
func Filler(w Window) string {
	switch {
	case w.TotalIncome > w.TotalExpenses:
		return "Your income exceeds expenses - you're on the right track! 🌟"
	case w.TotalExpenses > w.TotalIncome:
		return "Consider reviewing your budget to reduce expenses. 💡"
	default:
		return "Keep tracking your finances regularly for better insights. 📈"
	}
}
