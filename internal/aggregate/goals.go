package aggregate

import (
	"fmt"
	"math"

	"fintrack/internal/core"
)

// GoalProgress returns saved/target clamped to [0, 1]. A zero, negative or
// missing target yields 0.
func GoalProgress(g core.SavingsGoal) float64 {
	if !core.IsFinite(g.TargetAmount) || g.TargetAmount <= 0 {
		return 0
	}
	p := core.Finite(g.SavedAmount / g.TargetAmount)
	return math.Max(0, math.Min(1, p))
}

// GoalRemaining returns target minus saved. A negative result means the goal
// has been exceeded.
func GoalRemaining(g core.SavingsGoal) float64 {
	return core.Finite(g.TargetAmount - g.SavedAmount)
}

// GoalReached reports whether the saved amount has met a positive target.
func GoalReached(g core.SavingsGoal) bool {
	return g.TargetAmount > 0 && g.SavedAmount >= g.TargetAmount
}

// GoalSummary is the display-ready state of one goal.
type GoalSummary struct {
	Goal      core.SavingsGoal
	Progress  float64
	Remaining float64
	Exceeded  bool
}

// SummarizeGoals computes progress figures for every goal, keeping order.
func SummarizeGoals(goals []core.SavingsGoal) []GoalSummary {
	out := make([]GoalSummary, len(goals))
	for i, g := range goals {
		remaining := GoalRemaining(g)
		out[i] = GoalSummary{
			Goal:      g,
			Progress:  GoalProgress(g),
			Remaining: remaining,
			Exceeded:  remaining < 0,
		}
	}
	return out
}

// Feasibility compares a proposed goal with income left after expenses.
// An infeasible goal is advisory only; creation still proceeds.
type Feasibility struct {
	Target          float64
	RemainingIncome float64
	Achievable      bool
}

// CheckFeasibility evaluates target against totalIncome - totalExpenses.
func CheckFeasibility(target, totalIncome, totalExpenses float64) Feasibility {
	remaining := core.Finite(totalIncome - totalExpenses)
	return Feasibility{
		Target:          target,
		RemainingIncome: remaining,
		Achievable:      target <= remaining,
	}
}

// Warning returns the advisory text for an infeasible goal, or "".
func (f Feasibility) Warning(cfg core.DisplayConfig) string {
	if f.Achievable {
		return ""
	}
	remaining := cfg.Format(f.RemainingIncome)
	if f.RemainingIncome < 0 {
		remaining = "-" + remaining
	}
	return fmt.Sprintf("This goal may not be achievable with your current income. Remaining income: %s", remaining)
}
