package core

import (
	"fmt"
	"time"
)

// DefaultGoalMonths is the duration applied when a goal is created from a
// duration with no usable month count.
const DefaultGoalMonths = 3

// IsPastDeadline reports whether now is at or after the goal's deadline.
// Goals without a deadline never expire.
func (g SavingsGoal) IsPastDeadline(now time.Time) bool {
	return !g.Deadline.IsZero() && !now.Before(g.Deadline)
}

// RefreshStatus applies the deadline rule: any goal that is not already
// completed becomes completed once its deadline has passed. It is evaluated
// on demand only; the bool reports whether the status changed.
func (g SavingsGoal) RefreshStatus(now time.Time) (SavingsGoal, bool) {
	if g.Status == GoalCompleted || !g.IsPastDeadline(now) {
		return g, false
	}
	g.Status = GoalCompleted
	return g, true
}

// DeadlineFromDuration returns the deadline for a goal lasting the given
// number of months from now.
func DeadlineFromDuration(now time.Time, months int) time.Time {
	if months <= 0 {
		months = DefaultGoalMonths
	}
	return now.AddDate(0, months, 0)
}

// AchievedDescription is the savings-history description recorded when a
// goal is marked achieved.
func AchievedDescription(goalName string) string {
	return fmt.Sprintf("Goal achieved: %s", goalName)
}

// NotAchievedDescription is the savings-history description recorded when a
// goal is abandoned.
func NotAchievedDescription(goalName string) string {
	return fmt.Sprintf("Goal not achieved: %s", goalName)
}
