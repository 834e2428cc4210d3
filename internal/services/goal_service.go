package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// GoalLedger is the slice of the store the goal lifecycle touches.
type GoalLedger interface {
	ledger.Reader
	ledger.TransactionWriter
	ledger.GoalStore
	ledger.ProfileStore
}

// GoalRequest describes a goal to create. When Deadline is zero it is
// derived from Months.
type GoalRequest struct {
	Name         string
	TargetAmount float64
	SavedAmount  float64
	DurationType core.DurationType
	Deadline     time.Time
	Months       int
}

// GoalService implements the savings goal lifecycle. Goal status is
// evaluated lazily: the deadline rule runs whenever a goal is touched.
type GoalService struct {
	store    GoalLedger
	notifier *Notifier
	currency string
	now      func() time.Time
}

// NewGoalService returns a service formatting advisories in the user's
// currency, or in currency when the user has none.
func NewGoalService(store GoalLedger, notifier *Notifier, currency string) *GoalService {
	return &GoalService{store: store, notifier: notifier, currency: currency, now: time.Now}
}

// CreateGoal stores a new ongoing goal. The returned warning is non-empty
// when the target exceeds the income left after expenses; the goal is
// created regardless.
func (s *GoalService) CreateGoal(ctx context.Context, userID string, req GoalRequest) (core.SavingsGoal, string, error) {
	g := core.SavingsGoal{
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: req.TargetAmount,
		SavedAmount:  req.SavedAmount,
		DurationType: req.DurationType,
		Deadline:     req.Deadline,
		Status:       core.GoalOngoing,
	}
	if g.Deadline.IsZero() {
		g.Deadline = core.DeadlineFromDuration(s.now(), req.Months)
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, "", err
	}

	warning, err := s.feasibilityWarning(ctx, userID, g.TargetAmount)
	if err != nil {
		return core.SavingsGoal{}, "", err
	}

	created, err := s.store.AddGoal(ctx, userID, g)
	if err != nil {
		return core.SavingsGoal{}, "", fmt.Errorf("add goal: %w", err)
	}
	s.notifier.Changed(ctx, userID, amqp.CollectionGoals, amqp.OpCreate)
	return created, warning, nil
}

func (s *GoalService) feasibilityWarning(ctx context.Context, userID string, target float64) (string, error) {
	income, err := s.store.FetchIncome(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetch income: %w", err)
	}
	expenses, err := s.store.FetchExpenses(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetch expenses: %w", err)
	}
	f := aggregate.CheckFeasibility(target, aggregate.Total(income), aggregate.Total(expenses))
	if f.Achievable {
		return "", nil
	}
	cfg, err := s.display(ctx, userID)
	if err != nil {
		return "", err
	}
	return f.Warning(cfg), nil
}

func (s *GoalService) display(ctx context.Context, userID string) (core.DisplayConfig, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return core.DisplayConfig{}, fmt.Errorf("get profile: %w", err)
	}
	return profile.Settings.Display(s.currency), nil
}

// RefreshGoalStatus loads a goal and applies the deadline rule, persisting
// the change when the goal has just expired.
func (s *GoalService) RefreshGoalStatus(ctx context.Context, userID, goalID string) (core.SavingsGoal, error) {
	g, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	g, changed := g.RefreshStatus(s.now())
	if !changed {
		return g, nil
	}
	if err := s.store.UpdateGoal(ctx, userID, g); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("update goal status: %w", err)
	}
	slog.InfoContext(ctx, "Savings goal reached its deadline",
		"user_id", userID, "goal_id", g.ID)
	s.notifier.Changed(ctx, userID, amqp.CollectionGoals, amqp.OpUpdate)
	return g, nil
}

// AddAmountToGoal adds a positive amount to an active goal. When the new
// saved amount reaches the target the goal is achieved on the spot; the
// bool reports whether that happened.
func (s *GoalService) AddAmountToGoal(ctx context.Context, userID, goalID string, amount float64) (core.SavingsGoal, bool, error) {
	if !core.ValidAmount(amount) || amount <= 0 {
		return core.SavingsGoal{}, false, core.ErrInvalidAmount
	}
	g, err := s.RefreshGoalStatus(ctx, userID, goalID)
	if err != nil {
		return core.SavingsGoal{}, false, err
	}
	if !g.Status.IsActive() {
		return g, false, fmt.Errorf("goal %s is %s: %w", g.ID, g.Status, ErrGoalClosed)
	}

	g.SavedAmount = core.Finite(g.SavedAmount + amount)
	if aggregate.GoalReached(g) {
		if err := s.closeGoal(ctx, userID, g, g.SavedAmount, core.AchievedDescription(g.Name)); err != nil {
			return core.SavingsGoal{}, false, err
		}
		g.Status = core.GoalArchived
		return g, true, nil
	}

	if err := s.store.UpdateGoal(ctx, userID, g); err != nil {
		return core.SavingsGoal{}, false, fmt.Errorf("update goal: %w", err)
	}
	s.notifier.Changed(ctx, userID, amqp.CollectionGoals, amqp.OpUpdate)
	return g, false, nil
}

// MarkGoalAchieved records the goal's saved amount as a saving and removes
// the goal.
func (s *GoalService) MarkGoalAchieved(ctx context.Context, userID, goalID string) error {
	g, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return err
	}
	return s.closeGoal(ctx, userID, g, g.SavedAmount, core.AchievedDescription(g.Name))
}

// MarkGoalNotAchieved records a zero saving and removes the goal.
func (s *GoalService) MarkGoalNotAchieved(ctx context.Context, userID, goalID string) error {
	g, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return err
	}
	return s.closeGoal(ctx, userID, g, 0, core.NotAchievedDescription(g.Name))
}

// closeGoal appends the history saving before deleting the goal so a failed
// delete never loses the saved amount.
func (s *GoalService) closeGoal(ctx context.Context, userID string, g core.SavingsGoal, amount float64, description string) error {
	_, err := s.store.AddTransaction(ctx, userID, core.Transaction{
		Kind:        core.Saving,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("record goal saving: %w", err)
	}
	if err := s.store.DeleteGoal(ctx, userID, g.ID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	slog.InfoContext(ctx, "Savings goal closed",
		"user_id", userID,
		"goal_id", g.ID,
		"amount", amount)
	s.notifier.Changed(ctx, userID, amqp.CollectionGoals, amqp.OpDelete)
	s.notifier.Changed(ctx, userID, amqp.CollectionSavings, amqp.OpCreate)
	return nil
}

// DeleteGoal removes a goal without recording any saving.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if err := s.store.DeleteGoal(ctx, userID, goalID); err != nil {
		return err
	}
	s.notifier.Changed(ctx, userID, amqp.CollectionGoals, amqp.OpDelete)
	return nil
}
