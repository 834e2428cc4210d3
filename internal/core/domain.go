package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
	Saving  Kind = "saving"
)

const (
	Weekly  DurationType = "weekly"
	Monthly DurationType = "monthly"
	Yearly  DurationType = "yearly"
)

const (
	GoalOngoing     GoalStatus = "ongoing"
	GoalCompleted   GoalStatus = "completed"
	GoalArchived    GoalStatus = "archived"
	GoalNotAchieved GoalStatus = "not_achieved"
)

type (
	// Kind distinguishes the three transaction variants.
	Kind string

	DurationType string

	GoalStatus string

	Transaction struct {
		ID          string
		Kind        Kind
		Amount      float64
		Category    string // income and expense only
		Description string // savings, optional on expenses
		Timestamp   time.Time
	}

	// Category is a user-defined label. Transactions reference it by name only.
	Category struct {
		ID        string
		Type      Kind // Income or Expense
		Name      string
		CreatedAt time.Time
	}

	SavingsGoal struct {
		ID           string
		Name         string
		TargetAmount float64
		SavedAmount  float64
		DurationType DurationType
		Deadline     time.Time
		Status       GoalStatus
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyName           = errors.New("empty name")
	ErrEmptyCategory       = errors.New("empty category")
	ErrInvalidKind         = errors.New("invalid transaction kind")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrInvalidDuration     = errors.New("invalid duration type")
	ErrGoalNotFound        = errors.New("savings goal not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBackupNotFound      = errors.New("backup not found")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
)

// MaxDescriptionLen is the longest transaction description accepted.
const MaxDescriptionLen = 200

// IsValid reports whether k is one of the three transaction kinds.
func (k Kind) IsValid() bool {
	switch k {
	case Income, Expense, Saving:
		return true
	default:
		return false
	}
}

func (d DurationType) IsValid() bool {
	switch d {
	case Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// IsActive reports whether the goal still accepts contributions. Goals
// restored from old backups may carry no status at all.
func (s GoalStatus) IsActive() bool {
	return s == GoalOngoing || s == ""
}

// IsAchieved reports whether the goal counts towards the achieved tally.
func (s GoalStatus) IsAchieved() bool {
	return s == GoalCompleted || s == GoalArchived
}

func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if !ValidAmount(t.Amount) || t.Amount < 0 {
		return ErrInvalidAmount
	}
	if t.Kind != Saving && strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

func (c Category) Validate() error {
	if c.Type != Income && c.Type != Expense {
		return ErrInvalidCategoryType
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !ValidAmount(g.TargetAmount) || g.TargetAmount <= 0 {
		return ErrInvalidAmount
	}
	if !ValidAmount(g.SavedAmount) || g.SavedAmount < 0 {
		return ErrInvalidAmount
	}
	if g.DurationType != "" && !g.DurationType.IsValid() {
		return ErrInvalidDuration
	}
	return nil
}
