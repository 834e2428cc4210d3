// Package backup encodes a user's ledger into the portable backup document
// and restores it. Every restored record is routed through normalization;
// the document is never trusted.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// AppVersion is written into every exported document.
const AppVersion = "1.0.0"

// ErrInvalidFormat is returned for documents missing one of the four
// record collections.
var ErrInvalidFormat = errors.New("invalid backup file format")

type (
	ProfileRecord struct {
		Name        string  `json:"name"`
		Email       string  `json:"email"`
		Phone       string  `json:"phone"`
		SavingsGoal float64 `json:"savingsGoal"`
	}

	SettingsRecord struct {
		Currency      string `json:"currency"`
		Theme         string `json:"theme"`
		Notifications bool   `json:"notifications"`
	}

	TransactionRecord struct {
		Category    string     `json:"category,omitempty"`
		Amount      float64    `json:"amount"`
		Description string     `json:"description,omitempty"`
		Timestamp   *time.Time `json:"timestamp"`
	}

	GoalRecord struct {
		GoalName     string     `json:"goalName"`
		TargetAmount float64    `json:"targetAmount"`
		SavedAmount  float64    `json:"savedAmount"`
		DurationType string     `json:"durationType,omitempty"`
		GoalDeadline *time.Time `json:"goalDeadline"`
		Status       string     `json:"status"`
		Timestamp    *time.Time `json:"timestamp"`
	}

	// Document is the exported backup. Collections are always encoded as
	// arrays, never null.
	Document struct {
		Profile      ProfileRecord       `json:"profile"`
		Settings     SettingsRecord      `json:"settings"`
		Income       []TransactionRecord `json:"income"`
		Expenses     []TransactionRecord `json:"expenses"`
		Savings      []TransactionRecord `json:"savings"`
		SavingsGoals []GoalRecord        `json:"savingsGoals"`
		BackupDate   time.Time           `json:"backupDate"`
		AppVersion   string              `json:"appVersion"`
	}

	// Contents is a decoded document. Profile and Settings are nil when the
	// document carries none.
	Contents struct {
		Profile    *core.Profile
		Settings   *core.Settings
		Income     []core.Transaction
		Expenses   []core.Transaction
		Savings    []core.Transaction
		Goals      []core.SavingsGoal
		BackupDate time.Time
		AppVersion string
	}
)

// NewDocument builds the document for a profile and its collections.
func NewDocument(profile core.Profile, income, expenses, savings []core.Transaction, goals []core.SavingsGoal, now time.Time) Document {
	doc := Document{
		Profile: ProfileRecord{
			Name:        profile.Name,
			Phone:       profile.Phone,
			SavingsGoal: core.Finite(profile.SavingsGoal),
		},
		Settings: SettingsRecord{
			Currency:      profile.Settings.Currency,
			Theme:         profile.Settings.Theme,
			Notifications: profile.Settings.Notifications,
		},
		Income:       transactionRecords(income),
		Expenses:     transactionRecords(expenses),
		Savings:      transactionRecords(savings),
		SavingsGoals: make([]GoalRecord, 0, len(goals)),
		BackupDate:   now.UTC(),
		AppVersion:   AppVersion,
	}
	for _, g := range goals {
		doc.SavingsGoals = append(doc.SavingsGoals, GoalRecord{
			GoalName:     g.Name,
			TargetAmount: core.Finite(g.TargetAmount),
			SavedAmount:  core.Finite(g.SavedAmount),
			DurationType: string(g.DurationType),
			GoalDeadline: timePtr(g.Deadline),
			Status:       string(g.Status),
			Timestamp:    timePtr(g.CreatedAt),
		})
	}
	return doc
}

func transactionRecords(txs []core.Transaction) []TransactionRecord {
	out := make([]TransactionRecord, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionRecord{
			Category:    t.Category,
			Amount:      core.Finite(t.Amount),
			Description: t.Description,
			Timestamp:   timePtr(t.Timestamp),
		})
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

// Encode renders doc as indented JSON.
func Encode(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a backup document. Only the presence of the four record
// collections is required; everything else is coerced through n, and
// entries that are not objects are dropped.
func Decode(data []byte, n core.Normalizer) (Contents, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Contents{}, fmt.Errorf("decode backup: %w", err)
	}
	for _, key := range []string{"income", "expenses", "savings", "savingsGoals"} {
		if raw[key] == nil {
			return Contents{}, fmt.Errorf("missing %q: %w", key, ErrInvalidFormat)
		}
	}

	c := Contents{
		Income:     transactions(raw["income"], core.Income, n),
		Expenses:   transactions(raw["expenses"], core.Expense, n),
		Savings:    transactions(raw["savings"], core.Saving, n),
		BackupDate: core.ParseTimestamp(raw["backupDate"]),
	}
	c.AppVersion, _ = raw["appVersion"].(string)
	for _, item := range core.ValidateArray(raw["savingsGoals"], nil) {
		if obj := core.ValidateObject(item, nil); obj != nil {
			c.Goals = append(c.Goals, n.GoalFromRaw(obj))
		}
	}

	if obj := core.ValidateObject(raw["profile"], nil); obj != nil {
		name, _ := obj["name"].(string)
		phone, _ := obj["phone"].(string)
		c.Profile = &core.Profile{
			Name:        name,
			Phone:       phone,
			SavingsGoal: n.Number(obj["savingsGoal"], 0),
		}
	}
	if obj := core.ValidateObject(raw["settings"], nil); obj != nil {
		s := core.DefaultSettings()
		if v, ok := obj["currency"].(string); ok && v != "" {
			s.Currency = v
		}
		if v, ok := obj["theme"].(string); ok && v != "" {
			s.Theme = v
		}
		if v, ok := obj["notifications"].(bool); ok {
			s.Notifications = v
		}
		c.Settings = &s
	}
	return c, nil
}

func transactions(value any, kind core.Kind, n core.Normalizer) []core.Transaction {
	var out []core.Transaction
	for _, item := range core.ValidateArray(value, nil) {
		if obj := core.ValidateObject(item, nil); obj != nil {
			out = append(out, n.TransactionFromRaw(obj, kind))
		}
	}
	return out
}
