package core

import (
	"strings"
	"time"
)

// TransactionFromRaw builds a Transaction from a loosely typed record such as
// one decoded from a backup document. Missing or malformed fields default:
// amount to 0, strings to "", timestamp to the zero time.
func (n Normalizer) TransactionFromRaw(raw map[string]any, kind Kind) Transaction {
	return Transaction{
		ID:          stringField(raw, "id"),
		Kind:        kind,
		Amount:      n.Number(raw["amount"], 0),
		Category:    stringField(raw, "category"),
		Description: stringField(raw, "description"),
		Timestamp:   ParseTimestamp(raw["timestamp"]),
	}
}

// GoalFromRaw builds a SavingsGoal from a loosely typed record. Both the
// stored field names (goalName, targetAmount, goalDeadline) and the form
// names (name, amount) are accepted.
func (n Normalizer) GoalFromRaw(raw map[string]any) SavingsGoal {
	name := stringField(raw, "goalName")
	if name == "" {
		name = stringField(raw, "name")
	}
	target, ok := raw["targetAmount"]
	if !ok {
		target = raw["amount"]
	}
	deadline := raw["goalDeadline"]
	if deadline == nil {
		deadline = raw["deadline"]
	}
	return SavingsGoal{
		ID:           stringField(raw, "id"),
		Name:         name,
		TargetAmount: n.Number(target, 0),
		SavedAmount:  n.Number(raw["savedAmount"], 0),
		DurationType: DurationType(stringField(raw, "durationType")),
		Deadline:     ParseTimestamp(deadline),
		Status:       ParseGoalStatus(stringField(raw, "status")),
		CreatedAt:    ParseTimestamp(raw["timestamp"]),
	}
}

// ParseGoalStatus maps stored status strings, including the legacy
// "not achieved" spelling, onto GoalStatus.
func ParseGoalStatus(s string) GoalStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ongoing":
		return GoalOngoing
	case "completed":
		return GoalCompleted
	case "archived", "achieved":
		return GoalArchived
	case "not_achieved", "not achieved":
		return GoalNotAchieved
	default:
		return GoalStatus(s)
	}
}

// ParseTimestamp accepts time.Time, RFC 3339 strings, YYYY-MM-DD strings and
// unix milliseconds. Anything else yields the zero time.
func ParseTimestamp(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	if ms, ok := ToNumber(value); ok && IsFinite(ms) && ms > 0 {
		return time.UnixMilli(int64(ms)).UTC()
	}
	return time.Time{}
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
