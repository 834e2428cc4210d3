package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Collections named in change messages.
const (
	CollectionIncome     = "income"
	CollectionExpenses   = "expenses"
	CollectionSavings    = "savings"
	CollectionGoals      = "savingsGoals"
	CollectionCategories = "categories"
	CollectionAll        = "all"
)

// Operations named in change messages.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReset   = "reset"
	OpRestore = "restore"
)

// LedgerChangeMessage announces that one of a user's collections changed.
// It carries no record data; consumers re-read the store.
type LedgerChangeMessage struct {
	UserID     string    `json:"user_id"`
	Collection string    `json:"collection"`
	Operation  string    `json:"operation"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewLedgerChangeMessage(userID, collection, operation string) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		UserID:     userID,
		Collection: collection,
		Operation:  operation,
		Timestamp:  time.Now(),
	}
}

func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangeMessageFromJSON decodes a message and rejects one without a user.
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, errors.New("change message without user_id")
	}
	return &msg, nil
}
