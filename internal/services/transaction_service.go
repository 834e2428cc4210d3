package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// TransactionLedger is the slice of the store transaction operations touch.
type TransactionLedger interface {
	ledger.Reader
	ledger.TransactionWriter
}

// TransactionService saves records to the store first and announces the
// change afterwards.
type TransactionService struct {
	store      TransactionLedger
	notifier   *Notifier
	normalizer core.Normalizer
}

func NewTransactionService(store TransactionLedger, notifier *Notifier, normalizer core.Normalizer) *TransactionService {
	return &TransactionService{store: store, notifier: notifier, normalizer: normalizer}
}

// AddTransaction validates and stores tx.
func (s *TransactionService) AddTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	tx.Category = strings.TrimSpace(tx.Category)
	tx.Description = strings.TrimSpace(tx.Description)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.Amount = s.normalizer.Number(tx.Amount, 0)

	saved, err := s.store.AddTransaction(ctx, userID, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save %s: %w", tx.Kind, err)
	}
	slog.DebugContext(ctx, "Transaction saved",
		"user_id", userID, "kind", saved.Kind, "id", saved.ID)
	s.notifier.Changed(ctx, userID, CollectionFor(saved.Kind), amqp.OpCreate)
	return saved, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, userID string, kind core.Kind, id string) error {
	if !kind.IsValid() {
		return core.ErrInvalidKind
	}
	if err := s.store.DeleteTransaction(ctx, userID, kind, id); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	s.notifier.Changed(ctx, userID, CollectionFor(kind), amqp.OpDelete)
	return nil
}

// ByCategory returns the user's transactions of kind whose category matches
// name, ignoring case and surrounding spaces.
func (s *TransactionService) ByCategory(ctx context.Context, userID string, kind core.Kind, name string) ([]core.Transaction, error) {
	var (
		txs []core.Transaction
		err error
	)
	switch kind {
	case core.Income:
		txs, err = s.store.FetchIncome(ctx, userID)
	case core.Expense:
		txs, err = s.store.FetchExpenses(ctx, userID)
	case core.Saving:
		txs, err = s.store.FetchSavings(ctx, userID)
	default:
		return nil, core.ErrInvalidKind
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}
	return core.FilterByCategory(s.normalizer.NormalizeTransactions(txs), name), nil
}

// Reset deletes every transaction and goal of the user.
func (s *TransactionService) Reset(ctx context.Context, userID string) error {
	if err := s.store.Reset(ctx, userID); err != nil {
		return fmt.Errorf("reset user data: %w", err)
	}
	slog.InfoContext(ctx, "User data reset", "user_id", userID)
	s.notifier.Changed(ctx, userID, amqp.CollectionAll, amqp.OpReset)
	return nil
}
