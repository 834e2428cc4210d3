package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// Publisher delivers ledger change messages. *amqp.Client implements it.
type Publisher interface {
	PublishLedgerChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error
}

// Notifier announces that a user's ledger changed. In-process listeners run
// first so local caches never serve data older than the write; the message
// is then published for out-of-process consumers.
type Notifier struct {
	publisher Publisher

	mu        sync.RWMutex
	listeners []func(userID string)
}

// NewNotifier returns a notifier publishing through publisher, which may be
// nil when no broker is configured.
func NewNotifier(publisher Publisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// OnChange registers fn to run synchronously on every change.
func (n *Notifier) OnChange(fn func(userID string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Changed notifies listeners and publishes a change message. Publishing is
// best effort: the write already succeeded, so failures are only logged.
func (n *Notifier) Changed(ctx context.Context, userID, collection, operation string) {
	if n == nil {
		return
	}

	n.mu.RLock()
	listeners := slices.Clone(n.listeners)
	n.mu.RUnlock()
	for _, fn := range listeners {
		fn(userID)
	}

	if n.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not available, skipping change message",
			"user_id", userID, "collection", collection)
		return
	}

	msg := amqp.NewLedgerChangeMessage(userID, collection, operation)
	if err := n.publisher.PublishLedgerChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"user_id", userID,
			"collection", collection,
			"operation", operation,
			"error", err)
	}
}

// CollectionFor maps a transaction kind to the collection named in change
// messages.
func CollectionFor(kind core.Kind) string {
	switch kind {
	case core.Income:
		return amqp.CollectionIncome
	case core.Expense:
		return amqp.CollectionExpenses
	default:
		return amqp.CollectionSavings
	}
}
