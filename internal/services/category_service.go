package services

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// CategoryService manages user-defined category labels. Transactions refer
// to categories by name, so renames and deletes leave them untouched.
type CategoryService struct {
	store    ledger.CategoryStore
	notifier *Notifier
}

func NewCategoryService(store ledger.CategoryStore, notifier *Notifier) *CategoryService {
	return &CategoryService{store: store, notifier: notifier}
}

func (s *CategoryService) AddCategory(ctx context.Context, userID string, typ core.Kind, name string) (core.Category, error) {
	c := core.Category{Type: typ, Name: strings.TrimSpace(name)}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	created, err := s.store.AddCategory(ctx, userID, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}
	s.notifier.Changed(ctx, userID, amqp.CollectionCategories, amqp.OpCreate)
	return created, nil
}

func (s *CategoryService) ListCategories(ctx context.Context, userID string, typ core.Kind) ([]core.Category, error) {
	if typ != core.Income && typ != core.Expense {
		return nil, core.ErrInvalidCategoryType
	}
	return s.store.ListCategories(ctx, userID, typ)
}

func (s *CategoryService) RenameCategory(ctx context.Context, userID, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}
	if err := s.store.RenameCategory(ctx, userID, id, name); err != nil {
		return err
	}
	s.notifier.Changed(ctx, userID, amqp.CollectionCategories, amqp.OpUpdate)
	return nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	s.notifier.Changed(ctx, userID, amqp.CollectionCategories, amqp.OpDelete)
	return nil
}
