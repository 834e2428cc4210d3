// Package memory is an in-process ledger store used for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var _ ledger.Store = (*Store)(nil)

type userData struct {
	txs        map[core.Kind][]core.Transaction
	goals      []core.SavingsGoal
	categories []core.Category
	profile    *core.Profile
	insights   []string
	insightsAt time.Time
	backups    []storedBackup
}

type storedBackup struct {
	info ledger.BackupInfo
	data []byte
}

type Store struct {
	mu    sync.Mutex
	users map[string]*userData
	now   func() time.Time
}

func New() *Store {
	return &Store{users: make(map[string]*userData), now: time.Now}
}

// user returns the data of userID, creating it on first write. Caller holds mu.
func (s *Store) user(userID string) *userData {
	u, ok := s.users[userID]
	if !ok {
		u = &userData{txs: make(map[core.Kind][]core.Transaction)}
		s.users[userID] = u
	}
	return u
}

// lookup returns the data of userID without creating it; unknown users read
// as empty. Callers hold mu and must not store into the result.
func (s *Store) lookup(userID string) *userData {
	if u, ok := s.users[userID]; ok {
		return u
	}
	return &userData{}
}

func (s *Store) fetch(userID string, kind core.Kind) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.lookup(userID).txs[kind]...)
	sortTransactions(out)
	return out
}

func (s *Store) FetchIncome(_ context.Context, userID string) ([]core.Transaction, error) {
	return s.fetch(userID, core.Income), nil
}

func (s *Store) FetchExpenses(_ context.Context, userID string) ([]core.Transaction, error) {
	return s.fetch(userID, core.Expense), nil
}

func (s *Store) FetchSavings(_ context.Context, userID string) ([]core.Transaction, error) {
	return s.fetch(userID, core.Saving), nil
}

func (s *Store) FetchSavingsGoals(_ context.Context, userID string) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.SavingsGoal(nil), s.lookup(userID).goals...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// AddTransaction validates and stores tx.
func (s *Store) AddTransaction(_ context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = uuid.NewString()
	if tx.Timestamp.IsZero() {
		tx.Timestamp = s.now()
	}
	u := s.user(userID)
	u.txs[tx.Kind] = append(u.txs[tx.Kind], tx)
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID string, kind core.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.lookup(userID)
	txs := u.txs[kind]
	for i, tx := range txs {
		if tx.ID == id {
			u.txs[kind] = append(txs[:i:i], txs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s %s: %w", kind, id, core.ErrTransactionNotFound)
}

func (s *Store) Reset(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.txs = make(map[core.Kind][]core.Transaction)
		u.goals = nil
	}
	return nil
}

func (s *Store) AddGoal(_ context.Context, userID string, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = uuid.NewString()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now()
	}
	if g.Status == "" {
		g.Status = core.GoalOngoing
	}
	u := s.user(userID)
	u.goals = append(u.goals, g)
	return g, nil
}

func (s *Store) GetGoal(_ context.Context, userID, id string) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.lookup(userID).goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, core.ErrGoalNotFound)
}

func (s *Store) UpdateGoal(_ context.Context, userID string, g core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.lookup(userID)
	for i := range u.goals {
		if u.goals[i].ID == g.ID {
			u.goals[i] = g
			return nil
		}
	}
	return fmt.Errorf("goal %s: %w", g.ID, core.ErrGoalNotFound)
}

func (s *Store) DeleteGoal(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.lookup(userID)
	for i, g := range u.goals {
		if g.ID == id {
			u.goals = append(u.goals[:i:i], u.goals[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("goal %s: %w", id, core.ErrGoalNotFound)
}

func (s *Store) AddCategory(_ context.Context, userID string, c core.Category) (core.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	u := s.user(userID)
	u.categories = append(u.categories, c)
	return c, nil
}

// ListCategories returns the categories of typ, newest first.
func (s *Store) ListCategories(_ context.Context, userID string, typ core.Kind) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for _, c := range s.lookup(userID).categories {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) RenameCategory(_ context.Context, userID, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.lookup(userID)
	for i := range u.categories {
		if u.categories[i].ID == id {
			u.categories[i].Name = name
			return nil
		}
	}
	return fmt.Errorf("category %s: %w", id, core.ErrCategoryNotFound)
}

func (s *Store) DeleteCategory(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.lookup(userID)
	for i, c := range u.categories {
		if c.ID == id {
			u.categories = append(u.categories[:i:i], u.categories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("category %s: %w", id, core.ErrCategoryNotFound)
}

func (s *Store) GetProfile(_ context.Context, userID string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.lookup(userID).profile; p != nil {
		return *p, nil
	}
	return core.Profile{Settings: core.DefaultSettings()}, nil
}

func (s *Store) UpdateProfile(_ context.Context, userID string, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user(userID).profile = &p
	return nil
}

func (s *Store) SaveInsights(_ context.Context, userID string, insights []string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.user(userID)
	if !u.insightsAt.IsZero() && at.Before(u.insightsAt) {
		return nil
	}
	u.insights = append([]string(nil), insights...)
	u.insightsAt = at
	return nil
}

func (s *Store) LatestInsights(_ context.Context, userID string) ([]string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.lookup(userID)
	return append([]string(nil), u.insights...), u.insightsAt, nil
}

func (s *Store) SaveBackup(_ context.Context, userID string, data []byte, at time.Time) (ledger.BackupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if at.IsZero() {
		at = s.now()
	}
	info := ledger.BackupInfo{ID: uuid.NewString(), CreatedAt: at, Size: len(data)}
	u := s.user(userID)
	u.backups = append(u.backups, storedBackup{info: info, data: append([]byte(nil), data...)})
	return info, nil
}

// ListBackups returns the backups of userID, newest first.
func (s *Store) ListBackups(_ context.Context, userID string) ([]ledger.BackupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ledger.BackupInfo
	for _, b := range s.lookup(userID).backups {
		out = append(out, b.info)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetBackup(_ context.Context, userID, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.lookup(userID).backups {
		if b.info.ID == id {
			return append([]byte(nil), b.data...), nil
		}
	}
	return nil, fmt.Errorf("backup %s: %w", id, core.ErrBackupNotFound)
}

func (s *Store) DeleteBackup(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.lookup(userID)
	for i, b := range u.backups {
		if b.info.ID == id {
			u.backups = append(u.backups[:i:i], u.backups[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("backup %s: %w", id, core.ErrBackupNotFound)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// sortTransactions orders txs newest first, keeping insertion order for ties.
func sortTransactions(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Timestamp.After(txs[j].Timestamp) })
}
