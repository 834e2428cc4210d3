package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/ledger"

	_ "modernc.org/sqlite"
)

var _ ledger.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// brings its schema up to date.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	if err := RunMigrations(dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) fetch(ctx context.Context, userID string, kind core.Kind) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, category, description, created_at
		FROM transactions
		WHERE user_id = ? AND kind = ?
		ORDER BY created_at DESC, rowid ASC`, userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx := core.Transaction{Kind: kind}
		var createdAt int64
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Category, &tx.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		tx.Timestamp = fromMillis(createdAt)
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", kind, err)
	}
	return out, nil
}

func (r *SQLiteRepository) FetchIncome(ctx context.Context, userID string) ([]core.Transaction, error) {
	return r.fetch(ctx, userID, core.Income)
}

func (r *SQLiteRepository) FetchExpenses(ctx context.Context, userID string) ([]core.Transaction, error) {
	return r.fetch(ctx, userID, core.Expense)
}

func (r *SQLiteRepository) FetchSavings(ctx context.Context, userID string) ([]core.Transaction, error) {
	return r.fetch(ctx, userID, core.Saving)
}

func (r *SQLiteRepository) FetchSavingsGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, target_amount, saved_amount, duration_type, deadline, status, created_at
		FROM savings_goals
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query savings goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate savings goals: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = uuid.NewString()
	if tx.Timestamp.IsZero() {
		tx.Timestamp = r.now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, kind, amount, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, userID, string(tx.Kind), tx.Amount, tx.Category, tx.Description, toMillis(tx.Timestamp))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert %s: %w", tx.Kind, err)
	}

	slog.DebugContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"user_id", userID,
		"kind", tx.Kind,
		"amount", tx.Amount)
	return tx, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID string, kind core.Kind, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ? AND kind = ?`, id, userID, string(kind))
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return expectRow(res, fmt.Errorf("%s %s: %w", kind, id, core.ErrTransactionNotFound))
}

// Reset deletes the user's transactions and goals in one transaction.
func (r *SQLiteRepository) Reset(ctx context.Context, userID string) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer dbtx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM transactions WHERE user_id = ?`,
		`DELETE FROM savings_goals WHERE user_id = ?`,
	} {
		if _, err := dbtx.ExecContext(ctx, stmt, userID); err != nil {
			return fmt.Errorf("reset user data: %w", err)
		}
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}

	slog.InfoContext(ctx, "User data reset", "user_id", userID)
	return nil
}

func (r *SQLiteRepository) AddGoal(ctx context.Context, userID string, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g.ID = uuid.NewString()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = r.now()
	}
	if g.Status == "" {
		g.Status = core.GoalOngoing
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO savings_goals (id, user_id, name, target_amount, saved_amount, duration_type, deadline, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, userID, g.Name, g.TargetAmount, g.SavedAmount, string(g.DurationType),
		nullMillis(g.Deadline), string(g.Status), toMillis(g.CreatedAt))
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("insert savings goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id string) (core.SavingsGoal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, target_amount, saved_amount, duration_type, deadline, status, created_at
		FROM savings_goals
		WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, core.ErrGoalNotFound)
	}
	return g, err
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, userID string, g core.SavingsGoal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE savings_goals
		SET name = ?, target_amount = ?, saved_amount = ?, duration_type = ?, deadline = ?, status = ?
		WHERE id = ? AND user_id = ?`,
		g.Name, g.TargetAmount, g.SavedAmount, string(g.DurationType), nullMillis(g.Deadline), string(g.Status),
		g.ID, userID)
	if err != nil {
		return fmt.Errorf("update savings goal: %w", err)
	}
	return expectRow(res, fmt.Errorf("goal %s: %w", g.ID, core.ErrGoalNotFound))
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
	}
	return expectRow(res, fmt.Errorf("goal %s: %w", id, core.ErrGoalNotFound))
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.ID = uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, type, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, userID, string(c.Type), c.Name, toMillis(c.CreatedAt))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string, typ core.Kind) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM categories
		WHERE user_id = ? AND type = ?
		ORDER BY created_at DESC, rowid ASC`, userID, string(typ))
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c := core.Category{Type: typ}
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) RenameCategory(ctx context.Context, userID, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyName
	}
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ? AND user_id = ?`, name, id, userID)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return expectRow(res, fmt.Errorf("category %s: %w", id, core.ErrCategoryNotFound))
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectRow(res, fmt.Errorf("category %s: %w", id, core.ErrCategoryNotFound))
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	var (
		p             core.Profile
		notifications int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT name, phone, savings_goal, currency, theme, notifications
		FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.Name, &p.Phone, &p.SavingsGoal, &p.Settings.Currency, &p.Settings.Theme, &notifications)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{Settings: core.DefaultSettings()}, nil
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.Settings.Notifications = notifications != 0
	return p, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, userID string, p core.Profile) error {
	notifications := 0
	if p.Settings.Notifications {
		notifications = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, phone, savings_goal, currency, theme, notifications)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			savings_goal = excluded.savings_goal,
			currency = excluded.currency,
			theme = excluded.theme,
			notifications = excluded.notifications`,
		userID, p.Name, p.Phone, p.SavingsGoal, p.Settings.Currency, p.Settings.Theme, notifications)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveInsights(ctx context.Context, userID string, insights []string, at time.Time) error {
	body, err := json.Marshal(insights)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO insights (user_id, body, generated_at) VALUES (?, ?, ?)`, userID, string(body), toMillis(at))
	if err != nil {
		return fmt.Errorf("insert insights: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) LatestInsights(ctx context.Context, userID string) ([]string, time.Time, error) {
	var (
		body        string
		generatedAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT body, generated_at FROM insights
		WHERE user_id = ?
		ORDER BY generated_at DESC, id DESC
		LIMIT 1`, userID).Scan(&body, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get latest insights: %w", err)
	}
	var out []string
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode insights: %w", err)
	}
	return out, fromMillis(generatedAt), nil
}

func (r *SQLiteRepository) SaveBackup(ctx context.Context, userID string, data []byte, at time.Time) (ledger.BackupInfo, error) {
	if at.IsZero() {
		at = r.now()
	}
	info := ledger.BackupInfo{ID: uuid.NewString(), CreatedAt: at, Size: len(data)}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backups (id, user_id, body, created_at) VALUES (?, ?, ?, ?)`,
		info.ID, userID, data, toMillis(at))
	if err != nil {
		return ledger.BackupInfo{}, fmt.Errorf("insert backup: %w", err)
	}
	return info, nil
}

func (r *SQLiteRepository) ListBackups(ctx context.Context, userID string) ([]ledger.BackupInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, length(body), created_at FROM backups
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query backups: %w", err)
	}
	defer rows.Close()

	var out []ledger.BackupInfo
	for rows.Next() {
		var (
			info      ledger.BackupInfo
			createdAt int64
		)
		if err := rows.Scan(&info.ID, &info.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		info.CreatedAt = fromMillis(createdAt)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backups: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetBackup(ctx context.Context, userID, id string) ([]byte, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM backups WHERE id = ? AND user_id = ?`, id, userID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("backup %s: %w", id, core.ErrBackupNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get backup: %w", err)
	}
	return body, nil
}

func (r *SQLiteRepository) DeleteBackup(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM backups WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete backup: %w", err)
	}
	return expectRow(res, fmt.Errorf("backup %s: %w", id, core.ErrBackupNotFound))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (core.SavingsGoal, error) {
	var (
		g                core.SavingsGoal
		duration, status string
		deadline         sql.NullInt64
		createdAt        int64
	)
	err := row.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.SavedAmount, &duration, &deadline, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, err
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("scan savings goal: %w", err)
	}
	g.DurationType = core.DurationType(duration)
	g.Status = core.GoalStatus(status)
	if deadline.Valid {
		g.Deadline = fromMillis(deadline.Int64)
	}
	g.CreatedAt = fromMillis(createdAt)
	return g, nil
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func nullMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
