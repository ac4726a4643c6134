package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// The record tables are the read side the stats collector fans out
// against. Every read filters to one user, one sphere, and currently
// relevant rows: archived records and tasks postponed into the future
// are excluded so stats reflect present state, not historical noise.

// Goal is one row in the goals table.
type Goal struct {
	ID        int64
	UserID    string
	SphereID  int
	Title     string
	Progress  float64 // 0..1
	Status    string  // active, completed, archived
	DueAt     *int64
	CreatedAt int64
	UpdatedAt int64
}

// AddGoal inserts a goal record.
func (db *DB) AddGoal(ctx context.Context, g *Goal) error {
	now := time.Now().UnixMilli()
	if g.Status == "" {
		g.Status = "active"
	}
	result, err := db.ExecContext(ctx, `
		INSERT INTO goals (user_id, sphere_id, title, progress, status, due_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, g.UserID, g.SphereID, g.Title, g.Progress, g.Status, g.DueAt, now, now)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	g.ID, _ = result.LastInsertId()
	g.CreatedAt = now
	g.UpdatedAt = now
	return nil
}

// GoalCounts returns the number of active and completed goals for a
// user/sphere, plus the summed progress of the active ones.
func (db *DB) GoalCounts(ctx context.Context, userID string, sphereID int) (active, completed int, progressSum float64, err error) {
	err = db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN status = 'active' THEN 1 END),
			COUNT(CASE WHEN status = 'completed' THEN 1 END),
			COALESCE(SUM(CASE WHEN status = 'active' THEN progress END), 0)
		FROM goals WHERE user_id = ? AND sphere_id = ? AND status != 'archived'
	`, userID, sphereID).Scan(&active, &completed, &progressSum)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("goal counts: %w", err)
	}
	return active, completed, progressSum, nil
}

// Task is one row in the tasks table.
type Task struct {
	ID             int64
	UserID         string
	SphereID       int
	GoalID         *int64
	Title          string
	Done           bool
	Archived       bool
	PostponedUntil *int64
	CreatedAt      int64
}

// AddTask inserts a task record.
func (db *DB) AddTask(ctx context.Context, t *Task) error {
	now := time.Now().UnixMilli()
	result, err := db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, sphere_id, goal_id, title, done, archived, postponed_until, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.UserID, t.SphereID, t.GoalID, t.Title, boolInt(t.Done), boolInt(t.Archived), t.PostponedUntil, now)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID, _ = result.LastInsertId()
	t.CreatedAt = now
	return nil
}

// TaskCompletion returns done and total counts of currently relevant
// tasks. Archived tasks and tasks postponed past now are excluded.
func (db *DB) TaskCompletion(ctx context.Context, userID string, sphereID int) (done, total int, err error) {
	now := time.Now().UnixMilli()
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(CASE WHEN done = 1 THEN 1 END), COUNT(*)
		FROM tasks
		WHERE user_id = ? AND sphere_id = ? AND archived = 0
		  AND (postponed_until IS NULL OR postponed_until <= ?)
	`, userID, sphereID, now).Scan(&done, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("task completion: %w", err)
	}
	return done, total, nil
}

// Habit is one row in the habits table. days_kept / days_planned track
// the current consistency window; streak_days is consecutive days kept.
type Habit struct {
	ID          int64
	UserID      string
	SphereID    int
	Title       string
	StreakDays  int
	DaysKept    int
	DaysPlanned int
	Archived    bool
	CreatedAt   int64
}

// AddHabit inserts a habit record.
func (db *DB) AddHabit(ctx context.Context, h *Habit) error {
	now := time.Now().UnixMilli()
	result, err := db.ExecContext(ctx, `
		INSERT INTO habits (user_id, sphere_id, title, streak_days, days_kept, days_planned, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, h.UserID, h.SphereID, h.Title, h.StreakDays, h.DaysKept, h.DaysPlanned, boolInt(h.Archived), now)
	if err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}
	h.ID, _ = result.LastInsertId()
	h.CreatedAt = now
	return nil
}

// HabitStats returns the best streak and summed kept/planned days
// across a user's non-archived habits in a sphere.
func (db *DB) HabitStats(ctx context.Context, userID string, sphereID int) (streak, kept, planned int, err error) {
	err = db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(streak_days), 0), COALESCE(SUM(days_kept), 0), COALESCE(SUM(days_planned), 0)
		FROM habits WHERE user_id = ? AND sphere_id = ? AND archived = 0
	`, userID, sphereID).Scan(&streak, &kept, &planned)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("habit stats: %w", err)
	}
	return streak, kept, planned, nil
}

// TimeEntry is one row in the time_entries table.
type TimeEntry struct {
	ID        int64
	UserID    string
	SphereID  int
	Minutes   int
	StartedAt int64
	CreatedAt int64
}

// AddTimeEntry inserts a time entry record.
func (db *DB) AddTimeEntry(ctx context.Context, e *TimeEntry) error {
	now := time.Now().UnixMilli()
	if e.StartedAt == 0 {
		e.StartedAt = now
	}
	result, err := db.ExecContext(ctx, `
		INSERT INTO time_entries (user_id, sphere_id, minutes, started_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.UserID, e.SphereID, e.Minutes, e.StartedAt, now)
	if err != nil {
		return fmt.Errorf("insert time entry: %w", err)
	}
	e.ID, _ = result.LastInsertId()
	e.CreatedAt = now
	return nil
}

// MinutesLogged sums minutes of time entries started at or after since.
func (db *DB) MinutesLogged(ctx context.Context, userID string, sphereID int, since time.Time) (int, error) {
	var minutes int
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(minutes), 0)
		FROM time_entries
		WHERE user_id = ? AND sphere_id = ? AND started_at >= ?
	`, userID, sphereID, since.UnixMilli()).Scan(&minutes)
	if err != nil {
		return 0, fmt.Errorf("minutes logged: %w", err)
	}
	return minutes, nil
}

// Transaction is one row in the transactions table. Amounts are stored
// as decimal strings and summed in Go so money math stays exact.
type Transaction struct {
	ID        int64
	UserID    string
	SphereID  int
	Amount    decimal.Decimal
	Kind      string // income, expense
	CreatedAt int64
}

// AddTransaction inserts a transaction record.
func (db *DB) AddTransaction(ctx context.Context, tx *Transaction) error {
	now := time.Now().UnixMilli()
	result, err := db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, sphere_id, amount, kind, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, tx.UserID, tx.SphereID, tx.Amount.String(), tx.Kind, now)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	tx.ID, _ = result.LastInsertId()
	tx.CreatedAt = now
	return nil
}

// NetFlow returns income minus expenses since the given time. Rows with
// amounts that fail to parse are skipped rather than failing the sum.
func (db *DB) NetFlow(ctx context.Context, userID string, sphereID int, since time.Time) (decimal.Decimal, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT amount, kind FROM transactions
		WHERE user_id = ? AND sphere_id = ? AND created_at >= ?
	`, userID, sphereID, since.UnixMilli())
	if err != nil {
		return decimal.Zero, fmt.Errorf("net flow: %w", err)
	}
	defer rows.Close()

	net := decimal.Zero
	for rows.Next() {
		var amount, kind string
		if err := rows.Scan(&amount, &kind); err != nil {
			return decimal.Zero, fmt.Errorf("scan transaction: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			continue
		}
		if kind == "expense" {
			net = net.Sub(d)
		} else {
			net = net.Add(d)
		}
	}
	return net, rows.Err()
}

// Contact is one row in the contacts table.
type Contact struct {
	ID        int64
	UserID    string
	SphereID  int
	Name      string
	Archived  bool
	CreatedAt int64
}

// AddContact inserts a contact record.
func (db *DB) AddContact(ctx context.Context, c *Contact) error {
	now := time.Now().UnixMilli()
	result, err := db.ExecContext(ctx, `
		INSERT INTO contacts (user_id, sphere_id, name, archived, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.UserID, c.SphereID, c.Name, boolInt(c.Archived), now)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	c.ID, _ = result.LastInsertId()
	c.CreatedAt = now
	return nil
}

// ContactCount counts non-archived contacts linked to a sphere.
func (db *DB) ContactCount(ctx context.Context, userID string, sphereID int) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM contacts
		WHERE user_id = ? AND sphere_id = ? AND archived = 0
	`, userID, sphereID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("contact count: %w", err)
	}
	return count, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
