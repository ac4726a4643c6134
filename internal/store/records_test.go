package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGoalCounts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, g := range []*Goal{
		{UserID: "u1", SphereID: 1, Title: "run a 10k", Progress: 0.5},
		{UserID: "u1", SphereID: 1, Title: "sleep 8h", Progress: 0.25},
		{UserID: "u1", SphereID: 1, Title: "quit sugar", Status: "completed", Progress: 1},
		{UserID: "u1", SphereID: 1, Title: "old goal", Status: "archived"},
		{UserID: "u1", SphereID: 2, Title: "other sphere"},
		{UserID: "u2", SphereID: 1, Title: "other user"},
	} {
		if err := db.AddGoal(ctx, g); err != nil {
			t.Fatalf("AddGoal(%s): %v", g.Title, err)
		}
	}

	active, completed, progressSum, err := db.GoalCounts(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("GoalCounts: %v", err)
	}
	if active != 2 {
		t.Errorf("active = %d, want 2", active)
	}
	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}
	if progressSum != 0.75 {
		t.Errorf("progressSum = %v, want 0.75", progressSum)
	}
}

func TestTaskCompletionFiltering(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	future := time.Now().Add(48 * time.Hour).UnixMilli()
	past := time.Now().Add(-48 * time.Hour).UnixMilli()

	for _, task := range []*Task{
		{UserID: "u1", SphereID: 3, Title: "ship report", Done: true},
		{UserID: "u1", SphereID: 3, Title: "review PRs"},
		{UserID: "u1", SphereID: 3, Title: "archived", Done: true, Archived: true},
		{UserID: "u1", SphereID: 3, Title: "someday", PostponedUntil: &future},
		{UserID: "u1", SphereID: 3, Title: "was postponed", Done: true, PostponedUntil: &past},
	} {
		if err := db.AddTask(ctx, task); err != nil {
			t.Fatalf("AddTask(%s): %v", task.Title, err)
		}
	}

	done, total, err := db.TaskCompletion(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("TaskCompletion: %v", err)
	}
	// Archived and future-postponed tasks must not count.
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if done != 2 {
		t.Errorf("done = %d, want 2", done)
	}
}

func TestHabitStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, h := range []*Habit{
		{UserID: "u1", SphereID: 1, Title: "morning run", StreakDays: 7, DaysKept: 6, DaysPlanned: 7},
		{UserID: "u1", SphereID: 1, Title: "meditation", StreakDays: 21, DaysKept: 7, DaysPlanned: 7},
		{UserID: "u1", SphereID: 1, Title: "dropped", StreakDays: 99, DaysKept: 0, DaysPlanned: 7, Archived: true},
	} {
		if err := db.AddHabit(ctx, h); err != nil {
			t.Fatalf("AddHabit(%s): %v", h.Title, err)
		}
	}

	streak, kept, planned, err := db.HabitStats(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("HabitStats: %v", err)
	}
	if streak != 21 {
		t.Errorf("streak = %d, want 21", streak)
	}
	if kept != 13 {
		t.Errorf("kept = %d, want 13", kept)
	}
	if planned != 14 {
		t.Errorf("planned = %d, want 14", planned)
	}
}

func TestMinutesLoggedWindow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	recent := time.Now().Add(-2 * 24 * time.Hour).UnixMilli()
	old := time.Now().Add(-60 * 24 * time.Hour).UnixMilli()

	for _, e := range []*TimeEntry{
		{UserID: "u1", SphereID: 2, Minutes: 45, StartedAt: recent},
		{UserID: "u1", SphereID: 2, Minutes: 30, StartedAt: recent},
		{UserID: "u1", SphereID: 2, Minutes: 500, StartedAt: old},
	} {
		if err := db.AddTimeEntry(ctx, e); err != nil {
			t.Fatalf("AddTimeEntry: %v", err)
		}
	}

	minutes, err := db.MinutesLogged(ctx, "u1", 2, time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("MinutesLogged: %v", err)
	}
	if minutes != 75 {
		t.Errorf("minutes = %d, want 75", minutes)
	}
}

func TestNetFlow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, tx := range []*Transaction{
		{UserID: "u1", SphereID: 4, Amount: decimal.RequireFromString("1500.50"), Kind: "income"},
		{UserID: "u1", SphereID: 4, Amount: decimal.RequireFromString("199.99"), Kind: "expense"},
		{UserID: "u1", SphereID: 4, Amount: decimal.RequireFromString("300.51"), Kind: "expense"},
	} {
		if err := db.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}

	net, err := db.NetFlow(ctx, "u1", 4, time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("NetFlow: %v", err)
	}
	want := decimal.RequireFromString("1000.00")
	if !net.Equal(want) {
		t.Errorf("net = %s, want %s", net, want)
	}
}

func TestNetFlowSkipsBadAmounts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	tx := &Transaction{UserID: "u1", SphereID: 4, Amount: decimal.NewFromInt(100), Kind: "income"}
	if err := db.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	// Corrupt one amount directly.
	if _, err := db.Exec(`INSERT INTO transactions (user_id, sphere_id, amount, kind, created_at)
		VALUES ('u1', 4, 'not-a-number', 'income', ?)`, time.Now().UnixMilli()); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	net, err := db.NetFlow(ctx, "u1", 4, time.Now().AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("NetFlow: %v", err)
	}
	if !net.Equal(decimal.NewFromInt(100)) {
		t.Errorf("net = %s, want 100", net)
	}
}

func TestContactCount(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, c := range []*Contact{
		{UserID: "u1", SphereID: 5, Name: "mom"},
		{UserID: "u1", SphereID: 5, Name: "brother"},
		{UserID: "u1", SphereID: 5, Name: "ex", Archived: true},
		{UserID: "u1", SphereID: 6, Name: "college friend"},
	} {
		if err := db.AddContact(ctx, c); err != nil {
			t.Fatalf("AddContact(%s): %v", c.Name, err)
		}
	}

	count, err := db.ContactCount(ctx, "u1", 5)
	if err != nil {
		t.Fatalf("ContactCount: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
