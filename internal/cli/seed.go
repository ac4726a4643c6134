package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/okivie/lifewheel/internal/config"
	"github.com/okivie/lifewheel/internal/sphere"
	"github.com/okivie/lifewheel/internal/store"
)

var seedUser string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the record stores with demo activity",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedUser, "user", "demo", "user ID to seed")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seedDemo(ctx, db, seedUser); err != nil {
		return err
	}
	fmt.Printf("seeded demo activity for user %q\n", seedUser)
	return nil
}

// seedDemo spreads plausible activity unevenly across the spheres so
// the computed index shows a visible personal/social tilt.
func seedDemo(ctx context.Context, db *store.DB, userID string) error {
	health, _ := sphere.ByKey("health")
	mind, _ := sphere.ByKey("mind")
	work, _ := sphere.ByKey("work")
	finance, _ := sphere.ByKey("finance")
	family, _ := sphere.ByKey("family")
	friends, _ := sphere.ByKey("friends")

	goals := []*store.Goal{
		{UserID: userID, SphereID: health.ID, Title: "Run a half marathon", Progress: 0.4},
		{UserID: userID, SphereID: work.ID, Title: "Ship the Q3 release", Progress: 0.7},
		{UserID: userID, SphereID: work.ID, Title: "Onboarding docs", Status: "completed", Progress: 1},
		{UserID: userID, SphereID: mind.ID, Title: "Read 12 books", Progress: 0.5},
		{UserID: userID, SphereID: family.ID, Title: "Weekly family dinner", Progress: 0.8},
	}
	for _, g := range goals {
		if err := db.AddGoal(ctx, g); err != nil {
			return fmt.Errorf("seed goal: %w", err)
		}
	}

	tasks := []*store.Task{
		{UserID: userID, SphereID: work.ID, Title: "Review release notes", Done: true},
		{UserID: userID, SphereID: work.ID, Title: "Fix flaky pipeline", Done: true},
		{UserID: userID, SphereID: work.ID, Title: "Plan next sprint"},
		{UserID: userID, SphereID: health.ID, Title: "Book dentist", Done: true},
		{UserID: userID, SphereID: friends.ID, Title: "Reply to Petr", Done: true},
	}
	for _, t := range tasks {
		if err := db.AddTask(ctx, t); err != nil {
			return fmt.Errorf("seed task: %w", err)
		}
	}

	habits := []*store.Habit{
		{UserID: userID, SphereID: health.ID, Title: "Morning run", StreakDays: 12, DaysKept: 26, DaysPlanned: 30},
		{UserID: userID, SphereID: mind.ID, Title: "Evening reading", StreakDays: 5, DaysKept: 18, DaysPlanned: 30},
		{UserID: userID, SphereID: family.ID, Title: "Call parents", StreakDays: 3, DaysKept: 3, DaysPlanned: 4},
	}
	for _, h := range habits {
		if err := db.AddHabit(ctx, h); err != nil {
			return fmt.Errorf("seed habit: %w", err)
		}
	}

	now := time.Now()
	entries := []*store.TimeEntry{
		{UserID: userID, SphereID: work.ID, Minutes: 420, StartedAt: now.AddDate(0, 0, -1).UnixMilli()},
		{UserID: userID, SphereID: work.ID, Minutes: 390, StartedAt: now.AddDate(0, 0, -2).UnixMilli()},
		{UserID: userID, SphereID: health.ID, Minutes: 45, StartedAt: now.AddDate(0, 0, -1).UnixMilli()},
		{UserID: userID, SphereID: mind.ID, Minutes: 60, StartedAt: now.AddDate(0, 0, -3).UnixMilli()},
	}
	for _, e := range entries {
		if err := db.AddTimeEntry(ctx, e); err != nil {
			return fmt.Errorf("seed time entry: %w", err)
		}
	}

	txs := []*store.Transaction{
		{UserID: userID, SphereID: finance.ID, Amount: decimal.RequireFromString("3200.00"), Kind: "income"},
		{UserID: userID, SphereID: finance.ID, Amount: decimal.RequireFromString("1480.25"), Kind: "expense"},
		{UserID: userID, SphereID: finance.ID, Amount: decimal.RequireFromString("320.40"), Kind: "expense"},
	}
	for _, tx := range txs {
		if err := db.AddTransaction(ctx, tx); err != nil {
			return fmt.Errorf("seed transaction: %w", err)
		}
	}

	contacts := []*store.Contact{
		{UserID: userID, SphereID: family.ID, Name: "Mom"},
		{UserID: userID, SphereID: family.ID, Name: "Sister"},
		{UserID: userID, SphereID: friends.ID, Name: "Petr"},
	}
	for _, c := range contacts {
		if err := db.AddContact(ctx, c); err != nil {
			return fmt.Errorf("seed contact: %w", err)
		}
	}

	return nil
}
