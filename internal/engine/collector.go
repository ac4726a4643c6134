package engine

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/okivie/lifewheel/internal/store"
)

// SphereStats is the raw per-user, per-sphere activity snapshot the
// collector assembles. It is produced fresh on every computation and
// never persisted directly.
type SphereStats struct {
	SphereID         int             `json:"sphere_id"`
	ActiveGoals      int             `json:"active_goals"`
	CompletedGoals   int             `json:"completed_goals"`
	GoalProgressSum  float64         `json:"goal_progress_sum"`
	TasksTotal       int             `json:"tasks_total"`
	TasksDone        int             `json:"tasks_done"`
	HabitStreakDays  int             `json:"habit_streak_days"`
	HabitDaysKept    int             `json:"habit_days_kept"`
	HabitDaysPlanned int             `json:"habit_days_planned"`
	MinutesLogged    int             `json:"minutes_logged"`
	NetFlow          decimal.Decimal `json:"net_flow"`
	ContactCount     int             `json:"contact_count"`
}

// Collector fans out independent reads across the six activity domains.
// A failed or timed-out domain contributes zero values and is logged;
// it never aborts the run.
type Collector struct {
	DB *store.DB

	// DomainTimeout bounds each individual domain query.
	DomainTimeout time.Duration

	// Window is the activity lookback for time entries and transactions.
	Window time.Duration
}

// NewCollector returns a Collector with the given lookback settings.
func NewCollector(db *store.DB, domainTimeout, window time.Duration) *Collector {
	return &Collector{DB: db, DomainTimeout: domainTimeout, Window: window}
}

// Collect gathers SphereStats for one user and sphere. The six domain
// queries run concurrently; each writes a disjoint set of stat fields,
// so the join needs no locking. Collect returns an error only when the
// parent context is cancelled.
func (c *Collector) Collect(ctx context.Context, userID string, sphereID int) (SphereStats, error) {
	stats := SphereStats{SphereID: sphereID, NetFlow: decimal.Zero}
	since := time.Now().Add(-c.Window)

	g, gctx := errgroup.WithContext(ctx)

	c.domain(g, gctx, "goals", userID, sphereID, func(dctx context.Context) error {
		active, completed, progressSum, err := c.DB.GoalCounts(dctx, userID, sphereID)
		if err != nil {
			return err
		}
		stats.ActiveGoals = active
		stats.CompletedGoals = completed
		stats.GoalProgressSum = progressSum
		return nil
	})

	c.domain(g, gctx, "tasks", userID, sphereID, func(dctx context.Context) error {
		done, total, err := c.DB.TaskCompletion(dctx, userID, sphereID)
		if err != nil {
			return err
		}
		stats.TasksDone = done
		stats.TasksTotal = total
		return nil
	})

	c.domain(g, gctx, "habits", userID, sphereID, func(dctx context.Context) error {
		streak, kept, planned, err := c.DB.HabitStats(dctx, userID, sphereID)
		if err != nil {
			return err
		}
		stats.HabitStreakDays = streak
		stats.HabitDaysKept = kept
		stats.HabitDaysPlanned = planned
		return nil
	})

	c.domain(g, gctx, "time", userID, sphereID, func(dctx context.Context) error {
		minutes, err := c.DB.MinutesLogged(dctx, userID, sphereID, since)
		if err != nil {
			return err
		}
		stats.MinutesLogged = minutes
		return nil
	})

	c.domain(g, gctx, "transactions", userID, sphereID, func(dctx context.Context) error {
		net, err := c.DB.NetFlow(dctx, userID, sphereID, since)
		if err != nil {
			return err
		}
		stats.NetFlow = net
		return nil
	})

	c.domain(g, gctx, "contacts", userID, sphereID, func(dctx context.Context) error {
		count, err := c.DB.ContactCount(dctx, userID, sphereID)
		if err != nil {
			return err
		}
		stats.ContactCount = count
		return nil
	})

	// Domain closures never return errors, so Wait is purely a join.
	g.Wait()

	if err := ctx.Err(); err != nil {
		return SphereStats{SphereID: sphereID, NetFlow: decimal.Zero}, err
	}
	return stats, nil
}

// domain wraps one fan-out branch: per-query timeout, degrade-to-zero
// on failure, and a log line so silent degradation stays observable.
func (c *Collector) domain(g *errgroup.Group, ctx context.Context, name, userID string, sphereID int, query func(context.Context) error) {
	g.Go(func() error {
		dctx := ctx
		if c.DomainTimeout > 0 {
			var cancel context.CancelFunc
			dctx, cancel = context.WithTimeout(ctx, c.DomainTimeout)
			defer cancel()
		}
		if err := query(dctx); err != nil {
			log.Printf("collect %s user=%s sphere=%d: %v (using zero values)", name, userID, sphereID, err)
		}
		return nil
	})
}
