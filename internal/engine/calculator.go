package engine

import (
	"fmt"
	"math"
)

// Weights configures how sub-scores combine into a sphere index.
// Values must be non-negative and sum to 1. For spheres without a
// financial dimension the FinancialBalance weight folds into
// TimeInvested so the effective weights still sum to 1.
type Weights struct {
	GoalProgress     float64 `json:"goal_progress"`
	TaskCompletion   float64 `json:"task_completion"`
	HabitConsistency float64 `json:"habit_consistency"`
	TimeInvested     float64 `json:"time_invested"`
	FinancialBalance float64 `json:"financial_balance"`
}

// DefaultWeights returns the calibrated default weight table.
func DefaultWeights() Weights {
	return Weights{
		GoalProgress:     0.25,
		TaskCompletion:   0.25,
		HabitConsistency: 0.25,
		TimeInvested:     0.15,
		FinancialBalance: 0.10,
	}
}

// Validate checks that weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"goal_progress":     w.GoalProgress,
		"task_completion":   w.TaskCompletion,
		"habit_consistency": w.HabitConsistency,
		"time_invested":     w.TimeInvested,
		"financial_balance": w.FinancialBalance,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %v", name, v)
		}
	}
	sum := w.GoalProgress + w.TaskCompletion + w.HabitConsistency + w.TimeInvested + w.FinancialBalance
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("weights sum to %v, want 1", sum)
	}
	return nil
}

// Saturation points: the raw volume at which each sub-score reaches
// its ceiling. Below the ceiling, credit grows with the square root of
// volume, so small consistent activity earns proportionally more than
// raw bulk.
const (
	goalVolumeSat    = 4.0    // completed goals
	goalProgressSat  = 3.0    // summed active-goal progress
	goalActiveSat    = 5.0    // concurrently active goals
	taskVolumeSat    = 5.0    // tasks done
	habitStreakSat   = 14.0   // streak days
	timeMinutesSat   = 600.0  // minutes in the window
	financeAmountSat = 1000.0 // net positive flow
)

// Calculator converts raw SphereStats into a normalized 0..100 index.
// It is pure: same stats and weights always produce the same index.
type Calculator struct {
	Weights Weights
}

// NewCalculator returns a Calculator with the given weights.
func NewCalculator(w Weights) (*Calculator, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("calculator weights: %w", err)
	}
	return &Calculator{Weights: w}, nil
}

// Calculate produces the sphere index in [0,100]. Zero activity in
// every sub-score yields exactly 0. Increasing any single activity
// count never lowers the result.
//
// financeCapable controls whether the financial sub-score applies;
// when false its weight is added to the time sub-score.
func (c *Calculator) Calculate(stats SphereStats, financeCapable bool) float64 {
	w := c.Weights
	timeWeight := w.TimeInvested
	financeWeight := w.FinancialBalance
	if !financeCapable {
		timeWeight += financeWeight
		financeWeight = 0
	}

	index := w.GoalProgress*goalScore(stats) +
		w.TaskCompletion*taskScore(stats) +
		w.HabitConsistency*habitScore(stats) +
		timeWeight*timeScore(stats) +
		financeWeight*financeScore(stats)

	return clamp(index, 0, 100)
}

// goalScore blends completion volume, accumulated progress, and the
// breadth of active goals. Each term saturates independently.
func goalScore(s SphereStats) float64 {
	v := 0.5*sat(float64(s.CompletedGoals), goalVolumeSat) +
		0.3*sat(s.GoalProgressSum, goalProgressSat) +
		0.2*sat(float64(s.ActiveGoals), goalActiveSat)
	return 100 * v
}

// taskScore is the completion rate weighted by done-volume, so one
// done task out of one does not immediately read as a perfect sphere.
func taskScore(s SphereStats) float64 {
	if s.TasksDone <= 0 {
		return 0
	}
	total := s.TasksTotal
	if total < s.TasksDone {
		total = s.TasksDone
	}
	rate := float64(s.TasksDone) / float64(total)
	return 100 * rate * sat(float64(s.TasksDone), taskVolumeSat)
}

// habitScore combines the kept/planned consistency ratio with streak
// credit. Consistency dominates; the streak rewards continuity.
func habitScore(s SphereStats) float64 {
	consistency := 0.0
	if s.HabitDaysPlanned > 0 {
		kept := s.HabitDaysKept
		if kept > s.HabitDaysPlanned {
			kept = s.HabitDaysPlanned
		}
		consistency = float64(kept) / float64(s.HabitDaysPlanned)
	}
	return 100 * (0.7*consistency + 0.3*sat(float64(s.HabitStreakDays), habitStreakSat))
}

func timeScore(s SphereStats) float64 {
	return 100 * sat(float64(s.MinutesLogged), timeMinutesSat)
}

// financeScore credits positive net flow only; a negative balance
// scores zero rather than going negative.
func financeScore(s SphereStats) float64 {
	net := s.NetFlow.InexactFloat64()
	if net <= 0 {
		return 0
	}
	return 100 * sat(net, financeAmountSat)
}

// sat maps raw volume x onto [0,1] with square-root diminishing
// returns, reaching 1 at the saturation point.
func sat(x, at float64) float64 {
	if x <= 0 {
		return 0
	}
	v := math.Sqrt(x / at)
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
