// Package engine computes the life balance index: it fans raw activity
// reads out across the six record domains, normalizes each sphere into
// a 0..100 index, reduces the 8 indices into an overall balance, and
// keeps one snapshot per user per day for trend analysis.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okivie/lifewheel/internal/sphere"
	"github.com/okivie/lifewheel/internal/store"
)

// ErrUnknownPeriod is returned for history periods other than
// "month" and "year".
var ErrUnknownPeriod = errors.New("unknown history period")

// Config carries the tunable parameters of the engine. Weights and
// thresholds are injected rather than read from globals so tests can
// pin them.
type Config struct {
	Weights       Weights
	DomainTimeout time.Duration
	Window        time.Duration
	Deadband      int
}

// DefaultConfig returns the calibrated defaults: 3s per domain query,
// a 30-day activity window, and a ±5 balance deadband.
func DefaultConfig() Config {
	return Config{
		Weights:       DefaultWeights(),
		DomainTimeout: 3 * time.Second,
		Window:        30 * 24 * time.Hour,
		Deadband:      5,
	}
}

// Engine wires the collector, calculator, and aggregator over one
// database handle. It is stateless between invocations; the only
// persisted state is the daily snapshot row.
type Engine struct {
	DB         *store.DB
	Collector  *Collector
	Calculator *Calculator
	Aggregator *Aggregator
}

// New creates an Engine from the given config.
func New(db *store.DB, cfg Config) (*Engine, error) {
	calc, err := NewCalculator(cfg.Weights)
	if err != nil {
		return nil, err
	}
	return &Engine{
		DB:         db,
		Collector:  NewCollector(db, cfg.DomainTimeout, cfg.Window),
		Calculator: calc,
		Aggregator: NewAggregator(cfg.Deadband),
	}, nil
}

// SphereIndex is one sphere's normalized score.
type SphereIndex struct {
	SphereID int     `json:"sphere_id"`
	Key      string  `json:"key"`
	Index    float64 `json:"index"`
}

// LifeIndexResult is the full output of one computation run.
type LifeIndexResult struct {
	Balance
	SphereIndices []SphereIndex `json:"sphere_indices"`
}

// ComputeLifeIndex runs the whole pipeline for one user: collect and
// score all 8 spheres concurrently, aggregate, then persist today's
// snapshot. A snapshot write failure is logged but does not fail the
// call; the computed result is always returned.
func (e *Engine) ComputeLifeIndex(ctx context.Context, userID string) (*LifeIndexResult, error) {
	spheres := sphere.List()
	indices := make([]SphereIndex, len(spheres))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range spheres {
		i, s := i, s
		g.Go(func() error {
			stats, err := e.Collector.Collect(gctx, userID, s.ID)
			if err != nil {
				return fmt.Errorf("collect sphere %s: %w", s.Key, err)
			}
			indices[i] = SphereIndex{
				SphereID: s.ID,
				Key:      s.Key,
				Index:    e.Calculator.Calculate(stats, s.FinanceCapable),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byKey := make(map[string]float64, len(indices))
	for _, si := range indices {
		byKey[si.Key] = si.Index
	}
	balance := e.Aggregator.Aggregate(byKey)

	result := &LifeIndexResult{Balance: balance, SphereIndices: indices}

	// Persisting the snapshot is the last step and best-effort: the
	// read path must not fail because the write did.
	snapshot := &store.Snapshot{
		UserID:           userID,
		RecordedAt:       time.Now().Format(store.DateFormat),
		LifeIndex:        balance.LifeIndex,
		PersonalEnergy:   balance.PersonalEnergy,
		ExternalSuccess:  balance.ExternalSuccess,
		MindfulnessLevel: balance.MindfulnessLevel,
		SphereIndices:    byKey,
	}
	if err := e.DB.SaveSnapshot(ctx, snapshot); err != nil {
		log.Printf("save snapshot user=%s: %v (result still returned)", userID, err)
	}

	return result, nil
}

// SphereStats resolves a sphere key and collects its raw stats.
// Unknown keys surface sphere.ErrNotFound.
func (e *Engine) SphereStats(ctx context.Context, userID, key string) (SphereStats, error) {
	s, err := sphere.ByKey(key)
	if err != nil {
		return SphereStats{}, err
	}
	return e.Collector.Collect(ctx, userID, s.ID)
}

// HistoryPoint is one dated value in a history series.
type HistoryPoint struct {
	Date  string  `json:"date,omitempty"`  // daily granularity
	Month string  `json:"month,omitempty"` // month granularity
	Value float64 `json:"value"`
}

// History is an ordered life-index series plus its trend.
type History struct {
	Period string         `json:"period"`
	Points []HistoryPoint `json:"points"`
	Trend  TrendResult    `json:"trend"`
}

// History returns the life-index series for a user. Period "month"
// yields daily points over the last 30 days; "year" yields calendar
// month averages over the last 12 months.
func (e *Engine) History(ctx context.Context, userID, period string) (*History, error) {
	// Non-nil so an empty history serializes as [], not null.
	points := []HistoryPoint{}

	switch period {
	case "month":
		to := time.Now()
		from := to.AddDate(0, 0, -30)
		snapshots, err := e.DB.QueryDaily(ctx, userID, from, to)
		if err != nil {
			return nil, fmt.Errorf("daily history: %w", err)
		}
		for _, s := range snapshots {
			points = append(points, HistoryPoint{Date: s.RecordedAt, Value: float64(s.LifeIndex)})
		}
	case "year":
		buckets, err := e.DB.QueryMonthly(ctx, userID, 12)
		if err != nil {
			return nil, fmt.Errorf("monthly history: %w", err)
		}
		for _, b := range buckets {
			points = append(points, HistoryPoint{Month: b.Month, Value: b.Value})
		}
	default:
		return nil, fmt.Errorf("period %q: %w", period, ErrUnknownPeriod)
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	return &History{Period: period, Points: points, Trend: Trend(values)}, nil
}
