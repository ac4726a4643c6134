package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// DateFormat is the day-granularity key format for snapshots.
const DateFormat = "2006-01-02"

// Snapshot is one persisted daily record of a user's computed indices.
// At most one row exists per (user_id, recorded_at); a same-day save
// overwrites rather than appends.
type Snapshot struct {
	ID               int64
	UserID           string
	RecordedAt       string // DateFormat
	LifeIndex        int
	PersonalEnergy   int
	ExternalSuccess  int
	MindfulnessLevel int
	SphereIndices    map[string]float64
}

// SaveSnapshot upserts a snapshot keyed by (user_id, recorded_at).
// Repeated saves on the same day converge to the latest values.
func (db *DB) SaveSnapshot(ctx context.Context, s *Snapshot) error {
	indices, err := json.Marshal(s.SphereIndices)
	if err != nil {
		return fmt.Errorf("marshal sphere indices: %w", err)
	}
	now := time.Now().UnixMilli()

	_, err = db.ExecContext(ctx, `
		INSERT INTO life_index_snapshots
			(user_id, recorded_at, life_index, personal_energy, external_success, mindfulness_level, sphere_indices, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, recorded_at) DO UPDATE SET
			life_index        = excluded.life_index,
			personal_energy   = excluded.personal_energy,
			external_success  = excluded.external_success,
			mindfulness_level = excluded.mindfulness_level,
			sphere_indices    = excluded.sphere_indices,
			updated_at        = excluded.updated_at
	`, s.UserID, s.RecordedAt, s.LifeIndex, s.PersonalEnergy, s.ExternalSuccess,
		s.MindfulnessLevel, string(indices), now, now)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// QueryDaily returns snapshots in [from, to], ascending by date.
// Rows whose sphere_indices blob fails to decode are skipped so one
// corrupt row cannot break the whole range.
func (db *DB) QueryDaily(ctx context.Context, userID string, from, to time.Time) ([]Snapshot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, recorded_at, life_index, personal_energy, external_success, mindfulness_level, sphere_indices
		FROM life_index_snapshots
		WHERE user_id = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC
	`, userID, from.Format(DateFormat), to.Format(DateFormat))
	if err != nil {
		return nil, fmt.Errorf("query daily snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var indices string
		if err := rows.Scan(&s.ID, &s.UserID, &s.RecordedAt, &s.LifeIndex,
			&s.PersonalEnergy, &s.ExternalSuccess, &s.MindfulnessLevel, &indices); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(indices), &s.SphereIndices); err != nil {
			log.Printf("skip snapshot %s/%s: bad sphere_indices: %v", s.UserID, s.RecordedAt, err)
			continue
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MonthBucket is a calendar-month average of a snapshot field.
type MonthBucket struct {
	Month string // "2006-01"
	Value float64
	Days  int
}

// QueryMonthly groups daily snapshots by calendar month and averages
// life_index per bucket, ascending, covering the last `months` months.
func (db *DB) QueryMonthly(ctx context.Context, userID string, months int) ([]MonthBucket, error) {
	cutoff := time.Now().AddDate(0, -months, 0).Format(DateFormat)
	rows, err := db.QueryContext(ctx, `
		SELECT substr(recorded_at, 1, 7) AS month, AVG(life_index), COUNT(*)
		FROM life_index_snapshots
		WHERE user_id = ? AND recorded_at >= ?
		GROUP BY month
		ORDER BY month ASC
	`, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query monthly snapshots: %w", err)
	}
	defer rows.Close()

	var out []MonthBucket
	for rows.Next() {
		var b MonthBucket
		if err := rows.Scan(&b.Month, &b.Value, &b.Days); err != nil {
			return nil, fmt.Errorf("scan month bucket: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
