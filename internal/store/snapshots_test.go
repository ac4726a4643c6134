package store

import (
	"context"
	"testing"
	"time"
)

func TestSaveSnapshotUpsert(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := &Snapshot{
		UserID:           "u1",
		RecordedAt:       "2026-08-30",
		LifeIndex:        40,
		PersonalEnergy:   50,
		ExternalSuccess:  30,
		MindfulnessLevel: 45,
		SphereIndices:    map[string]float64{"health": 50, "work": 30},
	}
	if err := db.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("first SaveSnapshot: %v", err)
	}

	second := &Snapshot{
		UserID:           "u1",
		RecordedAt:       "2026-08-30",
		LifeIndex:        62,
		PersonalEnergy:   70,
		ExternalSuccess:  54,
		MindfulnessLevel: 60,
		SphereIndices:    map[string]float64{"health": 80, "work": 44},
	}
	if err := db.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("second SaveSnapshot: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM life_index_snapshots WHERE user_id = 'u1'`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1 (same-day save must overwrite)", count)
	}

	from, _ := time.Parse(DateFormat, "2026-08-30")
	got, err := db.QueryDaily(ctx, "u1", from, from)
	if err != nil {
		t.Fatalf("QueryDaily: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(got))
	}
	if got[0].LifeIndex != 62 {
		t.Errorf("life index = %d, want 62 (latest value wins)", got[0].LifeIndex)
	}
	if got[0].SphereIndices["health"] != 80 {
		t.Errorf("health index = %v, want 80", got[0].SphereIndices["health"])
	}
}

func TestQueryDailyOrderAndRange(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Insert out of order; query must come back ascending.
	for _, day := range []string{"2026-08-15", "2026-08-10", "2026-08-20", "2026-07-01"} {
		s := &Snapshot{
			UserID:        "u1",
			RecordedAt:    day,
			LifeIndex:     50,
			SphereIndices: map[string]float64{},
		}
		if err := db.SaveSnapshot(ctx, s); err != nil {
			t.Fatalf("SaveSnapshot(%s): %v", day, err)
		}
	}

	from, _ := time.Parse(DateFormat, "2026-08-01")
	to, _ := time.Parse(DateFormat, "2026-08-31")
	got, err := db.QueryDaily(ctx, "u1", from, to)
	if err != nil {
		t.Fatalf("QueryDaily: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("snapshots = %d, want 3 (July row out of range)", len(got))
	}
	want := []string{"2026-08-10", "2026-08-15", "2026-08-20"}
	for i, s := range got {
		if s.RecordedAt != want[i] {
			t.Errorf("snapshot[%d] = %s, want %s", i, s.RecordedAt, want[i])
		}
	}
}

func TestQueryDailySkipsCorruptRows(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	good := &Snapshot{UserID: "u1", RecordedAt: "2026-08-10", LifeIndex: 55, SphereIndices: map[string]float64{"health": 55}}
	if err := db.SaveSnapshot(ctx, good); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO life_index_snapshots
			(user_id, recorded_at, life_index, personal_energy, external_success, mindfulness_level, sphere_indices, created_at, updated_at)
		VALUES ('u1', '2026-08-11', 50, 50, 50, 50, '{broken json', 0, 0)
	`); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	from, _ := time.Parse(DateFormat, "2026-08-01")
	to, _ := time.Parse(DateFormat, "2026-08-31")
	got, err := db.QueryDaily(ctx, "u1", from, to)
	if err != nil {
		t.Fatalf("QueryDaily must not fail on a corrupt row: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("snapshots = %d, want 1 (corrupt row skipped)", len(got))
	}
	if got[0].RecordedAt != "2026-08-10" {
		t.Errorf("kept row = %s, want 2026-08-10", got[0].RecordedAt)
	}
}

func TestQueryMonthly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Anchor mid-month so subtracting a month never rolls over.
	now := time.Now()
	base := time.Date(now.Year(), now.Month(), 15, 0, 0, 0, 0, time.UTC)
	thisMonth := base.Format("2006-01")
	lastMonth := base.AddDate(0, -1, 0).Format("2006-01")

	points := []struct {
		day   string
		value int
	}{
		{lastMonth + "-05", 40},
		{lastMonth + "-15", 60},
		{thisMonth + "-01", 70},
	}
	for _, p := range points {
		s := &Snapshot{UserID: "u1", RecordedAt: p.day, LifeIndex: p.value, SphereIndices: map[string]float64{}}
		if err := db.SaveSnapshot(ctx, s); err != nil {
			t.Fatalf("SaveSnapshot(%s): %v", p.day, err)
		}
	}

	buckets, err := db.QueryMonthly(ctx, "u1", 12)
	if err != nil {
		t.Fatalf("QueryMonthly: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(buckets))
	}
	if buckets[0].Month != lastMonth || buckets[1].Month != thisMonth {
		t.Errorf("bucket order = %s, %s; want %s, %s", buckets[0].Month, buckets[1].Month, lastMonth, thisMonth)
	}
	if buckets[0].Value != 50 {
		t.Errorf("last month avg = %v, want 50", buckets[0].Value)
	}
	if buckets[0].Days != 2 {
		t.Errorf("last month days = %d, want 2", buckets[0].Days)
	}
}

func TestSnapshotsIsolatedPerUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, user := range []string{"u1", "u2"} {
		s := &Snapshot{UserID: user, RecordedAt: "2026-08-10", LifeIndex: 50, SphereIndices: map[string]float64{}}
		if err := db.SaveSnapshot(ctx, s); err != nil {
			t.Fatalf("SaveSnapshot(%s): %v", user, err)
		}
	}

	from, _ := time.Parse(DateFormat, "2026-08-10")
	got, err := db.QueryDaily(ctx, "u1", from, from)
	if err != nil {
		t.Fatalf("QueryDaily: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "u1" {
		t.Errorf("query leaked rows across users: %+v", got)
	}
}
