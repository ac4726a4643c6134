package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "activity records: goals, tasks, habits, time entries, transactions, contacts",
		SQL: `
CREATE TABLE goals (
    id          INTEGER PRIMARY KEY,
    user_id     TEXT NOT NULL,
    sphere_id   INTEGER NOT NULL,
    title       TEXT NOT NULL,
    progress    REAL NOT NULL DEFAULT 0 CHECK (progress >= 0 AND progress <= 1),
    status      TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed', 'archived')),
    due_at      INTEGER,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE INDEX idx_goals_user_sphere ON goals(user_id, sphere_id);

CREATE TABLE tasks (
    id              INTEGER PRIMARY KEY,
    user_id         TEXT NOT NULL,
    sphere_id       INTEGER NOT NULL,
    goal_id         INTEGER,
    title           TEXT NOT NULL,
    done            INTEGER NOT NULL DEFAULT 0,
    archived        INTEGER NOT NULL DEFAULT 0,
    postponed_until INTEGER,
    created_at      INTEGER NOT NULL,

    FOREIGN KEY (goal_id) REFERENCES goals(id)
);

CREATE INDEX idx_tasks_user_sphere ON tasks(user_id, sphere_id);

CREATE TABLE habits (
    id            INTEGER PRIMARY KEY,
    user_id       TEXT NOT NULL,
    sphere_id     INTEGER NOT NULL,
    title         TEXT NOT NULL,
    streak_days   INTEGER NOT NULL DEFAULT 0,
    days_kept     INTEGER NOT NULL DEFAULT 0,
    days_planned  INTEGER NOT NULL DEFAULT 0,
    archived      INTEGER NOT NULL DEFAULT 0,
    created_at    INTEGER NOT NULL
);

CREATE INDEX idx_habits_user_sphere ON habits(user_id, sphere_id);

CREATE TABLE time_entries (
    id          INTEGER PRIMARY KEY,
    user_id     TEXT NOT NULL,
    sphere_id   INTEGER NOT NULL,
    minutes     INTEGER NOT NULL CHECK (minutes >= 0),
    started_at  INTEGER NOT NULL,
    created_at  INTEGER NOT NULL
);

CREATE INDEX idx_time_user_sphere ON time_entries(user_id, sphere_id, started_at);

CREATE TABLE transactions (
    id          INTEGER PRIMARY KEY,
    user_id     TEXT NOT NULL,
    sphere_id   INTEGER NOT NULL,
    amount      TEXT NOT NULL,
    kind        TEXT NOT NULL CHECK (kind IN ('income', 'expense')),
    created_at  INTEGER NOT NULL
);

CREATE INDEX idx_tx_user_sphere ON transactions(user_id, sphere_id, created_at);

CREATE TABLE contacts (
    id          INTEGER PRIMARY KEY,
    user_id     TEXT NOT NULL,
    sphere_id   INTEGER NOT NULL,
    name        TEXT NOT NULL,
    archived    INTEGER NOT NULL DEFAULT 0,
    created_at  INTEGER NOT NULL
);

CREATE INDEX idx_contacts_user_sphere ON contacts(user_id, sphere_id);
`,
	},
	{
		Version:     2,
		Description: "life_index_snapshots: one row per user per day",
		SQL: `
CREATE TABLE life_index_snapshots (
    id                INTEGER PRIMARY KEY,
    user_id           TEXT NOT NULL,
    recorded_at       TEXT NOT NULL,
    life_index        INTEGER NOT NULL,
    personal_energy   INTEGER NOT NULL,
    external_success  INTEGER NOT NULL,
    mindfulness_level INTEGER NOT NULL,
    sphere_indices    TEXT NOT NULL,
    created_at        INTEGER NOT NULL,
    updated_at        INTEGER NOT NULL,

    UNIQUE (user_id, recorded_at)
);

CREATE INDEX idx_snapshots_user_date ON life_index_snapshots(user_id, recorded_at);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
