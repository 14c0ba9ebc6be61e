package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSubtaskStatus(db); err != nil {
		return fmt.Errorf("backfilling subtask status: %w", err)
	}
	if err := migrateBackfillSnapshotPercent(db); err != nil {
		return fmt.Errorf("backfilling snapshot percent: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS programs (
		id            TEXT PRIMARY KEY,
		short_id      TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL,
		fy_start_year INTEGER NOT NULL,
		fy_end_year   INTEGER NOT NULL,
		start_date    TEXT,
		target_date   TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_programs_short_id ON programs(short_id) WHERE short_id != ''`,
	`CREATE TABLE IF NOT EXISTS workstreams (
		id                     TEXT PRIMARY KEY,
		program_id             TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
		name                   TEXT NOT NULL,
		target_completion_date TEXT NOT NULL DEFAULT '',
		order_index            INTEGER NOT NULL DEFAULT 0,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workstreams_program ON workstreams(program_id)`,
	`CREATE TABLE IF NOT EXISTS subcomponents (
		id             TEXT PRIMARY KEY,
		workstream_id  TEXT NOT NULL REFERENCES workstreams(id) ON DELETE CASCADE,
		name           TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'NOT_STARTED'
		               CHECK(status IN ('NOT_STARTED','IN_PROGRESS','DONE')),
		total_points   INTEGER NOT NULL DEFAULT 0,
		owner_id       TEXT NOT NULL DEFAULT '',
		owner_initials TEXT NOT NULL DEFAULT '',
		planned_start  TEXT NOT NULL DEFAULT '',
		planned_end    TEXT NOT NULL DEFAULT '',
		order_index    INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subcomponents_workstream ON subcomponents(workstream_id)`,
	`CREATE INDEX IF NOT EXISTS idx_subcomponents_owner ON subcomponents(owner_id)`,
	`CREATE TABLE IF NOT EXISTS subtasks (
		id                 TEXT PRIMARY KEY,
		subcomponent_id    TEXT NOT NULL REFERENCES subcomponents(id) ON DELETE CASCADE,
		title              TEXT NOT NULL,
		points             INTEGER NOT NULL DEFAULT 0 CHECK(points >= 0),
		completion_percent INTEGER NOT NULL DEFAULT 0
		                   CHECK(completion_percent BETWEEN 0 AND 100),
		status             TEXT NOT NULL DEFAULT 'NOT_STARTED'
		                   CHECK(status IN ('NOT_STARTED','IN_PROGRESS','DONE')),
		estimated_days     REAL,
		unknowns           TEXT,
		integration        TEXT,
		is_added_scope     INTEGER NOT NULL DEFAULT 0,
		order_index        INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subtasks_subcomponent ON subtasks(subcomponent_id)`,
	`CREATE TABLE IF NOT EXISTS completion_notes (
		id               TEXT PRIMARY KEY,
		subtask_id       TEXT NOT NULL REFERENCES subtasks(id) ON DELETE CASCADE,
		previous_percent INTEGER NOT NULL,
		new_percent      INTEGER NOT NULL,
		reason           TEXT NOT NULL DEFAULT '',
		actor_id         TEXT,
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_completion_notes_subtask ON completion_notes(subtask_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS burn_snapshots (
		id               TEXT PRIMARY KEY,
		program_id       TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
		date             TEXT NOT NULL,
		total_points     INTEGER NOT NULL DEFAULT 0,
		completed_points INTEGER NOT NULL DEFAULT 0,
		percent_complete INTEGER NOT NULL DEFAULT 0,
		workstream_data  TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		UNIQUE(program_id, date)
	)`,
	// Subtasks gained an assigned partner organization after the first release.
	`ALTER TABLE subtasks ADD COLUMN assigned_organization TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillSubtaskStatus re-derives status from completion_percent for
// rows written before status tracked completion. Idempotent.
func migrateBackfillSubtaskStatus(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `UPDATE subtasks SET status = CASE
			WHEN completion_percent >= 100 THEN 'DONE'
			WHEN completion_percent <= 0 THEN 'NOT_STARTED'
			ELSE 'IN_PROGRESS' END
		WHERE status != CASE
			WHEN completion_percent >= 100 THEN 'DONE'
			WHEN completion_percent <= 0 THEN 'NOT_STARTED'
			ELSE 'IN_PROGRESS' END`)
	if err != nil {
		return fmt.Errorf("updating subtask status: %w", err)
	}
	return nil
}

// migrateBackfillSnapshotPercent fills percent_complete for snapshots recorded
// with totals only.
func migrateBackfillSnapshotPercent(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `UPDATE burn_snapshots
		SET percent_complete = CAST(ROUND(completed_points * 100.0 / total_points) AS INTEGER)
		WHERE percent_complete = 0 AND completed_points > 0 AND total_points > 0`)
	if err != nil {
		return fmt.Errorf("updating snapshot percent: %w", err)
	}
	return nil
}
