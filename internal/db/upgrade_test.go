package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySchema simulates upgrading a database created
// before subtasks carried an assigned organization and before status tracked
// completion. Verifies that:
// 1. Data inserted under the old schema survives migration
// 2. New columns are added with correct defaults
// 3. Stale subtask status is re-derived from completion
// 4. Snapshot percentages are backfilled
func TestMigrate_UpgradePath_LegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacyStatements := []string{
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
		`CREATE TABLE IF NOT EXISTS workstreams (
			id                     TEXT PRIMARY KEY,
			program_id             TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
			name                   TEXT NOT NULL,
			target_completion_date TEXT NOT NULL DEFAULT '',
			order_index            INTEGER NOT NULL DEFAULT 0,
			created_at             TEXT NOT NULL,
			updated_at             TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS subcomponents (
			id             TEXT PRIMARY KEY,
			workstream_id  TEXT NOT NULL REFERENCES workstreams(id) ON DELETE CASCADE,
			name           TEXT NOT NULL,
			status         TEXT NOT NULL DEFAULT 'NOT_STARTED',
			total_points   INTEGER NOT NULL DEFAULT 0,
			owner_id       TEXT NOT NULL DEFAULT '',
			owner_initials TEXT NOT NULL DEFAULT '',
			planned_start  TEXT NOT NULL DEFAULT '',
			planned_end    TEXT NOT NULL DEFAULT '',
			order_index    INTEGER NOT NULL DEFAULT 0,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS subtasks (
			id                 TEXT PRIMARY KEY,
			subcomponent_id    TEXT NOT NULL REFERENCES subcomponents(id) ON DELETE CASCADE,
			title              TEXT NOT NULL,
			points             INTEGER NOT NULL DEFAULT 0,
			completion_percent INTEGER NOT NULL DEFAULT 0,
			status             TEXT NOT NULL DEFAULT 'NOT_STARTED',
			estimated_days     REAL,
			unknowns           TEXT,
			integration        TEXT,
			is_added_scope     INTEGER NOT NULL DEFAULT 0,
			order_index        INTEGER NOT NULL DEFAULT 0,
			created_at         TEXT NOT NULL,
			updated_at         TEXT NOT NULL
		)`,
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
	}
	for i, stmt := range legacyStatements {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "legacy statement %d failed", i)
	}

	_, err = db.Exec(`INSERT INTO programs (id, short_id, name, fy_start_year, fy_end_year, created_at, updated_at)
		VALUES ('p1', 'NEU26', 'Legacy Program', 26, 28, ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO workstreams (id, program_id, name, created_at, updated_at) VALUES ('w1', 'p1', 'Data', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO subcomponents (id, workstream_id, name, created_at, updated_at) VALUES ('s1', 'w1', 'Lake', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO subtasks (id, subcomponent_id, title, points, completion_percent, status, created_at, updated_at)
		VALUES ('t1', 's1', 'Ingest', 5, 100, 'NOT_STARTED', ?, ?),
		       ('t2', 's1', 'Model', 3, 40, 'NOT_STARTED', ?, ?)`, ts, ts, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO burn_snapshots (id, program_id, date, total_points, completed_points, created_at, updated_at)
		VALUES ('b1', 'p1', '2026-02', 8, 2, ?, ?)`, ts, ts)
	require.NoError(t, err)

	require.NoError(t, Migrate(db), "migration on legacy schema should succeed")

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM programs WHERE id = 'p1'`).Scan(&name))
	assert.Equal(t, "Legacy Program", name, "program should survive migration")

	var org string
	require.NoError(t, db.QueryRow(`SELECT assigned_organization FROM subtasks WHERE id = 't1'`).Scan(&org))
	assert.Equal(t, "", org, "legacy subtask should get empty organization")

	var s1, s2 string
	require.NoError(t, db.QueryRow(`SELECT status FROM subtasks WHERE id = 't1'`).Scan(&s1))
	require.NoError(t, db.QueryRow(`SELECT status FROM subtasks WHERE id = 't2'`).Scan(&s2))
	assert.Equal(t, "DONE", s1)
	assert.Equal(t, "IN_PROGRESS", s2)

	var pct int
	require.NoError(t, db.QueryRow(`SELECT percent_complete FROM burn_snapshots WHERE id = 'b1'`).Scan(&pct))
	assert.Equal(t, 25, pct)

	// Completion notes table is created on upgrade.
	var table string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='completion_notes'`).Scan(&table))

	require.NoError(t, Migrate(db), "re-running Migrate on already-migrated DB should succeed")
	require.NoError(t, db.QueryRow(`SELECT name FROM programs WHERE id = 'p1'`).Scan(&name))
	assert.Equal(t, "Legacy Program", name)
}
