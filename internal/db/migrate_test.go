package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2026-01-01T00:00:00Z"

func seedSubtaskParents(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO programs (id, short_id, name, fy_start_year, fy_end_year, created_at, updated_at)
		VALUES ('p1', 'NEU26', 'Neuron', 26, 28, ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO workstreams (id, program_id, name, created_at, updated_at)
		VALUES ('w1', 'p1', 'Data', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO subcomponents (id, workstream_id, name, created_at, updated_at)
		VALUES ('s1', 'w1', 'Lake', ?, ?)`, ts, ts)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// A second run is a no-op.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"programs", "workstreams", "subcomponents", "subtasks", "completion_notes", "burn_snapshots"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_programs_short_id",
		"idx_workstreams_program",
		"idx_subcomponents_workstream",
		"idx_subcomponents_owner",
		"idx_subtasks_subcomponent",
		"idx_completion_notes_subtask",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite uses "memory" journal mode; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
}

func TestMigrate_SubtaskAssignedOrganizationColumn(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`PRAGMA table_info(subtasks)`)
	require.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		if name == "assigned_organization" {
			found = true
		}
	}
	assert.True(t, found, "subtasks table should have assigned_organization column")
}

func TestMigrate_SubtaskCheckConstraints(t *testing.T) {
	db := openTestDB(t)
	seedSubtaskParents(t, db)

	_, err := db.Exec(`INSERT INTO subtasks (id, subcomponent_id, title, completion_percent, created_at, updated_at)
		VALUES ('t1', 's1', 'Task', 101, ?, ?)`, ts, ts)
	assert.Error(t, err, "completion above 100 should be rejected")

	_, err = db.Exec(`INSERT INTO subtasks (id, subcomponent_id, title, status, created_at, updated_at)
		VALUES ('t1', 's1', 'Task', 'todo', ?, ?)`, ts, ts)
	assert.Error(t, err, "unknown status should be rejected")

	_, err = db.Exec(`INSERT INTO subtasks (id, subcomponent_id, title, points, created_at, updated_at)
		VALUES ('t1', 's1', 'Task', -1, ?, ?)`, ts, ts)
	assert.Error(t, err, "negative points should be rejected")

	_, err = db.Exec(`INSERT INTO subtasks (id, subcomponent_id, title, points, completion_percent, status, created_at, updated_at)
		VALUES ('t1', 's1', 'Task', 5, 40, 'IN_PROGRESS', ?, ?)`, ts, ts)
	assert.NoError(t, err)
}

func TestMigrate_SnapshotUniquePerProgramMonth(t *testing.T) {
	db := openTestDB(t)
	seedSubtaskParents(t, db)

	_, err := db.Exec(`INSERT INTO burn_snapshots (id, program_id, date, created_at, updated_at)
		VALUES ('b1', 'p1', '2026-03', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO burn_snapshots (id, program_id, date, created_at, updated_at)
		VALUES ('b2', 'p1', '2026-03', ?, ?)`, ts, ts)
	assert.Error(t, err, "second snapshot for the same month should violate UNIQUE")
}

func TestMigrate_CascadeDeleteProgram(t *testing.T) {
	db := openTestDB(t)
	seedSubtaskParents(t, db)

	_, err := db.Exec(`INSERT INTO subtasks (id, subcomponent_id, title, created_at, updated_at)
		VALUES ('t1', 's1', 'Task', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO completion_notes (id, subtask_id, previous_percent, new_percent, created_at)
		VALUES ('n1', 't1', 0, 50, ?)`, ts)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM programs WHERE id = 'p1'`)
	require.NoError(t, err)

	for _, table := range []string{"workstreams", "subcomponents", "subtasks", "completion_notes"} {
		var count int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&count))
		assert.Zero(t, count, "table %s should be empty after cascade", table)
	}
}
