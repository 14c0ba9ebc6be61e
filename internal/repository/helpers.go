package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// Program start and target dates are stored as plain calendar dates; row
// timestamps as RFC3339.
const dateLayout = "2006-01-02"

// parseNullableTime returns nil for NULL, empty or unparseable dates.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// nullableStringToValue maps a nil pointer to SQL NULL.
func nullableStringToValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func parseTimestamps(createdAt, updatedAt string) (created, updated time.Time, err error) {
	if created, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return created, updated, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if updated, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return created, updated, fmt.Errorf("parsing updated_at %q: %w", updatedAt, err)
	}
	return created, updated, nil
}

// SQLite has no boolean type; is_added_scope is stored as 0 or 1.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool { return i != 0 }

// rowScanner lets one scan function serve QueryRow and Query results.
type rowScanner interface {
	Scan(dest ...any) error
}
