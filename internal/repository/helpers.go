package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// parseNullableTime parses an RFC3339 sql.NullString into a *time.Time.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
func nullableTimeToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// requireAffected maps an UPDATE that touched no row to ErrNotFound.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
