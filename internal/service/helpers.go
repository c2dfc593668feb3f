package service

import (
	"time"
)

// nowOr returns the caller-supplied clock reading, or the current UTC time
// truncated to the storage precision.
func nowOr(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return time.Now().UTC().Truncate(time.Second)
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
