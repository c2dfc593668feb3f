package domain

import (
	"strings"
	"time"
)

type WorkLog struct {
	ID              string
	OrganizationID  string
	ProjectID       *string
	ClientID        *string
	Description     string
	DurationMinutes int
	HourlyRate      float64
	CostImpact      float64
	Category        WorkCategory
	BurnReason      *BurnReason
	Confidence      float64
	Rationale       string
	Source          RecordSource
	CreatedAt       time.Time
	ClassifiedAt    time.Time
	ReclassifiedAt  *time.Time
	ReclassifiedBy  *string
}

// ValidateWorkInput rejects inputs that would make cost or classification
// meaningless: a non-positive duration, a non-positive or non-finite rate, or
// a blank description.
func ValidateWorkInput(description string, durationMinutes int, hourlyRate float64) error {
	if strings.TrimSpace(description) == "" {
		return invalid("description", "description is required")
	}
	if durationMinutes <= 0 {
		return invalid("duration_minutes", "duration must be greater than zero")
	}
	if !positiveFinite(hourlyRate) {
		return invalid("hourly_rate", "hourly rate must be a positive number")
	}
	return nil
}

// IsBurnLike reports whether the log counts toward margin burn.
func (w *WorkLog) IsBurnLike() bool {
	return w.Category.IsBurnLike()
}

// ReasonOrEmpty returns the burn reason, or "" when none is set.
func (w *WorkLog) ReasonOrEmpty() BurnReason {
	if w.BurnReason == nil {
		return ""
	}
	return *w.BurnReason
}

// Reclassify overwrites the category, burn reason and classification time.
// It is the only mutation a stored log accepts. A burn-like category without
// a reason falls back to "other"; non-burn categories carry no reason.
func (w *WorkLog) Reclassify(category WorkCategory, reason *BurnReason, actor string, now time.Time) error {
	if !category.Valid() {
		return invalid("category", "unknown category "+string(category))
	}
	var resolved *BurnReason
	if category.IsBurnLike() {
		r := ReasonOther
		if reason != nil {
			if !reason.Valid() {
				return invalid("burn_reason", "unknown burn reason "+string(*reason))
			}
			r = *reason
		}
		resolved = &r
	} else if reason != nil {
		return invalid("burn_reason", "burn reason only applies to margin_burn or scope_risk")
	}

	w.Category = category
	w.BurnReason = resolved
	w.ClassifiedAt = now
	w.ReclassifiedAt = &now
	w.ReclassifiedBy = StrPtrOrNil(actor)
	return nil
}
