package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ScopeCreepPrefix marks work logs created by accepting a scope request as burn.
const ScopeCreepPrefix = "[SCOPE CREEP] "

type ScopeRequest struct {
	ID             string
	OrganizationID string
	ClientID       *string
	ProjectID      *string
	Title          string
	Description    string
	EstimatedHours *float64
	EstimatedCost  *float64
	Status         ScopeStatus
	Source         RecordSource
	CreatedAt      time.Time
	ResolvedAt     *time.Time
	ResolvedBy     *string
}

func (r *ScopeRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return invalid("title", "title is required")
	}
	if r.EstimatedHours != nil && !positiveFinite(*r.EstimatedHours) {
		return invalid("estimated_hours", "estimated hours must be a positive number")
	}
	return nil
}

// PriceAt freezes the estimated cost using the organization's hourly cost.
// Requests without an hour estimate carry no cost.
func (r *ScopeRequest) PriceAt(globalHourlyCost float64) {
	if r.EstimatedHours == nil {
		r.EstimatedCost = nil
		return
	}
	cost := *r.EstimatedHours * globalHourlyCost
	r.EstimatedCost = &cost
}

// EstimatedCostOrZero returns the frozen estimate, or 0 when none was made.
func (r *ScopeRequest) EstimatedCostOrZero() float64 {
	if r.EstimatedCost == nil {
		return 0
	}
	return *r.EstimatedCost
}

// EstimatedMinutes converts the hour estimate to whole minutes.
func (r *ScopeRequest) EstimatedMinutes() int {
	if r.EstimatedHours == nil {
		return 0
	}
	return int(math.Round(*r.EstimatedHours * 60))
}

// Resolve moves a pending request to a terminal status.
func (r *ScopeRequest) Resolve(status ScopeStatus, actor string, now time.Time) error {
	if !status.IsResolution() {
		return invalid("status", fmt.Sprintf("cannot resolve to %q", status))
	}
	if r.Status != ScopePending {
		return invalid("status", fmt.Sprintf("scope request is already %s", r.Status))
	}
	if status == ScopeAcceptedBurn && r.EstimatedMinutes() <= 0 {
		return invalid("estimated_hours", "accepting as burn requires an hour estimate")
	}
	r.Status = status
	r.ResolvedAt = &now
	r.ResolvedBy = StrPtrOrNil(actor)
	return nil
}

// BurnLogDescription is the description of the work log created when the
// request is accepted as burn.
func (r *ScopeRequest) BurnLogDescription() string {
	return ScopeCreepPrefix + r.Title
}
