package app

import (
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
)

type CreateScopeRequest struct {
	Title          string
	Description    string
	EstimatedHours *float64
	ClientID       *string
	ProjectID      *string
	Source         domain.RecordSource
	Now            *time.Time
}

type ResolveScopeRequest struct {
	ScopeRequestID string
	Status         domain.ScopeStatus
	Actor          string
	Now            *time.Time
}

// ResolveScopeResponse carries the resolved request and, when it was
// accepted as burn, the work log that records the absorbed hours.
type ResolveScopeResponse struct {
	Request *domain.ScopeRequest
	BurnLog *domain.WorkLog
}
