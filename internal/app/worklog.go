package app

import (
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
)

// LogWorkRequest captures one unit of work to be classified and costed.
// A nil HourlyRate bills at the organization's global hourly cost.
type LogWorkRequest struct {
	Description     string
	DurationMinutes int
	HourlyRate      *float64
	ClientID        *string
	ProjectID       *string
	Source          domain.RecordSource
	Now             *time.Time
}

func NewLogWorkRequest(description string, minutes int) LogWorkRequest {
	return LogWorkRequest{
		Description:     description,
		DurationMinutes: minutes,
		Source:          domain.SourceManual,
	}
}

// ReclassifyRequest overrides the automatic classification of a stored log.
type ReclassifyRequest struct {
	WorkLogID  string
	Category   domain.WorkCategory
	BurnReason *domain.BurnReason
	Actor      string
	Now        *time.Time
}

// WorkLogQuery narrows work log listings. Since is inclusive and Until
// exclusive.
type WorkLogQuery struct {
	Category  *domain.WorkCategory
	ClientID  *string
	ProjectID *string
	Since     *time.Time
	Until     *time.Time
}
