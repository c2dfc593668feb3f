package analytics

import (
	"fmt"
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var logSeq int

type logOption func(*domain.WorkLog)

func forClient(id string) logOption {
	return func(w *domain.WorkLog) { w.ClientID = &id }
}

func forProject(id string) logOption {
	return func(w *domain.WorkLog) { w.ProjectID = &id }
}

func withReason(r domain.BurnReason) logOption {
	return func(w *domain.WorkLog) { w.BurnReason = &r }
}

func ageDays(d float64) logOption {
	return func(w *domain.WorkLog) {
		w.CreatedAt = testNow.Add(-time.Duration(d * float64(24*time.Hour)))
	}
}

func newLog(category domain.WorkCategory, cost float64, opts ...logOption) *domain.WorkLog {
	logSeq++
	w := &domain.WorkLog{
		ID:              fmt.Sprintf("wl-%03d", logSeq),
		Description:     "test work",
		DurationMinutes: 60,
		HourlyRate:      cost,
		CostImpact:      cost,
		Category:        category,
		CreatedAt:       testNow.Add(-time.Hour),
	}
	if category.IsBurnLike() {
		r := domain.ReasonOther
		w.BurnReason = &r
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func newRequest(clientID string, status domain.ScopeStatus, cost *float64) *domain.ScopeRequest {
	r := &domain.ScopeRequest{
		ID:            fmt.Sprintf("sr-%s-%d", clientID, logSeq),
		Title:         "extra work",
		Status:        status,
		EstimatedCost: cost,
		CreatedAt:     testNow.AddDate(0, -3, 0),
	}
	logSeq++
	if clientID != "" {
		r.ClientID = &clientID
	}
	return r
}

func ptr[T any](v T) *T { return &v }
