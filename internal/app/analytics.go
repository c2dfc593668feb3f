package app

import (
	"time"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/domain"
)

// AnalyticsRequest parameterizes every read-side report.
type AnalyticsRequest struct {
	Now        *time.Time
	Days       int
	ClientID   string
	ProjectID  string
	ShameLimit int
	// HiddenAlertIDs are dismissed by the caller and dropped from the result.
	HiddenAlertIDs []string
}

func NewAnalyticsRequest(days int) AnalyticsRequest {
	return AnalyticsRequest{
		Days:       days,
		ShameLimit: analytics.DefaultHallOfShameLimit,
	}
}

// Scope returns the client/project restriction for period metrics.
func (r AnalyticsRequest) Scope() analytics.Scope {
	return analytics.Scope{ClientID: r.ClientID, ProjectID: r.ProjectID}
}

// DashboardResponse is the full command-center view.
type DashboardResponse struct {
	GeneratedAt   time.Time
	Organization  *domain.Organization
	Period        analytics.PeriodMetrics
	BurnByReason  []analytics.ReasonBurn
	BurnByClient  []analytics.ClientBurn
	HallOfShame   []*domain.WorkLog
	ClientHealth  []analytics.ClientHealth
	Alerts        []analytics.Alert
	CommandCenter analytics.CommandCenter
	Trend         []analytics.TrendPoint
}

// ImportResult counts the records written by a ledger import.
type ImportResult struct {
	Organization  *domain.Organization
	Clients       int
	Projects      int
	WorkLogs      int
	ScopeRequests int
}
