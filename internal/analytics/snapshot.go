// Package analytics turns a point-in-time snapshot of work logs, scope
// requests, projects and clients into margin metrics, client risk scores and
// alerts. Every function is pure: results are recomputed from the snapshot on
// each call and nothing is cached between calls.
package analytics

import (
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
)

// Snapshot is the record set the engine reads. WorkLogs keep storage order,
// which is the tie-break wherever ranking is stable.
type Snapshot struct {
	Organization  *domain.Organization
	Clients       []*domain.Client
	Projects      []*domain.Project
	WorkLogs      []*domain.WorkLog
	ScopeRequests []*domain.ScopeRequest
}

// Scope narrows window-based metrics to one client and/or project. The zero
// value selects everything.
type Scope struct {
	ClientID  string
	ProjectID string
}

func (sc Scope) matches(w *domain.WorkLog) bool {
	if sc.ClientID != "" && (w.ClientID == nil || *w.ClientID != sc.ClientID) {
		return false
	}
	if sc.ProjectID != "" && (w.ProjectID == nil || *w.ProjectID != sc.ProjectID) {
		return false
	}
	return true
}

func (s Snapshot) clientName(id string) string {
	for _, c := range s.Clients {
		if c.ID == id {
			return c.Name
		}
	}
	return "Unknown"
}

// windowStart returns the inclusive lower bound of a days-long window ending now.
func windowStart(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

func inWindow(w *domain.WorkLog, cutoff time.Time) bool {
	return !w.CreatedAt.Before(cutoff)
}

func pendingRequests(reqs []*domain.ScopeRequest) []*domain.ScopeRequest {
	var out []*domain.ScopeRequest
	for _, r := range reqs {
		if r.Status == domain.ScopePending {
			out = append(out, r)
		}
	}
	return out
}

// ratioPct returns part/total*100, or fallback when total is zero.
func ratioPct(part, total, fallback float64) float64 {
	if total <= 0 {
		return fallback
	}
	return part / total * 100
}
