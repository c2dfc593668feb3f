package analytics

import (
	"sort"
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
)

const DefaultHallOfShameLimit = 5

// PeriodMetrics summarizes billable versus burn-like cost inside a window.
// Pending scope request figures ignore the window.
type PeriodMetrics struct {
	Days                 int
	TotalRevenueSecure   float64
	TotalMarginBurn      float64
	BurnRatio            float64
	ScopeRequestsPending int
	ScopeRequestsValue   float64
}

// ReasonBurn is the burn total for one sub-reason.
type ReasonBurn struct {
	Reason domain.BurnReason
	Total  float64
	Count  int
}

// ClientBurn splits a client's in-window cost into burn and billable.
type ClientBurn struct {
	ClientID      string
	ClientName    string
	TotalBurn     float64
	TotalBillable float64
}

// ComputePeriodMetrics folds work logs created within days of now.
func ComputePeriodMetrics(s Snapshot, now time.Time, days int, scope Scope) PeriodMetrics {
	cutoff := windowStart(now, days)
	m := PeriodMetrics{Days: days}
	for _, w := range s.WorkLogs {
		if !inWindow(w, cutoff) || !scope.matches(w) {
			continue
		}
		switch {
		case w.Category == domain.CategoryBillable:
			m.TotalRevenueSecure += w.CostImpact
		case w.IsBurnLike():
			m.TotalMarginBurn += w.CostImpact
		}
	}
	m.BurnRatio = ratioPct(m.TotalMarginBurn, m.TotalRevenueSecure+m.TotalMarginBurn, 0)

	for _, r := range pendingRequests(s.ScopeRequests) {
		if scope.ClientID != "" && (r.ClientID == nil || *r.ClientID != scope.ClientID) {
			continue
		}
		if scope.ProjectID != "" && (r.ProjectID == nil || *r.ProjectID != scope.ProjectID) {
			continue
		}
		m.ScopeRequestsPending++
		m.ScopeRequestsValue += r.EstimatedCostOrZero()
	}
	return m
}

// BurnBySubReason groups in-window burn-like logs by reason, most expensive first.
func BurnBySubReason(s Snapshot, now time.Time, days int) []ReasonBurn {
	cutoff := windowStart(now, days)
	index := make(map[domain.BurnReason]int)
	var out []ReasonBurn
	for _, w := range s.WorkLogs {
		if !w.IsBurnLike() || !inWindow(w, cutoff) {
			continue
		}
		reason := w.ReasonOrEmpty()
		if reason == "" {
			reason = domain.ReasonOther
		}
		i, ok := index[reason]
		if !ok {
			i = len(out)
			index[reason] = i
			out = append(out, ReasonBurn{Reason: reason})
		}
		out[i].Total += w.CostImpact
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// BurnByClient groups in-window logs that carry a client, highest burn first.
func BurnByClient(s Snapshot, now time.Time, days int) []ClientBurn {
	cutoff := windowStart(now, days)
	index := make(map[string]int)
	var out []ClientBurn
	for _, w := range s.WorkLogs {
		if w.ClientID == nil || !inWindow(w, cutoff) {
			continue
		}
		id := *w.ClientID
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, ClientBurn{ClientID: id, ClientName: s.clientName(id)})
		}
		switch {
		case w.IsBurnLike():
			out[i].TotalBurn += w.CostImpact
		case w.Category == domain.CategoryBillable:
			out[i].TotalBillable += w.CostImpact
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalBurn > out[j].TotalBurn
	})
	return out
}

// HallOfShame returns the costliest burn-like logs of all time. Equal costs
// keep snapshot order.
func HallOfShame(s Snapshot, limit int) []*domain.WorkLog {
	if limit <= 0 {
		limit = DefaultHallOfShameLimit
	}
	var burn []*domain.WorkLog
	for _, w := range s.WorkLogs {
		if w.IsBurnLike() {
			burn = append(burn, w)
		}
	}
	sort.SliceStable(burn, func(i, j int) bool {
		return burn[i].CostImpact > burn[j].CostImpact
	})
	if len(burn) > limit {
		burn = burn[:limit]
	}
	return burn
}
