package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/alexanderramin/margindefense/internal/domain"
)

type AlertSeverity string

const (
	AlertEmergency AlertSeverity = "emergency"
	AlertCritical  AlertSeverity = "critical"
	AlertWarning   AlertSeverity = "warning"
	AlertInfo      AlertSeverity = "info"
)

// Rank orders severities; lower ranks sort first.
func (s AlertSeverity) Rank() int {
	switch s {
	case AlertEmergency:
		return 0
	case AlertCritical:
		return 1
	case AlertWarning:
		return 2
	default:
		return 3
	}
}

type AlertType string

const (
	AlertProjectOverrun    AlertType = "project_overrun"
	AlertMarginThreshold   AlertType = "margin_threshold"
	AlertScopeCreepPattern AlertType = "scope_creep_pattern"
	AlertEfficiencyDrop    AlertType = "efficiency_drop"
)

const (
	ActionRenegotiate  = "Review scope and renegotiate with client"
	ActionMonitor      = "Monitor closely and plan remaining work"
	ActionScopeReview  = "Schedule scope review meeting with client"
	ActionAuditWorkLog = "Audit recent work logs and reduce overhead"
)

type Alert struct {
	ID              string
	Type            AlertType
	Severity        AlertSeverity
	Title           string
	Description     string
	ImpactAmount    float64
	ClientID        string
	ProjectID       string
	SuggestedAction string
}

// AlertInput is what every alert rule reads.
type AlertInput struct {
	Snapshot   Snapshot
	Period     PeriodMetrics
	Thresholds Thresholds
}

// AlertRule emits zero or more alerts. Rules never see each other's output.
type AlertRule func(in AlertInput) []Alert

// DefaultAlertRules is the built-in rule set, in emission order.
var DefaultAlertRules = []AlertRule{
	ProjectBudgetAlerts,
	ScopeCreepAlerts,
	EfficiencyAlerts,
}

// GenerateAlerts runs the default rules and ranks the result.
func GenerateAlerts(s Snapshot, period PeriodMetrics, th Thresholds) []Alert {
	return RunAlertRules(DefaultAlertRules, AlertInput{Snapshot: s, Period: period, Thresholds: th})
}

// RunAlertRules evaluates rules in order and ranks the combined output.
func RunAlertRules(rules []AlertRule, in AlertInput) []Alert {
	var all []Alert
	for _, rule := range rules {
		all = append(all, rule(in)...)
	}
	return RankAlerts(all)
}

// RankAlerts sorts by severity, keeping emission order within a severity.
func RankAlerts(alerts []Alert) []Alert {
	sorted := make([]Alert, len(alerts))
	copy(sorted, alerts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	return sorted
}

// ProjectBudgetAlerts flags underwater projects and projects nearing budget.
func ProjectBudgetAlerts(in AlertInput) []Alert {
	sym := currencySymbol(in.Snapshot)
	var alerts []Alert
	for _, p := range in.Snapshot.Projects {
		switch p.MarginHealth {
		case domain.MarginUnderwater:
			overrun := p.CurrentSpend - p.TotalBudget
			alerts = append(alerts, Alert{
				ID:              "alert-project-" + p.ID,
				Type:            AlertProjectOverrun,
				Severity:        AlertCritical,
				Title:           fmt.Sprintf("%s is %d%% of budget", p.Name, roundPct(p.BudgetUsedPct())),
				Description:     fmt.Sprintf("Project has exceeded budget by %s%.2f", sym, overrun),
				ImpactAmount:    overrun,
				ClientID:        p.ClientID,
				ProjectID:       p.ID,
				SuggestedAction: ActionRenegotiate,
			})
		case domain.MarginWarning:
			alerts = append(alerts, Alert{
				ID:              "alert-warning-" + p.ID,
				Type:            AlertMarginThreshold,
				Severity:        AlertWarning,
				Title:           fmt.Sprintf("%s approaching budget limit", p.Name),
				Description:     fmt.Sprintf("Project is at %d%% of budget", roundPct(p.BudgetUsedPct())),
				ImpactAmount:    p.TotalBudget - p.CurrentSpend,
				ClientID:        p.ClientID,
				ProjectID:       p.ID,
				SuggestedAction: ActionMonitor,
			})
		}
	}
	return alerts
}

// ScopeCreepAlerts flags clients with several pending scope requests. Old
// requests count the same as new ones.
func ScopeCreepAlerts(in AlertInput) []Alert {
	th := in.Thresholds
	type tally struct {
		count int
		value float64
	}
	var order []string
	byClient := make(map[string]*tally)
	for _, r := range pendingRequests(in.Snapshot.ScopeRequests) {
		if r.ClientID == nil {
			continue
		}
		t, ok := byClient[*r.ClientID]
		if !ok {
			t = &tally{}
			byClient[*r.ClientID] = t
			order = append(order, *r.ClientID)
		}
		t.count++
		t.value += r.EstimatedCostOrZero()
	}

	sym := currencySymbol(in.Snapshot)
	var alerts []Alert
	for _, id := range order {
		t := byClient[id]
		if t.count < th.ScopeAlertMinPending {
			continue
		}
		severity := AlertWarning
		if t.count >= th.ScopeAlertCriticalPending {
			severity = AlertCritical
		}
		alerts = append(alerts, Alert{
			ID:              "alert-scope-" + id,
			Type:            AlertScopeCreepPattern,
			Severity:        severity,
			Title:           fmt.Sprintf("%s: %d pending scope requests", in.Snapshot.clientName(id), t.count),
			Description:     fmt.Sprintf("Total at-risk value: %s%.2f", sym, t.value),
			ImpactAmount:    t.value,
			ClientID:        id,
			SuggestedAction: ActionScopeReview,
		})
	}
	return alerts
}

// EfficiencyAlerts flags a window whose burn ratio is too high.
func EfficiencyAlerts(in AlertInput) []Alert {
	th := in.Thresholds
	ratio := in.Period.BurnRatio
	if ratio <= th.BurnRatioWarningPct {
		return nil
	}
	severity := AlertWarning
	if ratio > th.BurnRatioCriticalPct {
		severity = AlertCritical
	}
	return []Alert{{
		ID:              "alert-efficiency",
		Type:            AlertEfficiencyDrop,
		Severity:        severity,
		Title:           fmt.Sprintf("Billable ratio dropped to %d%%", roundPct(100-ratio)),
		Description:     "Non-billable work is consuming too much capacity",
		ImpactAmount:    in.Period.TotalMarginBurn,
		SuggestedAction: ActionAuditWorkLog,
	}}
}

func currencySymbol(s Snapshot) string {
	if s.Organization == nil || s.Organization.CurrencySymbol == "" {
		return domain.DefaultCurrencySymbol
	}
	return s.Organization.CurrencySymbol
}

func roundPct(v float64) int {
	return int(math.Round(v))
}

// HideAlerts drops alerts whose ID the user dismissed, preserving order.
func HideAlerts(alerts []Alert, hidden []string) []Alert {
	if len(hidden) == 0 {
		return alerts
	}
	skip := make(map[string]bool, len(hidden))
	for _, id := range hidden {
		skip[id] = true
	}
	kept := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if !skip[a.ID] {
			kept = append(kept, a)
		}
	}
	return kept
}
