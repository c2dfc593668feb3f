package analytics

import (
	"math"
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
)

type RatioTrend string

const (
	RatioUp     RatioTrend = "up"
	RatioDown   RatioTrend = "down"
	RatioStable RatioTrend = "stable"
)

// CommandCenter is the dashboard roll-up for one window.
type CommandCenter struct {
	Period             PeriodMetrics
	BillableRatio      float64
	BillableRatioTrend RatioTrend
	AtRiskRevenue      float64
	EfficiencyScore    int
	RevenueSecureDelta float64
	MarginBurnDelta    float64
	ActiveAlerts       int
	CriticalAlerts     int
	HealthyClients     int
	AtRiskClients      int
	TotalClients       int
}

// BuildCommandCenter combines already computed period metrics, client health
// and alerts with a comparison against the doubled window.
func BuildCommandCenter(s Snapshot, now time.Time, period PeriodMetrics, health []ClientHealth, alerts []Alert, th Thresholds) CommandCenter {
	prev := ComputePeriodMetrics(s, now, period.Days*2, Scope{})

	ratio := billableRatio(period)
	prevRatio := billableRatio(prev)
	trend := RatioStable
	switch {
	case ratio > prevRatio+th.RatioTrendDeltaPct:
		trend = RatioUp
	case ratio < prevRatio-th.RatioTrendDeltaPct:
		trend = RatioDown
	}

	var projectAtRisk float64
	for _, p := range s.Projects {
		if p.MarginHealth == domain.MarginUnderwater || p.MarginHealth == domain.MarginCritical {
			projectAtRisk += math.Max(0, p.CurrentSpend-p.TotalBudget)
		}
	}

	cc := CommandCenter{
		Period:             period,
		BillableRatio:      ratio,
		BillableRatioTrend: trend,
		AtRiskRevenue:      projectAtRisk + period.ScopeRequestsValue,
		EfficiencyScore:    int(math.Min(100, math.Round(ratio*1.2))),
		RevenueSecureDelta: period.TotalRevenueSecure - prev.TotalRevenueSecure/2,
		MarginBurnDelta:    period.TotalMarginBurn - prev.TotalMarginBurn/2,
		ActiveAlerts:       len(alerts),
		TotalClients:       len(s.Clients),
	}
	for _, a := range alerts {
		if a.Severity == AlertCritical || a.Severity == AlertEmergency {
			cc.CriticalAlerts++
		}
	}
	for _, h := range health {
		switch h.Health {
		case HealthExcellent, HealthGood:
			cc.HealthyClients++
		case HealthWarning, HealthCritical:
			cc.AtRiskClients++
		}
	}
	return cc
}

func billableRatio(m PeriodMetrics) float64 {
	return ratioPct(m.TotalRevenueSecure, m.TotalRevenueSecure+m.TotalMarginBurn, 0)
}
