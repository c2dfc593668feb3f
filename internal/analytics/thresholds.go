package analytics

import (
	"errors"
	"fmt"
)

// Thresholds holds every tunable constant used by the scoring and alert
// rules. Percentages are on a 0-100 scale.
type Thresholds struct {
	// Risk score: margin bands.
	MarginCriticalPct  float64 `mapstructure:"margin_critical_pct"`
	MarginWarningPct   float64 `mapstructure:"margin_warning_pct"`
	MarginCriticalRisk int     `mapstructure:"margin_critical_risk"`
	MarginWarningRisk  int     `mapstructure:"margin_warning_risk"`

	// Risk score: pending scope requests. "Many" means strictly more than
	// PendingManyCount.
	PendingManyCount int `mapstructure:"pending_many_count"`
	PendingManyRisk  int `mapstructure:"pending_many_risk"`
	PendingSomeRisk  int `mapstructure:"pending_some_risk"`

	BurnOverRevenueRisk int `mapstructure:"burn_over_revenue_risk"`

	RetainerUtilizationPct  float64 `mapstructure:"retainer_utilization_pct"`
	RetainerUtilizationRisk int     `mapstructure:"retainer_utilization_risk"`

	// Health tiers are lower bounds on the risk score.
	HealthCriticalScore int `mapstructure:"health_critical_score"`
	HealthWarningScore  int `mapstructure:"health_warning_score"`
	HealthGoodScore     int `mapstructure:"health_good_score"`

	// Sentiment turns "concerned" above this many pending requests.
	ConcernedPendingCount int `mapstructure:"concerned_pending_count"`

	// Margin trend: above ImprovingPct is improving, at or below
	// DecliningPct is declining.
	TrendImprovingPct float64 `mapstructure:"trend_improving_pct"`
	TrendDecliningPct float64 `mapstructure:"trend_declining_pct"`

	// Alerts.
	ScopeAlertMinPending      int     `mapstructure:"scope_alert_min_pending"`
	ScopeAlertCriticalPending int     `mapstructure:"scope_alert_critical_pending"`
	BurnRatioWarningPct       float64 `mapstructure:"burn_ratio_warning_pct"`
	BurnRatioCriticalPct      float64 `mapstructure:"burn_ratio_critical_pct"`

	// Cost severity bands, upper bounds (exclusive).
	SeverityLowBelow    float64 `mapstructure:"severity_low_below"`
	SeverityMediumBelow float64 `mapstructure:"severity_medium_below"`
	SeverityHighBelow   float64 `mapstructure:"severity_high_below"`

	// Command center billable-ratio trend dead band, in percentage points.
	RatioTrendDeltaPct float64 `mapstructure:"ratio_trend_delta_pct"`
}

// DefaultThresholds returns the stock rule constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MarginCriticalPct:  60,
		MarginWarningPct:   75,
		MarginCriticalRisk: 30,
		MarginWarningRisk:  15,

		PendingManyCount: 2,
		PendingManyRisk:  25,
		PendingSomeRisk:  10,

		BurnOverRevenueRisk: 30,

		RetainerUtilizationPct:  90,
		RetainerUtilizationRisk: 15,

		HealthCriticalScore: 50,
		HealthWarningScore:  30,
		HealthGoodScore:     15,

		ConcernedPendingCount: 1,

		TrendImprovingPct: 70,
		TrendDecliningPct: 50,

		ScopeAlertMinPending:      2,
		ScopeAlertCriticalPending: 3,
		BurnRatioWarningPct:       40,
		BurnRatioCriticalPct:      50,

		SeverityLowBelow:    50,
		SeverityMediumBelow: 200,
		SeverityHighBelow:   500,

		RatioTrendDeltaPct: 2,
	}
}

// Validate rejects band pairs whose order would stop a tier or severity from
// ever firing. Errors name the config keys.
func (th Thresholds) Validate() error {
	ordered := []struct {
		lowKey, highKey string
		low, high       float64
	}{
		{"margin_critical_pct", "margin_warning_pct", th.MarginCriticalPct, th.MarginWarningPct},
		{"health_good_score", "health_warning_score", float64(th.HealthGoodScore), float64(th.HealthWarningScore)},
		{"health_warning_score", "health_critical_score", float64(th.HealthWarningScore), float64(th.HealthCriticalScore)},
		{"trend_declining_pct", "trend_improving_pct", th.TrendDecliningPct, th.TrendImprovingPct},
		{"scope_alert_min_pending", "scope_alert_critical_pending", float64(th.ScopeAlertMinPending), float64(th.ScopeAlertCriticalPending)},
		{"burn_ratio_warning_pct", "burn_ratio_critical_pct", th.BurnRatioWarningPct, th.BurnRatioCriticalPct},
		{"severity_low_below", "severity_medium_below", th.SeverityLowBelow, th.SeverityMediumBelow},
		{"severity_medium_below", "severity_high_below", th.SeverityMediumBelow, th.SeverityHighBelow},
	}
	for _, p := range ordered {
		if p.low > p.high {
			return fmt.Errorf("thresholds.%s (%g) must not exceed thresholds.%s (%g)", p.lowKey, p.low, p.highKey, p.high)
		}
	}
	if th.ScopeAlertMinPending < 1 {
		return fmt.Errorf("thresholds.scope_alert_min_pending must be at least 1, got %d", th.ScopeAlertMinPending)
	}
	if th.PendingManyCount < 0 || th.ConcernedPendingCount < 0 {
		return errors.New("thresholds: pending counts must not be negative")
	}
	return nil
}
