package analytics

import (
	"math"

	"github.com/alexanderramin/margindefense/internal/domain"
)

type HealthTier string

const (
	HealthExcellent HealthTier = "excellent"
	HealthGood      HealthTier = "good"
	HealthWarning   HealthTier = "warning"
	HealthCritical  HealthTier = "critical"
)

type Sentiment string

const (
	SentimentHappy     Sentiment = "happy"
	SentimentNeutral   Sentiment = "neutral"
	SentimentConcerned Sentiment = "concerned"
	SentimentAtRisk    Sentiment = "at_risk"
)

// MarginTrend is a threshold on the current margin percentage, not a
// period-over-period delta.
type MarginTrend string

const (
	TrendImproving MarginTrend = "improving"
	TrendStable    MarginTrend = "stable"
	TrendDeclining MarginTrend = "declining"
)

// RiskInput carries the per-client figures the risk score is built from.
type RiskInput struct {
	MarginPct           float64
	PendingScope        int
	TotalRevenue        float64
	TotalBurn           float64
	RetainerUtilization *float64
}

// ClientHealth is the all-time risk picture for one client.
type ClientHealth struct {
	ClientID            string
	ClientName          string
	Health              HealthTier
	Sentiment           Sentiment
	TotalRevenue        float64
	TotalBurn           float64
	MarginPct           float64
	RetainerUtilization *float64
	PendingScope        int
	RiskScore           int
	MarginTrend         MarginTrend
}

// ComputeRiskScore adds up the rule contributions. The score is not clamped.
func ComputeRiskScore(in RiskInput, th Thresholds) int {
	score := 0
	switch {
	case in.MarginPct < th.MarginCriticalPct:
		score += th.MarginCriticalRisk
	case in.MarginPct < th.MarginWarningPct:
		score += th.MarginWarningRisk
	}
	switch {
	case in.PendingScope > th.PendingManyCount:
		score += th.PendingManyRisk
	case in.PendingScope > 0:
		score += th.PendingSomeRisk
	}
	if in.TotalBurn > in.TotalRevenue {
		score += th.BurnOverRevenueRisk
	}
	if in.RetainerUtilization != nil && *in.RetainerUtilization > th.RetainerUtilizationPct {
		score += th.RetainerUtilizationRisk
	}
	return score
}

func HealthFromScore(score int, th Thresholds) HealthTier {
	switch {
	case score >= th.HealthCriticalScore:
		return HealthCritical
	case score >= th.HealthWarningScore:
		return HealthWarning
	case score >= th.HealthGoodScore:
		return HealthGood
	default:
		return HealthExcellent
	}
}

func SentimentFor(health HealthTier, pending int, th Thresholds) Sentiment {
	switch {
	case health == HealthExcellent && pending == 0:
		return SentimentHappy
	case health == HealthCritical:
		return SentimentAtRisk
	case pending > th.ConcernedPendingCount:
		return SentimentConcerned
	default:
		return SentimentNeutral
	}
}

func MarginTrendFor(marginPct float64, th Thresholds) MarginTrend {
	switch {
	case marginPct > th.TrendImprovingPct:
		return TrendImproving
	case marginPct > th.TrendDecliningPct:
		return TrendStable
	default:
		return TrendDeclining
	}
}

// ScoreClients computes health for every client in snapshot order, over all
// of each client's work logs.
func ScoreClients(s Snapshot, th Thresholds) []ClientHealth {
	revenue := make(map[string]float64)
	burn := make(map[string]float64)
	for _, w := range s.WorkLogs {
		if w.ClientID == nil {
			continue
		}
		switch {
		case w.Category == domain.CategoryBillable:
			revenue[*w.ClientID] += w.CostImpact
		case w.IsBurnLike():
			burn[*w.ClientID] += w.CostImpact
		}
	}
	pending := make(map[string]int)
	for _, r := range pendingRequests(s.ScopeRequests) {
		if r.ClientID != nil {
			pending[*r.ClientID]++
		}
	}

	out := make([]ClientHealth, 0, len(s.Clients))
	for _, c := range s.Clients {
		rev, brn := revenue[c.ID], burn[c.ID]
		total := rev + brn

		var utilization *float64
		if c.HasRetainer() {
			u := math.Min(100, total/(*c.RetainerValue)*100)
			utilization = &u
		}

		in := RiskInput{
			MarginPct:           ratioPct(rev, total, 100),
			PendingScope:        pending[c.ID],
			TotalRevenue:        rev,
			TotalBurn:           brn,
			RetainerUtilization: utilization,
		}
		score := ComputeRiskScore(in, th)
		health := HealthFromScore(score, th)

		out = append(out, ClientHealth{
			ClientID:            c.ID,
			ClientName:          c.Name,
			Health:              health,
			Sentiment:           SentimentFor(health, in.PendingScope, th),
			TotalRevenue:        rev,
			TotalBurn:           brn,
			MarginPct:           in.MarginPct,
			RetainerUtilization: utilization,
			PendingScope:        in.PendingScope,
			RiskScore:           score,
			MarginTrend:         MarginTrendFor(in.MarginPct, th),
		})
	}
	return out
}
