package analytics

import (
	"testing"

	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRiskScore_AllRulesFire(t *testing.T) {
	th := DefaultThresholds()
	in := RiskInput{
		MarginPct:           65,
		PendingScope:        3,
		TotalRevenue:        100,
		TotalBurn:           200,
		RetainerUtilization: ptr(95.0),
	}
	score := ComputeRiskScore(in, th)
	assert.Equal(t, 15+25+30+15, score)
	assert.Equal(t, HealthCritical, HealthFromScore(score, th))
}

func TestComputeRiskScore_LowMarginBand(t *testing.T) {
	th := DefaultThresholds()
	in := RiskInput{
		MarginPct:           55,
		PendingScope:        3,
		TotalRevenue:        100,
		TotalBurn:           200,
		RetainerUtilization: ptr(95.0),
	}
	score := ComputeRiskScore(in, th)
	assert.Equal(t, 30+25+30+15, score)
	assert.Equal(t, HealthCritical, HealthFromScore(score, th))
}

func TestComputeRiskScore_BandEdges(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, 30, ComputeRiskScore(RiskInput{MarginPct: 59.99}, th))
	assert.Equal(t, 15, ComputeRiskScore(RiskInput{MarginPct: 60}, th))
	assert.Equal(t, 15, ComputeRiskScore(RiskInput{MarginPct: 74.99}, th))
	assert.Equal(t, 0, ComputeRiskScore(RiskInput{MarginPct: 75}, th))

	assert.Equal(t, 10, ComputeRiskScore(RiskInput{MarginPct: 100, PendingScope: 2}, th))
	assert.Equal(t, 25, ComputeRiskScore(RiskInput{MarginPct: 100, PendingScope: 3}, th))

	assert.Equal(t, 0, ComputeRiskScore(RiskInput{MarginPct: 100, RetainerUtilization: ptr(90.0)}, th))
	assert.Equal(t, 15, ComputeRiskScore(RiskInput{MarginPct: 100, RetainerUtilization: ptr(90.5)}, th))

	assert.Equal(t, 0, ComputeRiskScore(RiskInput{MarginPct: 100, TotalBurn: 10, TotalRevenue: 10}, th))
}

func TestComputeRiskScore_MonotonicInPendingRequests(t *testing.T) {
	th := DefaultThresholds()
	bases := []RiskInput{
		{MarginPct: 100},
		{MarginPct: 65, TotalBurn: 10, TotalRevenue: 5},
		{MarginPct: 40, TotalBurn: 10, TotalRevenue: 5, RetainerUtilization: ptr(100.0)},
	}
	for _, base := range bases {
		prev := -1
		for pending := 0; pending <= 3; pending++ {
			in := base
			in.PendingScope = pending
			score := ComputeRiskScore(in, th)
			assert.GreaterOrEqual(t, score, prev, "pending=%d", pending)
			prev = score
		}
	}
}

func TestHealthFromScore(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, HealthExcellent, HealthFromScore(14, th))
	assert.Equal(t, HealthGood, HealthFromScore(15, th))
	assert.Equal(t, HealthWarning, HealthFromScore(30, th))
	assert.Equal(t, HealthCritical, HealthFromScore(50, th))
}

func TestSentimentFor(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, SentimentHappy, SentimentFor(HealthExcellent, 0, th))
	assert.Equal(t, SentimentNeutral, SentimentFor(HealthExcellent, 1, th))
	assert.Equal(t, SentimentAtRisk, SentimentFor(HealthCritical, 0, th))
	assert.Equal(t, SentimentConcerned, SentimentFor(HealthGood, 2, th))
	assert.Equal(t, SentimentNeutral, SentimentFor(HealthWarning, 1, th))
}

func TestMarginTrendFor(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, TrendImproving, MarginTrendFor(70.01, th))
	assert.Equal(t, TrendStable, MarginTrendFor(70, th))
	assert.Equal(t, TrendStable, MarginTrendFor(50.01, th))
	assert.Equal(t, TrendDeclining, MarginTrendFor(50, th))
}

func TestScoreClients_NoRecords(t *testing.T) {
	s := Snapshot{Clients: []*domain.Client{{ID: "c1", Name: "Quiet Co"}}}

	got := ScoreClients(s, DefaultThresholds())
	require.Len(t, got, 1)
	h := got[0]
	assert.Equal(t, 100.0, h.MarginPct)
	assert.Nil(t, h.RetainerUtilization)
	assert.Equal(t, 0, h.RiskScore)
	assert.Equal(t, HealthExcellent, h.Health)
	assert.Equal(t, SentimentHappy, h.Sentiment)
	assert.Equal(t, TrendImproving, h.MarginTrend)
}

func TestScoreClients_FromRecords(t *testing.T) {
	s := Snapshot{
		Clients: []*domain.Client{
			{ID: "c1", Name: "StartupXYZ", RetainerValue: ptr(1000.0)},
			{ID: "c2", Name: "Enterprise"},
		},
		WorkLogs: []*domain.WorkLog{
			newLog(domain.CategoryBillable, 300, forClient("c1"), ageDays(200)),
			newLog(domain.CategoryMarginBurn, 600, forClient("c1")),
			newLog(domain.CategoryScopeRisk, 300, forClient("c1")),
			newLog(domain.CategoryUnclassified, 5000, forClient("c1")),
			newLog(domain.CategoryBillable, 900, forClient("c2")),
			newLog(domain.CategoryMarginBurn, 100, forClient("c2")),
		},
		ScopeRequests: []*domain.ScopeRequest{
			newRequest("c1", domain.ScopePending, nil),
			newRequest("c1", domain.ScopePending, nil),
			newRequest("c1", domain.ScopePending, nil),
			newRequest("c2", domain.ScopeAcceptedBurn, nil),
		},
	}

	got := ScoreClients(s, DefaultThresholds())
	require.Len(t, got, 2)

	c1 := got[0]
	assert.Equal(t, "c1", c1.ClientID)
	assert.Equal(t, 300.0, c1.TotalRevenue)
	assert.Equal(t, 900.0, c1.TotalBurn)
	assert.InDelta(t, 25.0, c1.MarginPct, 1e-9)
	require.NotNil(t, c1.RetainerUtilization)
	assert.Equal(t, 100.0, *c1.RetainerUtilization, "utilization is capped at 100")
	assert.Equal(t, 3, c1.PendingScope)
	assert.Equal(t, 30+25+30+15, c1.RiskScore)
	assert.Equal(t, HealthCritical, c1.Health)
	assert.Equal(t, SentimentAtRisk, c1.Sentiment)
	assert.Equal(t, TrendDeclining, c1.MarginTrend)

	c2 := got[1]
	assert.InDelta(t, 90.0, c2.MarginPct, 1e-9)
	assert.Equal(t, 0, c2.PendingScope)
	assert.Equal(t, 0, c2.RiskScore)
	assert.Equal(t, SentimentHappy, c2.Sentiment)
}

func TestScoreClients_MarginWithinBounds(t *testing.T) {
	s := Snapshot{
		Clients: []*domain.Client{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}},
		WorkLogs: []*domain.WorkLog{
			newLog(domain.CategoryMarginBurn, 10, forClient("c1")),
			newLog(domain.CategoryBillable, 10, forClient("c2")),
		},
	}
	for _, h := range ScoreClients(s, DefaultThresholds()) {
		assert.GreaterOrEqual(t, h.MarginPct, 0.0)
		assert.LessOrEqual(t, h.MarginPct, 100.0)
	}
}
