package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/domain"
)

const barWidth = 20

// FormatPeriodMetrics renders the money split for one window.
func FormatPeriodMetrics(m analytics.PeriodMetrics, symbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Revenue secured:"), StyleGreen.Render(Money(symbol, m.TotalRevenueSecure)))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Margin burn:    "), StyleRed.Render(Money(symbol, m.TotalMarginBurn)))
	fmt.Fprintf(&b, "%s  %s %s\n", Dim("Burn ratio:     "), Bar(m.BurnRatio, barWidth, StyleRed), Pct(m.BurnRatio))
	fmt.Fprintf(&b, "%s  %d worth %s\n", Dim("Pending scope:  "), m.ScopeRequestsPending, StyleYellow.Render(Money(symbol, m.ScopeRequestsValue)))
	return RenderBox(fmt.Sprintf("Last %d days", m.Days), b.String())
}

// FormatBurnByReason renders burn per sub-reason with share bars.
func FormatBurnByReason(rows []analytics.ReasonBurn, symbol string) string {
	if len(rows) == 0 {
		return Dim("No margin burn in this window.")
	}
	var total float64
	for _, r := range rows {
		total += r.Total
	}
	table := NewTable("REASON", "LOGS", "BURN", "SHARE").AlignRight(1, 2)
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		share := 0.0
		if total > 0 {
			share = r.Total / total * 100
		}
		out = append(out, []string{
			StylePurple.Render(r.Reason.Label()),
			fmt.Sprintf("%d", r.Count),
			StyleRed.Render(Money(symbol, r.Total)),
			Bar(share, barWidth, StyleRed) + " " + Pct(share),
		})
	}
	return table.Render(out)
}

// FormatBurnByClient renders burn and billable per client.
func FormatBurnByClient(rows []analytics.ClientBurn, symbol string) string {
	if len(rows) == 0 {
		return Dim("No client work in this window.")
	}
	table := NewTable("CLIENT", "BURN", "BILLABLE", "BURN RATIO").AlignRight(1, 2, 3)
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		ratio := 0.0
		if sum := r.TotalBurn + r.TotalBillable; sum > 0 {
			ratio = r.TotalBurn / sum * 100
		}
		out = append(out, []string{
			Bold(r.ClientName),
			StyleRed.Render(Money(symbol, r.TotalBurn)),
			StyleGreen.Render(Money(symbol, r.TotalBillable)),
			Pct(ratio),
		})
	}
	return table.Render(out)
}

// FormatHallOfShame ranks the costliest burn logs, colored by severity band.
func FormatHallOfShame(logs []*domain.WorkLog, symbol string, th analytics.Thresholds) string {
	if len(logs) == 0 {
		return Dim("Nothing to be ashamed of.")
	}
	table := NewTable("#", "DESCRIPTION", "REASON", "TIME", "COST", "SEVERITY").AlignRight(0, 3, 4)
	rows := make([][]string, 0, len(logs))
	for i, w := range logs {
		sev := analytics.CostSeverityOf(w.CostImpact, th)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			Truncate(w.Description, descriptionWidth),
			ReasonLabel(w.BurnReason),
			FormatMinutes(w.DurationMinutes),
			CostStyle(sev).Render(Money(symbol, w.CostImpact)),
			CostStyle(sev).Render(strings.ToUpper(string(sev))),
		})
	}
	return RenderBox("Hall of shame", table.Render(rows))
}

// FormatClientHealth renders one row per client, riskiest scores in red.
func FormatClientHealth(health []analytics.ClientHealth, symbol string) string {
	if len(health) == 0 {
		return Dim("No clients yet.")
	}
	table := NewTable("CLIENT", "HEALTH", "RISK", "MARGIN", "REVENUE", "BURN", "RETAINER", "PENDING", "TREND").AlignRight(2, 3, 4, 5, 6, 7)
	rows := make([][]string, 0, len(health))
	for _, h := range health {
		retainer := Dim("--")
		if h.RetainerUtilization != nil {
			retainer = Pct(*h.RetainerUtilization)
		}
		rows = append(rows, []string{
			Bold(h.ClientName),
			HealthIndicator(h.Health),
			fmt.Sprintf("%d", h.RiskScore),
			Pct(h.MarginPct),
			StyleGreen.Render(Money(symbol, h.TotalRevenue)),
			StyleRed.Render(Money(symbol, h.TotalBurn)),
			retainer,
			fmt.Sprintf("%d", h.PendingScope),
			trendLabel(h.MarginTrend) + " " + Dim(string(h.Sentiment)),
		})
	}
	return table.Render(rows)
}

func trendLabel(t analytics.MarginTrend) string {
	switch t {
	case analytics.TrendImproving:
		return StyleGreen.Render("▲")
	case analytics.TrendDeclining:
		return StyleRed.Render("▼")
	default:
		return StyleDim.Render("■")
	}
}

// FormatAlerts renders alerts in rank order with their IDs so they can be
// hidden on the next run.
func FormatAlerts(alerts []analytics.Alert, symbol string) string {
	if len(alerts) == 0 {
		return StyleGreen.Render("No active alerts.")
	}
	var b strings.Builder
	for i, a := range alerts {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s\n", SeverityIndicator(a.Severity), Bold(a.Title))
		fmt.Fprintf(&b, "   %s\n", a.Description)
		fmt.Fprintf(&b, "   %s %s\n", Dim("Impact:"), Money(symbol, a.ImpactAmount))
		fmt.Fprintf(&b, "   %s %s\n", Dim("Action:"), StyleBlue.Render(a.SuggestedAction))
		fmt.Fprintf(&b, "   %s\n", Dim("id: "+a.ID))
	}
	return b.String()
}

// FormatTrend renders one line per day with a billable-ratio bar.
func FormatTrend(points []analytics.TrendPoint, symbol string) string {
	if len(points) == 0 {
		return Dim("No days in range.")
	}
	table := NewTable("DATE", "REVENUE", "BURN", "BILLABLE RATIO").AlignRight(1, 2)
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		style := StyleGreen
		if p.BillableRatio < 50 {
			style = StyleRed
		} else if p.BillableRatio < 70 {
			style = StyleYellow
		}
		rows = append(rows, []string{
			p.Date,
			StyleGreen.Render(MoneyWhole(symbol, p.RevenueSecure)),
			StyleRed.Render(MoneyWhole(symbol, p.MarginBurn)),
			Bar(p.BillableRatio, barWidth, style) + " " + Pct(p.BillableRatio),
		})
	}
	return table.Render(rows)
}
