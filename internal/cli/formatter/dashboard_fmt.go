package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/app"
)

// FormatDashboard renders the command center followed by the supporting
// reports.
func FormatDashboard(resp *app.DashboardResponse, th analytics.Thresholds) string {
	symbol := "$"
	name := ""
	if resp.Organization != nil {
		symbol = resp.Organization.CurrencySymbol
		name = resp.Organization.Name
	}
	cc := resp.CommandCenter

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s %s  %s\n", Dim("Billable ratio:"),
		Bar(cc.BillableRatio, barWidth, StyleGreen), Pct(cc.BillableRatio), ratioTrendLabel(cc.BillableRatioTrend))
	fmt.Fprintf(&b, "%s  %d/100\n", Dim("Efficiency:    "), cc.EfficiencyScore)
	fmt.Fprintf(&b, "%s  %s  %s\n", Dim("Revenue:       "),
		StyleGreen.Render(Money(symbol, cc.Period.TotalRevenueSecure)), SignedMoney(symbol, cc.RevenueSecureDelta, true))
	fmt.Fprintf(&b, "%s  %s  %s\n", Dim("Margin burn:   "),
		StyleRed.Render(Money(symbol, cc.Period.TotalMarginBurn)), SignedMoney(symbol, cc.MarginBurnDelta, false))
	fmt.Fprintf(&b, "%s  %s\n", Dim("At-risk:       "), StyleYellow.Render(Money(symbol, cc.AtRiskRevenue)))
	fmt.Fprintf(&b, "%s  %d active, %s\n", Dim("Alerts:        "),
		cc.ActiveAlerts, StyleRed.Render(fmt.Sprintf("%d critical", cc.CriticalAlerts)))
	fmt.Fprintf(&b, "%s  %s, %s of %d\n", Dim("Clients:       "),
		StyleGreen.Render(fmt.Sprintf("%d healthy", cc.HealthyClients)),
		StyleYellow.Render(fmt.Sprintf("%d at risk", cc.AtRiskClients)), cc.TotalClients)

	title := fmt.Sprintf("Command center, last %d days", cc.Period.Days)
	if name != "" {
		title = name + ": " + title
	}

	sections := []string{
		RenderBox(title, b.String()),
		Header("Alerts") + "\n" + FormatAlerts(resp.Alerts, symbol),
		Header("Burn by reason") + "\n" + FormatBurnByReason(resp.BurnByReason, symbol),
		Header("Burn by client") + "\n" + FormatBurnByClient(resp.BurnByClient, symbol),
		Header("Client health") + "\n" + FormatClientHealth(resp.ClientHealth, symbol),
		FormatHallOfShame(resp.HallOfShame, symbol, th),
		Header("Trend") + "\n" + FormatTrend(resp.Trend, symbol),
	}
	return strings.Join(sections, "\n\n") + "\n"
}

func ratioTrendLabel(t analytics.RatioTrend) string {
	switch t {
	case analytics.RatioUp:
		return StyleGreen.Render("▲ up")
	case analytics.RatioDown:
		return StyleRed.Render("▼ down")
	default:
		return Dim("■ stable")
	}
}

// FormatImportResult summarizes an import.
func FormatImportResult(res *app.ImportResult) string {
	name := ""
	if res.Organization != nil {
		name = res.Organization.Name
	}
	return fmt.Sprintf("Imported into %s: %d clients, %d projects, %d work logs, %d scope requests\n",
		Bold(name), res.Clients, res.Projects, res.WorkLogs, res.ScopeRequests)
}
