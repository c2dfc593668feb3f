package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/domain"
)

// FormatScopeList renders scope requests oldest first, with the pending
// estimate total underneath.
func FormatScopeList(reqs []*domain.ScopeRequest, clientNames map[string]string, symbol string, now time.Time) string {
	if len(reqs) == 0 {
		return Dim("No scope requests.")
	}
	table := NewTable("ID", "RAISED", "TITLE", "CLIENT", "HOURS", "EST. COST", "STATUS").AlignRight(4, 5)
	rows := make([][]string, 0, len(reqs))
	var pendingValue float64
	pending := 0
	for _, r := range reqs {
		client := Dim("--")
		if r.ClientID != nil {
			client = clientNames[*r.ClientID]
		}
		hours := Dim("--")
		if r.EstimatedHours != nil {
			hours = fmt.Sprintf("%gh", *r.EstimatedHours)
		}
		cost := Dim("--")
		if r.EstimatedCost != nil {
			cost = Money(symbol, *r.EstimatedCost)
		}
		if r.Status == domain.ScopePending {
			pending++
			pendingValue += r.EstimatedCostOrZero()
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			Dim(RelativeTimeFrom(r.CreatedAt, now)),
			Truncate(r.Title, descriptionWidth),
			client,
			hours,
			cost,
			ScopeStatusPill(r.Status),
		})
	}
	summary := fmt.Sprintf("\n%s pending, %s at risk\n",
		StyleYellow.Render(fmt.Sprintf("%d", pending)), StyleYellow.Render(Money(symbol, pendingValue)))
	return table.Render(rows) + summary
}

// FormatScopeRequest renders one request.
func FormatScopeRequest(r *domain.ScopeRequest, symbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Title:   "), Bold(r.Title))
	if r.Description != "" {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Details: "), r.Description)
	}
	if r.EstimatedHours != nil {
		fmt.Fprintf(&b, "%s  %gh, %s\n", Dim("Estimate:"), *r.EstimatedHours, Money(symbol, r.EstimatedCostOrZero()))
	} else {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Estimate:"), Dim("none"))
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("Status:  "), ScopeStatusPill(r.Status))
	if r.ResolvedAt != nil {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Resolved:"), r.ResolvedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID:      "), Dim(r.ID))
	return RenderBox("Scope request", b.String())
}

// FormatScopeResolution renders the outcome of a resolution, including the
// burn log when the request was absorbed.
func FormatScopeResolution(resp *app.ResolveScopeResponse, symbol string) string {
	out := FormatScopeRequest(resp.Request, symbol)
	if resp.BurnLog == nil {
		return out
	}
	note := StyleRed.Render(fmt.Sprintf("Absorbed %s of unbilled work (%s).",
		Money(symbol, resp.BurnLog.CostImpact), FormatMinutes(resp.BurnLog.DurationMinutes)))
	return out + "\n" + note + "\n" + Dim("Burn log "+resp.BurnLog.ID)
}
