package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

func FormatOrganization(org *domain.Organization) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Name:       "), Bold(org.Name))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Currency:   "), org.CurrencySymbol)
	fmt.Fprintf(&b, "%s  %s/h\n", Dim("Hourly cost:"), Money(org.CurrencySymbol, org.GlobalHourlyCost))
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID:         "), Dim(org.ID))
	return RenderBox("Organization", b.String())
}

// FormatClientList renders clients with their retainer and accumulated burn.
func FormatClientList(clients []*domain.Client, symbol string) string {
	if len(clients) == 0 {
		return Dim("No clients yet.")
	}
	table := NewTable("ID", "NAME", "RETAINER", "ACCUMULATED BURN", "OF RETAINER").AlignRight(2, 3, 4)
	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		retainer := Dim("--")
		share := Dim("--")
		if c.HasRetainer() {
			retainer = Money(symbol, *c.RetainerValue)
			pct := c.AccumulatedBurnTotal / *c.RetainerValue * 100
			share = burnShareStyle(pct).Render(Pct(pct))
		}
		rows = append(rows, []string{
			TruncID(c.ID),
			Bold(c.Name),
			retainer,
			StyleRed.Render(Money(symbol, c.AccumulatedBurnTotal)),
			share,
		})
	}
	return table.Render(rows)
}

func burnShareStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= 50:
		return StyleRed
	case pct >= 25:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// FormatProjectList renders projects with budget usage. clientNames maps
// client IDs to display names.
func FormatProjectList(projects []*domain.Project, clientNames map[string]string, symbol string) string {
	if len(projects) == 0 {
		return Dim("No projects yet.")
	}
	table := NewTable("ID", "NAME", "CLIENT", "BUDGET", "SPEND", "USED", "MARGIN", "STATUS").AlignRight(3, 4)
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		client := clientNames[p.ClientID]
		if client == "" {
			client = "Unknown"
		}
		used := p.BudgetUsedPct()
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			client,
			Money(symbol, p.TotalBudget),
			Money(symbol, p.CurrentSpend),
			Bar(used, 10, budgetStyle(used)) + " " + Pct(used),
			MarginHealthPill(p.MarginHealth),
			ProjectStatusPill(p.Status),
		})
	}
	return table.Render(rows)
}

func budgetStyle(used float64) lipgloss.Style {
	switch {
	case used > 100:
		return StyleRed
	case used >= 80:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// FormatProject renders one project.
func FormatProject(p *domain.Project, symbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Name:   "), Bold(p.Name))
	if p.Description != "" {
		fmt.Fprintf(&b, "%s  %s\n", Dim("About:  "), p.Description)
	}
	fmt.Fprintf(&b, "%s  %s of %s (%s)\n", Dim("Spend:  "), Money(symbol, p.CurrentSpend), Money(symbol, p.TotalBudget), Pct(p.BudgetUsedPct()))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Margin: "), MarginHealthPill(p.MarginHealth))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Status: "), ProjectStatusPill(p.Status))
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID:     "), Dim(p.ID))
	return RenderBox("Project", b.String())
}
