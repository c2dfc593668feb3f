package domain

import (
	"math"
	"strings"
	"time"
)

type Project struct {
	ID             string
	OrganizationID string
	ClientID       string
	Name           string
	Description    string
	TotalBudget    float64
	CurrentSpend   float64
	MarginHealth   MarginHealth
	Status         ProjectStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "project name is required")
	}
	if p.ClientID == "" {
		return invalid("client_id", "project must belong to a client")
	}
	if p.TotalBudget < 0 || math.IsNaN(p.TotalBudget) || math.IsInf(p.TotalBudget, 0) {
		return invalid("total_budget", "budget must be a non-negative number")
	}
	if p.CurrentSpend < 0 || math.IsNaN(p.CurrentSpend) || math.IsInf(p.CurrentSpend, 0) {
		return invalid("current_spend", "spend must be a non-negative number")
	}
	if !p.MarginHealth.Valid() {
		return invalid("margin_health", "unknown margin health "+string(p.MarginHealth))
	}
	if !p.Status.Valid() {
		return invalid("status", "unknown project status "+string(p.Status))
	}
	return nil
}

// BudgetUsedPct returns spend as a percentage of budget, or 0 without a budget.
func (p *Project) BudgetUsedPct() float64 {
	if p.TotalBudget <= 0 {
		return 0
	}
	return p.CurrentSpend / p.TotalBudget * 100
}
