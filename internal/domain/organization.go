package domain

import (
	"math"
	"strings"
	"time"
)

const (
	DefaultCurrencySymbol   = "$"
	DefaultGlobalHourlyCost = 75.0
)

type Organization struct {
	ID               string
	Name             string
	CurrencySymbol   string
	GlobalHourlyCost float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks the organization settings.
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return invalid("name", "organization name is required")
	}
	if o.CurrencySymbol == "" {
		return invalid("currency_symbol", "currency symbol is required")
	}
	if !positiveFinite(o.GlobalHourlyCost) {
		return invalid("global_hourly_cost", "hourly cost must be a positive number")
	}
	return nil
}

// OrganizationSettings is a partial settings update. Nil fields are left
// unchanged.
type OrganizationSettings struct {
	Name             *string
	CurrencySymbol   *string
	GlobalHourlyCost *float64
}

// Apply merges the settings into o and validates the result.
func (s OrganizationSettings) Apply(o *Organization, now time.Time) error {
	updated := *o
	if s.Name != nil {
		updated.Name = *s.Name
	}
	if s.CurrencySymbol != nil {
		updated.CurrencySymbol = *s.CurrencySymbol
	}
	if s.GlobalHourlyCost != nil {
		updated.GlobalHourlyCost = *s.GlobalHourlyCost
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	updated.UpdatedAt = now
	*o = updated
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
