package domain

import (
	"strings"
	"time"
)

type Client struct {
	ID                   string
	OrganizationID       string
	Name                 string
	RetainerValue        *float64
	AccumulatedBurnTotal float64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "client name is required")
	}
	if c.RetainerValue != nil && !positiveFinite(*c.RetainerValue) {
		return invalid("retainer_value", "retainer must be a positive number")
	}
	return nil
}

// HasRetainer reports whether a usable retainer ceiling is set.
func (c *Client) HasRetainer() bool {
	return c.RetainerValue != nil && *c.RetainerValue > 0
}
