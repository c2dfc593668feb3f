package importer

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Ledger is the top-level YAML structure for a ledger import.
type Ledger struct {
	Organization  *OrganizationImport  `yaml:"organization,omitempty"`
	Clients       []ClientImport       `yaml:"clients"`
	Projects      []ProjectImport      `yaml:"projects,omitempty"`
	WorkLogs      []WorkLogImport      `yaml:"work_logs,omitempty"`
	ScopeRequests []ScopeRequestImport `yaml:"scope_requests,omitempty"`
}

// OrganizationImport overrides the organization settings. Omitted fields keep
// their current values.
type OrganizationImport struct {
	Name             *string  `yaml:"name,omitempty"`
	CurrencySymbol   *string  `yaml:"currency_symbol,omitempty"`
	GlobalHourlyCost *float64 `yaml:"global_hourly_cost,omitempty"`
}

type ClientImport struct {
	Ref             string   `yaml:"ref"`
	Name            string   `yaml:"name"`
	RetainerValue   *float64 `yaml:"retainer_value,omitempty"`
	AccumulatedBurn float64  `yaml:"accumulated_burn,omitempty"`
}

type ProjectImport struct {
	Ref          string  `yaml:"ref"`
	ClientRef    string  `yaml:"client_ref"`
	Name         string  `yaml:"name"`
	Description  string  `yaml:"description,omitempty"`
	TotalBudget  float64 `yaml:"total_budget"`
	CurrentSpend float64 `yaml:"current_spend,omitempty"`
	MarginHealth string  `yaml:"margin_health,omitempty"`
	Status       string  `yaml:"status,omitempty"`
}

// WorkLogImport is one unit of work. It is classified and costed on import.
// The timestamp is either an absolute RFC 3339 created_at or an offset from
// the import time.
type WorkLogImport struct {
	Description     string   `yaml:"description"`
	DurationMinutes int      `yaml:"duration_minutes"`
	HourlyRate      *float64 `yaml:"hourly_rate,omitempty"`
	ClientRef       string   `yaml:"client_ref,omitempty"`
	ProjectRef      string   `yaml:"project_ref,omitempty"`
	CreatedAt       *string  `yaml:"created_at,omitempty"`
	HoursAgo        float64  `yaml:"hours_ago,omitempty"`
	DaysAgo         int      `yaml:"days_ago,omitempty"`
}

type ScopeRequestImport struct {
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description,omitempty"`
	EstimatedHours *float64 `yaml:"estimated_hours,omitempty"`
	ClientRef      string   `yaml:"client_ref,omitempty"`
	ProjectRef     string   `yaml:"project_ref,omitempty"`
	Status         string   `yaml:"status,omitempty"`
	CreatedAt      *string  `yaml:"created_at,omitempty"`
	HoursAgo       float64  `yaml:"hours_ago,omitempty"`
	DaysAgo        int      `yaml:"days_ago,omitempty"`
}

//go:embed demo.yaml
var demoLedger []byte

// LoadLedger reads and parses a ledger YAML file.
func LoadLedger(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLedger(data)
}

// ParseLedger decodes a ledger document. Unknown keys are rejected so a
// misspelled field does not silently import as zero.
func ParseLedger(data []byte) (*Ledger, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var l Ledger
	if err := dec.Decode(&l); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing ledger: empty document")
		}
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}
	return &l, nil
}

// DemoLedger returns the bundled demo agency.
func DemoLedger() (*Ledger, error) {
	return ParseLedger(demoLedger)
}
