package testutil

import (
	"time"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/classifier"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/google/uuid"
)

// now is truncated to whole seconds so fixtures survive an RFC3339 round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func NewTestOrganization(name string) *domain.Organization {
	ts := now()
	return &domain.Organization{
		ID:               uuid.New().String(),
		Name:             name,
		CurrencySymbol:   domain.DefaultCurrencySymbol,
		GlobalHourlyCost: domain.DefaultGlobalHourlyCost,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
}

// Client options
type ClientOption func(*domain.Client)

func WithRetainer(v float64) ClientOption {
	return func(c *domain.Client) {
		c.RetainerValue = &v
	}
}

func WithAccumulatedBurn(v float64) ClientOption {
	return func(c *domain.Client) {
		c.AccumulatedBurnTotal = v
	}
}

func NewTestClient(orgID, name string, opts ...ClientOption) *domain.Client {
	ts := now()
	c := &domain.Client{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Name:           name,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Project options
type ProjectOption func(*domain.Project)

func WithSpend(v float64) ProjectOption {
	return func(p *domain.Project) {
		p.CurrentSpend = v
	}
}

func WithMarginHealth(h domain.MarginHealth) ProjectOption {
	return func(p *domain.Project) {
		p.MarginHealth = h
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func NewTestProject(orgID, clientID, name string, budget float64, opts ...ProjectOption) *domain.Project {
	ts := now()
	p := &domain.Project{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		ClientID:       clientID,
		Name:           name,
		TotalBudget:    budget,
		MarginHealth:   domain.MarginHealthy,
		Status:         domain.ProjectActive,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WorkLog options
type WorkLogOption func(*domain.WorkLog)

func WithLogClient(id string) WorkLogOption {
	return func(w *domain.WorkLog) {
		w.ClientID = &id
	}
}

func WithLogProject(id string) WorkLogOption {
	return func(w *domain.WorkLog) {
		w.ProjectID = &id
	}
}

func WithCreatedAt(t time.Time) WorkLogOption {
	return func(w *domain.WorkLog) {
		w.CreatedAt = t.UTC().Truncate(time.Second)
		w.ClassifiedAt = w.CreatedAt
	}
}

func WithRate(rate float64) WorkLogOption {
	return func(w *domain.WorkLog) {
		w.HourlyRate = rate
		w.CostImpact = analytics.CostImpact(float64(w.DurationMinutes), rate)
	}
}

// NewTestWorkLog classifies description with the default lexicon and costs it
// at the default hourly rate, the same way the service does.
func NewTestWorkLog(orgID, description string, minutes int, opts ...WorkLogOption) *domain.WorkLog {
	ts := now()
	res := classifier.Classify(description)
	w := &domain.WorkLog{
		ID:              uuid.New().String(),
		OrganizationID:  orgID,
		Description:     description,
		DurationMinutes: minutes,
		HourlyRate:      domain.DefaultGlobalHourlyCost,
		CostImpact:      analytics.CostImpact(float64(minutes), domain.DefaultGlobalHourlyCost),
		Category:        res.Category,
		BurnReason:      res.BurnReason,
		Confidence:      res.Confidence,
		Rationale:       res.Rationale,
		Source:          domain.SourceManual,
		CreatedAt:       ts,
		ClassifiedAt:    ts,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ScopeRequest options
type ScopeRequestOption func(*domain.ScopeRequest)

func WithRequestClient(id string) ScopeRequestOption {
	return func(r *domain.ScopeRequest) {
		r.ClientID = &id
	}
}

func WithRequestProject(id string) ScopeRequestOption {
	return func(r *domain.ScopeRequest) {
		r.ProjectID = &id
	}
}

// WithEstimate sets the hour estimate and freezes its cost at rate.
func WithEstimate(hours, rate float64) ScopeRequestOption {
	return func(r *domain.ScopeRequest) {
		r.EstimatedHours = &hours
		r.PriceAt(rate)
	}
}

func WithScopeStatus(s domain.ScopeStatus) ScopeRequestOption {
	return func(r *domain.ScopeRequest) {
		r.Status = s
	}
}

func NewTestScopeRequest(orgID, title string, opts ...ScopeRequestOption) *domain.ScopeRequest {
	r := &domain.ScopeRequest{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Title:          title,
		Status:         domain.ScopePending,
		Source:         domain.SourceManual,
		CreatedAt:      now(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
