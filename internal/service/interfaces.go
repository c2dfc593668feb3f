package service

import (
	"context"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/importer"
)

type OrganizationService interface {
	// Current returns the tenant's organization, creating one with default
	// settings on first use.
	Current(ctx context.Context) (*domain.Organization, error)
	UpdateSettings(ctx context.Context, settings domain.OrganizationSettings) (*domain.Organization, error)
}

type ClientService interface {
	Create(ctx context.Context, name string, retainer *float64) (*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	ResetBurn(ctx context.Context, id string) (*domain.Client, error)
}

// ProjectUpdate changes only the fields that are set.
type ProjectUpdate struct {
	Name         *string
	TotalBudget  *float64
	CurrentSpend *float64
	MarginHealth *domain.MarginHealth
	Status       *domain.ProjectStatus
}

type ProjectService interface {
	Create(ctx context.Context, clientID, name, description string, budget float64) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, clientID string) ([]*domain.Project, error)
	Update(ctx context.Context, id string, upd ProjectUpdate) (*domain.Project, error)
}

type WorkLogService interface {
	app.LogWorkUseCase
	app.ReclassifyUseCase
	GetByID(ctx context.Context, id string) (*domain.WorkLog, error)
	List(ctx context.Context, q app.WorkLogQuery) ([]*domain.WorkLog, error)
}

type ScopeService interface {
	app.ResolveScopeUseCase
	Create(ctx context.Context, req app.CreateScopeRequest) (*domain.ScopeRequest, error)
	GetByID(ctx context.Context, id string) (*domain.ScopeRequest, error)
	List(ctx context.Context, status *domain.ScopeStatus) ([]*domain.ScopeRequest, error)
}

type AnalyticsService interface {
	app.DashboardUseCase
	app.AlertsUseCase
	Snapshot(ctx context.Context) (analytics.Snapshot, error)
	PeriodMetrics(ctx context.Context, req app.AnalyticsRequest) (analytics.PeriodMetrics, error)
	BurnByReason(ctx context.Context, req app.AnalyticsRequest) ([]analytics.ReasonBurn, error)
	BurnByClient(ctx context.Context, req app.AnalyticsRequest) ([]analytics.ClientBurn, error)
	HallOfShame(ctx context.Context, req app.AnalyticsRequest) ([]*domain.WorkLog, error)
	ClientHealth(ctx context.Context) ([]analytics.ClientHealth, error)
	Trend(ctx context.Context, req app.AnalyticsRequest) ([]analytics.TrendPoint, error)
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*app.ImportResult, error)
	ImportLedger(ctx context.Context, ledger *importer.Ledger) (*app.ImportResult, error)
	SeedDemo(ctx context.Context) (*app.ImportResult, error)
}
