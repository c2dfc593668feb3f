package app

import (
	"context"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/domain"
)

type LogWorkUseCase interface {
	Log(ctx context.Context, req LogWorkRequest) (*domain.WorkLog, error)
}

type ReclassifyUseCase interface {
	Reclassify(ctx context.Context, req ReclassifyRequest) (*domain.WorkLog, error)
}

type ResolveScopeUseCase interface {
	Resolve(ctx context.Context, req ResolveScopeRequest) (*ResolveScopeResponse, error)
}

type DashboardUseCase interface {
	Dashboard(ctx context.Context, req AnalyticsRequest) (*DashboardResponse, error)
}

type AlertsUseCase interface {
	Alerts(ctx context.Context, req AnalyticsRequest) ([]analytics.Alert, error)
}
