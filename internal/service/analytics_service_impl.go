package service

import (
	"context"
	"time"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/repository"
	"golang.org/x/sync/errgroup"
)

type analyticsService struct {
	orgs       OrganizationService
	uow        db.UnitOfWork
	thresholds analytics.Thresholds
	observer   UseCaseObserver
}

func NewAnalyticsService(
	orgs OrganizationService,
	uow db.UnitOfWork,
	thresholds analytics.Thresholds,
	observers ...UseCaseObserver,
) AnalyticsService {
	return &analyticsService{
		orgs:       orgs,
		uow:        uow,
		thresholds: thresholds,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Snapshot loads the full record set in one read transaction so concurrent
// writers cannot tear it. Every report is recomputed from it.
func (s *analyticsService) Snapshot(ctx context.Context) (analytics.Snapshot, error) {
	var snap analytics.Snapshot
	// Current may write the default organization, so it runs before the
	// read transaction opens.
	org, err := s.orgs.Current(ctx)
	if err != nil {
		return snap, err
	}
	snap.Organization = org

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if snap.Clients, err = repository.NewSQLiteClientRepo(tx).List(ctx); err != nil {
			return err
		}
		if snap.Projects, err = repository.NewSQLiteProjectRepo(tx).List(ctx); err != nil {
			return err
		}
		if snap.WorkLogs, err = repository.NewSQLiteWorkLogRepo(tx).List(ctx, repository.WorkLogFilter{}); err != nil {
			return err
		}
		snap.ScopeRequests, err = repository.NewSQLiteScopeRequestRepo(tx).List(ctx, nil)
		return err
	})
	if err != nil {
		return analytics.Snapshot{}, err
	}
	return snap, nil
}

func validateWindow(req app.AnalyticsRequest) error {
	if req.Days <= 0 {
		return domain.NewValidationError("days", "window must be at least one day")
	}
	return nil
}

func (s *analyticsService) PeriodMetrics(ctx context.Context, req app.AnalyticsRequest) (analytics.PeriodMetrics, error) {
	if err := validateWindow(req); err != nil {
		return analytics.PeriodMetrics{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return analytics.PeriodMetrics{}, err
	}
	return analytics.ComputePeriodMetrics(snap, nowOr(req.Now), req.Days, req.Scope()), nil
}

func (s *analyticsService) BurnByReason(ctx context.Context, req app.AnalyticsRequest) ([]analytics.ReasonBurn, error) {
	if err := validateWindow(req); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.BurnBySubReason(snap, nowOr(req.Now), req.Days), nil
}

func (s *analyticsService) BurnByClient(ctx context.Context, req app.AnalyticsRequest) ([]analytics.ClientBurn, error) {
	if err := validateWindow(req); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.BurnByClient(snap, nowOr(req.Now), req.Days), nil
}

func (s *analyticsService) HallOfShame(ctx context.Context, req app.AnalyticsRequest) ([]*domain.WorkLog, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.HallOfShame(snap, shameLimit(req)), nil
}

func shameLimit(req app.AnalyticsRequest) int {
	if req.ShameLimit <= 0 {
		return analytics.DefaultHallOfShameLimit
	}
	return req.ShameLimit
}

func (s *analyticsService) ClientHealth(ctx context.Context) ([]analytics.ClientHealth, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ScoreClients(snap, s.thresholds), nil
}

func (s *analyticsService) Alerts(ctx context.Context, req app.AnalyticsRequest) ([]analytics.Alert, error) {
	if err := validateWindow(req); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	period := analytics.ComputePeriodMetrics(snap, nowOr(req.Now), req.Days, analytics.Scope{})
	return analytics.HideAlerts(analytics.GenerateAlerts(snap, period, s.thresholds), req.HiddenAlertIDs), nil
}

func (s *analyticsService) Trend(ctx context.Context, req app.AnalyticsRequest) ([]analytics.TrendPoint, error) {
	if err := validateWindow(req); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Trend(snap, nowOr(req.Now), req.Days), nil
}

// Dashboard loads one snapshot and computes the independent reports in
// parallel. Alerts and the command center depend on period metrics and
// client health, so they run after the group.
func (s *analyticsService) Dashboard(ctx context.Context, req app.AnalyticsRequest) (resp *app.DashboardResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"days": req.Days}
	defer observe(ctx, s.observer, "analytics.dashboard", startedAt, fields, &err)

	if err = validateWindow(req); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := nowOr(req.Now)
	resp = &app.DashboardResponse{GeneratedAt: now, Organization: snap.Organization}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp.Period = analytics.ComputePeriodMetrics(snap, now, req.Days, analytics.Scope{})
		return gctx.Err()
	})
	g.Go(func() error {
		resp.BurnByReason = analytics.BurnBySubReason(snap, now, req.Days)
		return gctx.Err()
	})
	g.Go(func() error {
		resp.BurnByClient = analytics.BurnByClient(snap, now, req.Days)
		return gctx.Err()
	})
	g.Go(func() error {
		resp.HallOfShame = analytics.HallOfShame(snap, shameLimit(req))
		return gctx.Err()
	})
	g.Go(func() error {
		resp.ClientHealth = analytics.ScoreClients(snap, s.thresholds)
		return gctx.Err()
	})
	g.Go(func() error {
		resp.Trend = analytics.Trend(snap, now, req.Days)
		return gctx.Err()
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	alerts := analytics.GenerateAlerts(snap, resp.Period, s.thresholds)
	resp.CommandCenter = analytics.BuildCommandCenter(snap, now, resp.Period, resp.ClientHealth, alerts, s.thresholds)
	resp.Alerts = analytics.HideAlerts(alerts, req.HiddenAlertIDs)

	fields["work_logs"] = len(snap.WorkLogs)
	fields["alerts"] = len(resp.Alerts)
	return resp, nil
}
