package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/repository"
	"github.com/google/uuid"
)

// RationaleAcceptedScope explains the classification of logs created by
// accepting a scope request as burn.
const RationaleAcceptedScope = "scope request accepted as burn"

type scopeService struct {
	orgs     OrganizationService
	requests repository.ScopeRequestRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewScopeService(orgs OrganizationService, requests repository.ScopeRequestRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ScopeService {
	return &scopeService{orgs: orgs, requests: requests, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create records a pending request and freezes its estimated cost at the
// organization's current hourly cost.
func (s *scopeService) Create(ctx context.Context, req app.CreateScopeRequest) (r *domain.ScopeRequest, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"title": req.Title}
	defer observe(ctx, s.observer, "scope.create", startedAt, fields, &err)

	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}
	r = &domain.ScopeRequest{
		ID:             uuid.New().String(),
		ClientID:       req.ClientID,
		ProjectID:      req.ProjectID,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		EstimatedHours: req.EstimatedHours,
		Status:         domain.ScopePending,
		Source:         source,
		CreatedAt:      nowOr(req.Now),
	}
	if err = r.Validate(); err != nil {
		return nil, err
	}

	org, err := s.orgs.Current(ctx)
	if err != nil {
		return nil, err
	}
	r.OrganizationID = org.ID
	r.PriceAt(org.GlobalHourlyCost)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := resolveLinks(ctx, tx, &r.ClientID, &r.ProjectID); err != nil {
			return err
		}
		return repository.NewSQLiteScopeRequestRepo(tx).Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	fields["scope_request_id"] = r.ID
	fields["estimated_cost"] = r.EstimatedCostOrZero()
	return r, nil
}

// Resolve moves a pending request to a terminal status. Accepting it as burn
// also writes one margin-burn work log for the estimated hours and raises the
// client's accumulated burn; all three writes commit together.
func (s *scopeService) Resolve(ctx context.Context, req app.ResolveScopeRequest) (resp *app.ResolveScopeResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"scope_request_id": req.ScopeRequestID, "status": string(req.Status)}
	defer observe(ctx, s.observer, "scope.resolve", startedAt, fields, &err)

	if !req.Status.IsResolution() {
		return nil, domain.NewValidationError("status", "cannot resolve to "+string(req.Status))
	}
	org, err := s.orgs.Current(ctx)
	if err != nil {
		return nil, err
	}
	now := nowOr(req.Now)

	resp = &app.ResolveScopeResponse{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRequests := repository.NewSQLiteScopeRequestRepo(tx)
		r, err := txRequests.GetByID(ctx, req.ScopeRequestID)
		if err != nil {
			return err
		}
		if err := r.Resolve(req.Status, req.Actor, now); err != nil {
			return err
		}
		if err := txRequests.UpdateResolution(ctx, r); err != nil {
			return err
		}
		resp.Request = r

		if r.Status != domain.ScopeAcceptedBurn {
			return nil
		}
		w := acceptedBurnLog(r, org, now)
		if err := createWorkLog(ctx, tx, w); err != nil {
			return err
		}
		resp.BurnLog = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	if resp.BurnLog != nil {
		fields["work_log_id"] = resp.BurnLog.ID
		fields["cost_impact"] = resp.BurnLog.CostImpact
	}
	return resp, nil
}

func acceptedBurnLog(r *domain.ScopeRequest, org *domain.Organization, now time.Time) *domain.WorkLog {
	reason := domain.ReasonScopeCreep
	minutes := r.EstimatedMinutes()
	return &domain.WorkLog{
		ID:              uuid.New().String(),
		OrganizationID:  org.ID,
		ProjectID:       r.ProjectID,
		ClientID:        r.ClientID,
		Description:     r.BurnLogDescription(),
		DurationMinutes: minutes,
		HourlyRate:      org.GlobalHourlyCost,
		CostImpact:      analytics.CostImpact(float64(minutes), org.GlobalHourlyCost),
		Category:        domain.CategoryMarginBurn,
		BurnReason:      &reason,
		Confidence:      1,
		Rationale:       RationaleAcceptedScope,
		Source:          domain.SourceScopeRequest,
		CreatedAt:       now,
		ClassifiedAt:    now,
	}
}

func (s *scopeService) GetByID(ctx context.Context, id string) (*domain.ScopeRequest, error) {
	return s.requests.GetByID(ctx, id)
}

func (s *scopeService) List(ctx context.Context, status *domain.ScopeStatus) ([]*domain.ScopeRequest, error) {
	return s.requests.List(ctx, status)
}
