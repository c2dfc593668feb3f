package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/repository"
	"github.com/google/uuid"
)

// DefaultOrganizationName names the organization created on first use.
const DefaultOrganizationName = "My Agency"

type organizationService struct {
	orgs     repository.OrganizationRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewOrganizationService(orgs repository.OrganizationRepo, uow db.UnitOfWork, observers ...UseCaseObserver) OrganizationService {
	return &organizationService{orgs: orgs, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *organizationService) Current(ctx context.Context) (*domain.Organization, error) {
	org, err := s.orgs.Get(ctx)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txOrgs := repository.NewSQLiteOrganizationRepo(tx)
		// Another process may have created it since the read above.
		existing, err := txOrgs.Get(ctx)
		if err == nil {
			org = existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		org = newDefaultOrganization(time.Now().UTC().Truncate(time.Second))
		return txOrgs.Upsert(ctx, org)
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

func newDefaultOrganization(now time.Time) *domain.Organization {
	return &domain.Organization{
		ID:               uuid.New().String(),
		Name:             DefaultOrganizationName,
		CurrencySymbol:   domain.DefaultCurrencySymbol,
		GlobalHourlyCost: domain.DefaultGlobalHourlyCost,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (s *organizationService) UpdateSettings(ctx context.Context, settings domain.OrganizationSettings) (org *domain.Organization, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "organization.update_settings", startedAt, fields, &err)

	org, err = s.Current(ctx)
	if err != nil {
		return nil, err
	}
	fields["organization_id"] = org.ID
	if err = settings.Apply(org, time.Now().UTC().Truncate(time.Second)); err != nil {
		return nil, err
	}
	if err = s.orgs.Upsert(ctx, org); err != nil {
		return nil, err
	}
	fields["global_hourly_cost"] = org.GlobalHourlyCost
	return org, nil
}
