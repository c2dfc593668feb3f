package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/repository"
	"github.com/google/uuid"
)

type clientService struct {
	orgs     OrganizationService
	clients  repository.ClientRepo
	observer UseCaseObserver
}

func NewClientService(orgs OrganizationService, clients repository.ClientRepo, observers ...UseCaseObserver) ClientService {
	return &clientService{orgs: orgs, clients: clients, observer: useCaseObserverOrNoop(observers)}
}

func (s *clientService) Create(ctx context.Context, name string, retainer *float64) (c *domain.Client, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": name}
	defer observe(ctx, s.observer, "client.create", startedAt, fields, &err)

	now := time.Now().UTC().Truncate(time.Second)
	c = &domain.Client{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(name),
		RetainerValue: retainer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}

	org, err := s.orgs.Current(ctx)
	if err != nil {
		return nil, err
	}
	c.OrganizationID = org.ID

	if err = s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	fields["client_id"] = c.ID
	return c, nil
}

func (s *clientService) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *clientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.List(ctx)
}

// ResetBurn zeroes the accumulated burn. It is the only way the total ever
// goes down.
func (s *clientService) ResetBurn(ctx context.Context, id string) (c *domain.Client, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"client_id": id}
	defer observe(ctx, s.observer, "client.reset_burn", startedAt, fields, &err)

	if err = s.clients.ResetBurn(ctx, id); err != nil {
		return nil, err
	}
	return s.clients.GetByID(ctx, id)
}
