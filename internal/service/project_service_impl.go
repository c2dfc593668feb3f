package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	orgs     OrganizationService
	clients  repository.ClientRepo
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(orgs OrganizationService, clients repository.ClientRepo, projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{orgs: orgs, clients: clients, projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, clientID, name, description string, budget float64) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"client_id": clientID, "name": name}
	defer observe(ctx, s.observer, "project.create", startedAt, fields, &err)

	now := time.Now().UTC().Truncate(time.Second)
	p = &domain.Project{
		ID:           uuid.New().String(),
		ClientID:     clientID,
		Name:         strings.TrimSpace(name),
		Description:  description,
		TotalBudget:  budget,
		MarginHealth: domain.MarginHealthy,
		Status:       domain.ProjectActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}
	if _, err = s.clients.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	org, err := s.orgs.Current(ctx)
	if err != nil {
		return nil, err
	}
	p.OrganizationID = org.ID

	if err = s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	fields["project_id"] = p.ID
	return p, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// List returns every project, or only clientID's when it is set.
func (s *projectService) List(ctx context.Context, clientID string) ([]*domain.Project, error) {
	if clientID != "" {
		return s.projects.ListByClient(ctx, clientID)
	}
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, id string, upd ProjectUpdate) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id}
	defer observe(ctx, s.observer, "project.update", startedAt, fields, &err)

	p, err = s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.TotalBudget != nil {
		p.TotalBudget = *upd.TotalBudget
	}
	if upd.CurrentSpend != nil {
		p.CurrentSpend = *upd.CurrentSpend
	}
	if upd.MarginHealth != nil {
		p.MarginHealth = *upd.MarginHealth
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err = s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
