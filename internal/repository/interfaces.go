package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
)

// WorkLogFilter narrows WorkLogRepo.List. Zero values match everything;
// Start is inclusive and End exclusive.
type WorkLogFilter struct {
	Category  *domain.WorkCategory
	ClientID  *string
	ProjectID *string
	Start     *time.Time
	End       *time.Time
}

type OrganizationRepo interface {
	// Get returns the tenant's organization, or ErrNotFound before the
	// first one is stored.
	Get(ctx context.Context) (*domain.Organization, error)
	Upsert(ctx context.Context, o *domain.Organization) error
}

type ClientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	IncrementBurn(ctx context.Context, id string, amount float64) error
	ResetBurn(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

type WorkLogRepo interface {
	Create(ctx context.Context, w *domain.WorkLog) error
	GetByID(ctx context.Context, id string) (*domain.WorkLog, error)
	// List returns matching logs newest first.
	List(ctx context.Context, filter WorkLogFilter) ([]*domain.WorkLog, error)
	UpdateClassification(ctx context.Context, w *domain.WorkLog) error
}

type ScopeRequestRepo interface {
	Create(ctx context.Context, r *domain.ScopeRequest) error
	GetByID(ctx context.Context, id string) (*domain.ScopeRequest, error)
	// List returns requests oldest first, optionally restricted to one status.
	List(ctx context.Context, status *domain.ScopeStatus) ([]*domain.ScopeRequest, error)
	UpdateResolution(ctx context.Context, r *domain.ScopeRequest) error
}
