package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, organization_id, client_id, name, description, total_budget, current_spend,
	margin_health, status, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.OrganizationID,
		p.ClientID,
		p.Name,
		p.Description,
		p.TotalBudget,
		p.CurrentSpend,
		string(p.MarginHealth),
		string(p.Status),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, rowid`
	return r.query(ctx, query)
}

func (r *SQLiteProjectRepo) ListByClient(ctx context.Context, clientID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE client_id = ? ORDER BY created_at, rowid`
	return r.query(ctx, query, clientID)
}

func (r *SQLiteProjectRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, description = ?, total_budget = ?, current_spend = ?,
		margin_health = ?, status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.TotalBudget,
		p.CurrentSpend,
		string(p.MarginHealth),
		string(p.Status),
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var health, status, createdAt, updatedAt string
	err := s.Scan(
		&p.ID, &p.OrganizationID, &p.ClientID, &p.Name, &p.Description,
		&p.TotalBudget, &p.CurrentSpend,
		&health, &status,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.MarginHealth = domain.MarginHealth(health)
	p.Status = domain.ProjectStatus(status)
	if p.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
