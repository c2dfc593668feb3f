package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
)

// SQLiteScopeRequestRepo implements ScopeRequestRepo using a SQLite database.
type SQLiteScopeRequestRepo struct {
	db db.DBTX
}

func NewSQLiteScopeRequestRepo(db db.DBTX) *SQLiteScopeRequestRepo {
	return &SQLiteScopeRequestRepo{db: db}
}

const scopeRequestColumns = `id, organization_id, client_id, project_id, title, description,
	estimated_hours, estimated_cost, status, source, created_at, resolved_at, resolved_by`

func (r *SQLiteScopeRequestRepo) Create(ctx context.Context, req *domain.ScopeRequest) error {
	query := `INSERT INTO scope_requests (` + scopeRequestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.OrganizationID,
		nullableString(req.ClientID),
		nullableString(req.ProjectID),
		req.Title,
		req.Description,
		nullableFloat(req.EstimatedHours),
		nullableFloat(req.EstimatedCost),
		string(req.Status),
		string(req.Source),
		formatTime(req.CreatedAt),
		nullableTimeToString(req.ResolvedAt),
		nullableString(req.ResolvedBy),
	)
	if err != nil {
		return fmt.Errorf("inserting scope request: %w", err)
	}
	return nil
}

func (r *SQLiteScopeRequestRepo) GetByID(ctx context.Context, id string) (*domain.ScopeRequest, error) {
	query := `SELECT ` + scopeRequestColumns + ` FROM scope_requests WHERE id = ?`
	req, err := scanScopeRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scope request %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return req, nil
}

func (r *SQLiteScopeRequestRepo) List(ctx context.Context, status *domain.ScopeStatus) ([]*domain.ScopeRequest, error) {
	query := `SELECT ` + scopeRequestColumns + ` FROM scope_requests`
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing scope requests: %w", err)
	}
	defer rows.Close()

	var reqs []*domain.ScopeRequest
	for rows.Next() {
		req, err := scanScopeRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scope requests: %w", err)
	}
	return reqs, nil
}

// UpdateResolution records a terminal status. The WHERE clause keeps a
// request from being resolved twice by racing writers.
func (r *SQLiteScopeRequestRepo) UpdateResolution(ctx context.Context, req *domain.ScopeRequest) error {
	query := `UPDATE scope_requests SET status = ?, resolved_at = ?, resolved_by = ?
		WHERE id = ? AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query,
		string(req.Status),
		nullableTimeToString(req.ResolvedAt),
		nullableString(req.ResolvedBy),
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("resolving scope request: %w", err)
	}
	return requireAffected(res, "pending scope request", req.ID)
}

func scanScopeRequest(s scanner) (*domain.ScopeRequest, error) {
	var req domain.ScopeRequest
	var clientID, projectID, resolvedAt, resolvedBy sql.NullString
	var hours, cost sql.NullFloat64
	var status, source, createdAt string
	err := s.Scan(
		&req.ID, &req.OrganizationID, &clientID, &projectID, &req.Title, &req.Description,
		&hours, &cost, &status, &source, &createdAt, &resolvedAt, &resolvedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning scope request: %w", err)
	}
	req.ClientID = stringPtr(clientID)
	req.ProjectID = stringPtr(projectID)
	req.EstimatedHours = floatPtr(hours)
	req.EstimatedCost = floatPtr(cost)
	req.Status = domain.ScopeStatus(status)
	req.Source = domain.RecordSource(source)
	if req.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	req.ResolvedAt = parseNullableTime(resolvedAt)
	req.ResolvedBy = stringPtr(resolvedBy)
	return &req, nil
}
