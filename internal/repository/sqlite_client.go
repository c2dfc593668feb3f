package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
)

// SQLiteClientRepo implements ClientRepo using a SQLite database.
type SQLiteClientRepo struct {
	db db.DBTX
}

func NewSQLiteClientRepo(db db.DBTX) *SQLiteClientRepo {
	return &SQLiteClientRepo{db: db}
}

const clientColumns = `id, organization_id, name, retainer_value, accumulated_burn_total, created_at, updated_at`

func (r *SQLiteClientRepo) Create(ctx context.Context, c *domain.Client) error {
	query := `INSERT INTO clients (` + clientColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.OrganizationID,
		c.Name,
		nullableFloat(c.RetainerValue),
		c.AccumulatedBurnTotal,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

func (r *SQLiteClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`
	c, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name COLLATE NOCASE, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clients: %w", err)
	}
	return clients, nil
}

func (r *SQLiteClientRepo) Update(ctx context.Context, c *domain.Client) error {
	query := `UPDATE clients SET name = ?, retainer_value = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name,
		nullableFloat(c.RetainerValue),
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	return requireAffected(res, "client", c.ID)
}

// IncrementBurn adds amount to the client's accumulated burn in a single
// statement, so concurrent writers never lose an increment.
func (r *SQLiteClientRepo) IncrementBurn(ctx context.Context, id string, amount float64) error {
	query := `UPDATE clients SET accumulated_burn_total = accumulated_burn_total + ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, amount, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("incrementing client burn: %w", err)
	}
	return requireAffected(res, "client", id)
}

func (r *SQLiteClientRepo) ResetBurn(ctx context.Context, id string) error {
	query := `UPDATE clients SET accumulated_burn_total = 0, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("resetting client burn: %w", err)
	}
	return requireAffected(res, "client", id)
}

func scanClient(s scanner) (*domain.Client, error) {
	var c domain.Client
	var retainer sql.NullFloat64
	var createdAt, updatedAt string
	err := s.Scan(&c.ID, &c.OrganizationID, &c.Name, &retainer, &c.AccumulatedBurnTotal, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning client: %w", err)
	}
	c.RetainerValue = floatPtr(retainer)
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
