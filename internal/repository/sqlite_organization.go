package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
)

// SQLiteOrganizationRepo implements OrganizationRepo using a SQLite database.
type SQLiteOrganizationRepo struct {
	db db.DBTX
}

func NewSQLiteOrganizationRepo(db db.DBTX) *SQLiteOrganizationRepo {
	return &SQLiteOrganizationRepo{db: db}
}

func (r *SQLiteOrganizationRepo) Get(ctx context.Context) (*domain.Organization, error) {
	query := `SELECT id, name, currency_symbol, global_hourly_cost, created_at, updated_at
		FROM organizations ORDER BY created_at, id LIMIT 1`
	var o domain.Organization
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query).Scan(
		&o.ID, &o.Name, &o.CurrencySymbol, &o.GlobalHourlyCost, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organization: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning organization: %w", err)
	}
	if o.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SQLiteOrganizationRepo) Upsert(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO organizations (id, name, currency_symbol, global_hourly_cost, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			currency_symbol = excluded.currency_symbol,
			global_hourly_cost = excluded.global_hourly_cost,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.Name,
		o.CurrencySymbol,
		o.GlobalHourlyCost,
		formatTime(o.CreatedAt),
		formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting organization: %w", err)
	}
	return nil
}
