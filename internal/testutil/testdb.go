package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedOrganization stores a default-priced organization and returns it.
// It writes SQL directly so repository tests can use it without an import
// cycle.
func SeedOrganization(t *testing.T, database *sql.DB) *domain.Organization {
	t.Helper()
	org := NewTestOrganization("Acme Digital Agency")
	_, err := database.ExecContext(context.Background(),
		`INSERT INTO organizations (id, name, currency_symbol, global_hourly_cost, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		org.ID, org.Name, org.CurrencySymbol, org.GlobalHourlyCost,
		org.CreatedAt.Format(time.RFC3339), org.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("seeding organization: %v", err)
	}
	return org
}
