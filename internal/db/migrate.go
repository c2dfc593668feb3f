package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent so the whole list
// re-runs on each open; column additions for older ledgers are tolerated when
// the column already exists.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		currency_symbol    TEXT NOT NULL DEFAULT '$',
		global_hourly_cost REAL NOT NULL DEFAULT 75 CHECK (global_hourly_cost > 0),
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS clients (
		id                     TEXT PRIMARY KEY,
		organization_id        TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name                   TEXT NOT NULL,
		retainer_value         REAL CHECK (retainer_value IS NULL OR retainer_value >= 0),
		accumulated_burn_total REAL NOT NULL DEFAULT 0 CHECK (accumulated_burn_total >= 0),
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		client_id       TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		total_budget    REAL NOT NULL CHECK (total_budget >= 0),
		current_spend   REAL NOT NULL DEFAULT 0 CHECK (current_spend >= 0),
		margin_health   TEXT NOT NULL DEFAULT 'healthy'
			CHECK (margin_health IN ('healthy','warning','critical','underwater')),
		status          TEXT NOT NULL DEFAULT 'active'
			CHECK (status IN ('active','completed','on_hold')),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_logs (
		id               TEXT PRIMARY KEY,
		organization_id  TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		project_id       TEXT REFERENCES projects(id) ON DELETE SET NULL,
		client_id        TEXT REFERENCES clients(id) ON DELETE SET NULL,
		description      TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		hourly_rate      REAL NOT NULL CHECK (hourly_rate > 0),
		cost_impact      REAL NOT NULL,
		category         TEXT NOT NULL
			CHECK (category IN ('billable','margin_burn','scope_risk','unclassified')),
		burn_reason      TEXT CHECK (burn_reason IS NULL OR burn_reason IN
			('scope_creep','internal_meeting','rework','admin','communication','planning','research','setup','other')),
		confidence       REAL NOT NULL DEFAULT 0 CHECK (confidence >= 0 AND confidence <= 1),
		rationale        TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		classified_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS scope_requests (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		client_id       TEXT REFERENCES clients(id) ON DELETE SET NULL,
		project_id      TEXT REFERENCES projects(id) ON DELETE SET NULL,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		estimated_hours REAL CHECK (estimated_hours IS NULL OR estimated_hours > 0),
		estimated_cost  REAL CHECK (estimated_cost IS NULL OR estimated_cost >= 0),
		status          TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending','accepted_burn','converted_revenue','rejected')),
		created_at      TEXT NOT NULL,
		resolved_at     TEXT
	)`,

	// Provenance and audit columns added after the first release.
	`ALTER TABLE work_logs ADD COLUMN source TEXT NOT NULL DEFAULT 'manual'`,
	`ALTER TABLE work_logs ADD COLUMN reclassified_at TEXT`,
	`ALTER TABLE work_logs ADD COLUMN reclassified_by TEXT`,
	`ALTER TABLE scope_requests ADD COLUMN source TEXT NOT NULL DEFAULT 'manual'`,
	`ALTER TABLE scope_requests ADD COLUMN resolved_by TEXT`,

	`CREATE INDEX IF NOT EXISTS idx_clients_org ON clients(organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_logs_created ON work_logs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_work_logs_client ON work_logs(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_logs_category ON work_logs(category)`,
	`CREATE INDEX IF NOT EXISTS idx_scope_requests_status ON scope_requests(status)`,
	`CREATE INDEX IF NOT EXISTS idx_scope_requests_client ON scope_requests(client_id)`,
}
