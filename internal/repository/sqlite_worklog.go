package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
)

// SQLiteWorkLogRepo implements WorkLogRepo using a SQLite database.
type SQLiteWorkLogRepo struct {
	db db.DBTX
}

func NewSQLiteWorkLogRepo(db db.DBTX) *SQLiteWorkLogRepo {
	return &SQLiteWorkLogRepo{db: db}
}

const workLogColumns = `id, organization_id, project_id, client_id, description, duration_minutes,
	hourly_rate, cost_impact, category, burn_reason, confidence, rationale, source,
	created_at, classified_at, reclassified_at, reclassified_by`

func (r *SQLiteWorkLogRepo) Create(ctx context.Context, w *domain.WorkLog) error {
	query := `INSERT INTO work_logs (` + workLogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.OrganizationID,
		nullableString(w.ProjectID),
		nullableString(w.ClientID),
		w.Description,
		w.DurationMinutes,
		w.HourlyRate,
		w.CostImpact,
		string(w.Category),
		nullableReason(w.BurnReason),
		w.Confidence,
		w.Rationale,
		string(w.Source),
		formatTime(w.CreatedAt),
		formatTime(w.ClassifiedAt),
		nullableTimeToString(w.ReclassifiedAt),
		nullableString(w.ReclassifiedBy),
	)
	if err != nil {
		return fmt.Errorf("inserting work log: %w", err)
	}
	return nil
}

func (r *SQLiteWorkLogRepo) GetByID(ctx context.Context, id string) (*domain.WorkLog, error) {
	query := `SELECT ` + workLogColumns + ` FROM work_logs WHERE id = ?`
	w, err := scanWorkLog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work log %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return w, nil
}

func (r *SQLiteWorkLogRepo) List(ctx context.Context, filter WorkLogFilter) ([]*domain.WorkLog, error) {
	var where []string
	var args []any
	if filter.Category != nil {
		where = append(where, "category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.ClientID != nil {
		where = append(where, "client_id = ?")
		args = append(args, *filter.ClientID)
	}
	if filter.ProjectID != nil {
		where = append(where, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Start != nil {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(*filter.Start))
	}
	if filter.End != nil {
		where = append(where, "created_at < ?")
		args = append(args, formatTime(*filter.End))
	}

	query := `SELECT ` + workLogColumns + ` FROM work_logs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing work logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.WorkLog
	for rows.Next() {
		w, err := scanWorkLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work logs: %w", err)
	}
	return logs, nil
}

// UpdateClassification writes only the classification and its audit stamp.
// Cost, duration and description are never rewritten.
func (r *SQLiteWorkLogRepo) UpdateClassification(ctx context.Context, w *domain.WorkLog) error {
	query := `UPDATE work_logs SET category = ?, burn_reason = ?, classified_at = ?,
		reclassified_at = ?, reclassified_by = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(w.Category),
		nullableReason(w.BurnReason),
		formatTime(w.ClassifiedAt),
		nullableTimeToString(w.ReclassifiedAt),
		nullableString(w.ReclassifiedBy),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work log classification: %w", err)
	}
	return requireAffected(res, "work log", w.ID)
}

func nullableReason(r *domain.BurnReason) any {
	if r == nil {
		return nil
	}
	return string(*r)
}

func scanWorkLog(s scanner) (*domain.WorkLog, error) {
	var w domain.WorkLog
	var projectID, clientID, reason, reclassifiedAt, reclassifiedBy sql.NullString
	var category, source, createdAt, classifiedAt string
	err := s.Scan(
		&w.ID, &w.OrganizationID, &projectID, &clientID,
		&w.Description, &w.DurationMinutes, &w.HourlyRate, &w.CostImpact,
		&category, &reason, &w.Confidence, &w.Rationale, &source,
		&createdAt, &classifiedAt, &reclassifiedAt, &reclassifiedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning work log: %w", err)
	}

	w.ProjectID = stringPtr(projectID)
	w.ClientID = stringPtr(clientID)
	w.Category = domain.WorkCategory(category)
	if reason.Valid {
		br := domain.BurnReason(reason.String)
		w.BurnReason = &br
	}
	w.Source = domain.RecordSource(source)
	if w.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if w.ClassifiedAt, err = parseTime("classified_at", classifiedAt); err != nil {
		return nil, err
	}
	w.ReclassifiedAt = parseNullableTime(reclassifiedAt)
	w.ReclassifiedBy = stringPtr(reclassifiedBy)
	return &w, nil
}
