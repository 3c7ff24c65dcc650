// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

// PostgreSQL implementation of the report storage layer.
//
// # Error Mapping
//
// pgx.ErrNoRows maps to apperr.NotFound; every other failure stays a wrapped
// storage error so the service layer can present it as an unavailable store
// rather than a missing report.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phambinh/cropsight/internal/platform/apperr"
)

// # Report Repository

// PostgresReportRepository implements the ReportRepository interface using pgx.
type PostgresReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new PostgreSQL implementation of the ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *PostgresReportRepository {
	return &PostgresReportRepository{pool: pool}
}

/*
Create persists a new report record into the core.report table.

Description: Single-statement insert; the snapshot is either fully recorded or
not at all. Recommendations and treatment are stored as jsonb arrays.

Parameters:
  - context: context.Context
  - report: *Report (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresReportRepository) Create(context context.Context, report *Report) error {
	const query = `
		INSERT INTO core.report (
			id, owneridentityid, filename, disease, confidence, severity,
			recommendations, treatment, annotatedkey, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		report.ID,
		report.OwnerIdentityID,
		report.Filename,
		report.Disease,
		report.Confidence,
		report.Severity,
		report.Recommendations,
		report.Treatment,
		report.AnnotatedKey,
		report.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_report_repo_create_failed: %w", err)
	}

	return nil
}

/*
ListByOwner returns the owner's reports as summaries, oldest first.

Description: Creation-time ascending keeps the listing stable as new reports
are appended. An empty result is a valid empty slice.

Parameters:
  - context: context.Context
  - ownerIdentityID: string

Returns:
  - []ReportSummary: Listing projections
  - error: Retrieval failures
*/
func (repository *PostgresReportRepository) ListByOwner(context context.Context, ownerIdentityID string) ([]ReportSummary, error) {
	const query = `
		SELECT id, filename, disease, confidence, createdat
		FROM core.report
		WHERE owneridentityid = $1
		ORDER BY createdat ASC, id ASC`

	rows, err := repository.pool.Query(context, query, ownerIdentityID)
	if err != nil {
		return nil, fmt.Errorf("postgres_report_repo_list_failed: %w", err)
	}
	defer rows.Close()

	summaries := make([]ReportSummary, 0)
	for rows.Next() {
		var summary ReportSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Filename,
			&summary.Disease,
			&summary.Confidence,
			&summary.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_report_repo_scan_failed: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_report_repo_rows_failed: %w", err)
	}

	return summaries, nil
}

/*
FindByID retrieves the exact frozen snapshot, scoped to the owner.

Description: Owner scoping lives in the WHERE clause, so a foreign report is
indistinguishable from a missing one.

Parameters:
  - context: context.Context
  - id: string
  - ownerIdentityID: string

Returns:
  - *Report: Frozen snapshot
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresReportRepository) FindByID(context context.Context, id, ownerIdentityID string) (*Report, error) {
	const query = `
		SELECT id, owneridentityid, filename, disease, confidence, severity,
		       recommendations, treatment, annotatedkey, createdat
		FROM core.report
		WHERE id = $1 AND owneridentityid = $2`

	report := &Report{}
	err := repository.pool.QueryRow(context, query, id, ownerIdentityID).Scan(
		&report.ID,
		&report.OwnerIdentityID,
		&report.Filename,
		&report.Disease,
		&report.Confidence,
		&report.Severity,
		&report.Recommendations,
		&report.Treatment,
		&report.AnnotatedKey,
		&report.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("No such report")
		}
		return nil, fmt.Errorf("postgres_report_repo_find_failed: %w", err)
	}

	// jsonb nulls decode to nil slices; the snapshot contract promises
	// empty sequences instead.
	if report.Recommendations == nil {
		report.Recommendations = []string{}
	}
	if report.Treatment == nil {
		report.Treatment = []string{}
	}

	return report, nil
}

/*
Delete removes a report, scoped to the owner.

Parameters:
  - context: context.Context
  - id: string
  - ownerIdentityID: string

Returns:
  - error: apperr.NotFound when nothing was deleted, or execution errors
*/
func (repository *PostgresReportRepository) Delete(context context.Context, id, ownerIdentityID string) error {
	const query = "DELETE FROM core.report WHERE id = $1 AND owneridentityid = $2"

	tag, err := repository.pool.Exec(context, query, id, ownerIdentityID)
	if err != nil {
		return fmt.Errorf("postgres_report_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("No such report")
	}

	return nil
}
