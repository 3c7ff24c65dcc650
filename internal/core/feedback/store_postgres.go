// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFeedbackRepository implements the FeedbackRepository interface using pgx.
type PostgresFeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository creates a new PostgreSQL implementation of the FeedbackRepository.
func NewFeedbackRepository(pool *pgxpool.Pool) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{pool: pool}
}

/*
Create persists a new feedback record into the core.feedback table.

Description: Append-only; no update or delete path exists in this layer.

Parameters:
  - context: context.Context
  - feedback: *Feedback (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresFeedbackRepository) Create(context context.Context, feedback *Feedback) error {
	const query = `
		INSERT INTO core.feedback (
			id, name, email, kind, rating, message, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		feedback.ID,
		feedback.Name,
		feedback.Email,
		feedback.Kind,
		feedback.Rating,
		feedback.Message,
		feedback.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_feedback_repo_create_failed: %w", err)
	}

	return nil
}
