// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

/*
Package feedback records user-submitted feedback.

The store is append-only: rows are created, never mutated or deleted by this
flow. Validation is strict and happens before any write; a rejected submission
leaves no trace.
*/
package feedback

import (
	"context"
	"time"
)

// # Constraints

// Kind categories accepted from the submission form.
const (
	KindFeedback   = "feedback"
	KindSuggestion = "suggestion"
)

// Rating bounds; a rating is optional but bounded when present.
const (
	RatingMin = 1
	RatingMax = 5
)

// # Field Identifiers

const (
	FieldName   = "name"
	FieldEmail  = "email"
	FieldKind   = "kind"
	FieldRating = "rating"
)

// # Domain Entities

// Feedback is one append-only feedback record.
type Feedback struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Kind      string    `json:"kind"`
	Rating    *int      `json:"rating,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// # Repository Contracts

// FeedbackRepository defines the persistence contract for feedback records.
type FeedbackRepository interface {
	/*
		Create appends one feedback row.

		Parameters:
		  - context: context.Context
		  - feedback: *Feedback (Entity to persist)

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, feedback *Feedback) error
}
