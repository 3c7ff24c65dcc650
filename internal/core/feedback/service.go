// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/phambinh/cropsight/internal/platform/apperr"
	"github.com/phambinh/cropsight/pkg/normalize"
	"github.com/phambinh/cropsight/pkg/uuid"
)

// Service implements the feedback submission use case.
type Service struct {
	feedbackRepository FeedbackRepository
}

// NewService constructs a new feedback [Service].
func NewService(feedbackRepo FeedbackRepository) *Service {
	return &Service{feedbackRepository: feedbackRepo}
}

// SubmitInput holds one raw feedback submission.
type SubmitInput struct {
	Name    string
	Email   string
	Kind    string
	Rating  *int
	Message string
}

/*
Submit validates and appends one feedback record.

Description: Name and email are required non-empty after trimming; kind must
be one of the fixed categories; a rating, when present, must fall within the
bounded range — never silently clamped. Validation failures reach no store.

Parameters:
  - context: context.Context
  - input: SubmitInput

Returns:
  - *Feedback: The recorded entry
  - error: ValidationError or storage failures
*/
func (service *Service) Submit(context context.Context, input SubmitInput) (*Feedback, error) {

	name := normalize.Name(input.Name)
	email := normalize.Email(input.Email)

	if name == "" {
		return nil, apperr.ValidationError("Name is required")
	}
	if email == "" {
		return nil, apperr.ValidationError("Email is required")
	}

	if input.Kind != KindFeedback && input.Kind != KindSuggestion {
		return nil, apperr.ValidationError(fmt.Sprintf("Kind must be %q or %q", KindFeedback, KindSuggestion))
	}

	if input.Rating != nil && (*input.Rating < RatingMin || *input.Rating > RatingMax) {
		return nil, apperr.ValidationError(fmt.Sprintf("Rating must be between %d and %d", RatingMin, RatingMax))
	}

	feedback := &Feedback{
		ID:      uuid.New(),
		Name:    name,
		Email:   email,
		Kind:    input.Kind,
		Rating:  input.Rating,
		Message: strings.TrimSpace(input.Message),
	}

	if err := service.feedbackRepository.Create(context, feedback); err != nil {
		return nil, fmt.Errorf("feedback_service_submit_failed: %w", err)
	}

	return feedback, nil
}
