// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package feedback_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phambinh/cropsight/internal/core/feedback"
	"github.com/phambinh/cropsight/internal/platform/apperr"
)

// fakeFeedbackRepository appends records in memory.
type fakeFeedbackRepository struct {
	rows []*feedback.Feedback
}

func (repo *fakeFeedbackRepository) Create(_ context.Context, row *feedback.Feedback) error {
	clone := *row
	repo.rows = append(repo.rows, &clone)
	return nil
}

func ratingOf(value int) *int { return &value }

/*
TestService_Submit_RecordsNormalizedEntry verifies a valid submission is
stored with trimmed name and case-folded email.
*/
func TestService_Submit_RecordsNormalizedEntry(t *testing.T) {
	repo := &fakeFeedbackRepository{}
	service := feedback.NewService(repo)

	recorded, err := service.Submit(context.Background(), feedback.SubmitInput{
		Name:    "  Binh Pham ",
		Email:   "Binh@Example.COM",
		Kind:    feedback.KindSuggestion,
		Rating:  ratingOf(4),
		Message: "  Please add offline mode.  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, recorded.ID)
	assert.Equal(t, "Binh Pham", recorded.Name)
	assert.Equal(t, "binh@example.com", recorded.Email)
	assert.Equal(t, feedback.KindSuggestion, recorded.Kind)
	require.NotNil(t, recorded.Rating)
	assert.Equal(t, 4, *recorded.Rating)
	assert.Equal(t, "Please add offline mode.", recorded.Message)
	require.Len(t, repo.rows, 1)
}

/*
TestService_Submit_OptionalRating verifies a submission without a rating is
accepted and stored with a nil rating.
*/
func TestService_Submit_OptionalRating(t *testing.T) {
	repo := &fakeFeedbackRepository{}
	service := feedback.NewService(repo)

	recorded, err := service.Submit(context.Background(), feedback.SubmitInput{
		Name:  "Binh",
		Email: "binh@example.com",
		Kind:  feedback.KindFeedback,
	})
	require.NoError(t, err)
	assert.Nil(t, recorded.Rating)
}

/*
TestService_Submit_Validation rejects malformed submissions before any write.
Out-of-range ratings are rejected, never clamped.
*/
func TestService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input feedback.SubmitInput
	}{
		{"missing_name", feedback.SubmitInput{Email: "a@b.com", Kind: feedback.KindFeedback}},
		{"missing_email", feedback.SubmitInput{Name: "Binh", Kind: feedback.KindFeedback}},
		{"unknown_kind", feedback.SubmitInput{Name: "Binh", Email: "a@b.com", Kind: "complaint"}},
		{"rating_below_min", feedback.SubmitInput{Name: "Binh", Email: "a@b.com", Kind: feedback.KindFeedback, Rating: ratingOf(0)}},
		{"rating_above_max", feedback.SubmitInput{Name: "Binh", Email: "a@b.com", Kind: feedback.KindFeedback, Rating: ratingOf(6)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeFeedbackRepository{}
			service := feedback.NewService(repo)

			_, err := service.Submit(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			assert.Empty(t, repo.rows)
		})
	}
}
