// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

// HTTP delivery layer for feedback submission.
package feedback

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/phambinh/cropsight/internal/platform/request"
	"github.com/phambinh/cropsight/internal/platform/respond"
	"github.com/phambinh/cropsight/internal/platform/validate"
)

// Handler implements the feedback HTTP endpoint.
type Handler struct {
	feedbackService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{feedbackService: service}
}

// Routes returns a [chi.Router] configured with the feedback route.
//
// # Endpoints
//   - POST / : Records one feedback entry.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.submit)
	return router
}

type submitFeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Kind    string `json:"kind"`
	Rating  *int   `json:"rating"`
	Message string `json:"message"`
}

/*
Submit records one feedback entry.

POST /api/v1/feedback

Description: Strictly validated append; a rejected submission creates no row
and the reason is returned as a human-readable message.

Request:
  - Body: submitFeedbackRequest (Name, Email, Kind required; Rating, Message optional)

Response:
  - 201: Feedback: Acknowledged entry
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var input submitFeedbackRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldKind, input.Kind).
		OneOf(FieldKind, input.Kind, KindFeedback, KindSuggestion)

	if input.Rating != nil {
		validator.Range(FieldRating, *input.Rating, RatingMin, RatingMax)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	recorded, err := handler.feedbackService.Submit(request.Context(), SubmitInput{
		Name:    input.Name,
		Email:   input.Email,
		Kind:    input.Kind,
		Rating:  input.Rating,
		Message: input.Message,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, recorded)
}
