// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

// HTTP delivery layer for the report lifecycle.
//
// All routes require an active session; the owner parameter for every service
// call comes from the verified session claims, never from the request body.
package report

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phambinh/cropsight/internal/platform/middleware"
	requestutil "github.com/phambinh/cropsight/internal/platform/request"
	"github.com/phambinh/cropsight/internal/platform/respond"
	"github.com/phambinh/cropsight/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements report-related HTTP endpoints.
type Handler struct {
	reportService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{reportService: service}
}

// Routes returns a [chi.Router] configured with report-specific routes.
//
// # Endpoints
//   - POST   /               : Saves a diagnosis as a report.
//   - GET    /               : Lists the caller's reports.
//   - GET    /{id}           : Fetches one frozen report.
//   - GET    /{id}/download  : Downloads the report bundle.
//   - DELETE /{id}           : Removes a report.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireSession)

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Get("/{id}", handler.fetch)
	router.Get("/{id}/download", handler.download)
	router.Delete("/{id}", handler.remove)

	return router
}

// # Request Payloads

type createReportRequest struct {
	Filename        string   `json:"filename"`
	Disease         string   `json:"disease"`
	Confidence      float64  `json:"confidence"`
	Severity        string   `json:"severity"`
	Recommendations []string `json:"recommendations"`
	Treatment       []string `json:"treatment"`
	AnnotatedImage  string   `json:"annotated_image"`
}

/*
Create saves an accepted diagnosis as an immutable report.

POST /api/v1/reports

Description: Validates the snapshot fields, then appends exactly one report
row owned by the session's identity.

Request:
  - Body: createReportRequest (Disease and Confidence required)

Response:
  - 201: Report: Created snapshot with assigned id
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: ErrUnauthorized: No active session
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReportRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldDisease, input.Disease).
		UnitInterval(FieldConfidence, input.Confidence)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.reportService.Create(request.Context(), ownerID, CreateInput{
		Filename:        input.Filename,
		Disease:         input.Disease,
		Confidence:      input.Confidence,
		Severity:        input.Severity,
		Recommendations: input.Recommendations,
		Treatment:       input.Treatment,
		AnnotatedImage:  input.AnnotatedImage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
List returns the caller's reports, oldest first.

GET /api/v1/reports

Response:
  - 200: []ReportSummary: Possibly empty listing
  - 401: ErrUnauthorized: No active session
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	summaries, err := handler.reportService.List(request.Context(), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summaries)
}

/*
Fetch returns one frozen report snapshot.

GET /api/v1/reports/{id}

Response:
  - 200: Report: Exact snapshot recorded at creation
  - 404: ErrNotFound: No such report for this identity
*/
func (handler *Handler) fetch(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.reportService.Fetch(request.Context(), requestutil.Param(request, "id"), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
Download serves the report as a zip bundle attachment.

GET /api/v1/reports/{id}/download

Response:
  - 200: application/zip attachment (report.json + annotated image when present)
  - 404: ErrNotFound: No such report for this identity
*/
func (handler *Handler) download(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bundle, err := handler.reportService.Download(request.Context(), requestutil.Param(request, "id"), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "application/zip")
	writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle.Filename))
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(bundle.Data)
}

/*
Remove deletes one of the caller's reports.

DELETE /api/v1/reports/{id}

Response:
  - 204: No Content: Report removed
  - 404: ErrNotFound: No such report for this identity
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reportService.Delete(request.Context(), requestutil.Param(request, "id"), ownerID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
