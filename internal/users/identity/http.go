// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

/*
HTTP delivery layer for identity resolution and sessions.

# Architecture

The handler acts as a thin mediation layer between the web and the domain
service:
  - Protocol: Standard RESTful JSON interface.
  - Security: Returns bearer session tokens; guarded routes sit behind
    the session middleware.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON).
*/
package identity

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phambinh/cropsight/internal/platform/middleware"
	requestutil "github.com/phambinh/cropsight/internal/platform/request"
	"github.com/phambinh/cropsight/internal/platform/respond"
	"github.com/phambinh/cropsight/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements identity and session HTTP endpoints.
type Handler struct {
	identityService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{identityService: service}
}

// Routes returns a [chi.Router] configured with identity-specific routes.
//
// # Endpoints
//   - POST /session : Resolves an identity and opens a session.
//   - GET  /me      : Returns the identity behind the active session.
//   - POST /logout  : Destroys the active session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/session", handler.openSession)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/me", handler.me)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type openSessionRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

/*
OpenSession resolves the submitted triple to one identity and binds a session.

POST /api/v1/auth/session

Description: Validates input, runs the deterministic identity upsert, then
issues a fresh session token. Any prior token for the resolved identity is
invalidated atomically with issuance.

Request:
  - Body: openSessionRequest (Name, Email, Phone — all required)

Response:
  - 200: SessionGrant: Bearer token, expiry and resolved identity
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) openSession(writer http.ResponseWriter, request *http.Request) {
	var input openSessionRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPhone, input.Phone)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	resolved, err := handler.identityService.Resolve(request.Context(), ResolveInput{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	grant, err := handler.identityService.Bind(request.Context(), resolved)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"access_token": grant.Token,
		"token_type":   "Bearer",
		"expires_in":   SessionTokenTTL / time.Second,
		"identity":     grant.Identity,
	})
}

/*
Me returns the identity profile behind the active session.

GET /api/v1/auth/me

Response:
  - 200: Identity: Current identity record
  - 401: ErrUnauthorized: Missing or dead session
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identityID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.identityService.Profile(request.Context(), identityID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

Description: Removes the identity's session binding. Idempotent.

Response:
  - 204: No Content: Session terminated
  - 401: ErrUnauthorized: No active session to terminate
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	identityID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.Logout(request.Context(), identityID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
