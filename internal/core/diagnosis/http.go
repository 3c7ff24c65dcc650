// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

// HTTP delivery layer for image diagnosis.
package diagnosis

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phambinh/cropsight/internal/platform/apperr"
	"github.com/phambinh/cropsight/internal/platform/constants"
	"github.com/phambinh/cropsight/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the prediction HTTP endpoint.
type Handler struct {
	gateway Gateway
}

// NewHandler constructs a new [Handler] backed by the given prediction gateway.
func NewHandler(gateway Gateway) *Handler {
	return &Handler{gateway: gateway}
}

// Routes returns a [chi.Router] configured with diagnosis-specific routes.
//
// # Endpoints
//   - POST / : Classifies an uploaded crop image.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.predict)

	return router
}

/*
Predict classifies an uploaded crop image.

POST /api/v1/predict

Description: Accepts a multipart upload under the "file" field and returns the
gateway's prediction. The upload is bounded by the global size limit.

Request:
  - Body: multipart/form-data with a "file" part

Response:
  - 200: Prediction: Disease, confidence, severity, recommendations, treatment
  - 400: ErrValidation: Missing file or oversized upload
  - 502: ErrUpstream: Model service failure
*/
func (handler *Handler) predict(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)

	file, header, err := request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.ValidationError("Uploaded image exceeds the size limit"))
			return
		}
		respond.Error(writer, request, apperr.ValidationError("An image file is required under the \"file\" field"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Uploaded image could not be read"))
		return
	}

	prediction, err := handler.gateway.Predict(request.Context(), header.Filename, image)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, prediction)
}
