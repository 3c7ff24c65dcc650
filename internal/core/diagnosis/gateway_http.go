// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/phambinh/cropsight/internal/platform/apperr"
)

// # External Model Gateway

// httpGatewayTimeout bounds a single prediction round trip.
const httpGatewayTimeout = 30 * time.Second

/*
HTTPGateway

Description:

	HTTPGateway forwards uploads to an external model-serving endpoint and
	decodes its prediction response. It is used instead of the built-in
	Engine when a model service URL is configured.
*/
type HTTPGateway struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

/*
NewHTTPGateway

Description:

	NewHTTPGateway constructs a gateway that posts images to the given
	prediction endpoint.
*/
func NewHTTPGateway(endpoint string, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: httpGatewayTimeout},
		logger:   logger,
	}
}

/*
Predict

Description:

	Predict sends the image as a multipart upload to the model service and
	returns its decoded prediction.

Parameters:

	context: the request context.
	filename: the original upload filename.
	image: the raw image bytes.

Returns:

	*Prediction: the decoded model response.
	error: an upstream error when the model service is unreachable or
	       responds with a non-success status.
*/
func (gateway *HTTPGateway) Predict(context context.Context, filename string, image []byte) (*Prediction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("diagnosis_gateway_form_failed: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("diagnosis_gateway_form_failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("diagnosis_gateway_form_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, gateway.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("diagnosis_gateway_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())

	response, err := gateway.client.Do(request)
	if err != nil {
		return nil, apperr.Upstream("Model service is unreachable", err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		gateway.logger.Error("diagnosis_gateway_error_response",
			slog.Int("status", response.StatusCode),
			slog.String("body", string(payload)))
		return nil, apperr.Upstream("Model service returned an error",
			fmt.Errorf("status %d", response.StatusCode))
	}

	var prediction Prediction
	if err := json.NewDecoder(response.Body).Decode(&prediction); err != nil {
		return nil, apperr.Upstream("Model service returned an invalid response", err)
	}
	return &prediction, nil
}
