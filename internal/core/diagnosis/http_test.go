// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package diagnosis_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phambinh/cropsight/internal/core/diagnosis"
)

// multipartUpload builds a multipart body with one "file" part.
func multipartUpload(t *testing.T, field, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

/*
TestHandler_Predict classifies an upload through the built-in engine.
*/
func TestHandler_Predict(t *testing.T) {
	handler := diagnosis.NewHandler(diagnosis.NewEngine(nil))
	router := handler.Routes()

	body, contentType := multipartUpload(t, "file", "leaf.jpg", []byte("pixels"))
	request := httptest.NewRequest(http.MethodPost, "/", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data diagnosis.Prediction `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.NotEmpty(t, envelope.Data.Disease)
	assert.GreaterOrEqual(t, envelope.Data.Confidence, 0.0)
	assert.LessOrEqual(t, envelope.Data.Confidence, 1.0)
	assert.NotEmpty(t, envelope.Data.Treatment)
}

/*
TestHandler_Predict_RequiresFile rejects uploads without a "file" part.
*/
func TestHandler_Predict_RequiresFile(t *testing.T) {
	handler := diagnosis.NewHandler(diagnosis.NewEngine(nil))
	router := handler.Routes()

	body, contentType := multipartUpload(t, "image", "leaf.jpg", []byte("pixels"))
	request := httptest.NewRequest(http.MethodPost, "/", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var envelope struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
}
