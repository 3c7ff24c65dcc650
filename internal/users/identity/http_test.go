// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package identity_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phambinh/cropsight/internal/platform/ctxutil"
	"github.com/phambinh/cropsight/internal/users/identity"
)

// newTestRouter mounts the identity routes over a Service wired to fakes.
func newTestRouter(t *testing.T) (http.Handler, *identity.Service, *fakeBindingRepository) {
	t.Helper()
	service, _, bindings, _, _ := newService()
	handler := identity.NewHandler(service)
	return handler.Routes(), service, bindings
}

// authenticate injects verified session claims the way the session middleware
// would, then forwards to the router.
func authenticate(router http.Handler, service *identity.Service, token string) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims, err := service.VerifySession(request.Context(), token)
		if err == nil {
			request = request.WithContext(ctxutil.WithSession(request.Context(), claims))
		}
		router.ServeHTTP(writer, request)
	})
}

/*
TestHandler_OpenSession resolves an identity and returns a bearer grant.
*/
func TestHandler_OpenSession(t *testing.T) {
	router, _, bindings := newTestRouter(t)

	body := `{"name":"Binh Pham","email":"Binh@Example.com","phone":"+84901234567"}`
	request := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
			ExpiresIn   int64  `json:"expires_in"`
			Identity    struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"identity"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Positive(t, envelope.Data.ExpiresIn)
	assert.Equal(t, "binh@example.com", envelope.Data.Identity.Email)

	// The grant's jti became the identity's single binding.
	assert.Len(t, bindings.bindings, 1)
}

/*
TestHandler_OpenSession_Validation rejects incomplete submissions with
field-level details and a 400.
*/
func TestHandler_OpenSession_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing_phone", `{"name":"Binh","email":"binh@example.com"}`},
		{"bad_email", `{"name":"Binh","email":"not-an-email","phone":"+84901234567"}`},
		{"malformed_json", `{"name":`},
		{"unknown_field", `{"name":"Binh","email":"binh@example.com","phone":"+84901234567","role":"admin"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, _ := newTestRouter(t)

			request := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(tt.body))
			request.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, request)
			require.Equal(t, http.StatusBadRequest, recorder.Code)

			var envelope struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
		})
	}
}

/*
TestHandler_Me returns the profile behind a live session and 401 without one.
*/
func TestHandler_Me(t *testing.T) {
	router, service, _ := newTestRouter(t)

	// Establish a session first.
	body := `{"name":"Binh","email":"binh@example.com","phone":"+84901234567"}`
	openRequest := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, openRequest)
	require.Equal(t, http.StatusOK, recorder.Code)

	var grant struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &grant))

	// With session.
	meRecorder := httptest.NewRecorder()
	authenticated := authenticate(router, service, grant.Data.AccessToken)
	authenticated.ServeHTTP(meRecorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, meRecorder.Code)

	var profile struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(meRecorder.Body.Bytes(), &profile))
	assert.Equal(t, "binh@example.com", profile.Data.Email)

	// Without session.
	anonRecorder := httptest.NewRecorder()
	router.ServeHTTP(anonRecorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, anonRecorder.Code)
}

/*
TestHandler_Logout terminates the session; the old token then fails
verification.
*/
func TestHandler_Logout(t *testing.T) {
	router, service, bindings := newTestRouter(t)

	body := `{"name":"Binh","email":"binh@example.com","phone":"+84901234567"}`
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, recorder.Code)

	var grant struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &grant))

	authenticated := authenticate(router, service, grant.Data.AccessToken)
	logoutRecorder := httptest.NewRecorder()
	authenticated.ServeHTTP(logoutRecorder, httptest.NewRequest(http.MethodPost, "/logout", nil))
	require.Equal(t, http.StatusNoContent, logoutRecorder.Code)

	assert.Empty(t, bindings.bindings)

	// The same token is now dead even though its signature still parses.
	deadRecorder := httptest.NewRecorder()
	authenticated.ServeHTTP(deadRecorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, deadRecorder.Code)
}
