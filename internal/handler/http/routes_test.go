// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/service"
	"github.com/MKhiriev/go-record-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires a full router backed by permissive mocks so that route
// registration and middleware ordering can be exercised end to end.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, u models.User) (models.User, error) { return u, nil },
		loginFn:        func(_ context.Context, u models.User) (models.User, error) { return u, nil },
		createTokenFn: func(_ context.Context, _ models.User) (models.Token, error) {
			return stubToken("signed"), nil
		},
		parseTokenFn: func(_ context.Context, _ string) (models.Token, error) {
			return models.Token{UserID: 42, TokenClaims: models.TokenClaims{OrganizationID: 7}}, nil
		},
	}
	sync := &mockSyncService{
		synchronizeFn: func(_ context.Context, _ models.SyncBatch) (models.SyncResult, error) {
			return models.SyncResult{Success: true}, nil
		},
		getPendingConflictsFn: func(_ context.Context, _ int64) ([]models.SyncConflict, error) {
			return nil, nil
		},
		resolveManuallyFn: func(_ context.Context, _ models.ManualResolutionRequest) (bool, error) {
			return true, nil
		},
		getSyncStatsFn: func(_ context.Context) (models.SyncStats, error) {
			return models.SyncStats{}, nil
		},
	}

	h := NewHandler(&service.Services{
		AuthService:    auth,
		SyncService:    sync,
		AppInfoService: &mockAppInfoService{version: "v1.2.3"},
	}, logger.Nop())

	return h.Init()
}

func TestRoutes_PublicEndpointsNeedNoToken(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/user/register", `{"login":"alice","password":"pw"}`},
		{http.MethodPost, "/api/user/login", `{"login":"alice","password":"pw"}`},
		{http.MethodGet, "/api/version", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestRoutes_ProtectedEndpointsRejectAnonymous(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/sync"},
		{http.MethodGet, "/api/sync/conflicts"},
		{http.MethodPost, "/api/sync/conflicts/c-1/resolve"},
		{http.MethodGet, "/api/sync/stats"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRoutes_ProtectedEndpointsAcceptBearerToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/stats", nil)
	req.Header.Set("Authorization", "Bearer any.valid.jwt")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestRoutes_EveryResponseCarriesTraceID verifies that the trace middleware
// applies to the whole route tree.
func TestRoutes_EveryResponseCarriesTraceID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

func TestRoutes_UnsupportedMethodGives404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/version", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
