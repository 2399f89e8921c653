// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestGetServerVersion(t *testing.T) {
	h := NewHandler(&service.Services{
		AppInfoService: &mockAppInfoService{version: "v1.2.3 (build 2026-08-01)"},
	}, logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "v1.2.3 (build 2026-08-01)", rec.Body.String())
}
