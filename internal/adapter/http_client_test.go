// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/MKhiriev/go-record-sync/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	a := NewHTTPServerAdapter(HTTPClientConfig{
		BaseURL: serverURL,
		HashKey: "testhashkey",
		Timeout: 5 * time.Second,
	})
	return a.(*httpServerAdapter)
}

// signTestToken issues an HS256 token carrying the sub/org claims the adapter
// extracts after authentication.
func signTestToken(t *testing.T, userID, orgID int64) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"org": orgID,
		"iss": "go-record-sync-test",
	}).SignedString([]byte("test-sign-key"))
	require.NoError(t, err)
	return signed
}

// ── Register / Login ────────────────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	token := signTestToken(t, 42, 7)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/user/register", r.URL.Path)

		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.Register(context.Background(), models.User{Login: "alice", Name: "Alice"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, int64(7), got.OrganizationID)
	assert.Equal(t, token, a.Token())
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("login already exists"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Register(context.Background(), models.User{Login: "alice"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, a.Token())
}

func TestLogin_Success(t *testing.T) {
	token := signTestToken(t, 42, 7)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/login", r.URL.Path)
		w.Header().Set("Authorization", "Bearer "+token)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.Login(context.Background(), models.User{Login: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UserID)
	assert.NotEmpty(t, a.Token())
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid login/password"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.User{Login: "alice", Password: "wrong"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_MissingBearerHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.User{Login: "alice"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorization")
}

func TestLogin_GarbageToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer not-a-jwt")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.User{Login: "alice"})

	require.Error(t, err)
}

// ── Synchronize ─────────────────────────────────────────────────────────────

func TestSynchronize_Success(t *testing.T) {
	batch := models.SyncBatch{
		DeviceID: "device-1",
		UserID:   42,
		Operations: []models.SyncOperation{
			{ID: "op-1", EntityType: models.EntityTypeTask, EntityID: "task-a", Operation: models.OperationDelete},
		},
	}
	want := models.SyncResult{Success: true, OperationsApplied: 1}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sync", r.URL.Path)
		assert.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		mac := hmac.New(sha256.New, []byte("testhashkey"))
		mac.Write(body)
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), r.Header.Get("HashSHA256"))

		var got models.SyncBatch
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "device-1", got.DeviceID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("stored-token")

	got, err := a.Synchronize(context.Background(), batch)
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Equal(t, 1, got.OperationsApplied)
}

func TestSynchronize_InternalServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("storage unavailable"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Synchronize(context.Background(), models.SyncBatch{DeviceID: "device-1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternalServerError)
}

func TestSynchronize_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Synchronize(context.Background(), models.SyncBatch{DeviceID: "device-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode synchronize response")
}

// ── PendingConflicts ────────────────────────────────────────────────────────

func TestPendingConflicts_Success(t *testing.T) {
	want := []models.SyncConflict{
		{ID: "c-1", EntityType: models.EntityTypeTask, EntityID: "task-a", ConflictType: models.ConflictVersion},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sync/conflicts", r.URL.Path)
		assert.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("stored-token")

	got, err := a.PendingConflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].ID)
	assert.Equal(t, models.ConflictVersion, got[0].ConflictType)
}

func TestPendingConflicts_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.PendingConflicts(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── ResolveConflict ─────────────────────────────────────────────────────────

func TestResolveConflict_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sync/conflicts/c-1/resolve", r.URL.Path)

		var req models.ManualResolutionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.ChoiceLocal, req.Choice)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	err := a.ResolveConflict(context.Background(), models.ManualResolutionRequest{
		ConflictID: "c-1",
		Choice:     models.ChoiceLocal,
	})

	require.NoError(t, err)
}

func TestResolveConflict_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("conflict not found"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	err := a.ResolveConflict(context.Background(), models.ManualResolutionRequest{ConflictID: "missing"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Stats ───────────────────────────────────────────────────────────────────

func TestStats_Success(t *testing.T) {
	want := models.SyncStats{PendingConflicts: 3, ProcessingRate: 12.5, ErrorRate: 0.1}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, got.PendingConflicts)
	assert.InDelta(t, 12.5, got.ProcessingRate, 1e-9)
}

// ── Token handling and error mapping ────────────────────────────────────────

func TestSetToken_TrimsWhitespace(t *testing.T) {
	a := newTestAdapter(t, "http://localhost:1")
	a.SetToken("  token-value \n")
	assert.Equal(t, "token-value", a.Token())
}

func TestParseBearerToken(t *testing.T) {
	token, err := parseBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = parseBearerToken("abc")
	require.Error(t, err)

	_, err = parseBearerToken("Bearer ")
	require.Error(t, err)
}

func TestMapHTTPError_UnmappedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Stats(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 418")
}
