package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-record-sync/models"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

// HTTPClientConfig configures the resty-based [ServerAdapter].
type HTTPClientConfig struct {
	BaseURL string
	HashKey string
	Timeout time.Duration
}

// httpServerAdapter is the HTTP/REST implementation of [ServerAdapter]. The
// bearer token is guarded by a mutex because the review console reads it from
// the UI goroutine while bubbletea commands refresh it concurrently.
type httpServerAdapter struct {
	client  *resty.Client
	hashKey string

	mu    sync.RWMutex
	token string
}

// NewHTTPServerAdapter constructs a [ServerAdapter] talking to the sync
// server over HTTP.
func NewHTTPServerAdapter(cfg HTTPClientConfig) ServerAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpServerAdapter{client: cli, hashKey: cfg.HashKey}
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.Token, error) {
	return h.authenticate(ctx, "/api/user/register", user)
}

func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.Token, error) {
	return h.authenticate(ctx, "/api/user/login", user)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, user models.User) (models.Token, error) {
	resp, err := h.bodyRequest(ctx, user).Post(path)
	if err != nil {
		return models.Token{}, fmt.Errorf("auth request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Token{}, fmt.Errorf("auth parse bearer token: %w", err)
	}
	userID, orgID, err := parseIdentityFromJWT(token)
	if err != nil {
		return models.Token{}, fmt.Errorf("auth parse token claims: %w", err)
	}

	h.SetToken(token)
	return models.Token{
		SignedString: token,
		UserID:       userID,
		TokenClaims:  models.TokenClaims{OrganizationID: orgID},
	}, nil
}

func (h *httpServerAdapter) Synchronize(ctx context.Context, batch models.SyncBatch) (models.SyncResult, error) {
	resp, err := h.bodyRequest(ctx, batch).Post("/api/sync")
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("synchronize request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResult{}, err
	}

	var result models.SyncResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.SyncResult{}, fmt.Errorf("decode synchronize response: %w", err)
	}

	return result, nil
}

func (h *httpServerAdapter) PendingConflicts(ctx context.Context) ([]models.SyncConflict, error) {
	resp, err := h.authedRequest(ctx).Get("/api/sync/conflicts")
	if err != nil {
		return nil, fmt.Errorf("pending conflicts request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var conflicts []models.SyncConflict
	if err = json.Unmarshal(resp.Body(), &conflicts); err != nil {
		return nil, fmt.Errorf("decode pending conflicts response: %w", err)
	}

	return conflicts, nil
}

func (h *httpServerAdapter) ResolveConflict(ctx context.Context, req models.ManualResolutionRequest) error {
	resp, err := h.bodyRequest(ctx, req).
		Post("/api/sync/conflicts/" + req.ConflictID + "/resolve")
	if err != nil {
		return fmt.Errorf("resolve conflict request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Stats(ctx context.Context) (models.SyncStats, error) {
	resp, err := h.authedRequest(ctx).Get("/api/sync/stats")
	if err != nil {
		return models.SyncStats{}, fmt.Errorf("stats request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncStats{}, err
	}

	var stats models.SyncStats
	if err = json.Unmarshal(resp.Body(), &stats); err != nil {
		return models.SyncStats{}, fmt.Errorf("decode stats response: %w", err)
	}

	return stats, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// bodyRequest prepares an authenticated JSON request and attaches the
// transport integrity hash header when a hash key is configured. The body is
// marshalled here so the header covers exactly the bytes sent.
func (h *httpServerAdapter) bodyRequest(ctx context.Context, body any) *resty.Request {
	req := h.authedRequest(ctx).SetHeader("Content-Type", "application/json")

	payload, err := json.Marshal(body)
	if err != nil {
		// resty will fail marshalling the same value; keep its error path
		return req.SetBody(body)
	}

	if h.hashKey != "" {
		req.SetHeader("HashSHA256", computeTransportHash(payload, h.hashKey))
	}

	return req.SetBody(payload)
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// parseIdentityFromJWT extracts the user ID ("sub") and organization ID
// ("org") claims without verifying the signature: the client only needs the
// identity for display and request shaping, verification is the server's job.
func parseIdentityFromJWT(tokenString string) (int64, int64, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return 0, 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, 0, err
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, 0, err
	}

	var orgID int64
	if org, ok := claims["org"].(float64); ok {
		orgID = int64(org)
	}

	return userID, orgID, nil
}

func computeTransportHash(payload []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
