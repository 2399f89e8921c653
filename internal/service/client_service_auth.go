package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-record-sync/internal/adapter"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/models"
)

// clientAuthService implements [ClientAuthService] on top of the server
// adapter. The adapter keeps the bearer token; this service additionally
// caches the decoded session identity for the UI and the offline queue.
type clientAuthService struct {
	server adapter.ServerAdapter
	logger *logger.Logger

	mu      sync.RWMutex
	session models.Token
}

// NewClientAuthService constructs a [ClientAuthService].
func NewClientAuthService(server adapter.ServerAdapter, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		server: server,
		logger: logger,
	}
}

func (s *clientAuthService) Register(ctx context.Context, login, password string) (models.Token, error) {
	if login == "" || password == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	token, err := s.server.Register(ctx, models.User{Login: login, Password: password})
	if err != nil {
		return models.Token{}, mapAdapterError(err)
	}

	s.storeSession(token)
	return token, nil
}

func (s *clientAuthService) Login(ctx context.Context, login, password string) (models.Token, error) {
	if login == "" || password == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	token, err := s.server.Login(ctx, models.User{Login: login, Password: password})
	if err != nil {
		return models.Token{}, mapAdapterError(err)
	}

	s.storeSession(token)
	return token, nil
}

func (s *clientAuthService) Session() models.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *clientAuthService) storeSession(token models.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = token
}
