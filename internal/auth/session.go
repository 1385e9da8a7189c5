package auth

import (
	"context"
	"fmt"
	"sync"

	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/storage"

	"go.uber.org/zap"
)

// Session is the read side of the visitor's login state.
type Session interface {
	Token(ctx context.Context) string
	IsAuthenticated(ctx context.Context) bool
}

// TokenStore keeps the remote-issued token under storage.KeyUserToken.
type TokenStore struct {
	mu sync.RWMutex
	kv storage.Store
}

func NewTokenStore(kv storage.Store) *TokenStore {
	return &TokenStore{kv: kv}
}

// Token returns the stored token or "" when there is none or it cannot be read.
func (s *TokenStore) Token(ctx context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var token string
	if _, err := s.kv.Get(ctx, storage.KeyUserToken, &token); err != nil {
		logger.FromCtx(ctx).Warn("failed to read session token",
			zap.String("layer", "auth"),
			zap.Error(err),
		)
		return ""
	}
	return token
}

func (s *TokenStore) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, storage.KeyUserToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, storage.KeyUserToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// UserID is the id of the logged-in user: the cached profile's _id when the
// remote sent one, else the id in the token payload.
func (s *TokenStore) UserID(ctx context.Context) string {
	token := s.Token(ctx)
	if token == "" {
		return ""
	}

	var cached struct {
		ID string `json:"_id"`
	}
	if _, err := s.kv.Get(ctx, storage.KeyUserInfo, &cached); err == nil && cached.ID != "" {
		return cached.ID
	}

	id, err := UserIDFromToken(token)
	if err != nil {
		logger.FromCtx(ctx).Warn("token payload has no user id",
			zap.String("layer", "auth"),
			zap.Error(err),
		)
		return ""
	}
	return id
}
