package service

import (
	"context"
	"errors"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
)

// Session gives read and clear access to the persisted session token.
type Session struct {
	store TokenStore
}

// NewSession creates a Session over the given store.
func NewSession(store TokenStore) *Session {
	return &Session{store: store}
}

// Token returns the stored token. ok is false when no token is stored.
func (s *Session) Token(ctx context.Context) (token string, ok bool, err error) {
	token, err = s.store.Get(ctx, domain.TokenKey)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, token != "", nil
}

// Logout removes the stored token. Clearing an absent token is not an error.
func (s *Session) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx, domain.TokenKey)
	if err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		return err
	}
	return nil
}
