package store

import (
	"context"
	"encoding/json"
)

// Storage keys. TokenKey is the single canonical slot for the bearer token;
// LegacySessionKey is the pre-redesign blob that carried its own token copy
// and is now read-only.
const (
	TokenKey         = "authToken"
	SessionKey       = "session"
	LegacySessionKey = "auth-storage"
)

// TokenStore is the one accessor for the persisted bearer token, shared by
// the HTTP transport and the session container so the two can never observe
// different values.
type TokenStore struct {
	meta Metadata
}

func NewTokenStore(meta Metadata) *TokenStore {
	return &TokenStore{meta: meta}
}

// Token returns the stored token, or "" when none is stored. Databases
// written before the single-key layout kept the token inside a persisted
// session blob; that shape is still understood as a read-only fallback.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	value, err := s.meta.Get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	if len(value) > 0 {
		return string(value), nil
	}

	blob, err := s.meta.Get(ctx, LegacySessionKey)
	if err != nil || len(blob) == 0 {
		return "", err
	}
	var legacy struct {
		State struct {
			Token string `json:"token"`
		} `json:"state"`
	}
	if err := json.Unmarshal(blob, &legacy); err != nil {
		// Unreadable legacy blob counts as no token.
		return "", nil
	}
	return legacy.State.Token, nil
}

// SetToken stores token under the canonical key.
func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	return s.meta.Set(ctx, TokenKey, []byte(token))
}

// RemoveToken deletes the token and any legacy blob still carrying one.
func (s *TokenStore) RemoveToken(ctx context.Context) error {
	if err := s.meta.Delete(ctx, TokenKey); err != nil {
		return err
	}
	return s.meta.Delete(ctx, LegacySessionKey)
}
