package scorecast

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// TokenSource returns a bearer token, reusing the cached one while it is
// valid and logging in otherwise.
type TokenSource struct {
	client Client
	cache  *TokenCache
	creds  Credentials
}

// NewTokenSource creates a TokenSource. A nil cache disables caching.
func NewTokenSource(client Client, cache *TokenCache, creds Credentials) *TokenSource {
	return &TokenSource{client: client, cache: cache, creds: creds}
}

// Token returns a usable bearer token.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if s.cache != nil {
		token, err := s.cache.Load()
		if err != nil {
			return "", err
		}
		if token != "" {
			zap.L().Info("already logged in to scorecast")
			return token, nil
		}
	}

	zap.L().Info("logging in to scorecast", zap.String("login", s.creds.Login))

	token, err := s.client.Login(ctx, s.creds)
	if err != nil {
		return "", eris.Wrap(err, "scorecast: get token")
	}

	if s.cache != nil {
		if err := s.cache.Save(token); err != nil {
			return "", err
		}
	}
	return token, nil
}
