package scorecast

import (
	"encoding/json"
	"errors"
	"io/fs"
	"math"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
)

// ExpiryMargin is how long a cached token must still be valid to be reused.
const ExpiryMargin = time.Minute

// TokenCache persists a bearer token to a file.
type TokenCache struct {
	Path string
	Now  func() time.Time
}

// NewTokenCache creates a TokenCache on path using the wall clock.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{Path: path, Now: time.Now}
}

func (c *TokenCache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Load returns the cached token, or "" with a nil error when there is no
// usable token: missing file, malformed token, or expiry within ExpiryMargin.
func (c *TokenCache) Load() (string, error) {
	data, err := os.ReadFile(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "scorecast: read token cache %s", c.Path)
	}

	token := strings.TrimSpace(string(data))
	exp, ok := TokenExpiry(token)
	if !ok {
		return "", nil
	}
	if exp.Before(c.now().Add(ExpiryMargin)) {
		return "", nil
	}
	return token, nil
}

// Save writes token to the cache file.
func (c *TokenCache) Save(token string) error {
	if err := os.WriteFile(c.Path, []byte(token+"\n"), 0o600); err != nil {
		return eris.Wrapf(err, "scorecast: write token cache %s", c.Path)
	}
	return nil
}

// maxExpSeconds is the largest exp that still converts to a time.Time.
const maxExpSeconds = float64(math.MaxInt64 / int64(time.Second))

// TokenExpiry reads the exp claim of a bearer token. It does not verify the
// signature. An exp too large in either direction to be a real instant is
// rejected.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser(jwt.WithPaddingAllowed()).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	var raw float64
	switch v := claims["exp"].(type) {
	case float64:
		raw = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		raw = f
	default:
		return time.Time{}, false
	}
	if math.IsNaN(raw) || math.Abs(raw) > maxExpSeconds {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
