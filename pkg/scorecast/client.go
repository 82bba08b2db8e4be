// Package scorecast provides a client for the Scorecast prediction game API.
package scorecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the Scorecast operations used by the forecast pipeline.
type Client interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, creds Credentials) (string, error)
	// Games lists upcoming games, oldest first.
	Games(ctx context.Context, token string, q GamesQuery) ([]Game, error)
	// SaveForecasts replaces the user's forecasts with the non-nil entries.
	// An empty batch makes no request.
	SaveForecasts(ctx context.Context, token string, forecasts []*Forecast) error
}

// Routes holds the API paths appended to the base URL.
type Routes struct {
	Auth          string
	ForecastRead  string
	ForecastWrite string
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scorecast: unexpected status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLocale sets the locale header sent when listing games.
func WithLocale(locale string) Option {
	return func(c *httpClient) {
		c.locale = locale
	}
}

type httpClient struct {
	baseURL string
	routes  Routes
	locale  string
	http    *http.Client
}

// NewClient creates a Scorecast API client rooted at baseURL.
func NewClient(baseURL string, routes Routes, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		routes:  routes,
		locale:  "en",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scorecast: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "scorecast: read response")
	}

	if resp.StatusCode/100 != 2 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *httpClient) Login(ctx context.Context, creds Credentials) (string, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return "", eris.Wrap(err, "scorecast: marshal login")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.routes.Auth, bytes.NewReader(payload))
	if err != nil {
		return "", eris.Wrap(err, "scorecast: create login request")
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", eris.Wrap(err, "scorecast: login")
	}

	var out loginResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", eris.Wrap(err, "scorecast: unmarshal login response")
	}
	if out.AccessToken == "" {
		return "", eris.New("scorecast: login response has no access token")
	}
	return out.AccessToken, nil
}

func (c *httpClient) Games(ctx context.Context, token string, q GamesQuery) ([]Game, error) {
	params := url.Values{}
	params.Set("status", q.Status)
	params.Set("take", strconv.Itoa(q.Take))
	params.Set("skip", strconv.Itoa(q.Skip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.routes.ForecastRead+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "scorecast: create games request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("locale", c.locale)

	body, err := c.do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scorecast: games")
	}

	var games []Game
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, eris.Wrap(err, "scorecast: unmarshal games")
	}

	// The API lists newest first.
	slices.Reverse(games)
	return games, nil
}

func (c *httpClient) SaveForecasts(ctx context.Context, token string, forecasts []*Forecast) error {
	batch := saveRequest{Forecasts: make([]Forecast, 0, len(forecasts)), Sync: true}
	for _, f := range forecasts {
		if f != nil {
			batch.Forecasts = append(batch.Forecasts, *f)
		}
	}
	if len(batch.Forecasts) == 0 {
		return nil
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return eris.Wrap(err, "scorecast: marshal forecasts")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.routes.ForecastWrite, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "scorecast: create save request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	if _, err := c.do(req); err != nil {
		return eris.Wrap(err, "scorecast: save forecasts")
	}
	return nil
}
