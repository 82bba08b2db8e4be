package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/forecast-rugby/internal/model"
	"github.com/sells-group/forecast-rugby/internal/store"
	"github.com/sells-group/forecast-rugby/pkg/scorecast"
)

// --- Fetcher Mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goquery.Document), args.Error(1)
}

// --- Scorecast Mock ---

type mockScorecast struct {
	mock.Mock
}

func (m *mockScorecast) Login(ctx context.Context, creds scorecast.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *mockScorecast) Games(ctx context.Context, token string, q scorecast.GamesQuery) ([]scorecast.Game, error) {
	args := m.Called(ctx, token, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scorecast.Game), args.Error(1)
}

func (m *mockScorecast) SaveForecasts(ctx context.Context, token string, forecasts []*scorecast.Forecast) error {
	args := m.Called(ctx, token, forecasts)
	return args.Error(0)
}

// --- Token Mock ---

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateRun(ctx context.Context) (*model.Run, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) CompleteRun(ctx context.Context, runID string, status model.RunStatus, result *model.RunResult) error {
	return m.Called(ctx, runID, status, result).Error(0)
}

func (m *mockStore) FailRun(ctx context.Context, runID string, msg string, category model.ErrorCategory) error {
	return m.Called(ctx, runID, msg, category).Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockStore) Close() error                      { return m.Called().Error(0) }

// --- Fixtures ---

// spread is one point-spread market: team label, point, more and less ratings.
type spread struct {
	team              string
	point, more, less string
}

func matchPage(t *testing.T, spreads ...spread) *goquery.Document {
	t.Helper()
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, s := range spreads {
		rating := func(v string) string {
			return `<div><span>x</span><div><p><span>` + v + `</span></p></div></div>`
		}
		fmt.Fprintf(&b, `<div><div><span class="psel-title-market__label">Plus / Moins Point(s) - %s %s - 80 mins</span></div>`, s.team, s.point)
		b.WriteString(`<div><div><div><div>` + rating(s.more) + rating(s.less) + `</div></div></div></div></div>`)
	}
	b.WriteString("</body></html>")
	return parseHTML(t, b.String())
}

func parseHTML(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func listingPage(t *testing.T, hrefs ...string) *goquery.Document {
	t.Helper()
	var b strings.Builder
	b.WriteString("<html><body><nav><a href=\"/paris-rugby\">rugby</a></nav>")
	for _, h := range hrefs {
		fmt.Fprintf(&b, `<a href="%s">match</a>`, h)
	}
	b.WriteString("</body></html>")
	return parseHTML(t, b.String())
}

var (
	france = model.TeamIdentity{Source: "france", Destination: "France"}
	italie = model.TeamIdentity{Source: "italie", Destination: "Italy"}
	galles = model.TeamIdentity{Source: "galles", Destination: "Wales"}
)

func strPtr(s string) *string { return &s }
