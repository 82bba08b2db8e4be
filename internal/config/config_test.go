package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/forecast-rugby/internal/model"
	"github.com/sells-group/forecast-rugby/pkg/scorecast"
)

const sampleTOML = `
[log]
level = "debug"
format = "console"

[source]
base_url = "https://www.enligne.parionssport.fdj.fr/paris-rugby"
render = "browser"
requests_per_second = 2.5

[scorecast]
username = "me@example.com"
password = "secret"
device = "cli"
base_url = "https://api.scorecast.test/"
auth_route = "/auth/login"
forecast_read_route = "/games"
forecast_write_route = "/forecasts"

[run]
timeout_secs = 45

[store]
driver = "none"

[[countries]]
fdj = "france"
scorecast = "France"

[[countries]]
fdj = "nouvelle-zelande"
scorecast = "New Zealand"
`

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.toml is found
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "forecast.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "http", cfg.Source.Render)
	assert.Empty(t, cfg.Source.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout())
	assert.InDelta(t, 5, cfg.Source.RequestsPerSecond, 0.001)
	assert.Equal(t, 5, cfg.Source.Burst)
	assert.Equal(t, ".scorecast_token", cfg.Scorecast.TokenCachePath)
	assert.Equal(t, 20*time.Second, cfg.Run.Timeout())
	assert.Empty(t, cfg.Countries)
}

func TestLoadFromTOML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(sampleTOML), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "browser", cfg.Source.Render)
	assert.InDelta(t, 2.5, cfg.Source.RequestsPerSecond, 0.001)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, 45*time.Second, cfg.Run.Timeout())
	assert.Equal(t, []model.TeamIdentity{
		{Source: "france", Destination: "France"},
		{Source: "nouvelle-zelande", Destination: "New Zealand"},
	}, cfg.Countries)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Source.TimeoutSecs)
	require.NoError(t, cfg.Validate())
}

func TestLoadWalksUpToParent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.toml"), []byte(sampleTOML), 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", cfg.Scorecast.Username)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(sampleTOML), 0o644))

	t.Setenv("FORECAST_SCORECAST_PASSWORD", "from-env")
	t.Setenv("FORECAST_RUN_TIMEOUT_SECS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Scorecast.Password)
	assert.Equal(t, 5*time.Second, cfg.Run.Timeout())
}

func TestLoadEnvWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FORECAST_SOURCE_BASE_URL", "https://fdj.test/rugby")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://fdj.test/rugby", cfg.Source.BaseURL)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cli", cfg.Scorecast.Device)
}

const legacyTOML = `
[fdj]
base_url = "https://www.enligne.parionssport.fdj.fr/paris-rugby"

[scorecast]
username = "me@example.com"
password = "secret"
device = "cli"
token_cache_path = ".token"
base_url = "https://api.scorecast.test/"
auth_route = "/auth/login"
forecast_read_route = "/games"
forecast_write_route = "/forecasts"

[[countries]]
scorecast = "France"
fdj = "france"
`

func TestLoadFile_LegacyFDJSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(legacyTOML), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://www.enligne.parionssport.fdj.fr/paris-rugby", cfg.Source.BaseURL)
	assert.Equal(t, ".token", cfg.Scorecast.TokenCachePath)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_SourceWinsOverLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := legacyTOML + "\n[source]\nbase_url = \"https://fdj.test/rugby\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://fdj.test/rugby", cfg.Source.BaseURL)
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log\nlevel = "), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestScorecastHelpers(t *testing.T) {
	c := ScorecastConfig{
		Username:           "u",
		Password:           "p",
		Device:             "d",
		AuthRoute:          "/a",
		ForecastReadRoute:  "/r",
		ForecastWriteRoute: "/w",
	}
	assert.Equal(t, scorecast.Routes{Auth: "/a", ForecastRead: "/r", ForecastWrite: "/w"}, c.Routes())
	assert.Equal(t, scorecast.Credentials{Login: "u", Password: "p", Device: "d"}, c.Credentials())
	assert.Equal(t, scorecast.DefaultGamesQuery(), c.GamesQuery())

	c.GamesTake = 25
	assert.Equal(t, 25, c.GamesQuery().Take)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing source url", mutate: func(c *Config) { c.Source.BaseURL = "" }, wantErr: "source.base_url is required"},
		{name: "relative source url", mutate: func(c *Config) { c.Source.BaseURL = "/rugby" }, wantErr: "absolute URL"},
		{name: "missing scorecast url", mutate: func(c *Config) { c.Scorecast.BaseURL = "" }, wantErr: "scorecast.base_url"},
		{name: "missing password", mutate: func(c *Config) { c.Scorecast.Password = "" }, wantErr: "scorecast.password"},
		{name: "missing write route", mutate: func(c *Config) { c.Scorecast.ForecastWriteRoute = "" }, wantErr: "forecast_write_route"},
		{name: "bad render", mutate: func(c *Config) { c.Source.Render = "curl" }, wantErr: "source.render"},
		{name: "bad driver", mutate: func(c *Config) { c.Store.Driver = "mysql" }, wantErr: "store.driver"},
		{name: "no countries", mutate: func(c *Config) { c.Countries = nil }, wantErr: "countries"},
		{
			name: "duplicate fdj name",
			mutate: func(c *Config) {
				c.Countries = append(c.Countries, model.TeamIdentity{Source: "france", Destination: "Les Bleus"})
			},
			wantErr: `duplicate fdj country "france"`,
		},
		{
			name:    "half country entry",
			mutate:  func(c *Config) { c.Countries = append(c.Countries, model.TeamIdentity{Source: "tonga"}) },
			wantErr: "needs both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))

	err := InitLogger(LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
