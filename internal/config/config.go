package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/forecast-rugby/internal/model"
	"github.com/sells-group/forecast-rugby/pkg/scorecast"
)

// Config holds the full application configuration.
type Config struct {
	Log       LogConfig            `yaml:"log" mapstructure:"log"`
	Source    SourceConfig         `yaml:"source" mapstructure:"source"`
	Scorecast ScorecastConfig      `yaml:"scorecast" mapstructure:"scorecast"`
	Run       RunConfig            `yaml:"run" mapstructure:"run"`
	Store     StoreConfig          `yaml:"store" mapstructure:"store"`
	Server    ServerConfig         `yaml:"server" mapstructure:"server"`
	Countries []model.TeamIdentity `yaml:"countries" mapstructure:"countries"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SourceConfig configures the betting site.
type SourceConfig struct {
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Render            string  `yaml:"render" mapstructure:"render"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// Timeout returns the per-request timeout.
func (c SourceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ScorecastConfig holds Scorecast credentials and API routes.
type ScorecastConfig struct {
	Username           string `yaml:"username" mapstructure:"username"`
	Password           string `yaml:"password" mapstructure:"password"`
	Device             string `yaml:"device" mapstructure:"device"`
	TokenCachePath     string `yaml:"token_cache_path" mapstructure:"token_cache_path"`
	BaseURL            string `yaml:"base_url" mapstructure:"base_url"`
	AuthRoute          string `yaml:"auth_route" mapstructure:"auth_route"`
	ForecastReadRoute  string `yaml:"forecast_read_route" mapstructure:"forecast_read_route"`
	ForecastWriteRoute string `yaml:"forecast_write_route" mapstructure:"forecast_write_route"`
	GamesTake          int    `yaml:"games_take" mapstructure:"games_take"`
}

// Routes returns the API routes for the client.
func (c ScorecastConfig) Routes() scorecast.Routes {
	return scorecast.Routes{
		Auth:          c.AuthRoute,
		ForecastRead:  c.ForecastReadRoute,
		ForecastWrite: c.ForecastWriteRoute,
	}
}

// Credentials returns the login payload.
func (c ScorecastConfig) Credentials() scorecast.Credentials {
	return scorecast.Credentials{Login: c.Username, Password: c.Password, Device: c.Device}
}

// GamesQuery returns the query used to list upcoming games.
func (c ScorecastConfig) GamesQuery() scorecast.GamesQuery {
	q := scorecast.DefaultGamesQuery()
	if c.GamesTake > 0 {
		q.Take = c.GamesTake
	}
	return q
}

// RunConfig bounds a pipeline run.
type RunConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the overall run timeout.
func (c RunConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the status API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// Load reads config.toml from the working directory or the nearest parent
// that has one, then applies FORECAST_* environment overrides. A missing
// file is not an error.
func Load() (*Config, error) {
	v := newViper()

	dir, err := os.Getwd()
	if err != nil {
		return nil, eris.Wrap(err, "config: get working directory")
	}
	for {
		v.AddConfigPath(dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return read(v)
}

// LoadFile reads the config from an explicit path.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	return read(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("toml")

	// Environment
	v.SetEnvPrefix("FORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("source.user_agent", "")
	v.SetDefault("source.timeout_secs", 30)
	v.SetDefault("source.render", "http")
	v.SetDefault("source.requests_per_second", 5)
	v.SetDefault("source.burst", 5)
	v.SetDefault("scorecast.token_cache_path", ".scorecast_token")
	v.SetDefault("scorecast.games_take", 10)
	v.SetDefault("run.timeout_secs", 20)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "forecast.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})

	// Keys without defaults are only bound from the environment if named.
	for _, key := range []string{
		"source.base_url",
		"scorecast.username",
		"scorecast.password",
		"scorecast.device",
		"scorecast.base_url",
		"scorecast.auth_route",
		"scorecast.forecast_read_route",
		"scorecast.forecast_write_route",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

const legacySourceURLKey = "fdj.base_url"

func read(v *viper.Viper) (*Config, error) {
	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	} else {
		zap.L().Debug("config: loaded file", zap.String("path", v.ConfigFileUsed()))
	}

	// Older config files name the betting site [fdj].
	if !v.IsSet("source.base_url") && v.IsSet(legacySourceURLKey) {
		v.Set("source.base_url", v.GetString(legacySourceURLKey))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a run needs.
func (c *Config) Validate() error {
	if err := requireURL("source.base_url", c.Source.BaseURL); err != nil {
		return err
	}
	if err := requireURL("scorecast.base_url", c.Scorecast.BaseURL); err != nil {
		return err
	}
	required := map[string]string{
		"scorecast.username":             c.Scorecast.Username,
		"scorecast.password":             c.Scorecast.Password,
		"scorecast.device":               c.Scorecast.Device,
		"scorecast.auth_route":           c.Scorecast.AuthRoute,
		"scorecast.forecast_read_route":  c.Scorecast.ForecastReadRoute,
		"scorecast.forecast_write_route": c.Scorecast.ForecastWriteRoute,
	}
	for key, val := range required {
		if val == "" {
			return eris.Errorf("config: %s is required", key)
		}
	}

	switch c.Source.Render {
	case "http", "browser":
	default:
		return eris.Errorf("config: source.render must be http or browser, got %q", c.Source.Render)
	}
	switch c.Store.Driver {
	case "sqlite", "postgres", "none":
	default:
		return eris.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}

	if len(c.Countries) == 0 {
		return eris.New("config: at least one [[countries]] entry is required")
	}
	seen := make(map[string]bool, len(c.Countries))
	for _, t := range c.Countries {
		if t.Source == "" || t.Destination == "" {
			return eris.Errorf("config: country entry needs both fdj and scorecast names: %+v", t)
		}
		if seen[t.Source] {
			return eris.Errorf("config: duplicate fdj country %q", t.Source)
		}
		seen[t.Source] = true
	}
	return nil
}

func requireURL(key, raw string) error {
	if raw == "" {
		return eris.Errorf("config: %s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return eris.Wrapf(err, "config: parse %s", key)
	}
	if u.Scheme == "" || u.Host == "" {
		return eris.Errorf("config: %s must be an absolute URL, got %q", key, raw)
	}
	return nil
}

// InitLogger configures the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
