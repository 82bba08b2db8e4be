package main

import (
	"context"
	"encoding/json"
	"net/url"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/forecast-rugby/internal/config"
	"github.com/sells-group/forecast-rugby/internal/fetcher"
	"github.com/sells-group/forecast-rugby/internal/pipeline"
	"github.com/sells-group/forecast-rugby/internal/store"
	"github.com/sells-group/forecast-rugby/pkg/scorecast"
)

var runDryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the forecast pipeline once",
	Long:  "Discovers upcoming matches, predicts each from its point-spread markets, and saves the changed forecasts to Scorecast.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		run, runErr := env.Runner.Run(ctx, runDryRun)
		if run != nil {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(run); err != nil {
				return eris.Wrap(err, "run: encode result")
			}
		}
		return runErr
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "compute and report forecasts without saving them")
	rootCmd.AddCommand(runCmd)
}

// pipelineEnv holds everything a run needs.
type pipelineEnv struct {
	Runner *pipeline.Runner
	Store  store.Store
}

// Close releases the store.
func (e *pipelineEnv) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
}

// initPipeline validates the config and wires the fetcher, the Scorecast
// client, the token source and the run store into a Runner.
func initPipeline(ctx context.Context, c *config.Config) (*pipelineEnv, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(c.Source.BaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "parse source base url")
	}

	st, err := initStore(ctx, c.Store)
	if err != nil {
		return nil, err
	}

	client := scorecast.NewClient(c.Scorecast.BaseURL, c.Scorecast.Routes())
	var cache *scorecast.TokenCache
	if c.Scorecast.TokenCachePath != "" {
		cache = scorecast.NewTokenCache(c.Scorecast.TokenCachePath)
	}
	tokens := scorecast.NewTokenSource(client, cache, c.Scorecast.Credentials())

	runner := pipeline.NewRunner(newFetcher(c.Source), client, tokens, st, pipeline.Options{
		BaseURL: base,
		Teams:   c.Countries,
		Games:   c.Scorecast.GamesQuery(),
		Timeout: c.Run.Timeout(),
	})

	return &pipelineEnv{Runner: runner, Store: st}, nil
}

func newFetcher(sc config.SourceConfig) fetcher.Fetcher {
	if sc.Render == "browser" {
		return fetcher.NewBrowserFetcher(fetcher.BrowserOptions{
			UserAgent: sc.UserAgent,
			Timeout:   sc.Timeout(),
		})
	}
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:         sc.UserAgent,
		Timeout:           sc.Timeout(),
		RequestsPerSecond: sc.RequestsPerSecond,
		Burst:             sc.Burst,
	})
}
