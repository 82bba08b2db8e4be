// Package pipeline runs the forecast flow: discover matches on the betting
// site, predict each one, then reconcile the predictions with Scorecast.
package pipeline

import (
	"context"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/forecast-rugby/internal/fetcher"
	"github.com/sells-group/forecast-rugby/internal/forecast"
	"github.com/sells-group/forecast-rugby/internal/model"
	"github.com/sells-group/forecast-rugby/internal/resilience"
	"github.com/sells-group/forecast-rugby/internal/store"
	"github.com/sells-group/forecast-rugby/pkg/scorecast"
)

// DefaultTimeout bounds a whole run.
const DefaultTimeout = 20 * time.Second

// TokenProvider supplies the Scorecast bearer token for a run.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Options configures a Runner.
type Options struct {
	BaseURL *url.URL
	Teams   []model.TeamIdentity
	Games   scorecast.GamesQuery
	Timeout time.Duration
}

// Runner executes and records forecast runs.
type Runner struct {
	fetcher   fetcher.Fetcher
	predictor *Predictor
	scorecast scorecast.Client
	tokens    TokenProvider
	store     store.Store
	opts      Options
}

// NewRunner creates a Runner with all dependencies.
func NewRunner(f fetcher.Fetcher, sc scorecast.Client, tokens TokenProvider, st store.Store, opts Options) *Runner {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Games.Status == "" {
		opts.Games = scorecast.DefaultGamesQuery()
	}
	if st == nil {
		st = store.NopStore{}
	}
	return &Runner{
		fetcher:   f,
		predictor: NewPredictor(f, nil),
		scorecast: sc,
		tokens:    tokens,
		store:     st,
		opts:      opts,
	}
}

// Run executes the pipeline once and records it. With dryRun set the
// forecasts are computed and reported but not saved. The returned run
// is populated even when err is non-nil.
func (r *Runner) Run(ctx context.Context, dryRun bool) (*model.Run, error) {
	run, err := r.store.CreateRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	log := zap.L().With(zap.String("run_id", run.ID))
	log.Info("pipeline: starting run", zap.Bool("dry_run", dryRun))
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	result, status, runErr := r.execute(runCtx, dryRun)

	// Record the outcome even if the run context expired.
	recordCtx := context.WithoutCancel(ctx)
	if runErr != nil {
		category := resilience.Classify(runErr)
		log.Error("pipeline: run failed",
			zap.String("category", string(category)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(runErr),
		)
		if err := r.store.FailRun(recordCtx, run.ID, runErr.Error(), category); err != nil {
			log.Warn("pipeline: failed to record run failure", zap.Error(err))
		}
		run.Status = model.RunStatusFailed
		run.Error = runErr.Error()
		run.ErrorCategory = category
		run.Result = result
		return run, runErr
	}

	if err := r.store.CompleteRun(recordCtx, run.ID, status, result); err != nil {
		log.Warn("pipeline: failed to record run result", zap.Error(err))
	}
	run.Status = status
	run.Result = result
	log.Info("pipeline: run complete",
		zap.String("status", string(status)),
		zap.Int("forecasts", len(result.Forecasts)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return run, nil
}

func (r *Runner) execute(ctx context.Context, dryRun bool) (*model.RunResult, model.RunStatus, error) {
	result := &model.RunResult{DryRun: dryRun}

	matches, err := Discover(ctx, r.fetcher, r.opts.BaseURL, r.opts.Teams)
	if err != nil {
		return result, "", err
	}
	result.Matches = len(matches)

	predictions, err := r.predictor.PredictAll(ctx, matches)
	if err != nil {
		return result, "", err
	}
	result.Abstained = len(matches) - len(predictions)
	for _, p := range predictions {
		result.Predictions = append(result.Predictions, model.Summarize(p))
	}

	if len(predictions) == 0 {
		zap.L().Info("pipeline: nothing to do")
		return result, model.RunStatusSkipped, nil
	}

	token, err := r.tokens.Token(ctx)
	if err != nil {
		return result, "", err
	}

	games, err := r.scorecast.Games(ctx, token, r.opts.Games)
	if err != nil {
		return result, "", err
	}

	mapped, unmatched := forecast.MatchGames(predictions, games)
	result.Unmatched = unmatched

	forecasts, err := forecast.ComposeAll(mapped)
	if err != nil {
		return result, "", err
	}
	forecast.Report(forecasts, mapped)

	for _, f := range forecasts {
		if f == nil {
			result.Unchanged++
			continue
		}
		result.Forecasts = append(result.Forecasts, *f)
	}

	switch {
	case dryRun:
		zap.L().Info("pipeline: dry run, not saving forecasts", zap.Int("forecasts", len(result.Forecasts)))
	case len(result.Forecasts) > 0:
		if err := r.scorecast.SaveForecasts(ctx, token, forecasts); err != nil {
			return result, "", err
		}
		result.Submitted = true
		zap.L().Info("pipeline: saved forecasts", zap.Int("forecasts", len(result.Forecasts)))
	}

	return result, model.RunStatusComplete, nil
}
