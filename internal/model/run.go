package model

import (
	"time"

	"github.com/sells-group/forecast-rugby/pkg/scorecast"
)

// RunStatus represents the current state of a forecast run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusSkipped  RunStatus = "skipped" // nothing to predict or submit
	RunStatusFailed   RunStatus = "failed"
)

// ErrorCategory classifies why a run failed.
type ErrorCategory string

const (
	ErrorCategoryResolution     ErrorCategory = "resolution"
	ErrorCategoryUpstreamStatus ErrorCategory = "upstream_status"
	ErrorCategoryNetwork        ErrorCategory = "network"
	ErrorCategoryCanceled       ErrorCategory = "canceled"
	ErrorCategoryInternal       ErrorCategory = "internal"
)

// Run is a single execution of the forecast pipeline.
type Run struct {
	ID            string        `json:"id" yaml:"id"`
	Status        RunStatus     `json:"status" yaml:"status"`
	Result        *RunResult    `json:"result,omitempty" yaml:"result,omitempty"`
	Error         string        `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCategory ErrorCategory `json:"error_category,omitempty" yaml:"error_category,omitempty"`
	CreatedAt     time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" yaml:"updated_at"`
}

// PredictionSummary is the stored form of a Prediction.
type PredictionSummary struct {
	SourceURL string  `json:"source_url" yaml:"source_url"`
	Team1     string  `json:"team1" yaml:"team1"`
	Team2     string  `json:"team2" yaml:"team2"`
	Winner    string  `json:"winner" yaml:"winner"`
	Margin    float64 `json:"margin" yaml:"margin"`
}

// Summarize converts a Prediction to its stored form using destination names.
func Summarize(p Prediction) PredictionSummary {
	return PredictionSummary{
		SourceURL: p.Match.SourceURL,
		Team1:     p.Match.Team1.Destination,
		Team2:     p.Match.Team2.Destination,
		Winner:    p.Winner().Destination,
		Margin:    p.Margin,
	}
}

// RunResult holds the outcome of a run.
type RunResult struct {
	Matches     int                  `json:"matches" yaml:"matches"`
	Predictions []PredictionSummary  `json:"predictions" yaml:"predictions"`
	Abstained   int                  `json:"abstained" yaml:"abstained"`
	Unmatched   []string             `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
	Forecasts   []scorecast.Forecast `json:"forecasts" yaml:"forecasts"`
	Unchanged   int                  `json:"unchanged" yaml:"unchanged"`
	Submitted   bool                 `json:"submitted" yaml:"submitted"`
	DryRun      bool                 `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}
