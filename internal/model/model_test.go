package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatusValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status RunStatus
		want   string
	}{
		{RunStatusRunning, "running"},
		{RunStatusComplete, "complete"},
		{RunStatusSkipped, "skipped"},
		{RunStatusFailed, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.status))
		})
	}
}

func TestPredictionWinner(t *testing.T) {
	t.Parallel()

	m := Match{
		SourceURL: "https://example.test/rugby/france-vs-irlande",
		Team1:     TeamIdentity{Source: "france", Destination: "France"},
		Team2:     TeamIdentity{Source: "irlande", Destination: "Ireland"},
	}

	assert.Equal(t, "France", Prediction{Match: m, Team1IsWinning: true}.Winner().Destination)
	assert.Equal(t, "Ireland", Prediction{Match: m, Team1IsWinning: false}.Winner().Destination)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	p := Prediction{
		Match: Match{
			SourceURL: "https://example.test/rugby/france-vs-irlande",
			Team1:     TeamIdentity{Source: "france", Destination: "France"},
			Team2:     TeamIdentity{Source: "irlande", Destination: "Ireland"},
		},
		Team1IsWinning: false,
		Margin:         6.5,
	}

	got := Summarize(p)
	assert.Equal(t, PredictionSummary{
		SourceURL: "https://example.test/rugby/france-vs-irlande",
		Team1:     "France",
		Team2:     "Ireland",
		Winner:    "Ireland",
		Margin:    6.5,
	}, got)
}
