package forecast

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/forecast-rugby/pkg/scorecast"
)

// Distance is how far margin lies outside the closed interval, 0 if inside.
func Distance(margin float64, iv scorecast.DiffInterval) float64 {
	from, to := float64(iv.From), float64(iv.To)
	if from <= margin && margin <= to {
		return 0
	}
	return math.Min(math.Abs(from-margin), math.Abs(to-margin))
}

// SelectInterval returns the interval closest to margin. Ties go to the
// earliest interval.
func SelectInterval(margin float64, intervals []scorecast.DiffInterval) (scorecast.DiffInterval, error) {
	if len(intervals) == 0 {
		return scorecast.DiffInterval{}, eris.New("forecast: game has no score intervals")
	}
	best, bestDist := intervals[0], Distance(margin, intervals[0])
	for _, iv := range intervals[1:] {
		if d := Distance(margin, iv); d < bestDist {
			best, bestDist = iv, d
		}
	}
	return best, nil
}

// Compose builds the forecast for a mapped prediction. It returns nil when
// the game already holds an identical forecast.
func Compose(m Mapped) (*scorecast.Forecast, error) {
	iv, err := SelectInterval(m.Prediction.Margin, m.Game.DiffIntervals)
	if err != nil {
		return nil, eris.Wrapf(err, "forecast: game %s", m.Game.ID)
	}

	winner := m.Game.Competitor2
	if m.Prediction.Team1IsWinning != m.Reversed {
		winner = m.Game.Competitor1
	}
	winnerID := winner.ID

	f := &scorecast.Forecast{
		GameID:   m.Game.ID,
		WinnerID: &winnerID,
		Score1:   iv.From,
		Score2:   iv.To,
	}
	if f.Equal(m.Game.UserForecast) {
		return nil, nil
	}
	return f, nil
}

// ComposeAll composes every mapped prediction. The result is positional:
// entry i is nil when mapped[i] needs no change.
func ComposeAll(mapped []Mapped) ([]*scorecast.Forecast, error) {
	out := make([]*scorecast.Forecast, len(mapped))
	for i, m := range mapped {
		f, err := Compose(m)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
