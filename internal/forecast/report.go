package forecast

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/forecast-rugby/pkg/scorecast"
)

// Report logs what will change on each game. forecasts and mapped are
// parallel, as returned by ComposeAll.
func Report(forecasts []*scorecast.Forecast, mapped []Mapped) {
	log := zap.L()
	for i, m := range mapped {
		var f *scorecast.Forecast
		if i < len(forecasts) {
			f = forecasts[i]
		}
		g := m.Game
		game := zap.String("game", g.Competitor1.Name+" / "+g.Competitor2.Name)

		switch {
		case f == nil:
			log.Info("not changing forecast", game)
		case g.UserForecast != nil:
			log.Info("updating forecast", game,
				zap.String("prev_winner", WinnerName(g.UserForecast, g)),
				zap.String("prev_score", scoreLabel(g.UserForecast)),
				zap.String("winner", WinnerName(f, g)),
				zap.String("score", scoreLabel(f)),
			)
		default:
			log.Info("new forecast", game,
				zap.String("winner", WinnerName(f, g)),
				zap.String("score", scoreLabel(f)),
			)
		}
	}
}

// WinnerName resolves the forecast's winner against the game's competitors.
// A forecast without a winner reports "none".
func WinnerName(f *scorecast.Forecast, g scorecast.Game) string {
	if f == nil || f.WinnerID == nil {
		return "none"
	}
	if *f.WinnerID == g.Competitor1.ID {
		return g.Competitor1.Name
	}
	return g.Competitor2.Name
}

func scoreLabel(f *scorecast.Forecast) string {
	return fmt.Sprintf("%d - %d", f.Score1, f.Score2)
}
