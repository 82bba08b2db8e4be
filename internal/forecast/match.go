// Package forecast maps predictions onto Scorecast games and turns them into
// forecast payloads.
package forecast

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/forecast-rugby/internal/model"
	"github.com/sells-group/forecast-rugby/pkg/scorecast"
)

// Mapped pairs a prediction with its Scorecast game. Reversed is set when
// the game lists the prediction's second team first.
type Mapped struct {
	Prediction model.Prediction
	Game       scorecast.Game
	Reversed   bool
}

// pairKey identifies two team names regardless of order.
type pairKey [2]string

func newPairKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

func (k pairKey) String() string {
	return strings.Join(k[:], " / ")
}

// MatchGames finds the game for each prediction by its pair of destination
// team names. Predictions without a game are dropped and their team pair
// is returned in unmatched.
func MatchGames(predictions []model.Prediction, games []scorecast.Game) (mapped []Mapped, unmatched []string) {
	byPair := make(map[pairKey]scorecast.Game, len(games))
	for _, g := range games {
		byPair[newPairKey(g.Competitor1.Name, g.Competitor2.Name)] = g
	}

	for _, p := range predictions {
		key := newPairKey(p.Match.Team1.Destination, p.Match.Team2.Destination)
		g, ok := byPair[key]
		if !ok {
			zap.L().Warn("no scorecast game for prediction", zap.String("teams", key.String()))
			unmatched = append(unmatched, key.String())
			continue
		}
		mapped = append(mapped, Mapped{
			Prediction: p,
			Game:       g,
			Reversed:   p.Match.Team1.Destination != g.Competitor1.Name,
		})
	}
	return mapped, unmatched
}
