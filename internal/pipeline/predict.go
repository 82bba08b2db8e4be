package pipeline

import (
	"context"
	"math"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/forecast-rugby/internal/fetcher"
	"github.com/sells-group/forecast-rugby/internal/market"
	"github.com/sells-group/forecast-rugby/internal/model"
)

// Synthesize combines both teams' estimates into a prediction. It abstains
// when either side has no estimate.
func Synthesize(m model.Match, e1 float64, ok1 bool, e2 float64, ok2 bool) (*model.Prediction, bool) {
	if !ok1 || !ok2 {
		return nil, false
	}
	return &model.Prediction{
		Match:          m,
		Team1IsWinning: e1 >= e2,
		Margin:         math.Abs(e1 - e2),
	}, true
}

// Predictor turns match pages into predictions.
type Predictor struct {
	fetcher   fetcher.Fetcher
	extractor *market.Extractor
}

// NewPredictor creates a Predictor. A nil extractor uses the FDJ defaults.
func NewPredictor(f fetcher.Fetcher, ex *market.Extractor) *Predictor {
	if ex == nil {
		ex = market.DefaultExtractor()
	}
	return &Predictor{fetcher: f, extractor: ex}
}

// PredictMatch fetches one match page and infers its outcome. It returns
// nil without error when the page has no usable markets.
func (p *Predictor) PredictMatch(ctx context.Context, m model.Match) (*model.Prediction, error) {
	log := zap.L().With(zap.String("match", m.SourceURL))

	doc, err := p.fetcher.Fetch(ctx, m.SourceURL)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: fetch match %s", m.SourceURL)
	}

	obs := slices.Collect(p.extractor.ExtractDocument(doc))
	if len(obs) == 0 {
		log.Info("no point spread markets found")
		return nil, nil
	}

	g, err := market.GroupByTeam(obs, m.Team1.Source, m.Team2.Source)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: group markets for %s", m.SourceURL)
	}

	e1, ok1 := market.Estimate(g.A)
	e2, ok2 := market.Estimate(g.B)
	pred, ok := Synthesize(m, e1, ok1, e2, ok2)
	if !ok {
		log.Info("not enough markets for a prediction",
			zap.String("team1", m.Team1.Source),
			zap.Int("team1_markets", len(g.A)),
			zap.String("team2", m.Team2.Source),
			zap.Int("team2_markets", len(g.B)),
		)
		return nil, nil
	}

	log.Info("predicted match",
		zap.String("winner", pred.Winner().Source),
		zap.Float64("margin", pred.Margin),
		zap.Int("markets", len(obs)),
	)
	return pred, nil
}

// PredictAll predicts every match concurrently. The first failure cancels
// the remaining fetches and is returned alone. Abstentions are dropped and
// the input order is kept.
func (p *Predictor) PredictAll(ctx context.Context, matches []model.Match) ([]model.Prediction, error) {
	results := make([]*model.Prediction, len(matches))

	g, gCtx := errgroup.WithContext(ctx)
	for i, m := range matches {
		g.Go(func() error {
			pred, err := p.PredictMatch(gCtx, m)
			if err != nil {
				return err
			}
			results[i] = pred
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.Prediction, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}
