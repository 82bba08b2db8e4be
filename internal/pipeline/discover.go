package pipeline

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/forecast-rugby/internal/fetcher"
	"github.com/sells-group/forecast-rugby/internal/model"
	"github.com/sells-group/forecast-rugby/internal/resolve"
)

// Discover fetches the listing page at base and returns the matches it
// links to between configured teams.
func Discover(ctx context.Context, f fetcher.Fetcher, base *url.URL, teams []model.TeamIdentity) ([]model.Match, error) {
	doc, err := f.Fetch(ctx, base.String())
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch listing")
	}

	links := resolve.Links(doc, base)
	matches := resolve.NewResolver(base, teams).ResolveAll(links)

	zap.L().Info("discovered matches",
		zap.String("base_url", base.String()),
		zap.Int("links", len(links)),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}
