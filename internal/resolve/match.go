package resolve

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/forecast-rugby/internal/model"
)

// slugSeparator splits a match slug such as "france-vs-nouvelle-zelande".
const slugSeparator = "-vs-"

// Resolver maps match page URLs to configured team pairs.
type Resolver struct {
	base  *url.URL
	teams map[string]model.TeamIdentity
}

// NewResolver builds a Resolver that only accepts URLs on base's origin
// and under its path. Teams are looked up by their betting-site name.
func NewResolver(base *url.URL, teams []model.TeamIdentity) *Resolver {
	m := make(map[string]model.TeamIdentity, len(teams))
	for _, t := range teams {
		m[t.Source] = t
	}
	return &Resolver{base: base, teams: m}
}

// Resolve returns the match a URL points at. It reports false for URLs on
// another origin or outside the base path, slugs that are not of the form "a-vs-b", and unknown
// teams.
func (r *Resolver) Resolve(u *url.URL) (model.Match, bool) {
	if !sameOrigin(u, r.base) || !underPath(u, r.base) {
		return model.Match{}, false
	}

	path := strings.TrimRight(u.Path, "/")
	slug := path[strings.LastIndex(path, "/")+1:]
	parts := strings.Split(slug, slugSeparator)
	if len(parts) != 2 {
		return model.Match{}, false
	}

	name1, name2 := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	t1, ok1 := r.teams[name1]
	t2, ok2 := r.teams[name2]
	if !ok1 || !ok2 {
		zap.L().Debug("no configured team for match link",
			zap.String("url", u.String()),
			zap.String("team1", name1),
			zap.String("team2", name2),
		)
		return model.Match{}, false
	}

	return model.Match{SourceURL: u.String(), Team1: t1, Team2: t2}, true
}

// ResolveAll resolves every link and drops duplicates by URL.
func (r *Resolver) ResolveAll(links []*url.URL) []model.Match {
	var out []model.Match
	seen := make(map[string]bool)
	for _, u := range links {
		m, ok := r.Resolve(u)
		if !ok || seen[m.SourceURL] {
			continue
		}
		seen[m.SourceURL] = true
		out = append(out, m)
	}
	return out
}
