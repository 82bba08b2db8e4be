package market

import (
	"fmt"
	"slices"

	"github.com/sells-group/forecast-rugby/internal/model"
)

// Grouped holds the observations of the two teams of a match.
type Grouped struct {
	A []Observation
	B []Observation
}

// ResolutionError reports observations for teams outside the expected pair.
// It signals configuration drift between the team table and the site.
type ResolutionError struct {
	Found    []string
	Expected [2]string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("market: observed teams %q but expected %q and %q", e.Found, e.Expected[0], e.Expected[1])
}

// ErrorCategory implements resilience.Categorized.
func (e *ResolutionError) ErrorCategory() model.ErrorCategory {
	return model.ErrorCategoryResolution
}

// GroupByTeam partitions obs by team name. Either team may end up with no
// observations. Any other team name fails the whole grouping.
func GroupByTeam(obs []Observation, a, b string) (Grouped, error) {
	var g Grouped
	seen := map[string]bool{}
	foreign := false
	for _, o := range obs {
		seen[o.Team] = true
		switch o.Team {
		case a:
			g.A = append(g.A, o)
		case b:
			g.B = append(g.B, o)
		default:
			foreign = true
		}
	}
	if foreign {
		found := make([]string, 0, len(seen))
		for t := range seen {
			found = append(found, t)
		}
		slices.Sort(found)
		return Grouped{}, &ResolutionError{Found: found, Expected: [2]string{a, b}}
	}
	return g, nil
}
