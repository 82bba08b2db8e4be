package model

// TeamIdentity carries the spelling of one team on the betting site and on
// the Scorecast platform.
type TeamIdentity struct {
	Source      string `json:"fdj" mapstructure:"fdj"`
	Destination string `json:"scorecast" mapstructure:"scorecast"`
}

// Match is an upcoming match discovered on the betting site.
type Match struct {
	SourceURL string       `json:"source_url"`
	Team1     TeamIdentity `json:"team1"`
	Team2     TeamIdentity `json:"team2"`
}

// Prediction is the inferred outcome of a match. Team1IsWinning is relative
// to the betting site's team order. Margin is never negative.
type Prediction struct {
	Match          Match   `json:"match"`
	Team1IsWinning bool    `json:"team1_is_winning"`
	Margin         float64 `json:"margin"`
}

// Winner returns the identity of the predicted winner.
func (p Prediction) Winner() TeamIdentity {
	if p.Team1IsWinning {
		return p.Match.Team1
	}
	return p.Match.Team2
}
