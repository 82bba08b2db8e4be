package scorecast

// Competitor is one side of a Scorecast game.
type Competitor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DiffInterval is a scoring bucket a forecast must fall into.
type DiffInterval struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Forecast is a user forecast for one game. Score1 and Score2 carry the
// bounds of the chosen DiffInterval.
type Forecast struct {
	Score1   int     `json:"score1"`
	Score2   int     `json:"score2"`
	WinnerID *string `json:"winnerId"`
	GameID   string  `json:"gameId"`
}

// Equal reports whether f and o hold the same field values. A nil WinnerID
// only equals another nil WinnerID.
func (f *Forecast) Equal(o *Forecast) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Score1 != o.Score1 || f.Score2 != o.Score2 || f.GameID != o.GameID {
		return false
	}
	if f.WinnerID == nil || o.WinnerID == nil {
		return f.WinnerID == o.WinnerID
	}
	return *f.WinnerID == *o.WinnerID
}

// Game is an upcoming Scorecast game with its scoring intervals and the
// forecast previously submitted by the user, if any.
type Game struct {
	ID            string         `json:"id"`
	Competitor1   Competitor     `json:"competitor1"`
	Competitor2   Competitor     `json:"competitor2"`
	DiffIntervals []DiffInterval `json:"diffIntervals"`
	UserForecast  *Forecast      `json:"userForecast,omitempty"`
}

// Credentials authenticate against the auth route.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Device   string `json:"device"`
}

// GamesQuery pages the forecast read route.
type GamesQuery struct {
	Status string
	Take   int
	Skip   int
}

// DefaultGamesQuery requests the next ten upcoming games.
func DefaultGamesQuery() GamesQuery {
	return GamesQuery{Status: "COMING", Take: 10, Skip: 0}
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type saveRequest struct {
	Forecasts []Forecast `json:"forecasts"`
	Sync      bool       `json:"sync"`
}
