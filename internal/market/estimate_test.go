package market

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/forecast-rugby/internal/model"
)

func obs(point, more, less float64) Observation {
	return Observation{Team: "france", Point: point, More: more, Less: less}
}

func TestEstimate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		obs    []Observation
		want   float64
		wantOK bool
	}{
		{name: "empty", obs: nil},
		{name: "both bounds averaged", obs: []Observation{obs(3, 1, 2), obs(5, 2, 1)}, want: 4, wantOK: true},
		{name: "equal ratings set both bounds", obs: []Observation{obs(6.5, 1.9, 1.9)}, want: 6.5, wantOK: true},
		{name: "lower bound only", obs: []Observation{obs(2, 1, 2)}, want: 2, wantOK: true},
		{name: "upper bound only", obs: []Observation{obs(9, 2, 1)}, want: 9, wantOK: true},
		{
			// The first market sets a at 5 and the second cannot raise it.
			name:   "order dependent skip",
			obs:    []Observation{obs(5, 1, 2), obs(3, 2, 1)},
			want:   5,
			wantOK: true,
		},
		{
			name:   "lower bound overwritten",
			obs:    []Observation{obs(1, 1, 2), obs(4, 1, 2), obs(10, 2, 1)},
			want:   7,
			wantOK: true,
		},
		{
			name:   "upper bound lowered",
			obs:    []Observation{obs(12, 2, 1), obs(8, 2, 1), obs(2, 1, 2)},
			want:   5,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Estimate(tt.obs)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestGroupByTeam(t *testing.T) {
	in := []Observation{
		{Team: "france", Point: 3},
		{Team: "italie", Point: -3},
		{Team: "france", Point: 5},
	}

	g, err := GroupByTeam(in, "france", "italie")
	require.NoError(t, err)
	assert.Equal(t, []Observation{in[0], in[2]}, g.A)
	assert.Equal(t, []Observation{in[1]}, g.B)
}

func TestGroupByTeam_MissingSide(t *testing.T) {
	g, err := GroupByTeam([]Observation{{Team: "italie"}}, "france", "italie")
	require.NoError(t, err)
	assert.Empty(t, g.A)
	assert.Len(t, g.B, 1)

	g, err = GroupByTeam(nil, "france", "italie")
	require.NoError(t, err)
	assert.Empty(t, g.A)
	assert.Empty(t, g.B)
}

func TestGroupByTeam_ForeignTeam(t *testing.T) {
	in := []Observation{{Team: "france"}, {Team: "tonga"}, {Team: "italie"}}

	g, err := GroupByTeam(in, "france", "italie")
	require.Error(t, err)
	assert.Empty(t, g.A)

	var re *ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, []string{"france", "italie", "tonga"}, re.Found)
	assert.Equal(t, [2]string{"france", "italie"}, re.Expected)
	assert.Equal(t, model.ErrorCategoryResolution, re.ErrorCategory())
	assert.Contains(t, err.Error(), "tonga")
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "3,5", want: 3.5, wantOK: true},
		{in: "-3,5", want: -3.5, wantOK: true},
		{in: "12", want: 12, wantOK: true},
		{in: " 1,85\n", want: 1.85, wantOK: true},
		{in: "1.5", want: 1.5, wantOK: true},
		{in: ""},
		{in: "   "},
		{in: "abc"},
		{in: "1,2,3"},
		{in: "NaN"},
		{in: "inf"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDecimal(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
