package display

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/normalize"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const londonPayload = `{"main":{"feels_like":18.3,"humidity":60},"wind":{"speed":12.4},"weather":[{"main":"Clouds"}],"name":"London","dt":1700000000,"timezone":0}`

type stubGeocoder struct{ candidates []weather.Candidate }

func (stubGeocoder) Name() string { return "stub" }

func (s stubGeocoder) Geocode(context.Context, string) ([]weather.Candidate, error) {
	return s.candidates, nil
}

type stubFetcher struct{ body string }

func (stubFetcher) Name() string { return "stub" }

func (s stubFetcher) Fetch(context.Context, weather.Coordinates) (normalize.Value, error) {
	return normalize.Parse([]byte(s.body))
}

func TestRender_EndToEnd(t *testing.T) {
	state := store.NewDisplayState()
	r := weather.NewResolver(state,
		stubGeocoder{candidates: []weather.Candidate{{Coordinates: weather.Coordinates{Lat: 51.51, Lon: -0.13}}}},
		stubFetcher{body: londonPayload},
		nil,
		zerolog.Nop(),
	)

	state.SetQuery("London")
	snap, err := r.Confirm(context.Background())
	require.NoError(t, err)

	feels, ok := snap.Payload.Path("main", "feelsLike")
	require.True(t, ok)
	f, _ := feels.Float()
	assert.InDelta(t, 18.3, f, 1e-9)

	cur := state.Current()
	assert.Equal(t, "", cur.Query)

	v := Render(cur.Query, cur.Snapshot)
	assert.Equal(t, View{
		Query:       "",
		Location:    "London",
		Temperature: "18°C",
		Date:        "Tuesday 14 November",
		Time:        "10:13 PM",
		Description: "Clouds",
		ShowDetails: true,
		FeelsLike:   "18°C",
		Humidity:    "60%",
		Wind:        "12km/h",
		Ready:       true,
	}, v)
}

func TestRender_Empty(t *testing.T) {
	v := Render("Lon", weather.Snapshot{})

	assert.Equal(t, View{Query: "Lon"}, v)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))
	assert.Equal(t, "Enter Location\n", buf.String())
}

func TestRender_WithoutMain(t *testing.T) {
	payload, err := normalize.Parse([]byte(`{"name":"Somewhere","wind":{"speed":3.5},"weather":[]}`))
	require.NoError(t, err)

	v := Render("", weather.Snapshot{Payload: payload})

	assert.False(t, v.Ready)
	assert.True(t, v.ShowDetails)
	assert.Equal(t, "Somewhere", v.Location)
	assert.Empty(t, v.Temperature)
	assert.Empty(t, v.Date)
	assert.Empty(t, v.Description)
	assert.Equal(t, "4km/h", v.Wind)
}

func TestRender_TimezoneOffset(t *testing.T) {
	// 1700000000 is 22:13:20 UTC; +9h crosses into the next day.
	payload, err := normalize.Parse([]byte(`{"main":{"feelsLike":-0.4,"humidity":81},"name":"Tokyo","dt":1700000000,"timezone":32400}`))
	require.NoError(t, err)

	v := Render("", weather.Snapshot{Payload: payload})

	assert.Equal(t, "Wednesday 15 November", v.Date)
	assert.Equal(t, "7:13 AM", v.Time)
	assert.Equal(t, "0°C", v.Temperature)
	assert.Equal(t, "81%", v.Humidity)
}

func TestRender_HumidityNumberForms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "integer", raw: `60`, want: "60%"},
		{name: "trailing zero", raw: `60.0`, want: "60%"},
		{name: "exponent", raw: `6e1`, want: "60%"},
		{name: "fraction kept", raw: `60.5`, want: "60.5%"},
		{name: "string passes through", raw: `"70"`, want: "70%"},
		{name: "null is blank", raw: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := normalize.Parse([]byte(`{"main":{"humidity":` + tt.raw + `}}`))
			require.NoError(t, err)

			v := Render("", weather.Snapshot{Payload: payload})
			assert.Equal(t, tt.want, v.Humidity)
		})
	}
}

func TestRound(t *testing.T) {
	tests := map[float64]string{
		18.3:  "18",
		18.5:  "19",
		12.4:  "12",
		-2.5:  "-3",
		-0.2:  "0",
		0:     "0",
		100.0: "100",
	}
	for in, want := range tests {
		assert.Equal(t, want, round(in), "round(%v)", in)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, View{
		Location:    "London",
		Temperature: "18°C",
		Date:        "Tuesday 14 November",
		Time:        "10:13 PM",
		Description: "Clouds",
		ShowDetails: true,
		FeelsLike:   "18°C",
		Humidity:    "60%",
		Wind:        "12km/h",
		Ready:       true,
	}))

	assert.Equal(t, "London\n18°C\nTuesday 14 November\nTime: 10:13 PM\nClouds\nFeels Like 18°C | Humidity 60% | Winds 12km/h\n", buf.String())
}
