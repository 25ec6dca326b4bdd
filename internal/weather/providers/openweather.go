package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/normalize"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	DefaultOpenWeatherGeoURL     = "http://api.openweathermap.org/geo/1.0/direct"
	DefaultOpenWeatherWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

	// geocodeLimit caps the number of candidates requested per lookup.
	geocodeLimit = 5
)

// OpenWeatherGeocoder implements weather.Geocoder against OpenWeatherMap's
// direct geocoding endpoint.
type OpenWeatherGeocoder struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherGeocoder creates a geocoder. An empty baseURL selects the
// public endpoint.
func NewOpenWeatherGeocoder(client *http.Client, apiKey, baseURL string) *OpenWeatherGeocoder {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherGeoURL
	}
	return &OpenWeatherGeocoder{
		name:    "openweathermap-geo",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client},
		circuit: newCircuitBreaker("openweather-geo"),
	}
}

func (g *OpenWeatherGeocoder) Name() string {
	return g.name
}

func (g *OpenWeatherGeocoder) Geocode(ctx context.Context, query string) ([]weather.Candidate, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("openweather geocoder: %w", errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", query)
		values.Set("limit", strconv.Itoa(geocodeLimit))
		values.Set("appid", g.apiKey)

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		State   string  `json:"state"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	candidates := make([]weather.Candidate, 0, len(payload))
	for _, p := range payload {
		candidates = append(candidates, weather.Candidate{
			Name:        p.Name,
			Country:     p.Country,
			State:       p.State,
			Coordinates: weather.Coordinates{Lat: p.Lat, Lon: p.Lon},
		})
	}
	return candidates, nil
}

// OpenWeatherFetcher implements weather.Fetcher against OpenWeatherMap's
// current weather endpoint, always in metric units.
type OpenWeatherFetcher struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherFetcher(client *http.Client, apiKey, baseURL string) *OpenWeatherFetcher {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherWeatherURL
	}
	return &OpenWeatherFetcher{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client},
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherFetcher) Name() string {
	return p.name
}

func (p *OpenWeatherFetcher) Fetch(ctx context.Context, at weather.Coordinates) (normalize.Value, error) {
	if p.apiKey == "" {
		return normalize.Value{}, fmt.Errorf("openweather fetcher: %w", errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
		values.Set("units", "metric")
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return normalize.Value{}, err
	}
	defer resp.Body.Close()

	payload, err := normalize.Decode(resp.Body)
	if err != nil {
		return normalize.Value{}, fmt.Errorf("decode weather response: %w", err)
	}
	return payload, nil
}
