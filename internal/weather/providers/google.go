package providers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder using the Google Geocoding API.
// Google returns a single best match, so at most one candidate is produced.
//
// The geocoder package takes no context and uses its own client, so a call
// that outlives its deadline is abandoned and finishes in the background.
type GoogleGeocoder struct {
	name    string
	apiKey  string
	timeout time.Duration
	circuit *gobreaker.CircuitBreaker

	lookup func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder creates a geocoder. The geocoder package keeps the API key
// in a package variable, so it is set once here for the whole process.
func NewGoogleGeocoder(apiKey string, timeout time.Duration) *GoogleGeocoder {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &GoogleGeocoder{
		name:    "google-geocoding",
		apiKey:  apiKey,
		timeout: timeout,
		circuit: newCircuitBreaker("google-geocoding"),
		lookup:  geocoder.Geocoding,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

type googleResult struct {
	loc geocoder.Location
	err error
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) ([]weather.Candidate, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google geocoder: %w", errMissingAPIKey)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	// The library appends the address to its URL verbatim.
	address := geocoder.Address{City: url.QueryEscape(query)}

	result, err := g.circuit.Execute(func() (interface{}, error) {
		done := make(chan googleResult, 1)
		go func() {
			loc, err := g.lookup(address)
			done <- googleResult{loc: loc, err: err}
		}()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-done:
			if res.err != nil && isZeroResults(res.err) {
				// Not a failure of the service; keep the breaker closed.
				return nil, nil
			}
			return res.loc, res.err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("google geocoder: %w", err)
	}

	loc, ok := result.(geocoder.Location)
	if !ok {
		return nil, nil
	}
	return []weather.Candidate{{
		Name:        query,
		Coordinates: weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude},
	}}, nil
}

func isZeroResults(err error) bool {
	return common.HasAny(err.Error(), "no results found", "zero_results")
}
