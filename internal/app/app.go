package app

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

// App holds the wired components shared by the HTTP server and the prompt.
type App struct {
	State     *store.DisplayState
	Resolver  *weather.Resolver
	Scheduler *scheduler.Scheduler
}

// New wires providers, display state, resolver and the refresh scheduler.
func New(cfg *config.AppConfig, notifier weather.Notifier, log zerolog.Logger) *App {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	state := store.NewDisplayState()
	geocoder := NewGeocoder(cfg, httpClient)
	fetcher := providers.NewOpenWeatherFetcher(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherWeatherURL)

	resolver := weather.NewResolver(state, geocoder, fetcher, notifier, log)
	sched := scheduler.New(cfg.RefreshInterval, cfg.HTTPTimeout, resolver, log)

	log.Info().
		Str("geocoder", geocoder.Name()).
		Str("fetcher", fetcher.Name()).
		Dur("refresh_interval", cfg.RefreshInterval).
		Msg("components wired")

	return &App{
		State:     state,
		Resolver:  resolver,
		Scheduler: sched,
	}
}

// NewGeocoder picks the geocoding backend named in the configuration.
func NewGeocoder(cfg *config.AppConfig, client *http.Client) weather.Geocoder {
	if cfg.GeocoderProvider == config.GeocoderGoogle {
		return providers.NewGoogleGeocoder(cfg.GoogleAPIKey, cfg.HTTPTimeout)
	}
	return providers.NewOpenWeatherGeocoder(client, cfg.OpenWeatherAPIKey, cfg.OpenWeatherGeoURL)
}
