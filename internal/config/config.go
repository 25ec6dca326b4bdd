package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

const (
	GeocoderOpenWeather = "openweather"
	GeocoderGoogle      = "google"
)

var validate = validator.New()

type AppConfig struct {
	// OpenWeatherAPIKey authenticates both the geocoding and the weather calls.
	OpenWeatherAPIKey string `validate:"required"`

	OpenWeatherGeoURL     string `validate:"required,url"`
	OpenWeatherWeatherURL string `validate:"required,url"`

	// GeocoderProvider selects the geocoding backend.
	GeocoderProvider string `validate:"oneof=openweather google"`
	GoogleAPIKey     string `validate:"required_if=GeocoderProvider google"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// RefreshInterval re-fetches weather for the displayed place (0 = disabled).
	RefreshInterval time.Duration `validate:"gte=0"`

	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=trace debug info warn error"`
}

// Load reads configuration from .env and the environment with sensible defaults.
// The returned bool reports whether a .env file was read.
func Load() (*AppConfig, bool, error) {
	loadedDotenv := godotenv.Load() == nil

	cfg := &AppConfig{
		OpenWeatherAPIKey:     os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherGeoURL:     getenvDefault("OPENWEATHER_GEO_URL", providers.DefaultOpenWeatherGeoURL),
		OpenWeatherWeatherURL: getenvDefault("OPENWEATHER_WEATHER_URL", providers.DefaultOpenWeatherWeatherURL),
		GeocoderProvider:      strings.ToLower(getenvDefault("GEOCODER_PROVIDER", GeocoderOpenWeather)),
		GoogleAPIKey:          os.Getenv("GOOGLE_GEOCODER_API_KEY"),
		Port:                  getenvDefault("PORT", "8080"),
		LogLevel:              strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
	}

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, loadedDotenv, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	refresh, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "0s"))
	if err != nil {
		return nil, loadedDotenv, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = refresh

	if err := validate.Struct(cfg); err != nil {
		return nil, loadedDotenv, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, loadedDotenv, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
