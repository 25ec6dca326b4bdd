package weather

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-lookup/internal/normalize"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lon)
}

// Candidate is one geocoding match. Only the first candidate of a lookup is
// ever used; the rest are dropped.
type Candidate struct {
	Name    string `json:"name,omitempty"`
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	Coordinates
}

// Snapshot is the last successfully fetched observation.
// Payload holds the upstream record with camelCase keys; it is replaced whole
// and never patched.
type Snapshot struct {
	Coordinates Coordinates     `json:"coordinates"`
	FetchedAt   time.Time       `json:"fetchedAt"` // always UTC
	Payload     normalize.Value `json:"payload"`
}

// Ready reports whether the payload carries a "main" sub-record, which is what
// the display takes as proof that a fetch succeeded.
func (s Snapshot) Ready() bool {
	main, ok := s.Payload.Get("main")
	return ok && main.Kind() == normalize.Record
}

// Phase is the resolution pipeline's position for a single run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingGeocode
	PhaseAwaitingWeather
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingGeocode:
		return "awaiting_geocode"
	case PhaseAwaitingWeather:
		return "awaiting_weather"
	default:
		return "unknown"
	}
}
