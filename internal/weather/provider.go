package weather

import (
	"context"

	"github.com/i474232898/weather-lookup/internal/normalize"
)

// Geocoder resolves a free-text place name to candidate locations.
// An empty result is not an error.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query string) ([]Candidate, error)
}

// Fetcher returns the raw current-weather record for a coordinate pair, with
// keys as the upstream service spells them.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, at Coordinates) (normalize.Value, error)
}

// Notifier surfaces a message the user must see, such as an unknown location.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Alert(message string) { f(message) }

// DisplayStore is the contract the display state holder must satisfy.
type DisplayStore interface {
	Query() string
	SetQuery(query string)
	Snapshot() (Snapshot, error)
	ReplaceSnapshot(snapshot Snapshot)
}
