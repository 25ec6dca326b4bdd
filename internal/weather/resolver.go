package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-lookup/internal/normalize"
)

// AlertLocationNotFound is shown when geocoding yields no candidates.
const AlertLocationNotFound = "Location not found."

var (
	ErrEmptyQuery         = errors.New("location query is empty")
	ErrLocationNotFound   = errors.New("location not found")
	ErrInvalidCoordinates = errors.New("geocoder returned invalid coordinates")
	errPayloadNotRecord   = errors.New("weather payload is not a record")
)

var validate = validator.New()

// Resolver runs the location-to-weather pipeline:
// geocode, take the first candidate, fetch weather, normalize keys, then
// replace the display snapshot and clear the query.
//
// A run captures its query when it starts and is never abandoned because of
// later input. Concurrent runs are not ordered; the last one to finish wins.
type Resolver struct {
	state    DisplayStore
	geocoder Geocoder
	fetcher  Fetcher
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewResolver creates a new Resolver. A nil notifier drops alerts.
func NewResolver(state DisplayStore, geocoder Geocoder, fetcher Fetcher, notifier Notifier, log zerolog.Logger) *Resolver {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	return &Resolver{
		state:    state,
		geocoder: geocoder,
		fetcher:  fetcher,
		notifier: notifier,
		log:      log.With().Str("component", "resolver").Logger(),
		now:      time.Now,
	}
}

// Confirm resolves whatever the display's query currently holds.
func (r *Resolver) Confirm(ctx context.Context) (Snapshot, error) {
	return r.run(ctx, r.state.Query())
}

// Lookup records query as the current input and resolves it in one step.
func (r *Resolver) Lookup(ctx context.Context, query string) (Snapshot, error) {
	r.state.SetQuery(query)
	return r.run(ctx, query)
}

// Resolve runs the pipeline for query without recording it as the current
// input first. Callers that capture the query themselves and resolve it in the
// background use this.
func (r *Resolver) Resolve(ctx context.Context, query string) (Snapshot, error) {
	return r.run(ctx, query)
}

func (r *Resolver) run(ctx context.Context, query string) (Snapshot, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Snapshot{}, ErrEmptyQuery
	}

	log := r.log.With().
		Str("run_id", uuid.NewString()).
		Str("query", query).
		Logger()

	log.Debug().Stringer("phase", PhaseAwaitingGeocode).Str("geocoder", r.geocoder.Name()).Msg("resolving location")
	candidates, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		log.Error().Err(err).Msg("geocode failed")
		return Snapshot{}, fmt.Errorf("geocode %q: %w", query, err)
	}

	if len(candidates) == 0 {
		log.Info().Stringer("phase", PhaseIdle).Msg("no geocode candidates")
		r.notifier.Alert(AlertLocationNotFound)
		r.state.SetQuery("")
		return Snapshot{}, ErrLocationNotFound
	}

	first := candidates[0]
	if err := validate.Struct(first.Coordinates); err != nil {
		log.Error().Err(err).Stringer("coordinates", first.Coordinates).Msg("rejected geocode candidate")
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrInvalidCoordinates, first.Coordinates, err)
	}

	log.Debug().
		Stringer("phase", PhaseAwaitingWeather).
		Int("candidates", len(candidates)).
		Stringer("coordinates", first.Coordinates).
		Msg("fetching weather")

	snapshot, err := r.fetch(ctx, log, first.Coordinates)
	if err != nil {
		return Snapshot{}, err
	}

	r.state.ReplaceSnapshot(snapshot)
	r.state.SetQuery("")

	log.Info().Stringer("phase", PhaseIdle).Msg("weather updated")
	return snapshot, nil
}

// Refresh re-fetches weather for the coordinates of the current snapshot.
// The query is left alone.
func (r *Resolver) Refresh(ctx context.Context) (Snapshot, error) {
	current, err := r.state.Snapshot()
	if err != nil {
		return Snapshot{}, err
	}

	log := r.log.With().
		Str("run_id", uuid.NewString()).
		Stringer("coordinates", current.Coordinates).
		Logger()

	snapshot, err := r.fetch(ctx, log, current.Coordinates)
	if err != nil {
		return Snapshot{}, err
	}

	r.state.ReplaceSnapshot(snapshot)
	log.Debug().Msg("weather refreshed")
	return snapshot, nil
}

func (r *Resolver) fetch(ctx context.Context, log zerolog.Logger, at Coordinates) (Snapshot, error) {
	raw, err := r.fetcher.Fetch(ctx, at)
	if err != nil {
		log.Error().Err(err).Str("fetcher", r.fetcher.Name()).Msg("weather fetch failed")
		return Snapshot{}, fmt.Errorf("fetch weather at %s: %w", at, err)
	}
	if raw.Kind() != normalize.Record {
		return Snapshot{}, fmt.Errorf("fetch weather at %s: %w (got %s)", at, errPayloadNotRecord, raw.Kind())
	}

	payload := normalize.CamelKeys(raw)
	if e := log.Debug(); e.Enabled() {
		e.RawJSON("payload", mustJSON(payload)).Msg("normalized weather payload")
	}

	return Snapshot{
		Coordinates: at,
		FetchedAt:   r.now().UTC(),
		Payload:     payload,
	}, nil
}

func mustJSON(v normalize.Value) []byte {
	b, err := v.MarshalJSON()
	if err != nil {
		return []byte("null")
	}
	return b
}
