// Command weather-prompt is the terminal front end: each line typed is the
// location query and Enter confirms it.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/i474232898/weather-lookup/internal/app"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/display"
	"github.com/i474232898/weather-lookup/internal/logging"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so they do not interleave with the rendered view.
	log := logging.NewWithWriter(os.Stderr, cfg.LogLevel, "weather-prompt")

	var out sync.Mutex
	notifier := weather.NotifierFunc(func(msg string) {
		out.Lock()
		defer out.Unlock()
		fmt.Fprintf(os.Stdout, "! %s\n", msg)
	})

	components := app.New(cfg, notifier, log)

	var lastRendered time.Time
	unsubscribe := components.State.Subscribe(func(st store.State) {
		out.Lock()
		defer out.Unlock()

		// Query edits alone do not redraw.
		if st.Snapshot.FetchedAt.Equal(lastRendered) {
			return
		}
		lastRendered = st.Snapshot.FetchedAt

		fmt.Fprintln(os.Stdout)
		if err := display.Write(os.Stdout, display.Render(st.Query, st.Snapshot)); err != nil {
			log.Error().Err(err).Msg("render failed")
		}
	})
	defer unsubscribe()

	if err := components.Scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer components.Scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = display.Write(os.Stdout, display.View{})

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	// Each confirmed line resolves in the background so the prompt keeps
	// accepting input. Runs are not ordered; the last to finish is shown.
	var runs sync.WaitGroup
	defer runs.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			components.State.SetQuery(line)

			runs.Add(1)
			go func(query string) {
				defer runs.Done()

				runCtx, cancel := context.WithTimeout(ctx, 2*cfg.HTTPTimeout)
				defer cancel()

				_, err := components.Resolver.Resolve(runCtx, query)
				switch {
				case err == nil,
					errors.Is(err, weather.ErrEmptyQuery),
					errors.Is(err, weather.ErrLocationNotFound):
				default:
					out.Lock()
					fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
					out.Unlock()
				}
			}(line)
		}
	}
}
