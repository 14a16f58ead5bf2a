// Package poller periodically rebuilds the event catalog from the feed
// and persists the result.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crisislens/gdacs-viewer/internal/catalog"
	"github.com/crisislens/gdacs-viewer/internal/feed"
	"github.com/crisislens/gdacs-viewer/internal/store"
)

type Poller struct {
	fetcher  catalog.Fetcher
	resolver feed.CodeResolver
	store    store.EventStore
	interval time.Duration
	wg       sync.WaitGroup
}

func New(fetcher catalog.Fetcher, resolver feed.CodeResolver, st store.EventStore, interval time.Duration) *Poller {
	return &Poller{
		fetcher:  fetcher,
		resolver: resolver,
		store:    st,
		interval: interval,
	}
}

// Start launches the polling loop. An initial poll runs immediately so the
// store is populated before the first tick.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()
	slog.Info("starting poller", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("poller shutting down")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	slog.Debug("polling feed")

	c := catalog.New(p.fetcher, p.resolver)
	warnings := c.Request(ctx)
	for _, w := range warnings {
		slog.Warn("skipped feed item", "event_id", w.EventID, "field", w.Field, "error", w.Err)
	}

	if err := p.store.Save(ctx, c.All()); err != nil {
		slog.Error("failed to save events", "error", err)
		return
	}

	slog.Debug("poll complete", "count", c.Len(), "skipped", len(warnings))
}

// Stop blocks until the polling loop has exited. Cancel the context passed
// to Start before calling Stop.
func (p *Poller) Stop() {
	p.wg.Wait()
	slog.Info("poller stopped")
}
