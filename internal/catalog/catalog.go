// Package catalog owns the ordered event collection: fetch orchestration,
// sorting, slicing and filter application.
package catalog

import (
	"context"
	"log/slog"
	"sort"

	"github.com/crisislens/gdacs-viewer/internal/feed"
	"github.com/crisislens/gdacs-viewer/internal/models"
)

// Fetcher retrieves the raw feed payload. *feed.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Catalog is an ordered collection of events. After a successful Request the
// backing sequence is sorted by event date, most recent first, with feed
// order breaking ties. Slices and filter results are independent catalogs
// that share no further growth with their parent.
type Catalog struct {
	fetcher  Fetcher
	resolver feed.CodeResolver
	events   []models.Event
}

// New returns an empty catalog wired to a feed source.
func New(fetcher Fetcher, resolver feed.CodeResolver) *Catalog {
	return &Catalog{fetcher: fetcher, resolver: resolver}
}

// FromEvents builds a catalog over a copy of the given events. Used by
// derived catalogs and tests; Request is not available without a fetcher.
func FromEvents(events []models.Event) *Catalog {
	c := &Catalog{events: make([]models.Event, len(events))}
	copy(c.events, events)
	return c
}

// Request fetches the feed, parses it and appends the results sorted by
// event date descending. Every ingestion failure, transport, document or
// code-table, degrades to the single placeholder event so the caller always
// has one visible record explaining that nothing could be fetched. Request
// never returns an error; per-item parse warnings are returned for logging.
func (c *Catalog) Request(ctx context.Context) []feed.Warning {
	raw, err := c.fetcher.Fetch(ctx)
	if err != nil {
		slog.Warn("feed fetch failed, substituting placeholder event", "error", err)
		c.events = append(c.events, models.Placeholder())
		return nil
	}

	events, warnings, err := feed.Parse(raw, c.resolver)
	if err != nil {
		slog.Warn("feed parse failed, substituting placeholder event", "error", err)
		c.events = append(c.events, models.Placeholder())
		return warnings
	}

	c.events = append(c.events, events...)
	sort.SliceStable(c.events, func(i, j int) bool {
		return c.events[i].Date.After(c.events[j].Date)
	})
	return warnings
}

// Len returns the number of events in the catalog.
func (c *Catalog) Len() int {
	return len(c.events)
}

// At returns the event at position i. Panics on out-of-range access, like a
// slice would; callers index within [0, Len()).
func (c *Catalog) At(i int) models.Event {
	return c.events[i]
}

// All returns a copy of the backing sequence in catalog order.
func (c *Catalog) All() []models.Event {
	out := make([]models.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Slice returns a new independent catalog over [start, end). Bounds are
// clamped to the valid range; a negative end means "through the last event".
func (c *Catalog) Slice(start, end int) *Catalog {
	if start < 0 {
		start = 0
	}
	if end < 0 || end > len(c.events) {
		end = len(c.events)
	}
	if start > end {
		start = end
	}
	derived := FromEvents(c.events[start:end])
	derived.fetcher = c.fetcher
	derived.resolver = c.resolver
	return derived
}

// Filter returns a new catalog holding only the events the predicate
// accepts, in their original relative order. The source is not mutated.
func (c *Catalog) Filter(pred Predicate) *Catalog {
	kept := make([]models.Event, 0, len(c.events))
	for _, e := range c.events {
		if pred(e) {
			kept = append(kept, e)
		}
	}
	derived := FromEvents(kept)
	derived.fetcher = c.fetcher
	derived.resolver = c.resolver
	return derived
}
