package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/crisislens/gdacs-viewer/internal/models"
)

// Predicate decides whether an event survives a filter pass. Predicates are
// composed by repeated Catalog.Filter application.
type Predicate func(models.Event) bool

// RecencyFilter keeps events whose date is at most days days before today.
// "Today" is captured once, when the filter is built, so a filter pass stays
// consistent even if it straddles midnight. A negative day count is a caller
// error.
func RecencyFilter(days int) (Predicate, error) {
	if days < 0 {
		return nil, fmt.Errorf("recency window must be a non-negative day count, got %d", days)
	}

	now := clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return func(e models.Event) bool {
		elapsed := int(today.Sub(e.Date).Hours() / 24)
		return elapsed <= days
	}, nil
}

// CategoryFilter keeps events of exactly the given category. The category
// must be a member of the closed set.
func CategoryFilter(category models.Category) (Predicate, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("invalid category %q", string(category))
	}

	return func(e models.Event) bool {
		return e.Category == category
	}, nil
}

// AlertFilter keeps events whose alert level matches case-insensitively.
// Only green, orange and red are accepted as keys.
func AlertFilter(level string) (Predicate, error) {
	key := strings.ToLower(level)
	switch key {
	case "green", "orange", "red":
	default:
		return nil, fmt.Errorf("alert level can only be green, orange or red, got %q", level)
	}

	return func(e models.Event) bool {
		return strings.ToLower(e.AlertLevel) == key
	}, nil
}
