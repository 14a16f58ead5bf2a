// Package store persists normalized events between feed polls.
package store

import (
	"context"
	"time"

	"github.com/crisislens/gdacs-viewer/internal/models"
)

// Filter narrows List results. Nil fields are ignored.
type Filter struct {
	Limit    int
	Category *models.Category
	Alert    *string    // case-insensitive
	Since    *time.Time // event date >= Since
}

// EventStore is the persistence boundary for fetched events.
type EventStore interface {
	Save(ctx context.Context, events []models.Event) error
	List(ctx context.Context, opts Filter) ([]models.Event, error)
	Close() error
}
