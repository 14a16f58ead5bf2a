package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/crisislens/gdacs-viewer/internal/models"
)

// SQLiteStore implements EventStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL,
			alert_level TEXT,
			severity TEXT,
			population INTEGER NOT NULL DEFAULT 0,
			event_date DATETIME NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			countries TEXT NOT NULL,
			iso2 TEXT NOT NULL,
			link TEXT,
			fetched_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_event_date ON events(event_date);
		CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
  	`

	_, err := s.db.Exec(schema)
	return err
}

// Save upserts a batch of events in one transaction. Re-fetching the feed
// refreshes existing rows rather than duplicating them.
func (s *SQLiteStore) Save(ctx context.Context, events []models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO events
			(id, title, description, category, alert_level, severity,
			 population, event_date, latitude, longitude, countries, iso2,
			 link, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range events {
		countries, err := json.Marshal(e.Countries)
		if err != nil {
			return fmt.Errorf("error encoding countries for event %d: %w", e.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Title, e.Description, string(e.Category), e.AlertLevel,
			e.Severity, e.Population, e.Date, e.Latitude, e.Longitude,
			string(countries), e.ISO2, e.Link, now,
		); err != nil {
			return fmt.Errorf("error inserting event %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// List returns stored events, most recent event date first.
func (s *SQLiteStore) List(ctx context.Context, opts Filter) ([]models.Event, error) {
	query := `
		SELECT id, title, description, category, alert_level, severity,
		       population, event_date, latitude, longitude, countries, iso2, link
		FROM events`

	var clauses []string
	var args []any
	if opts.Category != nil {
		clauses = append(clauses, "category = ?")
		args = append(args, string(*opts.Category))
	}
	if opts.Alert != nil {
		clauses = append(clauses, "LOWER(alert_level) = LOWER(?)")
		args = append(args, *opts.Alert)
	}
	if opts.Since != nil {
		clauses = append(clauses, "event_date >= ?")
		args = append(args, *opts.Since)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY event_date DESC, id ASC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var category, countries string
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &category, &e.AlertLevel,
			&e.Severity, &e.Population, &e.Date, &e.Latitude, &e.Longitude,
			&countries, &e.ISO2, &e.Link,
		); err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		e.Category = models.Category(category)
		if err := json.Unmarshal([]byte(countries), &e.Countries); err != nil {
			return nil, fmt.Errorf("error decoding countries for event %d: %w", e.ID, err)
		}
		e.Date = e.Date.UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
