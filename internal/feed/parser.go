// Package feed fetches and parses the GDACS RSS feed into normalized events.
package feed

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/crisislens/gdacs-viewer/internal/models"
)

// todate carries time-of-day and zone, e.g. "Wed, 03 Jan 2024 06:21:09 GMT".
// Only the calendar date survives normalization.
const dateLayout = "Mon, 2 Jan 2006 15:04:05 MST"

// CodeResolver translates ISO 3166 alpha-3 codes to alpha-2 form.
type CodeResolver interface {
	ToAlpha2(code string) (string, error)
}

// Warning records one feed item that was dropped during parsing. Dropping is
// per item: one malformed entry never discards the rest of the feed.
type Warning struct {
	EventID string // raw gdacs:eventid, possibly empty
	Field   string
	Err     error
}

func (w Warning) String() string {
	return fmt.Sprintf("event %q: field %s: %v", w.EventID, w.Field, w.Err)
}

type rssDocument struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

// Numeric and temporal fields stay strings here and are coerced per item, so
// a single bad value produces a Warning instead of failing the whole decode.
type rssItem struct {
	Title       string          `xml:"title"`
	Description string          `xml:"description"`
	Link        string          `xml:"link"`
	EventID     string          `xml:"http://www.gdacs.org eventid"`
	EventType   string          `xml:"http://www.gdacs.org eventtype"`
	AlertLevel  string          `xml:"http://www.gdacs.org alertlevel"`
	Severity    string          `xml:"http://www.gdacs.org severity"`
	Population  populationField `xml:"http://www.gdacs.org population"`
	ToDate      string          `xml:"http://www.gdacs.org todate"`
	Country     string          `xml:"http://www.gdacs.org country"`
	ISO3        string          `xml:"http://www.gdacs.org iso3"`
	Point       geoPoint        `xml:"http://www.w3.org/2003/01/geo/wgs84_pos# Point"`
}

type populationField struct {
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

type geoPoint struct {
	Lat  string `xml:"http://www.w3.org/2003/01/geo/wgs84_pos# lat"`
	Long string `xml:"http://www.w3.org/2003/01/geo/wgs84_pos# long"`
}

// Parse turns a raw GDACS RSS payload into validated events. Items missing a
// required field or failing a coercion are skipped and reported as warnings.
// A malformed top-level document is a hard failure, as is an ISO3 code the
// resolver's table does not know.
func Parse(raw []byte, codes CodeResolver) ([]models.Event, []Warning, error) {
	var doc rssDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("error decoding feed document: %w", err)
	}

	events := make([]models.Event, 0, len(doc.Channel.Items))
	var warnings []Warning

	for _, item := range doc.Channel.Items {
		event, warn, err := parseItem(item, codes)
		if err != nil {
			return nil, warnings, err
		}
		if warn != nil {
			warnings = append(warnings, *warn)
			continue
		}
		events = append(events, event)
	}

	return events, warnings, nil
}

func parseItem(item rssItem, codes CodeResolver) (models.Event, *Warning, error) {
	fail := func(field string, err error) (models.Event, *Warning, error) {
		return models.Event{}, &Warning{EventID: item.EventID, Field: field, Err: err}, nil
	}

	id, err := strconv.ParseInt(strings.TrimSpace(item.EventID), 10, 64)
	if err != nil {
		return fail("eventid", err)
	}
	if id <= 0 {
		return fail("eventid", fmt.Errorf("must be positive, got %d", id))
	}

	category, err := models.ParseCategory(strings.TrimSpace(item.EventType))
	if err != nil {
		return fail("eventtype", err)
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(item.ToDate))
	if err != nil {
		return fail("todate", err)
	}
	// Truncate to the calendar date; time-of-day and zone are intentionally
	// discarded so sorting and recency filtering work on whole days.
	y, m, d := date.Date()
	date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	lat, err := strconv.ParseFloat(strings.TrimSpace(item.Point.Lat), 64)
	if err != nil {
		return fail("geo:lat", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(item.Point.Long), 64)
	if err != nil {
		return fail("geo:long", err)
	}

	population := int64(0)
	if v := strings.TrimSpace(item.Population.Value); v != "" {
		population, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fail("population", err)
		}
	}

	countries, iso2, err := parseCountries(item.Country, item.ISO3, codes)
	if err != nil {
		// An unknown ISO3 means the feed and the code table disagree.
		// That is a dataset inconsistency, not per-item noise.
		return models.Event{}, nil, err
	}

	event := models.Event{
		ID:          id,
		Title:       item.Title,
		Description: item.Description,
		Category:    category,
		AlertLevel:  strings.TrimSpace(item.AlertLevel),
		Severity:    strings.TrimSpace(item.Severity),
		Population:  population,
		Date:        date,
		Latitude:    roundCoord(lat),
		Longitude:   roundCoord(lon),
		Countries:   countries,
		ISO2:        iso2,
		Link:        strings.TrimSpace(item.Link),
	}
	if err := event.Validate(); err != nil {
		return fail("validation", err)
	}
	return event, nil, nil
}

// parseCountries splits the comma-separated country list and resolves the
// alpha-3 code. Absent country data is a valid, expected condition for
// open-ocean events and yields the offshore sentinel.
func parseCountries(country, iso3 string, codes CodeResolver) ([]string, string, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return []string{models.OffshoreCountry}, models.UnknownISO2, nil
	}

	parts := strings.Split(country, ",")
	countries := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			countries = append(countries, p)
		}
	}
	if len(countries) == 0 {
		return []string{models.OffshoreCountry}, models.UnknownISO2, nil
	}

	iso3 = strings.TrimSpace(iso3)
	if iso3 == "" {
		return countries, models.UnknownISO2, nil
	}
	iso2, err := codes.ToAlpha2(iso3)
	if err != nil {
		return nil, "", fmt.Errorf("resolving country code %q: %w", iso3, err)
	}
	return countries, iso2, nil
}

// roundCoord rounds to 5 decimal places for reproducible display and
// deduplication downstream.
func roundCoord(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
