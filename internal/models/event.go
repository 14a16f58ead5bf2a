package models

import (
	"fmt"
	"time"
)

// Category is the GDACS event type code.
type Category string

const (
	CategoryTropicalCyclone Category = "TC"
	CategoryEarthquake      Category = "EQ"
	CategoryFlood           Category = "FL"
	CategoryVolcano         Category = "VO"
	CategoryWildfire        Category = "WF"
	CategoryDrought         Category = "DR"
	CategoryUnknown         Category = "NA"
)

var categoryNames = map[Category]string{
	CategoryTropicalCyclone: "Tropical Cyclone",
	CategoryEarthquake:      "Earthquake",
	CategoryFlood:           "Flood",
	CategoryVolcano:         "Volcano",
	CategoryWildfire:        "Wildfire",
	CategoryDrought:         "Drought",
	CategoryUnknown:         "Unknown",
}

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryTropicalCyclone,
		CategoryEarthquake,
		CategoryFlood,
		CategoryVolcano,
		CategoryWildfire,
		CategoryDrought,
		CategoryUnknown,
	}
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Name returns the human-readable category name, e.g. "Tropical Cyclone".
func (c Category) Name() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryUnknown]
}

// ParseCategory maps a GDACS event type code to a Category.
// Unrecognized codes are rejected rather than coerced to CategoryUnknown;
// the feed is expected to send only codes from the closed set.
func ParseCategory(code string) (Category, error) {
	c := Category(code)
	if !c.Valid() {
		return CategoryUnknown, fmt.Errorf("unknown category code %q", code)
	}
	return c, nil
}

const (
	// OffshoreCountry is substituted when a feed item carries no country,
	// e.g. open-ocean tropical cyclones.
	OffshoreCountry = "Off-shore"

	// UnknownISO2 is the sentinel alpha-2 code for offshore/unknown locations.
	UnknownISO2 = "UN"
)

// Event is one normalized disaster event from the GDACS feed.
// Events are validated once at construction and treated as immutable
// afterwards.
type Event struct {
	ID          int64
	Title       string
	Description string
	Category    Category
	AlertLevel  string // Green/Orange/Red expected, but not enforced
	Severity    string
	Population  int64
	Date        time.Time // calendar date, UTC midnight
	Latitude    float64   // rounded to 5 decimals
	Longitude   float64   // rounded to 5 decimals
	Countries   []string  // non-empty; Countries[0] is the primary country
	ISO2        string
	Link        string
}

// Validate checks the invariants every constructed Event must satisfy.
func (e Event) Validate() error {
	if e.ID < 0 {
		return fmt.Errorf("event id must not be negative, got %d", e.ID)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("invalid category %q", string(e.Category))
	}
	if e.Population < 0 {
		return fmt.Errorf("population must not be negative, got %d", e.Population)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("event date is not set")
	}
	if e.Latitude < -90 || e.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", e.Latitude)
	}
	if e.Longitude < -180 || e.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", e.Longitude)
	}
	if len(e.Countries) == 0 {
		return fmt.Errorf("event must have at least one country")
	}
	if len(e.ISO2) != 2 {
		return fmt.Errorf("iso2 code must be 2 letters, got %q", e.ISO2)
	}
	return nil
}

// FormattedID renders the event id the way GDACS reports do, zero-padded
// to seven digits.
func (e Event) FormattedID() string {
	return fmt.Sprintf("%07d", e.ID)
}

// DateString renders the event date in the feed's own style,
// e.g. "Wed, 03 Jan 2024".
func (e Event) DateString() string {
	return e.Date.Format("Mon, 02 Jan 2006")
}

// PrimaryCountry is the first (primary) affected country.
func (e Event) PrimaryCountry() string {
	return e.Countries[0]
}

// OtherCountries lists the remaining affected countries, possibly empty.
func (e Event) OtherCountries() []string {
	return e.Countries[1:]
}

// Placeholder is the fixed sentinel event substituted when ingestion fails
// entirely. The caller always gets one visible record instead of an empty
// catalog.
func Placeholder() Event {
	return Event{
		ID:          0,
		Title:       "eventTitle",
		Description: "eventDescription: no events could be fetched from GDACS",
		Category:    CategoryUnknown,
		AlertLevel:  "alertLevel",
		Severity:    "eventSeverity",
		Population:  0,
		Date:        time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC),
		Latitude:    0,
		Longitude:   0,
		Countries:   []string{"United Nations"},
		ISO2:        UnknownISO2,
		Link:        "https://www.gdacs.org/",
	}
}
