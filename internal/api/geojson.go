package api

import (
	"strings"

	"github.com/crisislens/gdacs-viewer/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func toGeoJSON(events []models.Event) FeatureCollection {
	features := make([]Feature, 0, len(events))

	for _, e := range events {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{e.Longitude, e.Latitude},
			},
			Properties: map[string]any{
				"id":          e.FormattedID(),
				"title":       e.Title,
				"description": e.Description,
				"category":    string(e.Category),
				"name":        e.Category.Name(),
				"alert_level": strings.ToLower(e.AlertLevel),
				"severity":    e.Severity,
				"population":  e.Population,
				"date":        e.DateString(),
				"countries":   e.Countries,
				"iso2":        e.ISO2,
				"link":        e.Link,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
