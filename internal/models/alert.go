package models

import "strings"

// Alert level hex colors shared by every renderer. The mapping is total: any
// level outside the known set maps to the violet sentinel so display code
// never has to handle a missing color.
const (
	AlertColorGreen   = "#008700"
	AlertColorOrange  = "#d78700"
	AlertColorRed     = "#ff0000"
	AlertColorUnknown = "#ee82ee" // violet
)

// AlertColor returns the display color for a GDACS alert level.
func AlertColor(level string) string {
	switch strings.ToLower(level) {
	case "green":
		return AlertColorGreen
	case "orange":
		return AlertColorOrange
	case "red":
		return AlertColorRed
	default:
		return AlertColorUnknown
	}
}
