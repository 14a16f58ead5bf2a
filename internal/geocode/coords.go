package geocode

import "strconv"

// FormatCoords converts a signed decimal coordinate pair to hemisphere
// notation, e.g. (-12.5, 60) -> "12.5 °S", "60 °E".
func FormatCoords(lat, lon float64) (string, string) {
	var latStr, lonStr string
	if lat < 0 {
		latStr = strconv.FormatFloat(-lat, 'f', -1, 64) + " °S"
	} else {
		latStr = strconv.FormatFloat(lat, 'f', -1, 64) + " °N"
	}
	if lon < 0 {
		lonStr = strconv.FormatFloat(-lon, 'f', -1, 64) + " °W"
	} else {
		lonStr = strconv.FormatFloat(lon, 'f', -1, 64) + " °E"
	}
	return latStr, lonStr
}
