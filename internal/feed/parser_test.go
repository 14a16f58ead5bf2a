package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisislens/gdacs-viewer/internal/models"
)

// stubResolver resolves a fixed set of alpha-3 codes.
type stubResolver map[string]string

func (r stubResolver) ToAlpha2(code string) (string, error) {
	if a2, ok := r[code]; ok {
		return a2, nil
	}
	return "", fmt.Errorf("unknown country code %q", code)
}

var testResolver = stubResolver{
	"JPN": "JP",
	"PHL": "PH",
	"IDN": "ID",
}

const feedHeader = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
     xmlns:dc="http://purl.org/dc/elements/1.1/"
     xmlns:geo="http://www.w3.org/2003/01/geo/wgs84_pos#"
     xmlns:gdacs="http://www.gdacs.org"
     xmlns:glide="http://glidenumber.net"
     xmlns:georss="http://www.georss.org/georss"
     xmlns:atom="http://www.w3.org/2005/Atom">
<channel>
<title>GDACS RSS information</title>`

const feedFooter = `</channel>
</rss>`

func wrapItems(items ...string) []byte {
	doc := feedHeader
	for _, it := range items {
		doc += it
	}
	doc += feedFooter
	return []byte(doc)
}

const itemJapanEQ = `
<item>
<title>Green earthquake alert (Magnitude 5.1M) in Japan</title>
<description>This earthquake can have a low humanitarian impact.</description>
<link>https://www.gdacs.org/report.aspx?eventtype=EQ&amp;eventid=1442858</link>
<gdacs:eventtype>EQ</gdacs:eventtype>
<gdacs:alertlevel>Green</gdacs:alertlevel>
<gdacs:eventid>1442858</gdacs:eventid>
<gdacs:severity unit="M" value="5.1">Magnitude 5.1M, Depth:35.43km</gdacs:severity>
<gdacs:population unit="Magnitude 5M" value="2400">2400 people in MMI V</gdacs:population>
<gdacs:todate>Wed, 3 Jan 2024 06:21:09 GMT</gdacs:todate>
<gdacs:country>Japan</gdacs:country>
<gdacs:iso3>JPN</gdacs:iso3>
<geo:Point><geo:lat>35.676219</geo:lat><geo:long>139.650311</geo:long></geo:Point>
</item>`

const itemPhilippinesEQ = `
<item>
<title>Green earthquake alert (Magnitude 4.8M) in Philippines</title>
<description>Low humanitarian impact expected.</description>
<link>https://www.gdacs.org/report.aspx?eventtype=EQ&amp;eventid=1442001</link>
<gdacs:eventtype>EQ</gdacs:eventtype>
<gdacs:alertlevel>Green</gdacs:alertlevel>
<gdacs:eventid>1442001</gdacs:eventid>
<gdacs:severity unit="M" value="4.8">Magnitude 4.8M, Depth:10km</gdacs:severity>
<gdacs:population unit="Magnitude 5M" value="0"></gdacs:population>
<gdacs:todate>Mon, 1 Jan 2024 15:30:00 GMT</gdacs:todate>
<gdacs:country>Philippines, Indonesia</gdacs:country>
<gdacs:iso3>PHL</gdacs:iso3>
<geo:Point><geo:lat>12.5</geo:lat><geo:long>124.1</geo:long></geo:Point>
</item>`

const itemOffshoreTC = `
<item>
<title>Tropical Cyclone ALERT-24</title>
<description>Open ocean tropical cyclone.</description>
<link>https://www.gdacs.org/report.aspx?eventtype=TC&amp;eventid=1000999</link>
<gdacs:eventtype>TC</gdacs:eventtype>
<gdacs:alertlevel>Orange</gdacs:alertlevel>
<gdacs:eventid>1000999</gdacs:eventid>
<gdacs:severity unit="km/h" value="185">Maximum wind speed 185 km/h</gdacs:severity>
<gdacs:population unit="" value=""></gdacs:population>
<gdacs:todate>Tue, 2 Jan 2024 00:00:00 GMT</gdacs:todate>
<gdacs:country></gdacs:country>
<gdacs:iso3></gdacs:iso3>
<geo:Point><geo:lat>-14.123456789</geo:lat><geo:long>-168.987654321</geo:long></geo:Point>
</item>`

func TestParse_FullItems(t *testing.T) {
	events, warnings, err := Parse(wrapItems(itemJapanEQ, itemPhilippinesEQ), testResolver)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, events, 2)

	jp := events[0]
	assert.Equal(t, int64(1442858), jp.ID)
	assert.Equal(t, "Green earthquake alert (Magnitude 5.1M) in Japan", jp.Title)
	assert.Equal(t, models.CategoryEarthquake, jp.Category)
	assert.Equal(t, "Green", jp.AlertLevel)
	assert.Equal(t, "Magnitude 5.1M, Depth:35.43km", jp.Severity)
	assert.Equal(t, int64(2400), jp.Population)
	assert.Equal(t, time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), jp.Date)
	assert.Equal(t, 35.67622, jp.Latitude)
	assert.Equal(t, 139.65031, jp.Longitude)
	assert.Equal(t, []string{"Japan"}, jp.Countries)
	assert.Equal(t, "JP", jp.ISO2)
	assert.Equal(t, "https://www.gdacs.org/report.aspx?eventtype=EQ&eventid=1442858", jp.Link)

	ph := events[1]
	assert.Equal(t, []string{"Philippines", "Indonesia"}, ph.Countries)
	assert.Equal(t, "PH", ph.ISO2, "primary country's code wins for multi-country events")
}

func TestParse_DateTruncation(t *testing.T) {
	events, _, err := Parse(wrapItems(itemJapanEQ), testResolver)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// 06:21:09 GMT is discarded: only the calendar date remains.
	assert.Equal(t, 0, events[0].Date.Hour())
	assert.Equal(t, 0, events[0].Date.Minute())
	assert.Equal(t, time.UTC, events[0].Date.Location())
}

func TestParse_CoordinateRounding(t *testing.T) {
	events, _, err := Parse(wrapItems(itemOffshoreTC), testResolver)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, -14.12346, events[0].Latitude)
	assert.Equal(t, -168.98765, events[0].Longitude)
}

func TestParse_MissingCountry(t *testing.T) {
	events, warnings, err := Parse(wrapItems(itemOffshoreTC), testResolver)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, events, 1)

	assert.Equal(t, []string{models.OffshoreCountry}, events[0].Countries)
	assert.Equal(t, models.UnknownISO2, events[0].ISO2)
	assert.Equal(t, int64(0), events[0].Population, "empty population value defaults to 0")
}

func TestParse_MalformedItemIsSkipped(t *testing.T) {
	badID := `
<item>
<title>broken</title>
<gdacs:eventtype>EQ</gdacs:eventtype>
<gdacs:eventid>not-a-number</gdacs:eventid>
<gdacs:todate>Wed, 3 Jan 2024 06:21:09 GMT</gdacs:todate>
<geo:Point><geo:lat>1.0</geo:lat><geo:long>1.0</geo:long></geo:Point>
</item>`

	events, warnings, err := Parse(wrapItems(badID, itemJapanEQ), testResolver)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "eventid", warnings[0].Field)
	require.Len(t, events, 1, "one malformed entry must not discard the feed")
	assert.Equal(t, int64(1442858), events[0].ID)
}

func TestParse_UnknownCategoryIsSkipped(t *testing.T) {
	tsunami := `
<item>
<title>tsunami</title>
<gdacs:eventtype>TS</gdacs:eventtype>
<gdacs:eventid>42</gdacs:eventid>
<gdacs:todate>Wed, 3 Jan 2024 06:21:09 GMT</gdacs:todate>
<gdacs:country>Japan</gdacs:country>
<gdacs:iso3>JPN</gdacs:iso3>
<geo:Point><geo:lat>1.0</geo:lat><geo:long>1.0</geo:long></geo:Point>
</item>`

	events, warnings, err := Parse(wrapItems(tsunami), testResolver)
	require.NoError(t, err)
	assert.Empty(t, events)
	require.Len(t, warnings, 1)
	assert.Equal(t, "eventtype", warnings[0].Field)
	assert.Equal(t, "42", warnings[0].EventID)
}

func TestParse_OutOfRangeCoordinates(t *testing.T) {
	badLat := `
<item>
<title>bad coords</title>
<gdacs:eventtype>EQ</gdacs:eventtype>
<gdacs:eventid>43</gdacs:eventid>
<gdacs:todate>Wed, 3 Jan 2024 06:21:09 GMT</gdacs:todate>
<gdacs:country>Japan</gdacs:country>
<gdacs:iso3>JPN</gdacs:iso3>
<geo:Point><geo:lat>95.0</geo:lat><geo:long>1.0</geo:long></geo:Point>
</item>`

	events, warnings, err := Parse(wrapItems(badLat), testResolver)
	require.NoError(t, err)
	assert.Empty(t, events)
	require.Len(t, warnings, 1)
	assert.Equal(t, "validation", warnings[0].Field)
}

func TestParse_MalformedDocument(t *testing.T) {
	_, _, err := Parse([]byte("<rss><channel>"), testResolver)
	assert.Error(t, err, "a malformed top-level document is a hard failure")
}

func TestParse_UnknownISO3IsFatal(t *testing.T) {
	badISO := `
<item>
<title>inconsistent dataset</title>
<gdacs:eventtype>EQ</gdacs:eventtype>
<gdacs:eventid>44</gdacs:eventid>
<gdacs:todate>Wed, 3 Jan 2024 06:21:09 GMT</gdacs:todate>
<gdacs:country>Atlantis</gdacs:country>
<gdacs:iso3>ATL</gdacs:iso3>
<geo:Point><geo:lat>1.0</geo:lat><geo:long>1.0</geo:long></geo:Point>
</item>`

	_, _, err := Parse(wrapItems(badISO), testResolver)
	assert.Error(t, err)
}

func TestParse_CountryWithoutISO3(t *testing.T) {
	noISO := `
<item>
<title>country but no code</title>
<gdacs:eventtype>FL</gdacs:eventtype>
<gdacs:eventid>45</gdacs:eventid>
<gdacs:todate>Wed, 3 Jan 2024 06:21:09 GMT</gdacs:todate>
<gdacs:country>Japan</gdacs:country>
<gdacs:iso3></gdacs:iso3>
<geo:Point><geo:lat>1.0</geo:lat><geo:long>1.0</geo:long></geo:Point>
</item>`

	events, warnings, err := Parse(wrapItems(noISO), testResolver)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, events, 1)
	assert.Equal(t, models.UnknownISO2, events[0].ISO2)
	assert.Equal(t, []string{"Japan"}, events[0].Countries)
}
