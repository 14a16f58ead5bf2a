// Package geocode holds the external location collaborators: the static
// ISO 3166 code table, the flag CDN client and the Nominatim reverse
// geocoder, plus coordinate display helpers.
package geocode

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
)

//go:embed country_codes.csv
var codesCSV []byte

// ErrUnknownCode is returned when a code is missing from the ISO 3166 table.
// A well-formed feed never triggers it; hitting it means the dataset and the
// feed disagree, so callers treat it as fatal rather than recoverable.
var ErrUnknownCode = errors.New("geocode: unknown country code")

type countryEntry struct {
	Name    string
	Alpha2  string
	Alpha3  string
	Numeric string
}

var (
	tableOnce sync.Once
	tableErr  error
	byAlpha2  map[string]countryEntry
	byAlpha3  map[string]countryEntry
	byNumeric map[string]countryEntry
)

func loadTable() {
	reader := csv.NewReader(bytes.NewReader(codesCSV))
	rows, err := reader.ReadAll()
	if err != nil {
		tableErr = fmt.Errorf("parsing embedded country table: %w", err)
		return
	}

	byAlpha2 = make(map[string]countryEntry, len(rows))
	byAlpha3 = make(map[string]countryEntry, len(rows))
	byNumeric = make(map[string]countryEntry, len(rows))

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		e := countryEntry{Name: row[0], Alpha2: row[1], Alpha3: row[2], Numeric: row[3]}
		byAlpha2[e.Alpha2] = e
		byAlpha3[e.Alpha3] = e
		byNumeric[e.Numeric] = e
	}
}

// lookup resolves an ISO 3166 code in alpha-2, alpha-3 or numeric form.
func lookup(code string) (countryEntry, error) {
	tableOnce.Do(loadTable)
	if tableErr != nil {
		return countryEntry{}, tableErr
	}

	var entry countryEntry
	var ok bool
	switch {
	case len(code) == 2 && isAlpha(code):
		entry, ok = byAlpha2[strings.ToUpper(code)]
	case len(code) == 3 && isAlpha(code):
		entry, ok = byAlpha3[strings.ToUpper(code)]
	case len(code) == 3 && isDigits(code):
		entry, ok = byNumeric[code]
	}
	if !ok {
		return countryEntry{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	return entry, nil
}

// ToAlpha2 converts any supported ISO 3166 code form to its alpha-2 code.
func ToAlpha2(code string) (string, error) {
	entry, err := lookup(code)
	if err != nil {
		return "", err
	}
	return entry.Alpha2, nil
}

// ToAlpha3 converts any supported ISO 3166 code form to its alpha-3 code.
func ToAlpha3(code string) (string, error) {
	entry, err := lookup(code)
	if err != nil {
		return "", err
	}
	return entry.Alpha3, nil
}

// CountryName resolves the display name for any supported ISO 3166 code form.
func CountryName(code string) (string, error) {
	entry, err := lookup(code)
	if err != nil {
		return "", err
	}
	return entry.Name, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Resolver adapts the package-level table to the feed parser's
// CodeResolver interface.
type Resolver struct{}

func (Resolver) ToAlpha2(code string) (string, error) {
	return ToAlpha2(code)
}
