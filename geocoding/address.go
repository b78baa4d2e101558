// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Address is a structured postal address. Every field is optional.
type Address struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

// clean trims and NFC-normalizes every field.
func (a Address) clean() Address {
	c := func(s string) string {
		return norm.NFC.String(strings.TrimSpace(s))
	}

	return Address{
		Street:       c(a.Street),
		Neighborhood: c(a.Neighborhood),
		City:         c(a.City),
		State:        c(a.State),
		Country:      c(a.Country),
	}
}

// String returns the full address, formatted as a geocoding query.
func (a Address) String() string {
	return FormatAddress(a.Street, a.Neighborhood, a.City, a.State, a.Country)
}

// FormatAddress joins the non-empty parts with ", ".
func FormatAddress(parts ...string) string {
	var sb strings.Builder

	for _, p := range parts {
		if p == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p)
	}

	return sb.String()
}

var (
	standaloneNumberRegex = regexp.MustCompile(`\b\d+\b`)
	trailingCommaRegex    = regexp.MustCompile(`,\s*$`)
	numberMarkerRegex     = regexp.MustCompile(`\b(nº|n|num|número)\s*\d+\b`)
	spacesRegex           = regexp.MustCompile(`\s+`)
)

// RemoveNumberFromStreet drops the house/unit number from a street.
//
//	"Rua das Flores, 123" -> "Rua das Flores"
//	"Avenida Brasil 45"   -> "Avenida Brasil"
func RemoveNumberFromStreet(street string) string {
	street = norm.NFC.String(strings.TrimSpace(street))
	if street == "" {
		return ""
	}

	cleaned := strings.TrimSpace(standaloneNumberRegex.ReplaceAllString(street, ""))
	cleaned = strings.TrimSpace(trailingCommaRegex.ReplaceAllString(cleaned, ""))
	cleaned = strings.TrimSpace(numberMarkerRegex.ReplaceAllString(cleaned, ""))
	cleaned = strings.TrimSpace(spacesRegex.ReplaceAllString(cleaned, " "))

	return cleaned
}
