// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jcodagnone/alertae/spatial"
)

// Tier names, from the most to the least specific.
const (
	TierFull          = "full"
	TierWithoutNumber = "without-number"
	TierNeighborhood  = "neighborhood"
	TierCity          = "city"
)

type tier struct {
	name  string
	query func(a Address) string
}

// tiers are evaluated in order; an empty query skips the tier.
var tiers = []tier{
	{
		name: TierFull,
		query: func(a Address) string {
			return FormatAddress(a.Street, a.Neighborhood, a.City, a.State, a.Country)
		},
	},
	{
		name: TierWithoutNumber,
		query: func(a Address) string {
			street := RemoveNumberFromStreet(a.Street)
			if street == "" || street == a.Street {
				return ""
			}

			return FormatAddress(street, a.Neighborhood, a.City, a.State, a.Country)
		},
	},
	{
		name: TierNeighborhood,
		query: func(a Address) string {
			return FormatAddress(a.Neighborhood, a.City, a.State, a.Country)
		},
	},
	{
		name: TierCity,
		query: func(a Address) string {
			return FormatAddress(a.City, a.State, a.Country)
		},
	},
}

// Attempt is a single geocoding query of the fallback chain.
type Attempt struct {
	Tier  string `json:"tier"`
	Query string `json:"query"`
}

// Plan returns the queries Resolve would issue for a, in order. Tiers with an
// empty query, and later tiers repeating the full address query, are left
// out. Later tiers are only compared against the full address, so the
// neighborhood and city tiers may carry the same query.
func Plan(a Address) []Attempt {
	a = a.clean()

	var (
		full     string
		attempts []Attempt
	)

	for i, t := range tiers {
		q := t.query(a)
		if i == 0 {
			full = q
		}

		if q == "" || (i > 0 && q == full) {
			continue
		}

		attempts = append(attempts, Attempt{Tier: t.name, Query: q})
	}

	return attempts
}

// Resolution is the outcome of a successful Resolve.
type Resolution struct {
	Point       spatial.Point `json:"point"`
	Tier        string        `json:"tier"`
	Query       string        `json:"query"`
	Provider    string        `json:"provider"`
	DisplayName string        `json:"display_name,omitempty"`
	Attempts    int           `json:"attempts"`
}

// Resolver resolves addresses relaxing their specificity until the geocoder
// finds them.
type Resolver struct {
	geocoder Geocoder
}

// NewResolver creates a Resolver backed by geocoder.
func NewResolver(geocoder Geocoder) *Resolver {
	return &Resolver{geocoder: geocoder}
}

// Resolve returns the coordinate of the first tier the geocoder answers.
// Provider failures never abort the chain; when every tier fails the error
// wraps ErrAddressNotFound. Only a done ctx stops the chain early.
func (r *Resolver) Resolve(ctx context.Context, a Address) (*Resolution, error) {
	attempts := Plan(a)

	for i, at := range attempts {
		result, err := r.geocoder.Geocode(ctx, at.Query)

		switch {
		case err == nil && result != nil && result.Point.Valid():
			log.Printf("geocoding: tier=%s query=%q found lat=%f lng=%f (%s)",
				at.Tier, at.Query, result.Point.Lat, result.Point.Lng, result.Provider)

			return &Resolution{
				Point:       result.Point,
				Tier:        at.Tier,
				Query:       at.Query,
				Provider:    result.Provider,
				DisplayName: result.DisplayName,
				Attempts:    i + 1,
			}, nil
		case err == nil:
			log.Printf("geocoding: tier=%s query=%q returned no usable coordinate", at.Tier, at.Query)
		case errors.Is(err, ErrNoResult):
			log.Printf("geocoding: tier=%s query=%q no result", at.Tier, at.Query)
		case IsRateLimitError(err):
			log.Printf("⚠️ geocoding: tier=%s query=%q rate limited by provider: %v", at.Tier, at.Query, err)
		default:
			log.Printf("geocoding: tier=%s query=%q failed (%s): %v", at.Tier, at.Query, typeOf(err), err)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("resolving %q: %w", a.clean().String(), ctxErr)
		}
	}

	log.Printf("geocoding: no tier resolved %q after %d attempts", a.clean().String(), len(attempts))

	return nil, fmt.Errorf("%w: %q", ErrAddressNotFound, a.clean().String())
}
