// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocoding turns postal addresses into coordinates.
package geocoding

import (
	"context"

	"github.com/jcodagnone/alertae/spatial"
)

// GeocodingResult represents a geocoding result from any provider.
type GeocodingResult struct {
	Point       spatial.Point
	Confidence  string // high, medium, low
	Provider    string
	DisplayName string
}

// Geocoder interface for different geocoding providers.
//
// Geocode returns an error wrapping ErrNoResult when the provider answered
// but had no usable candidate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*GeocodingResult, error)
}

// GeocoderFunc adapts a function into a Geocoder.
type GeocoderFunc func(ctx context.Context, query string) (*GeocodingResult, error)

// Geocode implements Geocoder.
func (f GeocoderFunc) Geocode(ctx context.Context, query string) (*GeocodingResult, error) {
	return f(ctx, query)
}
