// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jcodagnone/alertae/spatial"
)

// DefaultNominatimURL is the public OpenStreetMap search endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder queries an OpenStreetMap Nominatim compatible endpoint.
type NominatimGeocoder struct {
	endpoint   string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a geocoder for endpoint. The client is
// expected to carry the User-Agent the Nominatim usage policy requires.
func NewNominatimGeocoder(endpoint string, httpClient *http.Client) *NominatimGeocoder {
	if endpoint == "" {
		endpoint = DefaultNominatimURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &NominatimGeocoder{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// nominatimPlace lat/lon usually come quoted, but some deployments emit
// plain numbers.
type nominatimPlace struct {
	Lat         json.RawMessage `json:"lat"`
	Lon         json.RawMessage `json:"lon"`
	DisplayName string          `json:"display_name"`
}

// Geocode implements Geocoder.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (*GeocodingResult, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing geocoding endpoint: %w", err)
	}

	params := u.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoding request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || IsTimeoutError(err) {
			return nil, &GeocodingError{Type: ErrorTypeTimeout, Message: "geocoding request timed out", Err: err}
		}

		return nil, &GeocodingError{Type: ErrorTypeNetworkError, Message: "geocoding request failed", Err: err}
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &GeocodingError{Type: ErrorTypeNetworkError, Message: "reading geocoding response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ClassifyHTTPError(resp.StatusCode, string(body))
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, &GeocodingError{Type: ErrorTypeMalformedResponse, Message: "decoding geocoding response", Err: err}
	}

	if len(places) == 0 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no coordinates found for %q", query),
			Err:     ErrNoResult,
		}
	}

	first := places[0]

	lat, okLat := coordinateText(first.Lat)
	lon, okLon := coordinateText(first.Lon)

	if !okLat || !okLon {
		return nil, &GeocodingError{
			Type:    ErrorTypeMalformedResponse,
			Message: fmt.Sprintf("response without valid lat/lon for %q", query),
			Err:     ErrNoResult,
		}
	}

	point, err := spatial.ParsePoint(lat, lon)
	if err != nil {
		return nil, &GeocodingError{Type: ErrorTypeMalformedResponse, Message: "parsing coordinates", Err: err}
	}

	return &GeocodingResult{
		Point:       point,
		Confidence:  "medium",
		Provider:    "nominatim",
		DisplayName: first.DisplayName,
	}, nil
}

// coordinateText extracts a coordinate that is either a JSON string or a JSON
// number.
func coordinateText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}

	return "", false
}
