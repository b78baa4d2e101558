// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jcodagnone/alertae/alerts"
	"github.com/jcodagnone/alertae/geocoding"
	"github.com/jcodagnone/alertae/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]spatial.Point

func (s stubResolver) Resolve(_ context.Context, a geocoding.Address) (*geocoding.Resolution, error) {
	p, ok := s[a.City]
	if !ok {
		return nil, geocoding.ErrAddressNotFound
	}

	return &geocoding.Resolution{Point: p, Tier: geocoding.TierCity, Query: a.City, Attempts: 1}, nil
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any

	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}

	return lines
}

func TestResolveAll(t *testing.T) {
	resolver := stubResolver{"Recife": {Lat: -8.05, Lng: -34.9}}
	addresses := []geocoding.Address{{City: "Recife"}, {City: "Atlantis"}}

	var buf bytes.Buffer

	err := resolveAll(context.Background(), resolver, addresses, &buf)
	require.ErrorIs(t, err, geocoding.ErrAddressNotFound)
	assert.Contains(t, err.Error(), "1 of 2")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "resolution")
	assert.NotContains(t, lines[0], "error")
	assert.Contains(t, lines[1], "error")
}

func TestResolveAllStopsOnProviderFailure(t *testing.T) {
	var buf bytes.Buffer

	failing := resolverFunc(func(context.Context, geocoding.Address) (*geocoding.Resolution, error) {
		return nil, context.Canceled
	})

	err := resolveAll(context.Background(), failing, []geocoding.Address{{City: "x"}, {City: "y"}}, &buf)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

type resolverFunc func(context.Context, geocoding.Address) (*geocoding.Resolution, error)

func (f resolverFunc) Resolve(ctx context.Context, a geocoding.Address) (*geocoding.Resolution, error) {
	return f(ctx, a)
}

func TestPrintPlans(t *testing.T) {
	var buf bytes.Buffer

	err := printPlans(&buf, []geocoding.Address{{Street: "Rua A, 10", City: "Natal", Country: "Brasil"}})
	require.NoError(t, err)

	var line planLine
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, geocoding.Plan(line.Address), line.Attempts)
	assert.Equal(t, geocoding.TierFull, line.Attempts[0].Tier)
}

func TestReadAddresses(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "addresses.json")
	require.NoError(t, os.WriteFile(filename, []byte(`[{"street":"Rua A","city":"Natal"},{"city":"Recife"}]`), 0o600))

	addresses, err := readAddresses(filename)
	require.NoError(t, err)
	assert.Equal(t, []geocoding.Address{{Street: "Rua A", City: "Natal"}, {City: "Recife"}}, addresses)

	require.NoError(t, os.WriteFile(filename, []byte(`{"city":"Recife"}`), 0o600))

	_, err = readAddresses(filename)
	require.Error(t, err)

	_, err = readAddresses(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func withConfig(t *testing.T, values map[string]any) {
	t.Helper()

	for k, v := range values {
		config.Set(k, v)
	}

	t.Cleanup(func() {
		for k := range values {
			config.Set(k, nil)
		}
	})
}

func TestNewStoreDuckDB(t *testing.T) {
	withConfig(t, map[string]any{
		keyStore:      "duckdb",
		keyDuckDBPath: filepath.Join(t.TempDir(), "alerts.duckdb"),
	})

	store, closeStore, err := newStore()
	require.NoError(t, err)

	defer func() { require.NoError(t, closeStore()) }()

	created, err := store.Create(context.Background(), &alerts.Alert{Title: "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestNewStoreSupabaseRequiresCredentials(t *testing.T) {
	withConfig(t, map[string]any{keyStore: "supabase"})

	_, _, err := newStore()
	require.Error(t, err)
}

func TestNewStoreUnknown(t *testing.T) {
	withConfig(t, map[string]any{keyStore: "mongo"})

	_, _, err := newStore()
	require.Error(t, err)
}

func TestNewGeocoder(t *testing.T) {
	withConfig(t, map[string]any{keyGeocoder: "nominatim", keyGeocodingAPIURL: geocoding.DefaultNominatimURL})

	geocoder, err := newGeocoder(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, geocoder)

	withConfig(t, map[string]any{keyGeocoder: "google", keyGoogleMapsAPIKey: "test-key"})

	geocoder, err = newGeocoder(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, geocoder)

	withConfig(t, map[string]any{keyGeocoder: "bing"})

	_, err = newGeocoder(context.Background())
	require.Error(t, err)
}

func TestUserAgent(t *testing.T) {
	assert.Contains(t, userAgent(), "alertae/")

	withConfig(t, map[string]any{keyUserAgent: "custom/1.0"})
	assert.Equal(t, "custom/1.0", userAgent())
}

func TestTraceWriter(t *testing.T) {
	assert.Nil(t, traceWriter())

	withConfig(t, map[string]any{keyHTTPBodyTrace: true})
	assert.NotNil(t, traceWriter())
}
