// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointValid(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"sao paulo", Point{Lat: -23.5505, Lng: -46.6333}, true},
		{"poles and antimeridian", Point{Lat: 90, Lng: -180}, true},
		{"latitude too big", Point{Lat: 90.1, Lng: 0}, false},
		{"longitude too small", Point{Lat: 0, Lng: -180.5}, false},
		{"nan", Point{Lat: math.NaN(), Lng: 0}, false},
		{"inf", Point{Lat: 0, Lng: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.point.Valid())
		})
	}
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("-23.5505199", " -46.6333094 ")
	require.NoError(t, err)
	assert.InDelta(t, -23.5505199, p.Lat, 1e-9)
	assert.InDelta(t, -46.6333094, p.Lng, 1e-9)

	_, err = ParsePoint("abc", "1")
	require.Error(t, err)

	_, err = ParsePoint("1", "")
	require.Error(t, err)

	_, err = ParsePoint("91", "0")
	require.Error(t, err)
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "POINT(-46.633309 -23.550520)", Point{Lat: -23.5505199, Lng: -46.6333094}.String())
}
