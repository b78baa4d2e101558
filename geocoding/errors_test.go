// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

type errorCheckTestCase struct {
	name string
	err  error
	want bool
}

func runErrorCheckTest(t *testing.T, tests []errorCheckTestCase, checkFunc func(error) bool) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkFunc(tt.err); got != tt.want {
				t.Errorf("checkFunc() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{
			name: "rate limit error type",
			err:  &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit exceeded"},
			want: true,
		},
		{
			name: "wrapped rate limit error",
			err:  fmt.Errorf("tier full: %w", ClassifyHTTPError(http.StatusTooManyRequests, "")),
			want: true,
		},
		{
			name: "error message contains too many requests",
			err:  errors.New("too many requests"),
			want: true,
		},
		{
			name: "google over query limit",
			err:  errors.New("google maps status: OVER_QUERY_LIMIT"),
			want: true,
		},
		{
			name: "other error type",
			err:  &GeocodingError{Type: ErrorTypeNotFound, Message: "not found"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("some other error"),
			want: false,
		},
	}, IsRateLimitError)
}

func TestIsTimeoutError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{
			name: "timeout error type",
			err:  &GeocodingError{Type: ErrorTypeTimeout, Message: "slow"},
			want: true,
		},
		{
			name: "client timeout message",
			err:  errors.New("Client.Timeout exceeded while awaiting headers"),
			want: true,
		},
		{
			name: "deadline exceeded",
			err:  errors.New("context deadline exceeded"),
			want: true,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}, IsTimeoutError)
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusForbidden, ErrorTypeQuotaExceeded},
		{http.StatusBadRequest, ErrorTypeInvalidRequest},
		{http.StatusNotFound, ErrorTypeNotFound},
		{http.StatusBadGateway, ErrorTypeNetworkError},
		{http.StatusServiceUnavailable, ErrorTypeNetworkError},
		{http.StatusGatewayTimeout, ErrorTypeNetworkError},
		{http.StatusTeapot, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			if got := ClassifyHTTPError(tt.status, "").Type; got != tt.want {
				t.Errorf("ClassifyHTTPError(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestClassifyHTTPErrorBody(t *testing.T) {
	err := ClassifyHTTPError(http.StatusBadRequest, "  missing q  ")
	if got, want := err.Error(), "invalid request: missing q"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	long := ClassifyHTTPError(http.StatusInternalServerError, strings.Repeat("x", 1000))
	if len(long.Error()) > 300 {
		t.Errorf("body should be abbreviated, got %d bytes", len(long.Error()))
	}
}

func TestGeocodingErrorUnwrap(t *testing.T) {
	err := &GeocodingError{Type: ErrorTypeNotFound, Message: "nothing here", Err: ErrNoResult}

	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected errors.Is(err, ErrNoResult)")
	}

	if got, want := err.Error(), "nothing here: no result"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if got := ErrorTypeMalformedResponse.String(); got != "malformed_response" {
		t.Errorf("String() = %q", got)
	}
}
