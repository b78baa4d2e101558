// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jcodagnone/alertae/utils/httputils"
)

const restPath = "/rest/v1/alerts"

// SupabaseOptions configuration for SupabaseStore.
type SupabaseOptions struct {
	// URL is the project URL, https://<project>.supabase.co
	URL string

	// APIKey is sent as apikey and bearer token
	APIKey string

	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Enables light tracing of HTTP requests and responses
	TraceWriter io.Writer

	// Enables full HTTP body tracing
	TraceBody bool
}

// SupabaseStore stores alerts through the PostgREST API of a Supabase project.
type SupabaseStore struct {
	endpoint string
	client   *http.Client
}

// NewSupabaseStore creates a store for the alerts table of a Supabase project.
func NewSupabaseStore(options SupabaseOptions) (*SupabaseStore, error) {
	if options.URL == "" {
		return nil, errors.New("supabase URL is required")
	}

	if options.APIKey == "" {
		return nil, errors.New("supabase API key is required")
	}

	if _, err := url.Parse(options.URL); err != nil {
		return nil, fmt.Errorf("parsing supabase URL: %w", err)
	}

	client := httputils.NewClient(httputils.ClientOptions{
		UserAgent:   options.UserAgent,
		TraceWriter: options.TraceWriter,
		TraceBody:   options.TraceBody,
		Headers: map[string]string{
			"apikey":        options.APIKey,
			"Authorization": "Bearer " + options.APIKey,
			"Accept":        "application/json",
		},
	})

	return &SupabaseStore{
		endpoint: strings.TrimRight(options.URL, "/") + restPath,
		client:   client,
	}, nil
}

func byID(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

// do runs a request against the alerts endpoint, decoding the response into
// out when out is not nil.
func (s *SupabaseStore) do(ctx context.Context, op, method string, query url.Values, in, out any) error {
	u := s.endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader

	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &StoreError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &StoreError{Op: op, Err: err}
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &StoreError{Op: op, Err: err}
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return &StoreError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StoreError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &StoreError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}

// Create implements Store.
func (s *SupabaseStore) Create(ctx context.Context, alert *Alert) (*Alert, error) {
	var created []*Alert
	if err := s.do(ctx, "create alert", http.MethodPost, nil, alert, &created); err != nil {
		return nil, err
	}

	if len(created) == 0 {
		return nil, &StoreError{Op: "create alert", Err: errors.New("no data returned")}
	}

	return created[0], nil
}

// List implements Store.
func (s *SupabaseStore) List(ctx context.Context) ([]*Alert, error) {
	var alerts []*Alert
	if err := s.do(ctx, "list alerts", http.MethodGet, nil, nil, &alerts); err != nil {
		return nil, err
	}

	if alerts == nil {
		alerts = []*Alert{}
	}

	return alerts, nil
}

// Get implements Store.
func (s *SupabaseStore) Get(ctx context.Context, id string) (*Alert, error) {
	var alerts []*Alert
	if err := s.do(ctx, "get alert", http.MethodGet, byID(id), nil, &alerts); err != nil {
		return nil, err
	}

	if len(alerts) == 0 {
		return nil, fmt.Errorf("alert %q: %w", id, ErrNotFound)
	}

	return alerts[0], nil
}

// Update implements Store.
func (s *SupabaseStore) Update(ctx context.Context, id string, patch *Alert) (*Alert, error) {
	var updated []*Alert
	if err := s.do(ctx, "update alert", http.MethodPatch, byID(id), patch, &updated); err != nil {
		return nil, err
	}

	if len(updated) == 0 {
		return nil, fmt.Errorf("alert %q: %w", id, ErrNotFound)
	}

	return updated[0], nil
}

// Delete implements Store.
func (s *SupabaseStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, "delete alert", http.MethodDelete, byID(id), nil, nil)
}
