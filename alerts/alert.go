// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

// Package alerts manages geolocated alerts: the HTTP API, the orchestration
// between geocoding and persistence, and the persistence backends.
package alerts

import (
	"context"

	"github.com/jcodagnone/alertae/geocoding"
)

// DefaultCountry is used when a request does not carry a country.
const DefaultCountry = "Brasil"

// Alert is the persisted record. id and created_at are assigned by the store.
// Lat and Long are pointers so that partial updates only carry what the
// client sent.
type Alert struct {
	ID                string   `json:"id,omitempty"`
	Title             string   `json:"title,omitempty"`
	Message           string   `json:"message,omitempty"`
	EmailNotification string   `json:"email_notification,omitempty" binding:"omitempty,email"`
	Lat               *float64 `json:"lat,omitempty" binding:"omitempty,lat"`
	Long              *float64 `json:"long,omitempty" binding:"omitempty,lng"`
	CreatedAt         string   `json:"created_at,omitempty"`
}

// AddressRequest is the payload to create an alert out of a postal address.
// Coordinates are never part of it: they come from geocoding the address.
type AddressRequest struct {
	Title             string `json:"title"`
	Message           string `json:"message"`
	EmailNotification string `json:"emailNotification" binding:"omitempty,email"`
	Street            string `json:"street"`
	Neighborhood      string `json:"neighborhood"`
	City              string `json:"city"`
	State             string `json:"state"`
	Country           string `json:"country"`
}

// NewAddressRequest returns a request with its defaults set, ready to be
// decoded into.
func NewAddressRequest() AddressRequest {
	return AddressRequest{Country: DefaultCountry}
}

// Address returns the address part of the request.
func (r AddressRequest) Address() geocoding.Address {
	return geocoding.Address{
		Street:       r.Street,
		Neighborhood: r.Neighborhood,
		City:         r.City,
		State:        r.State,
		Country:      r.Country,
	}
}

// Store persists alerts.
type Store interface {
	// Create stores alert and returns it as stored, with id and created_at
	Create(ctx context.Context, alert *Alert) (*Alert, error)

	// List returns every alert
	List(ctx context.Context) ([]*Alert, error)

	// Get returns the alert or ErrNotFound
	Get(ctx context.Context, id string) (*Alert, error)

	// Update applies the non-empty fields of patch, returns ErrNotFound if
	// there is no such alert
	Update(ctx context.Context, id string, patch *Alert) (*Alert, error)

	// Delete removes the alert; deleting a missing alert is not an error
	Delete(ctx context.Context, id string) error
}
