// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package alerts

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jcodagnone/alertae/geocoding"
)

// AddressResolver resolves addresses into coordinates.
type AddressResolver interface {
	Resolve(ctx context.Context, a geocoding.Address) (*geocoding.Resolution, error)
}

// Service glues geocoding and persistence.
type Service struct {
	resolver AddressResolver
	store    Store
}

// NewService creates a Service.
func NewService(resolver AddressResolver, store Store) *Service {
	return &Service{
		resolver: resolver,
		store:    store,
	}
}

// Create geocodes the request address and stores the alert. It fails with an
// *InvalidAddressError when the address cannot be located.
func (s *Service) Create(ctx context.Context, req AddressRequest) (*Alert, error) {
	address := req.Address()

	res, err := s.resolver.Resolve(ctx, address)
	if err != nil {
		if errors.Is(err, geocoding.ErrAddressNotFound) {
			return nil, &InvalidAddressError{Address: address, Err: err}
		}

		return nil, fmt.Errorf("resolving address: %w", err)
	}

	lat, lng := res.Point.Lat, res.Point.Lng
	alert := &Alert{
		Title:             req.Title,
		Message:           req.Message,
		EmailNotification: req.EmailNotification,
		Lat:               &lat,
		Long:              &lng,
	}

	created, err := s.store.Create(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("creating alert: %w", err)
	}

	log.Printf("Created alert %s at %s (tier %s)", created.ID, res.Point, res.Tier)

	return created, nil
}

// List returns every alert.
func (s *Service) List(ctx context.Context) ([]*Alert, error) {
	return s.store.List(ctx)
}

// Get returns an alert or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Alert, error) {
	return s.store.Get(ctx, id)
}

// Update applies patch to an alert.
func (s *Service) Update(ctx context.Context, id string, patch *Alert) (*Alert, error) {
	return s.store.Update(ctx, id, patch)
}

// Delete removes an alert.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
