// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package alerts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jcodagnone/alertae/geocoding"
)

// Common errors returned by the package.
var (
	ErrNotFound       = errors.New("alert not found")
	ErrInvalidAddress = errors.New("invalid address")
)

// InvalidAddressError is returned when no coordinate could be found for an
// address.
type InvalidAddressError struct {
	Address geocoding.Address
	Err     error
}

func (e *InvalidAddressError) Error() string {
	a := e.Address

	return "could not find coordinates for the address: " + strings.Join(
		[]string{a.Street, a.Neighborhood, a.City, a.State, a.Country}, ", ")
}

// Is makes errors.Is(err, ErrInvalidAddress) hold.
func (e *InvalidAddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}

func (e *InvalidAddressError) Unwrap() error {
	return e.Err
}

// StoreError is a failed exchange with the persistence backend.
type StoreError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *StoreError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Op)
	sb.WriteString(" failed")

	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " with status %d", e.StatusCode)
	}

	if e.Body != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Body)
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
