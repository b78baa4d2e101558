// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package alerts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcodagnone/alertae/spatial"
	"github.com/uber/h3-go/v4"
)

// H3Resolution is the resolution of the cell stored with each alert
// (~0.1 km² hexagons).
const H3Resolution = 9

// createdAtLayout has a fixed width so that created_at sorts as text.
const createdAtLayout = "2006-01-02T15:04:05.000000Z07:00"

// DuckDBStore keeps alerts in a local DuckDB database. It mirrors the
// behavior of the remote store for offline development.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore creates a store over db. Call CreateSchema before use.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

// CreateSchema creates the alerts table.
func (s *DuckDBStore) CreateSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS alerts (
			id                 VARCHAR PRIMARY KEY,
			title              VARCHAR,
			message            VARCHAR,
			email_notification VARCHAR,
			lat                DOUBLE,
			lng                DOUBLE,
			h3_cell            BIGINT,
			created_at         VARCHAR NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating alerts table: %w", err)
	}

	return nil
}

// h3Cell returns the H3 cell of the alert, if it has a valid coordinate.
func h3Cell(alert *Alert) (sql.NullInt64, error) {
	if alert.Lat == nil || alert.Long == nil {
		return sql.NullInt64{}, nil
	}

	p := spatial.Point{Lat: *alert.Lat, Lng: *alert.Long}
	if !p.Valid() {
		return sql.NullInt64{}, fmt.Errorf("invalid coordinate %s", p)
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), H3Resolution)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("error converting to h3 cell at res %d: %w", H3Resolution, err)
	}

	return sql.NullInt64{Int64: int64(cell), Valid: true}, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*Alert, error) {
	var (
		alert                 Alert
		title, message, email sql.NullString
		lat, lng              sql.NullFloat64
	)

	if err := row.Scan(&alert.ID, &title, &message, &email, &lat, &lng, &alert.CreatedAt); err != nil {
		return nil, err
	}

	alert.Title = title.String
	alert.Message = message.String
	alert.EmailNotification = email.String

	if lat.Valid {
		alert.Lat = &lat.Float64
	}

	if lng.Valid {
		alert.Long = &lng.Float64
	}

	return &alert, nil
}

const selectAlerts = `SELECT id, title, message, email_notification, lat, lng, created_at FROM alerts`

// Create implements Store.
func (s *DuckDBStore) Create(ctx context.Context, alert *Alert) (*Alert, error) {
	stored := *alert
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC().Format(createdAtLayout)

	cell, err := h3Cell(&stored)
	if err != nil {
		return nil, &StoreError{Op: "create alert", Err: err}
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (id, title, message, email_notification, lat, lng, h3_cell, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID,
		nullString(stored.Title),
		nullString(stored.Message),
		nullString(stored.EmailNotification),
		nullFloat(stored.Lat),
		nullFloat(stored.Long),
		cell,
		stored.CreatedAt,
	); err != nil {
		return nil, &StoreError{Op: "create alert", Err: err}
	}

	return &stored, nil
}

// List implements Store.
func (s *DuckDBStore) List(ctx context.Context) ([]*Alert, error) {
	rows, err := s.db.QueryContext(ctx, selectAlerts+` ORDER BY created_at, id`)
	if err != nil {
		return nil, &StoreError{Op: "list alerts", Err: err}
	}
	defer rows.Close()

	alerts := []*Alert{}

	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, &StoreError{Op: "list alerts", Err: err}
		}

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list alerts", Err: err}
	}

	return alerts, nil
}

// Get implements Store.
func (s *DuckDBStore) Get(ctx context.Context, id string) (*Alert, error) {
	alert, err := scanAlert(s.db.QueryRowContext(ctx, selectAlerts+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("alert %q: %w", id, ErrNotFound)
	}

	if err != nil {
		return nil, &StoreError{Op: "get alert", Err: err}
	}

	return alert, nil
}

// Update implements Store. Only the non-empty fields of patch are applied.
func (s *DuckDBStore) Update(ctx context.Context, id string, patch *Alert) (*Alert, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != "" {
		current.Title = patch.Title
	}

	if patch.Message != "" {
		current.Message = patch.Message
	}

	if patch.EmailNotification != "" {
		current.EmailNotification = patch.EmailNotification
	}

	if patch.Lat != nil {
		current.Lat = patch.Lat
	}

	if patch.Long != nil {
		current.Long = patch.Long
	}

	cell, err := h3Cell(current)
	if err != nil {
		return nil, &StoreError{Op: "update alert", Err: err}
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE alerts
		SET title = ?, message = ?, email_notification = ?, lat = ?, lng = ?, h3_cell = ?
		WHERE id = ?`,
		nullString(current.Title),
		nullString(current.Message),
		nullString(current.EmailNotification),
		nullFloat(current.Lat),
		nullFloat(current.Long),
		cell,
		id,
	); err != nil {
		return nil, &StoreError{Op: "update alert", Err: err}
	}

	return current, nil
}

// Delete implements Store.
func (s *DuckDBStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id); err != nil {
		return &StoreError{Op: "delete alert", Err: err}
	}

	return nil
}
