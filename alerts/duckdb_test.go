// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package alerts

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/h3-go/v4"
)

func setupDuckDBStore(t *testing.T) (*sql.DB, *DuckDBStore) {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	store := NewDuckDBStore(db)
	if err := store.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db, store
}

func TestDuckDBCreateSchemaIsIdempotent(t *testing.T) {
	db, store := setupDuckDBStore(t)
	require.NoError(t, store.CreateSchema())

	var tableName string

	err := db.QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = 'alerts'").Scan(&tableName)
	require.NoError(t, err)
	assert.Equal(t, "alerts", tableName)
}

func TestDuckDBCreateAndGet(t *testing.T) {
	db, store := setupDuckDBStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, &Alert{
		Title:             "Deslizamento",
		Message:           "Encosta cedeu",
		EmailNotification: "defesa@example.com",
		Lat:               ptr(-22.9068),
		Long:              ptr(-43.1729),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	var cell int64
	require.NoError(t, db.QueryRow("SELECT h3_cell FROM alerts WHERE id = ?", created.ID).Scan(&cell))

	want, err := h3.LatLngToCell(h3.NewLatLng(-22.9068, -43.1729), H3Resolution)
	require.NoError(t, err)
	assert.Equal(t, int64(want), cell)
}

func TestDuckDBCreateWithoutCoordinates(t *testing.T) {
	db, store := setupDuckDBStore(t)

	created, err := store.Create(context.Background(), &Alert{Title: "Sem local"})
	require.NoError(t, err)
	assert.Nil(t, created.Lat)

	var cell sql.NullInt64
	require.NoError(t, db.QueryRow("SELECT h3_cell FROM alerts WHERE id = ?", created.ID).Scan(&cell))
	assert.False(t, cell.Valid)
}

func TestDuckDBCreateRejectsInvalidCoordinates(t *testing.T) {
	_, store := setupDuckDBStore(t)

	_, err := store.Create(context.Background(), &Alert{Lat: ptr(100), Long: ptr(0)})

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
}

func TestDuckDBGetNotFound(t *testing.T) {
	_, store := setupDuckDBStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDuckDBList(t *testing.T) {
	_, store := setupDuckDBStore(t)
	ctx := context.Background()

	alerts, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)

	for _, title := range []string{"a", "b", "c"} {
		_, err := store.Create(ctx, &Alert{Title: title})
		require.NoError(t, err)
	}

	alerts, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 3)
}

func TestDuckDBUpdate(t *testing.T) {
	_, store := setupDuckDBStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, &Alert{Title: "old", Message: "kept", Lat: ptr(1), Long: ptr(2)})
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, &Alert{Title: "new", Lat: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "kept", updated.Message)
	assert.InDelta(t, 3.0, *updated.Lat, 1e-9)
	assert.InDelta(t, 2.0, *updated.Long, 1e-9)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestDuckDBUpdateNotFound(t *testing.T) {
	_, store := setupDuckDBStore(t)

	_, err := store.Update(context.Background(), "missing", &Alert{Title: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDuckDBDelete(t *testing.T) {
	_, store := setupDuckDBStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, &Alert{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))
	require.NoError(t, store.Delete(ctx, created.ID), "deleting twice is fine")

	_, err = store.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
