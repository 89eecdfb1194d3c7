package fakeapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "test-area", Slug("Test Area"))
	assert.Equal(t, "kumpula", Slug("  Kumpula "))
	assert.Equal(t, "a-b", Slug("A \t B"))
}

func TestStore_CRUD(t *testing.T) {
	t.Parallel()

	store := NewStore()

	area, err := store.Create("Test Area", "Oulu")
	require.NoError(t, err)
	assert.Equal(t, Area{Key: "test-area", Name: "Test Area", Location: "Oulu"}, area)

	_, err = store.Create("test area", "")
	require.ErrorIs(t, err, ErrAreaExists)

	_, err = store.Create(" ", "")
	require.ErrorIs(t, err, ErrEmptyName)

	updated, err := store.Update("test-area", "Linnanmaa", "")
	require.NoError(t, err)
	assert.Equal(t, "Oulu", updated.Location)
	assert.Equal(t, "test-area", updated.Key)

	_, err = store.Update("missing", "x", "")
	require.ErrorIs(t, err, ErrAreaNotFound)

	require.NoError(t, store.Delete("test-area"))
	require.ErrorIs(t, store.Delete("test-area"), ErrAreaNotFound)
	assert.Empty(t, store.List())
}

func TestStore_Measurements(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Seed(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 3)

	require.Len(t, store.List(), 2)

	page, total, err := store.Measurements("otaniemi", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, 1, page[0].Time.Hour())

	page, _, err = store.Measurements("otaniemi", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, page)

	_, _, err = store.Measurements("nowhere", 0, 5)
	require.ErrorIs(t, err, ErrAreaNotFound)

	require.ErrorIs(t, store.AddMeasurements("nowhere"), ErrAreaNotFound)
}
