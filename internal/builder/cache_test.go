package builder

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(key string) Entry {
	return Entry{
		Key:         key,
		BaseImage:   "python:3.10-slim",
		Interpreter: "3.10",
		DepsImage:   "rigger/env:" + key[:4] + "-deps",
		CreatedAt:   time.Now(),
	}
}

func TestStore_GetMiss(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/cache")

	_, ok, err := store.Get("deadbeef")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/cache")
	entry := testEntry("deadbeef")

	require.NoError(t, store.Put(entry))

	got, ok, err := store.Get("deadbeef")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.DepsImage, got.DepsImage)
	assert.Equal(t, "3.10", got.Interpreter)
}

func TestStore_PutIdenticalIsNoop(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/cache")
	entry := testEntry("deadbeef")

	require.NoError(t, store.Put(entry))

	// Same content, different timestamp
	entry.CreatedAt = entry.CreatedAt.Add(time.Hour)
	require.NoError(t, store.Put(entry))
}

func TestStore_PutNeverOverwrites(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "/cache")
	entry := testEntry("deadbeef")
	require.NoError(t, store.Put(entry))

	conflicting := entry
	conflicting.DepsImage = "rigger/env:other-deps"

	err := store.Put(conflicting)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflict")

	// Original entry is intact
	got, ok, err := store.Get("deadbeef")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.DepsImage, got.DepsImage)
}
