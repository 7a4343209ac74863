package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/cellml-codegen/pkg/cache"
)

func TestKeyIsStableAndDiscriminatesProfile(t *testing.T) {
	k1 := cache.Key("deadbeef", "c")
	k2 := cache.Key("deadbeef", "c")
	k3 := cache.Key("deadbeef", "python")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.New(dir)
	require.NoError(t, err)

	key := cache.Key("abc123", "c")

	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, "const size_t STATE_COUNT = 1;"))

	source, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "const size_t STATE_COUNT = 1;", source)
}

func TestStatsTracksHitsAndMisses(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.New(dir)
	require.NoError(t, err)

	key := cache.Key("xyz", "python")
	_, _, _ = c.Get(key) // miss
	require.NoError(t, c.Put(key, "STATE_COUNT = 1"))
	_, _, _ = c.Get(key) // hit

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.True(t, stats.BytesUncompressed > 0)
	assert.True(t, stats.BytesCompressed > 0)
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := t.TempDir() + "/nested/cache"
	c, err := cache.New(dir)
	require.NoError(t, err)
	require.NotNil(t, c)

	require.NoError(t, c.Put(cache.Key("d", "c"), "x"))
	_, ok, err := c.Get(cache.Key("d", "c"))
	require.NoError(t, err)
	assert.True(t, ok)
}
