// Package cache is a content-addressed cache of generated source, keyed by
// the sha256 digest of the generated code plus the profile it was emitted
// under. Style follows the teacher's compressed WAL
// (dd0wney-graphdb's pkg/wal/compressed_wal.go: snappy-encode before
// writing, snappy-decode on read, track compressed/uncompressed byte
// counts) adapted from an append-only log to a keyed on-disk store, since a
// generated-code cache is read-by-key rather than replayed sequentially.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/snappy"
)

// Cache stores snappy-compressed source blobs on disk under dataDir, one
// file per key.
type Cache struct {
	dataDir string
	mu      sync.Mutex

	hits              uint64
	misses            uint64
	bytesUncompressed uint64
	bytesCompressed   uint64
}

// New returns a Cache rooted at dataDir, creating it if necessary.
func New(dataDir string) (*Cache, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("cache: creating %s: %w", dataDir, err)
	}
	return &Cache{dataDir: dataDir}, nil
}

// Key derives a cache key from a code digest (generate.Digest's output) and
// a profile name, so the same analyzed system cached under two profiles
// doesn't collide.
func Key(digest, profileName string) string {
	sum := sha256.Sum256([]byte(digest + "|" + profileName))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dataDir, key+".snappy")
}

// Get returns the cached source for key, or ok=false on a miss.
func (c *Cache) Get(key string) (source string, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	compressed, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			c.misses++
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache: reading %s: %w", key, err)
	}

	decoded, err := snappy.Decode(nil, compressed)
	if err != nil {
		return "", false, fmt.Errorf("cache: decompressing %s: %w", key, err)
	}

	c.hits++
	return string(decoded), true, nil
}

// Put stores source under key, snappy-compressed.
func (c *Cache) Put(key, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	compressed := snappy.Encode(nil, []byte(source))
	c.bytesUncompressed += uint64(len(source))
	c.bytesCompressed += uint64(len(compressed))

	if err := os.WriteFile(c.path(key), compressed, 0644); err != nil {
		return fmt.Errorf("cache: writing %s: %w", key, err)
	}
	return nil
}

// Stats is a snapshot of cache activity, exposed for pkg/metrics.
type Stats struct {
	Hits              uint64
	Misses            uint64
	BytesUncompressed uint64
	BytesCompressed   uint64
}

// Stats returns a snapshot of the cache's hit/miss and compression counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:              c.hits,
		Misses:            c.misses,
		BytesUncompressed: c.bytesUncompressed,
		BytesCompressed:   c.bytesCompressed,
	}
}
