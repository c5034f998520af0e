package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Source identifies which tier served a cache hit.
type Source string

const (
	SourceMemory Source = "memory"
	SourceDisk   Source = "disk"
)

// entry is the in-memory tier representation.
type entry struct {
	value     json.RawMessage
	expiresAt time.Time
}

// record is the durable tier representation. The logical key is stored inside
// the record so prefix scans can filter on it rather than on the hashed
// filename.
type record struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Cache is a two-tier key/value store with TTL and prefix invalidation.
// Construct once at process start with [New] and inject it into components;
// the memory tier tolerates concurrent readers and writers on disjoint keys.
type Cache struct {
	dir    string
	logger *log.Logger

	mu  sync.RWMutex
	mem map[string]entry

	now func() time.Time // injectable for expiry tests
}

// New creates a Cache with its durable tier rooted at dir, creating the
// directory if needed.
func New(dir string, logger *log.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{
		dir:    dir,
		logger: logger,
		mem:    make(map[string]entry),
		now:    time.Now,
	}, nil
}

// diskPath maps a logical key to its durable tier filename via a one-way
// content hash.
func (c *Cache) diskPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Get returns the cached value for key and the tier that served it. Expired
// entries are purged from the tier they were found in and treated as absent.
// A durable hit is promoted into the memory tier before returning.
func (c *Cache) Get(key string) (json.RawMessage, Source, bool) {
	c.mu.RLock()
	e, ok := c.mem[key]
	c.mu.RUnlock()

	if ok {
		if c.now().Before(e.expiresAt) {
			return e.value, SourceMemory, true
		}
		c.mu.Lock()
		delete(c.mem, key)
		c.mu.Unlock()
	}

	path := c.diskPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		c.logger.Warn("dropping malformed cache record", "key", key, "err", err)
		os.Remove(path)
		return nil, "", false
	}

	if !c.now().Before(rec.ExpiresAt) {
		os.Remove(path)
		return nil, "", false
	}

	c.mu.Lock()
	c.mem[key] = entry{value: rec.Value, expiresAt: rec.ExpiresAt}
	c.mu.Unlock()

	return rec.Value, SourceDisk, true
}

// Set stores value under key in both tiers with the given TTL. A durable tier
// write failure is logged and swallowed; the memory tier is always updated.
// Returns an error only if the value cannot be serialized.
func (c *Cache) Set(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	expiresAt := c.now().Add(ttl)

	c.mu.Lock()
	c.mem[key] = entry{value: raw, expiresAt: expiresAt}
	c.mu.Unlock()

	rec := record{Key: key, Value: raw, ExpiresAt: expiresAt}
	data, err := json.Marshal(rec)
	if err != nil {
		c.logger.Warn("failed to marshal cache record", "key", key, "err", err)
		return nil
	}

	path := c.diskPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		c.logger.Warn("durable cache write failed", "key", key, "err", err)
		return nil
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		c.logger.Warn("durable cache rename failed", "key", key, "err", err)
	}

	return nil
}

// Delete removes key from both tiers.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()

	os.Remove(c.diskPath(key))
}

// ClearPrefix removes every entry whose logical key starts with prefix,
// scanning both tiers, and returns the number of distinct keys removed.
// Diagnostic/administrative; callers gate it away from production runtimes.
// A write landing mid-scan may or may not be included.
func (c *Cache) ClearPrefix(prefix string) int {
	removed := make(map[string]struct{})

	c.mu.Lock()
	for key := range c.mem {
		if strings.HasPrefix(key, prefix) {
			delete(c.mem, key)
			removed[key] = struct{}{}
		}
	}
	c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Warn("failed to scan cache directory", "err", err)
		return len(removed)
	}

	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}

		path := filepath.Join(c.dir, ent.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}

		if strings.HasPrefix(rec.Key, prefix) {
			if err := os.Remove(path); err == nil {
				removed[rec.Key] = struct{}{}
			}
		}
	}

	return len(removed)
}

// Stats summarizes both tiers for the cache stats diagnostic command.
type Stats struct {
	MemoryEntries int   `json:"memory_entries"`
	DiskEntries   int   `json:"disk_entries"`
	DiskBytes     int64 `json:"disk_bytes"`
}

// Stat reports entry counts and durable tier size on disk.
func (c *Cache) Stat() (Stats, error) {
	var s Stats

	c.mu.RLock()
	s.MemoryEntries = len(c.mem)
	c.mu.RUnlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return s, fmt.Errorf("failed to scan cache directory: %w", err)
	}

	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}
		s.DiskEntries++
		if info, err := ent.Info(); err == nil {
			s.DiskBytes += info.Size()
		}
	}

	return s, nil
}

// GetAs fetches key and unmarshals its value into T. A present-but-corrupt
// value counts as a miss.
func GetAs[T any](c *Cache, key string) (T, Source, bool) {
	var v T

	raw, source, ok := c.Get(key)
	if !ok {
		return v, "", false
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Warn("failed to decode cached value", "key", key, "err", err)
		c.Delete(key)
		return v, "", false
	}

	return v, source, true
}
