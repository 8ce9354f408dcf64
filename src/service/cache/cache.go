// Package cache stores per-file findings keyed by content and analysis
// settings, in memory and optionally on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"review-bot/src/config"
	"review-bot/src/model"
	"review-bot/src/util"
)

// Current schema version - increment when the entry format changes
const schemaVersion uint16 = 1

// Key identifies one cached analysis
type Key [sha256.Size]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

type entry struct {
	Schema   uint16          `msgpack:"schema"`
	StoredAt time.Time       `msgpack:"stored_at"`
	Findings []model.Finding `msgpack:"findings"`
}

// Stats reports cache effectiveness
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Cache holds analysis results. A nil *Cache is valid and caches nothing.
// Thread-safe for concurrent access.
type Cache struct {
	cfg         config.CacheConfig
	fingerprint [sha256.Size]byte

	mu      sync.RWMutex
	entries map[Key]entry

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache for results produced with the given analysis settings.
// It returns nil when caching is disabled.
func New(cfg config.CacheConfig, analysis config.AnalysisConfig, minSeverity string) (*Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	settings, err := msgpack.Marshal(&analysis)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting analysis config: %w", err)
	}
	c := &Cache{
		cfg:         cfg,
		fingerprint: sha256.Sum256(append(settings, minSeverity...)),
		entries:     make(map[Key]entry),
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}
	return c, nil
}

// Key derives the cache key for a file. Only the extension of filename
// takes part, so renamed files with identical content share an entry.
func (c *Cache) Key(filename, content string) Key {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(filepath.Ext(filename))))
	h.Write([]byte{0})
	h.Write([]byte(content))
	h.Write([]byte{0})
	if c != nil {
		h.Write(c.fingerprint[:])
	}
	var k Key
	h.Sum(k[:0])
	return k
}

// Get returns the cached findings for key
func (c *Cache) Get(key Key) ([]model.Finding, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && !c.expired(e) {
		c.hits.Add(1)
		return cloneFindings(e.Findings), true
	}

	if c.cfg.Dir != "" {
		if e, ok := c.load(key); ok {
			c.mu.Lock()
			c.store(key, e)
			c.mu.Unlock()
			c.hits.Add(1)
			return cloneFindings(e.Findings), true
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Put stores findings for key. Results containing analyzer faults are not
// cached.
func (c *Cache) Put(key Key, findings []model.Finding) {
	if c == nil {
		return
	}
	for _, f := range findings {
		if f.Category == model.CategoryError {
			return
		}
	}

	e := entry{Schema: schemaVersion, StoredAt: time.Now(), Findings: cloneFindings(findings)}

	c.mu.Lock()
	c.store(key, e)
	c.mu.Unlock()

	if c.cfg.Dir != "" {
		if err := c.save(key, e); err != nil {
			util.Warn("Failed to write cache entry %s: %v", key, err)
		}
	}
}

// Stats returns hit and miss counts
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: len(c.entries)}
}

// store inserts e, evicting the oldest entry when full. Caller holds mu.
func (c *Cache) store(key Key, e entry) {
	if _, exists := c.entries[key]; !exists && c.cfg.MaxEntries > 0 && len(c.entries) >= c.cfg.MaxEntries {
		var oldest Key
		var oldestAt time.Time
		first := true
		for k, v := range c.entries {
			if first || v.StoredAt.Before(oldestAt) {
				oldest, oldestAt, first = k, v.StoredAt, false
			}
		}
		delete(c.entries, oldest)
	}
	c.entries[key] = e
}

func (c *Cache) expired(e entry) bool {
	return c.cfg.TTL > 0 && time.Since(e.StoredAt) > c.cfg.TTL
}

func (c *Cache) pathFor(key Key) string {
	s := key.String()
	return filepath.Join(c.cfg.Dir, s[:2], s+".mp")
}

func (c *Cache) save(key Key, e entry) (err error) {
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(&e); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(f.Name(), p)
}

func (c *Cache) load(key Key) (entry, bool) {
	var e entry
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			util.Warn("Failed to open cache entry %s: %v", key, err)
		}
		return e, false
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		util.Warn("Discarding unreadable cache entry %s: %v", key, err)
		return e, false
	}
	if e.Schema != schemaVersion || c.expired(e) {
		return e, false
	}
	return e, true
}

func cloneFindings(findings []model.Finding) []model.Finding {
	out := make([]model.Finding, len(findings))
	copy(out, findings)
	return out
}
