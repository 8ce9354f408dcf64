package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"review-bot/src/config"
	"review-bot/src/model"
)

func newTestCache(t *testing.T, mutate func(*config.CacheConfig)) *Cache {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg.Cache)
	}
	c, err := New(cfg.Cache, cfg.Analysis, cfg.Severity.MinSeverity)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

var sample = []model.Finding{
	{Category: model.CategoryBug, Line: 2, Severity: model.SeverityHigh, Description: "d", Suggestion: "s", Analyzer: "bugs"},
}

func TestCache_GetPut(t *testing.T) {
	c := newTestCache(t, nil)
	key := c.Key("a.py", "x = 1\n")

	if _, ok := c.Get(key); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	c.Put(key, sample)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if len(got) != 1 || got[0] != sample[0] {
		t.Errorf("Get = %+v, want %+v", got, sample)
	}

	got[0].Line = 99
	again, _ := c.Get(key)
	if again[0].Line != 2 {
		t.Error("cached findings were mutated through a returned slice")
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("Stats = %+v, want 2 hits, 1 miss, 1 entry", stats)
	}
}

func TestCache_KeyInputs(t *testing.T) {
	c := newTestCache(t, nil)
	base := c.Key("a.py", "x = 1\n")

	if c.Key("b.py", "x = 1\n") != base {
		t.Error("same extension and content should share a key")
	}
	if c.Key("a.js", "x = 1\n") == base {
		t.Error("extension must change the key")
	}
	if c.Key("a.py", "x = 2\n") == base {
		t.Error("content must change the key")
	}

	other := newTestCache(t, nil)
	if other.Key("a.py", "x = 1\n") != base {
		t.Error("identical settings should produce identical keys")
	}

	cfg := config.DefaultConfig()
	cfg.Analysis.Style.MaxLineLength = 120
	changed, err := New(cfg.Cache, cfg.Analysis, cfg.Severity.MinSeverity)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if changed.Key("a.py", "x = 1\n") == base {
		t.Error("analysis settings must change the key")
	}
}

func TestCache_SkipsFaults(t *testing.T) {
	c := newTestCache(t, nil)
	key := c.Key("a.py", "x")
	c.Put(key, []model.Finding{{Category: model.CategoryError, Severity: model.SeverityHigh}})
	if _, ok := c.Get(key); ok {
		t.Error("results with analyzer faults must not be cached")
	}
}

func TestCache_TTL(t *testing.T) {
	c := newTestCache(t, func(cfg *config.CacheConfig) { cfg.TTL = time.Millisecond })
	key := c.Key("a.py", "x")
	c.Put(key, sample)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("expired entry returned")
	}
}

func TestCache_MaxEntries(t *testing.T) {
	c := newTestCache(t, func(cfg *config.CacheConfig) { cfg.MaxEntries = 2 })
	k1, k2, k3 := c.Key("a.py", "1"), c.Key("a.py", "2"), c.Key("a.py", "3")
	c.Put(k1, sample)
	time.Sleep(time.Millisecond)
	c.Put(k2, sample)
	time.Sleep(time.Millisecond)
	c.Put(k3, sample)

	if c.Stats().Entries != 2 {
		t.Errorf("Entries = %d, want 2", c.Stats().Entries)
	}
	if _, ok := c.Get(k1); ok {
		t.Error("oldest entry was not evicted")
	}
}

func TestCache_Disk(t *testing.T) {
	dir := t.TempDir()
	first := newTestCache(t, func(cfg *config.CacheConfig) { cfg.Dir = dir })
	key := first.Key("a.py", "x = 1\n")
	first.Put(key, sample)

	if _, err := os.Stat(filepath.Join(dir, key.String()[:2], key.String()+".mp")); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}

	second := newTestCache(t, func(cfg *config.CacheConfig) { cfg.Dir = dir })
	got, ok := second.Get(key)
	if !ok {
		t.Fatal("expected disk hit from a fresh cache")
	}
	if len(got) != 1 || got[0] != sample[0] {
		t.Errorf("Get = %+v, want %+v", got, sample)
	}
}

func TestCache_Disabled(t *testing.T) {
	c := newTestCache(t, func(cfg *config.CacheConfig) { cfg.Enabled = false })
	if c != nil {
		t.Fatal("New should return nil when disabled")
	}
	key := c.Key("a.py", "x")
	c.Put(key, sample)
	if _, ok := c.Get(key); ok {
		t.Error("nil cache returned a hit")
	}
	if c.Stats() != (Stats{}) {
		t.Errorf("Stats = %+v, want zero", c.Stats())
	}
}
