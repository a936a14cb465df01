package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU(10, time.Hour)

	err := c.Set("key1", "value1")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get("key1")
	if !ok {
		t.Error("Get should return true for existing key")
	}
	if val != "value1" {
		t.Errorf("Get returned %q, want %q", val, "value1")
	}

	val, ok = c.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing key")
	}
	if val != "" {
		t.Errorf("Get should return empty string for missing key, got %q", val)
	}
}

func TestLRU_Bound(t *testing.T) {
	const maxSize = 50
	c := NewLRU(maxSize, time.Hour)

	for i := 0; i < maxSize*3; i++ {
		c.Set(fmt.Sprintf("key%d", i), "value")
		if c.Len() > maxSize {
			t.Fatalf("cache exceeded bound after %d sets: len=%d", i+1, c.Len())
		}
	}

	if c.Len() != maxSize {
		t.Errorf("expected len %d after overfilling, got %d", maxSize, c.Len())
	}
}

func TestLRU_EvictsOldest(t *testing.T) {
	const maxSize = 5
	c := NewLRU(maxSize, time.Hour)

	// Insert maxSize+1 distinct keys in order
	for i := 1; i <= maxSize+1; i++ {
		c.Set(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
	}

	if _, ok := c.Get("k1"); ok {
		t.Error("k1 should have been evicted")
	}
	for i := 2; i <= maxSize+1; i++ {
		key := fmt.Sprintf("k%d", i)
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be present", key)
		}
	}
}

func TestLRU_GetPromotes(t *testing.T) {
	const maxSize = 5
	c := NewLRU(maxSize, time.Hour)

	c.Set("keeper", "kept")
	for i := 0; i < maxSize-1; i++ {
		c.Set(fmt.Sprintf("filler%d", i), "v")
	}

	// Promote "keeper" to most-recently-used, then push maxSize-1 more keys
	// through: everything except "keeper" should rotate out.
	if _, ok := c.Get("keeper"); !ok {
		t.Fatal("keeper should be present before refresh")
	}
	for i := 0; i < maxSize-1; i++ {
		c.Set(fmt.Sprintf("extra%d", i), "v")
	}

	if _, ok := c.Get("keeper"); !ok {
		t.Error("keeper should survive eviction after Get promoted it")
	}
	if _, ok := c.Get("filler0"); ok {
		t.Error("filler0 should have been evicted")
	}
}

func TestLRU_WithoutGetEvicted(t *testing.T) {
	const maxSize = 5
	c := NewLRU(maxSize, time.Hour)

	c.Set("victim", "v")
	for i := 0; i < maxSize; i++ {
		c.Set(fmt.Sprintf("extra%d", i), "v")
	}

	if _, ok := c.Get("victim"); ok {
		t.Error("victim should have been evicted without a refreshing Get")
	}
}

func TestLRU_TTLExpiry(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU(10, 30*time.Minute, WithClock(clock.Now))

	c.Set("key1", "value1")

	// Fresh before the TTL
	clock.Advance(29 * time.Minute)
	if val, ok := c.Get("key1"); !ok || val != "value1" {
		t.Fatal("entry should be fresh before TTL")
	}

	// Expired after the TTL
	clock.Advance(2 * time.Minute)
	if _, ok := c.Get("key1"); ok {
		t.Error("entry should be expired after TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be purged on read, len=%d", c.Len())
	}

	// Must not resurrect on subsequent gets
	if _, ok := c.Get("key1"); ok {
		t.Error("expired entry must not resurrect")
	}
}

func TestLRU_TTLExpiryNotRefreshedByGet(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU(10, 10*time.Minute, WithClock(clock.Now))

	c.Set("key1", "value1")

	// Repeated gets do not extend the entry's lifetime; only Set resets age.
	clock.Advance(6 * time.Minute)
	if _, ok := c.Get("key1"); !ok {
		t.Fatal("entry should be fresh")
	}
	clock.Advance(6 * time.Minute)
	if _, ok := c.Get("key1"); ok {
		t.Error("entry should be expired 12 minutes after Set")
	}
}

func TestLRU_NoTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU(10, 0, WithClock(clock.Now))

	c.Set("key1", "value1")
	clock.Advance(1000 * time.Hour)

	if val, ok := c.Get("key1"); !ok || val != "value1" {
		t.Error("value should never expire with no TTL")
	}
}

func TestLRU_SetResetsRecencyAndAge(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU(3, 10*time.Minute, WithClock(clock.Now))

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	clock.Advance(8 * time.Minute)
	c.Set("a", "updated") // moves a to the young end, resets its age

	c.Set("d", "4") // evicts b, the oldest by recency
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}

	clock.Advance(8 * time.Minute)
	if val, ok := c.Get("a"); !ok || val != "updated" {
		t.Error("a's age should have been reset by the update")
	}
}

func TestLRU_Overwrite(t *testing.T) {
	c := NewLRU(10, time.Hour)

	c.Set("key1", "value1")
	c.Set("key1", "value2")

	val, ok := c.Get("key1")
	if !ok {
		t.Error("Key should exist")
	}
	if val != "value2" {
		t.Errorf("Value should be overwritten, got %q, want %q", val, "value2")
	}
	if c.Len() != 1 {
		t.Errorf("overwrite should not grow the cache, len=%d", c.Len())
	}
}

func TestLRU_Clear(t *testing.T) {
	c := NewLRU(10, time.Hour)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Cleared cache should have length 0, got %d", c.Len())
	}

	if _, ok := c.Get("key1"); ok {
		t.Error("Cleared cache should not contain any keys")
	}
}

func TestLRU_Snapshot(t *testing.T) {
	clock := newFakeClock()
	c := NewLRU(10, 10*time.Minute, WithClock(clock.Now))

	c.Set("fresh", "value")
	clock.Advance(11 * time.Minute)
	c.Set("newer", "value2")

	snap := c.Snapshot()
	if len(snap) != 1 {
		t.Errorf("snapshot should skip expired entries, got %d", len(snap))
	}
	if snap["newer"] != "value2" {
		t.Errorf("snapshot missing fresh entry: %v", snap)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU(20, time.Hour)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			c.Set(key, "value")
		}(i)
	}

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%26))
			c.Get(key)
		}(i)
	}

	wg.Wait()

	if c.Len() > 20 {
		t.Errorf("bound violated under concurrency: len=%d", c.Len())
	}
}
