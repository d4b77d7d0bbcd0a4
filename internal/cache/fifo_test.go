// NutriCoach - Nutrition Recommendation and Progression Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutricoach

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestFIFO_GetSet(t *testing.T) {
	c := NewFIFO[string, int](3, 0)

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for missing key")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestFIFO_EvictsLeastRecentlyInserted(t *testing.T) {
	c := NewFIFO[string, int](3, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Reads do not protect an entry from eviction.
	c.Get("a")
	c.Get("a")

	c.Set("d", 4)

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted as the oldest insertion")
	}
	for _, key := range []string{"b", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %s to be present", key)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestFIFO_OverwriteReinserts(t *testing.T) {
	c := NewFIFO[string, int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted after a was re-inserted")
	}
	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Errorf("Get(a) = %v, %v; want 10, true", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestFIFO_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewFIFO[string, string](10, time.Minute).WithClock(func() time.Time { return now })

	c.Set("a", "x")
	c.Set("b", "y")

	now = now.Add(30 * time.Second)
	c.Set("c", "z")
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to be live before ttl")
	}

	now = now.Add(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be expired")
	}
	if removed := c.Cleanup(); removed != 1 {
		t.Errorf("Cleanup removed %d, want 1 (b)", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestFIFO_DeleteAndClear(t *testing.T) {
	c := NewFIFO[int, int](4, 0)
	for i := 0; i < 4; i++ {
		c.Set(i, i)
	}
	if !c.Delete(2) {
		t.Error("expected Delete(2) to report presence")
	}
	if c.Delete(2) {
		t.Error("expected second Delete(2) to report absence")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
	c.Set(9, 9)
	if v, ok := c.Get(9); !ok || v != 9 {
		t.Error("cache unusable after Clear")
	}
}

func TestFIFO_ZeroCapacity(t *testing.T) {
	c := NewFIFO[string, int](0, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected newest entry to survive")
	}
}

func TestFIFO_Concurrent(t *testing.T) {
	c := NewFIFO[string, int](50, time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%75)
				c.Set(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len = %d exceeds capacity", c.Len())
	}
}
