package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[[]string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[[]string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCacheGetSet(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected a miss")
	}
	c.Set("u1|expense", []string{"meal"})
	got, ok := c.Get("u1|expense")
	if !ok || len(got) != 1 || got[0] != "meal" {
		t.Fatalf("Get = %v, %v", got, ok)
	}
	c.Set("u1|expense", []string{"traffic"})
	if got, _ := c.Get("u1|expense"); got[0] != "traffic" || c.Size() != 1 {
		t.Fatalf("overwrite failed: %v size=%d", got, c.Size())
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", nil)
	c.Set("b", nil)
	c.Get("a")
	c.Set("c", nil)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", nil)
	c.Set("b", nil)
	clock.advance(30 * time.Second)
	c.Set("c", nil)
	clock.advance(45 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired removed %d, want 1", n)
	}
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}
}

func TestLRUCacheDelete(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("a", nil)
	c.Delete("a")
	c.Delete("never-set")
	if _, ok := c.Get("a"); ok || c.Size() != 0 {
		t.Fatal("a should be gone")
	}
}

func TestManagerSweepAndStop(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", nil)
	clock.advance(2 * time.Minute)

	m := NewManager(nil)
	m.Register(c)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep removed %d, want 1", n)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()

	idle := NewManager(nil)
	idle.Stop() // never started
}
