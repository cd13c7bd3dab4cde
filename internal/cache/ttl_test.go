package cache

import (
	"testing"
	"time"
)

func TestGetSetAndExpiry(t *testing.T) {
	c := New[int](10, 50*time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d,%v", v, ok)
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestSetRefreshesTTLAndValue(t *testing.T) {
	c := New[string](10, 50*time.Millisecond)
	c.Set("k", "old")
	time.Sleep(30 * time.Millisecond)
	c.Set("k", "new")
	time.Sleep(30 * time.Millisecond)
	// 60ms after the first Set but only 30ms after the second.
	if v, ok := c.Get("k"); !ok || v != "new" {
		t.Fatalf("Get(k) = %q,%v", v, ok)
	}
}

func TestMaxEntriesEviction(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("newest entry should survive")
	}
}

func TestSweep(t *testing.T) {
	c := New[int](10, 30*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(50 * time.Millisecond)
	c.Set("c", 3)
	if n := c.Sweep(); n != 2 {
		t.Fatalf("Sweep = %d, want 2", n)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}

func TestDelete(t *testing.T) {
	c := New[int](10, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted entry should miss")
	}
	c.Delete("missing") // no-op
}
