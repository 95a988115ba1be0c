package world

import "testing"

func TestSegmentCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewSegmentCache(2)
	c.Put("a", NewLevel("a"))
	c.Put("b", NewLevel("b"))
	c.Put("c", NewLevel("c")) // evicts "a"

	if _, ok := c.Get("a"); ok {
		t.Fatal("a should have been evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("b should still be cached")
	}
	if c.Len() != 2 {
		t.Fatalf("cache len = %d, want 2", c.Len())
	}
}

func TestSegmentCacheGetPromotesEntry(t *testing.T) {
	c := NewSegmentCache(2)
	c.Put("a", NewLevel("a"))
	c.Put("b", NewLevel("b"))

	c.Get("a") // promote a, so b becomes least-recently-used
	c.Put("c", NewLevel("c"))

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted after a was promoted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should survive, it was promoted")
	}
}
