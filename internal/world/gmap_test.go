package world

import (
	"testing"
	"time"
)

func TestParseSegmentName(t *testing.T) {
	cases := []struct {
		name    string
		base    string
		col, row int
		ok      bool
	}{
		{"zlttp-d8.nw", "zlttp", 3, 8, true},
		{"zlttp-a0.nw", "zlttp", 0, 0, true},
		{"zlttp-c123.nw", "zlttp", 2, 123, true},
		{"onlinestartlocal.nw", "", 0, 0, false},
	}
	for _, c := range cases {
		base, col, row, ok := ParseSegmentName(c.name)
		if ok != c.ok {
			t.Fatalf("%s: ok = %v, want %v", c.name, ok, c.ok)
		}
		if !ok {
			continue
		}
		if base != c.base || col != c.col || row != c.row {
			t.Errorf("%s: got (%s,%d,%d), want (%s,%d,%d)", c.name, base, col, row, c.base, c.col, c.row)
		}
	}
}

func TestSegmentNameRoundTrip(t *testing.T) {
	name := SegmentName("zlttp", 3, 8)
	if name != "zlttp-d8.nw" {
		t.Fatalf("SegmentName = %q, want zlttp-d8.nw", name)
	}
	base, col, row, ok := ParseSegmentName(name)
	if !ok || base != "zlttp" || col != 3 || row != 8 {
		t.Fatalf("round trip mismatch: %s %d %d %v", base, col, row, ok)
	}
}

func TestGMapAdjacencyDerivedFromGrid(t *testing.T) {
	g := NewGMap("zlttp", 10, 10)
	g.RecordSegment(SegmentName("zlttp", 3, 8), 3, 8)
	g.RecordSegment(SegmentName("zlttp", 4, 8), 4, 8)

	east, ok := g.Neighbor(SegmentName("zlttp", 3, 8), East)
	if !ok || east != SegmentName("zlttp", 4, 8) {
		t.Fatalf("east neighbor = %q, %v", east, ok)
	}
	west, ok := g.Neighbor(SegmentName("zlttp", 4, 8), West)
	if !ok || west != SegmentName("zlttp", 3, 8) {
		t.Fatalf("west neighbor = %q, %v", west, ok)
	}
}

func TestGMapAdjacencyOverrideWins(t *testing.T) {
	g := NewGMap("zlttp", 10, 10)
	g.RecordSegment(SegmentName("zlttp", 3, 8), 3, 8)
	g.RecordSegment(SegmentName("zlttp", 4, 8), 4, 8)

	g.SetAdjacency(SegmentName("zlttp", 3, 8), East, "zlttp-special.nw")

	east, ok := g.Neighbor(SegmentName("zlttp", 3, 8), East)
	if !ok || east != "zlttp-special.nw" {
		t.Fatalf("override lost: got %q", east)
	}
}

func TestGMapCheckBoundaryWrap(t *testing.T) {
	g := NewGMap("zlttp", 10, 10)
	cur := SegmentName("zlttp", 3, 8)
	next := SegmentName("zlttp", 4, 8)
	g.RecordSegment(cur, 3, 8)
	g.RecordSegment(next, 4, 8)
	g.MarkLoaded(next)

	crossing, did := g.CheckBoundary(cur, 64.5, 30)
	if !did {
		t.Fatal("expected a boundary crossing")
	}
	if crossing.Blocked {
		t.Fatal("should not be blocked, adjacency exists")
	}
	if crossing.Dir != East || crossing.TargetLevel != next {
		t.Fatalf("got dir=%v target=%q", crossing.Dir, crossing.TargetLevel)
	}
	if crossing.LocalX != 0.5 || crossing.LocalY != 30 {
		t.Fatalf("wrap coords = (%v, %v), want (0.5, 30)", crossing.LocalX, crossing.LocalY)
	}
	if !crossing.Loaded {
		t.Fatal("target was marked loaded")
	}
}

func TestGMapCheckBoundaryBlockedAtEdge(t *testing.T) {
	g := NewGMap("zlttp", 10, 10)
	cur := SegmentName("zlttp", 0, 0)
	g.RecordSegment(cur, 0, 0)

	crossing, did := g.CheckBoundary(cur, -0.5, 10)
	if !did {
		t.Fatal("expected a boundary crossing")
	}
	if !crossing.Blocked {
		t.Fatal("edge of world should block movement")
	}
}

func TestGMapPrefetchWindowExcludesLoaded(t *testing.T) {
	g := NewGMap("zlttp", 3, 3)
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			g.RecordSegment(SegmentName("zlttp", col, row), col, row)
		}
	}
	center := SegmentName("zlttp", 1, 1)
	g.MarkLoaded(center)
	g.MarkLoaded(SegmentName("zlttp", 0, 1))

	window := g.PrefetchWindow(center)
	if len(window) != 7 {
		t.Fatalf("prefetch window has %d segments, want 7 (9 - 2 loaded)", len(window))
	}
	for _, name := range window {
		if name == center || name == SegmentName("zlttp", 0, 1) {
			t.Errorf("loaded segment %q should not be in prefetch window", name)
		}
	}
}

func TestGMapNeedsRequestRespectsTimeout(t *testing.T) {
	g := NewGMap("zlttp", 3, 3)
	now := time.Now()
	g.MarkRequested("zlttp-a0.nw", now)

	if g.NeedsRequest("zlttp-a0.nw", now.Add(PrefetchTimeout-1)) {
		t.Fatal("should still be pending before timeout")
	}
	if !g.NeedsRequest("zlttp-a0.nw", now.Add(PrefetchTimeout+1)) {
		t.Fatal("should be eligible for re-request after timeout")
	}
}

func TestLocalWorldCoordConversion(t *testing.T) {
	wx, wy := LocalToWorld(10, 20, 3, 8)
	if wx != 3*64+10 || wy != 8*64+20 {
		t.Fatalf("LocalToWorld = (%v, %v)", wx, wy)
	}
	lx, ly, col, row := WorldToLocal(wx, wy)
	if lx != 10 || ly != 20 || col != 3 || row != 8 {
		t.Fatalf("WorldToLocal = (%v, %v, %d, %d)", lx, ly, col, row)
	}
}
