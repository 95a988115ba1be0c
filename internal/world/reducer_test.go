package world

import (
	"testing"

	"github.com/rebornclient/reborn-go/internal/event"
	"github.com/rebornclient/reborn-go/internal/net/packet"
	"github.com/rebornclient/reborn-go/internal/protocol"
)

func newTestReducer() *Reducer {
	return NewReducer(nil, event.NewBus(), 1, "tester")
}

func TestHandlePlayerPropsDiscardsLocalDirection(t *testing.T) {
	rd := newTestReducer()
	rd.Local.Dir = DirUp

	// sprite value 2 encodes DirDown in the low 2 bits; the local player
	// must ignore it to avoid snapping back from a locally predicted turn.
	props := []protocol.Prop{{ID: packet.PropSprite, Num: int(DirDown)}}
	rd.applyProps(rd.Local, props, true)

	if rd.Local.Dir != DirUp {
		t.Fatalf("local direction changed to %v, want it unchanged (DirUp)", rd.Local.Dir)
	}
}

func TestApplyPropsUpdatesRemoteDirection(t *testing.T) {
	rd := newTestReducer()
	other := NewPlayer(2, "")
	other.Dir = DirUp

	props := []protocol.Prop{{ID: packet.PropSprite, Num: int(DirDown)}}
	rd.applyProps(other, props, false)

	if other.Dir != DirDown {
		t.Fatalf("remote direction = %v, want DirDown", other.Dir)
	}
}

func TestApplyPropsConvertsHalfTilePosition(t *testing.T) {
	rd := newTestReducer()
	props := []protocol.Prop{
		{ID: packet.PropX, Num: 127}, // 127 half-tiles = 63.5 tiles
		{ID: packet.PropY, Num: 10},
	}
	rd.applyProps(rd.Local, props, true)

	if rd.Local.X != 63.5 {
		t.Fatalf("X = %v, want 63.5", rd.Local.X)
	}
	if rd.Local.Y != 5 {
		t.Fatalf("Y = %v, want 5", rd.Local.Y)
	}
}

func TestEnterLevelSwapsCurrentAndHandlesGmap(t *testing.T) {
	rd := newTestReducer()
	rd.AttachGMap(NewGMap("zlttp", 10, 10))

	rd.enterLevel(SegmentName("zlttp", 3, 8))

	if rd.Current == nil || rd.Current.Name != SegmentName("zlttp", 3, 8) {
		t.Fatalf("current level = %+v", rd.Current)
	}
	if !rd.Local.GmapMode || rd.Local.GmapLevelX != 3 || rd.Local.GmapLevelY != 8 {
		t.Fatalf("player gmap state = mode=%v (%d,%d)", rd.Local.GmapMode, rd.Local.GmapLevelX, rd.Local.GmapLevelY)
	}
}

func TestEnterLevelLeavesGmapForPlainLevel(t *testing.T) {
	rd := newTestReducer()
	rd.AttachGMap(NewGMap("zlttp", 10, 10))
	rd.enterLevel(SegmentName("zlttp", 3, 8))
	rd.enterLevel("onlinestartlocal.nw")

	if rd.Local.GmapMode {
		t.Fatal("entering a non-segment level should clear gmap mode")
	}
}

func TestMoveCrossesLoadedBoundary(t *testing.T) {
	rd := newTestReducer()
	g := NewGMap("zlttp", 10, 10)
	rd.AttachGMap(g)

	cur := SegmentName("zlttp", 3, 8)
	next := SegmentName("zlttp", 4, 8)
	rd.enterLevel(cur)
	g.RecordSegment(next, 4, 8)
	g.MarkLoaded(next)

	crossing, crossed := rd.Move(64.5, 30, DirRight)
	if !crossed {
		t.Fatal("expected a boundary crossing")
	}
	if crossing.Blocked {
		t.Fatal("should not be blocked")
	}
	if rd.Current.Name != next {
		t.Fatalf("current level = %q, want %q", rd.Current.Name, next)
	}
	if rd.Local.X != 0.5 {
		t.Fatalf("wrapped local X = %v, want 0.5", rd.Local.X)
	}
}

func TestMoveBlockedAtWorldEdge(t *testing.T) {
	rd := newTestReducer()
	g := NewGMap("zlttp", 10, 10)
	rd.AttachGMap(g)
	cur := SegmentName("zlttp", 0, 0)
	rd.enterLevel(cur)

	_, crossed := rd.Move(-0.5, 10, DirLeft)
	if !crossed {
		t.Fatal("expected boundary check to report a crossing attempt")
	}
	if rd.Local.X != 0 {
		t.Fatalf("X should be unchanged at blocked edge, got %v", rd.Local.X)
	}
}
