package world

import "testing"

func TestSetBoardRejectsWrongSize(t *testing.T) {
	l := NewLevel("test.nw")
	if err := l.SetBoard(make([]uint16, BoardTiles-1)); err == nil {
		t.Fatal("expected error for short board")
	}
	if err := l.SetBoard(make([]uint16, BoardTiles)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModifyBoardClipsOutOfRange(t *testing.T) {
	l := NewLevel("test.nw")
	_ = l.SetBoard(make([]uint16, BoardTiles))

	// A patch straddling the right edge should not panic and should only
	// write the in-bounds tiles.
	tiles := []uint16{1, 2, 3, 4}
	l.ModifyBoard(63, 0, 2, 2, tiles)

	if l.Board[0*64+63] != 1 {
		t.Fatalf("Board[63] = %d, want 1", l.Board[63])
	}
	if l.Board[1*64+63] != 3 {
		t.Fatalf("Board[64+63] = %d, want 3", l.Board[64+63])
	}
}

func TestUpsertSignIdempotent(t *testing.T) {
	l := NewLevel("test.nw")
	l.UpsertSign(5, 5, "Hello")
	l.UpsertSign(5, 5, "Updated")

	if len(l.Signs) != 1 {
		t.Fatalf("expected 1 sign after retransmission, got %d", len(l.Signs))
	}
	if l.Signs[0].Text != "Updated" {
		t.Fatalf("sign text = %q, want Updated", l.Signs[0].Text)
	}
}

func TestUpsertChestIdempotent(t *testing.T) {
	l := NewLevel("test.nw")
	l.UpsertChest(1, 1, 10, "a rupee")
	l.UpsertChest(1, 1, 20, "a rupee")

	if len(l.Chests) != 1 {
		t.Fatalf("expected 1 chest, got %d", len(l.Chests))
	}
	if l.Chests[0].ItemID != 20 {
		t.Fatalf("chest item = %d, want 20", l.Chests[0].ItemID)
	}
}

func TestTileToTileset(t *testing.T) {
	tx, ty := TileToTileset(0)
	if tx != 0 || ty != 0 {
		t.Fatalf("tile 0 -> (%d, %d), want (0, 0)", tx, ty)
	}
	// tile 512 is the first tile of the second tileset row-block.
	tx, ty = TileToTileset(512)
	if tx != 16 || ty != 0 {
		t.Fatalf("tile 512 -> (%d, %d), want (16, 0)", tx, ty)
	}
}
