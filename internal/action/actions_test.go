package action

import (
	"bytes"
	"testing"

	"github.com/rebornclient/reborn-go/internal/net/packet"
	"github.com/rebornclient/reborn-go/internal/protocol"
	"github.com/rebornclient/reborn-go/internal/world"
)

func TestPropBatchCoalescesIntoOneSubPacket(t *testing.T) {
	b := NewPropBatch()
	b.SetPos(4, 5).SetDir(world.DirDown).SetNickname("wanderer")

	if b.Empty() {
		t.Fatalf("batch should not be empty after queuing fields")
	}

	body := b.Bytes()
	if len(body) == 0 {
		t.Fatalf("Bytes returned empty sub-packet")
	}

	props, err := protocol.ReadAllProps(packet.NewReader(body[1:]))
	if err != nil {
		t.Fatalf("ReadAllProps: %v", err)
	}

	if len(props) != 4 {
		t.Fatalf("got %d props, want 4 (x, y, sprite, nickname)", len(props))
	}
}

func TestEmptyBatchProducesNoBytes(t *testing.T) {
	b := NewPropBatch()
	if !b.Empty() {
		t.Fatalf("fresh batch should be empty")
	}
	if got := b.Bytes(); got != nil {
		t.Fatalf("Bytes() = %v, want nil for empty batch", got)
	}
}

func TestMoveToEncodesPositionAndDirection(t *testing.T) {
	body := MoveTo(4, 5, world.DirLeft)

	props, err := protocol.ReadAllProps(packet.NewReader(body[1:]))
	if err != nil {
		t.Fatalf("ReadAllProps: %v", err)
	}

	var gotX, gotY, gotDir int
	var sawX, sawY, sawDir bool
	for _, p := range props {
		switch p.ID {
		case packet.PropX:
			gotX, sawX = p.Num, true
		case packet.PropY:
			gotY, sawY = p.Num, true
		case packet.PropSprite:
			gotDir, sawDir = p.Num, true
		}
	}
	if !sawX || !sawY || !sawDir {
		t.Fatalf("missing expected props in %v", props)
	}
	if gotX != 8 || gotY != 10 {
		t.Fatalf("got x=%d y=%d, want x=8 y=10 (half-tile units)", gotX, gotY)
	}
	if gotDir != int(world.DirLeft) {
		t.Fatalf("got dir=%d, want %d", gotDir, world.DirLeft)
	}
}

func TestSayTruncatesOversizedChat(t *testing.T) {
	long := bytes.Repeat([]byte("a"), 300)
	body := Say(string(long))

	props, err := protocol.ReadAllProps(packet.NewReader(body[1:]))
	if err != nil {
		t.Fatalf("ReadAllProps: %v", err)
	}
	if len(props) != 1 || props[0].ID != packet.PropCurChat {
		t.Fatalf("expected a single PropCurChat field, got %v", props)
	}
	if len(props[0].Str) != maxChatBytes {
		t.Fatalf("chat length = %d, want %d", len(props[0].Str), maxChatBytes)
	}
}

func TestDropBombEncodesOpcodeAndFields(t *testing.T) {
	body := DropBomb(3, 7, 2, 55)
	r := packet.NewReader(body[1:])

	x, _ := r.GChar()
	y, _ := r.GChar()
	power, _ := r.GChar()
	timer, _ := r.GChar()

	if x != 6 || y != 14 || power != 2 || timer != 55 {
		t.Fatalf("got x=%d y=%d power=%d timer=%d", x, y, power, timer)
	}
	if got := packet.OutboundID(packet.DecodeGChar(body[0])); got != packet.OUTBombAdd {
		t.Fatalf("opcode = %d, want OUTBombAdd", got)
	}
}

func TestAttackCarriesNoPayload(t *testing.T) {
	body := Attack()
	if len(body) != 1 {
		t.Fatalf("Attack() body = %d bytes, want 1 (opcode only)", len(body))
	}
}

func TestRequestFileEncodesName(t *testing.T) {
	body := RequestFile("level1.nw")
	r := packet.NewReader(body[1:])
	name, err := r.GString()
	if err != nil {
		t.Fatalf("GString: %v", err)
	}
	if name != "level1.nw" {
		t.Fatalf("got %q, want level1.nw", name)
	}
}

func TestRCWarpPlayerEncodesFields(t *testing.T) {
	body := RCWarpPlayer(42, "onlinestartlocal.nw", 30, 30.5)
	r := packet.NewReader(body[1:])

	id, err := r.GShort()
	if err != nil {
		t.Fatalf("GShort: %v", err)
	}
	if id != 42 {
		t.Fatalf("player id = %d, want 42", id)
	}

	x, _ := r.GChar()
	y, _ := r.GChar()
	if x != 60 || y != 61 {
		t.Fatalf("got x=%d y=%d, want x=60 y=61", x, y)
	}

	level, err := r.GString()
	if err != nil {
		t.Fatalf("GString: %v", err)
	}
	if level != "onlinestartlocal.nw" {
		t.Fatalf("got level %q", level)
	}
}
