package protocol

import (
	"testing"

	"github.com/rebornclient/reborn-go/internal/net/packet"
)

func TestWritePropReadPropRoundTripsGCharField(t *testing.T) {
	w := packet.NewWriter()
	WriteProp(w, Prop{ID: packet.PropCurHearts, Num: 6})

	got, err := ReadProp(packet.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadProp: %v", err)
	}
	if got.ID != packet.PropCurHearts || got.Num != 6 {
		t.Fatalf("got %+v, want PropCurHearts/6", got)
	}
}

func TestWritePropReadPropRoundTripsStringField(t *testing.T) {
	w := packet.NewWriter()
	WriteProp(w, Prop{ID: packet.PropNickname, Str: "wanderer"})

	got, err := ReadProp(packet.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadProp: %v", err)
	}
	if got.ID != packet.PropNickname || got.Str != "wanderer" {
		t.Fatalf("got %+v, want PropNickname/wanderer", got)
	}
}

func TestUnknownPropIDRoundTripsAsOpaqueBytes(t *testing.T) {
	w := packet.NewWriter()
	WriteProp(w, Prop{ID: packet.PropID(99), Raw: []byte{1, 2, 3}})

	got, err := ReadProp(packet.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadProp: %v", err)
	}
	if got.ID != packet.PropID(99) || len(got.Raw) != 3 {
		t.Fatalf("got %+v, want 3 raw bytes under id 99", got)
	}
}

func TestSignedMultiFieldHandlesNegativeOffset(t *testing.T) {
	w := packet.NewWriter()
	WriteProp(w, Prop{ID: packet.PropX2, Num: -40})

	got, err := ReadProp(packet.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadProp: %v", err)
	}
	if got.Num != -40 {
		t.Fatalf("got %d, want -40", got.Num)
	}
}
