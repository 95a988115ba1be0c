package net

import (
	"testing"

	"github.com/rebornclient/reborn-go/internal/net/packet"
)

func TestBuildVersionFrameFields(t *testing.T) {
	frame := buildVersionFrame(1, 77)
	r := packet.NewReader(frame[1:]) // opcode byte stripped like Registry.Dispatch does

	clientType, err := r.GChar()
	if err != nil || clientType != 1 {
		t.Fatalf("clientType = %d, err = %v", clientType, err)
	}
	keyByte, err := r.GChar()
	if err != nil || keyByte != 77 {
		t.Fatalf("keyByte = %d, err = %v", keyByte, err)
	}
	banner, err := r.Bytes(len(versionBanner))
	if err != nil || string(banner) != versionBanner {
		t.Fatalf("banner = %q, err = %v", banner, err)
	}
	variant, err := r.GString()
	if err != nil || variant != clientVariant {
		t.Fatalf("variant = %q, err = %v", variant, err)
	}
}

func TestBuildLoginFrameFields(t *testing.T) {
	frame := buildLoginFrame("myacct", "hunter2", Gen3)
	r := packet.NewReader(frame[1:])

	account, err := r.GString()
	if err != nil || account != "myacct" {
		t.Fatalf("account = %q, err = %v", account, err)
	}
	password, err := r.GString()
	if err != nil || password != "hunter2" {
		t.Fatalf("password = %q, err = %v", password, err)
	}
	gen, err := r.GChar()
	if err != nil || gen != int(Gen3) {
		t.Fatalf("gen = %d, err = %v", gen, err)
	}
}
