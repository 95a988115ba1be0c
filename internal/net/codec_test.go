package net

import (
	"bytes"
	"testing"
)

func TestFrameRoundTripAllGenerations(t *testing.T) {
	payload := []byte("\x29hello\n\x2aworld\n")

	for gen := Gen1; gen <= Gen5; gen++ {
		var enc, dec *Cipher
		if gen >= Gen2 {
			enc = NewCipher(gen, 0x11)
			dec = NewCipher(gen, 0x11)
		}

		var buf bytes.Buffer
		if err := WriteFrame(&buf, append([]byte(nil), payload...), gen, enc, true); err != nil {
			t.Fatalf("gen %d: WriteFrame: %v", gen, err)
		}

		got, err := ReadFrame(&buf, gen, dec)
		if err != nil {
			t.Fatalf("gen %d: ReadFrame: %v", gen, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("gen %d: round trip mismatch: got %q want %q", gen, got, payload)
		}
	}
}

func TestReadFrameTruncated(t *testing.T) {
	// Length header claims 100 bytes but only 10 follow.
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x64})
	buf.Write(make([]byte, 10))

	_, err := ReadFrame(&buf, Gen1, nil)
	if err == nil {
		t.Fatal("expected truncated frame error")
	}
}

func TestReadFrameEOF(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil), Gen1, nil)
	if err == nil {
		t.Fatal("expected error on empty reader")
	}
}

func TestGen5ToleratesEitherCompressionChoice(t *testing.T) {
	payload := []byte("\x21payload\n")

	// The sender's preference picks the uncompressed or the zlib prefix;
	// the receiver decodes either regardless of its own preference.
	for _, preferCompress := range []bool{false, true} {
		enc := NewCipher(Gen5, 3)
		dec := NewCipher(Gen5, 3)

		var buf bytes.Buffer
		if err := WriteFrame(&buf, append([]byte(nil), payload...), Gen5, enc, preferCompress); err != nil {
			t.Fatal(err)
		}
		got, err := ReadFrame(&buf, Gen5, dec)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("preferCompress=%v: got %q want %q", preferCompress, got, payload)
		}
	}
}
