package packet

import "testing"

func TestGCharRoundTrip(t *testing.T) {
	for v := 0; v <= MaxGChar; v++ {
		b, err := EncodeGChar(v)
		if err != nil {
			t.Fatalf("EncodeGChar(%d): %v", v, err)
		}
		if got := DecodeGChar(b); got != v {
			t.Fatalf("DecodeGChar(EncodeGChar(%d)) = %d", v, got)
		}
	}
}

func TestGCharOutOfRange(t *testing.T) {
	if _, err := EncodeGChar(-1); err == nil {
		t.Error("expected error for negative gchar")
	}
	if _, err := EncodeGChar(MaxGChar + 1); err == nil {
		t.Error("expected error for gchar over range")
	}
}

func TestFixedRoundTrip(t *testing.T) {
	cases := []struct {
		v int64
		n int
	}{
		{0, 2}, {1, 2}, {223, 2}, {50176 - 1, 2},
		{0, 4}, {12345678, 4},
		{0, 5}, {999999999, 5},
	}
	for _, c := range cases {
		b, err := EncodeFixed(c.v, c.n)
		if err != nil {
			t.Fatalf("EncodeFixed(%d, %d): %v", c.v, c.n, err)
		}
		if len(b) != c.n {
			t.Fatalf("EncodeFixed(%d, %d) produced %d bytes", c.v, c.n, len(b))
		}
		if got := DecodeFixed(b); got != c.v {
			t.Fatalf("DecodeFixed(EncodeFixed(%d, %d)) = %d", c.v, c.n, got)
		}
	}
}

func TestGUIntRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 223, 224, 50176, 1 << 20, 1<<32 - 1}
	for _, v := range values {
		enc := EncodeGUInt(v)
		got := DecodeGUInt(enc)
		if got != v {
			t.Fatalf("DecodeGUInt(EncodeGUInt(%d)) = %d", v, got)
		}
	}
}
