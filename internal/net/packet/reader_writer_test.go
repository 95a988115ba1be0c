package packet

import "testing"

func TestWriterReaderFields(t *testing.T) {
	w := NewWriter()
	w.GChar(5).GShort(1000).GInt4(123456).GString("hello").NullTermString("world")
	if err := w.Err(); err != nil {
		t.Fatalf("writer error: %v", err)
	}

	r := NewReader(w.Bytes())
	if v, err := r.GChar(); err != nil || v != 5 {
		t.Fatalf("GChar = %d, %v, want 5", v, err)
	}
	if v, err := r.GShort(); err != nil || v != 1000 {
		t.Fatalf("GShort = %d, %v, want 1000", v, err)
	}
	if v, err := r.GInt4(); err != nil || v != 123456 {
		t.Fatalf("GInt4 = %d, %v, want 123456", v, err)
	}
	if s, err := r.GString(); err != nil || s != "hello" {
		t.Fatalf("GString = %q, %v, want hello", s, err)
	}
	if s, err := r.NullTermString(); err != nil || s != "world" {
		t.Fatalf("NullTermString = %q, %v, want world", s, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestReaderMalformedOnShortBuffer(t *testing.T) {
	r := NewReader([]byte{})
	if _, err := r.GChar(); err != ErrMalformed {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	r2 := NewReader([]byte{byte(5 + graalBias)})
	if _, err := r2.GShort(); err != ErrMalformed {
		t.Fatalf("expected ErrMalformed on short GShort, got %v", err)
	}
}

func TestWriterStringTooLong(t *testing.T) {
	w := NewWriter()
	long := make([]byte, MaxGChar+1)
	for i := range long {
		long[i] = 'a'
	}
	w.GString(string(long))
	if w.Err() == nil {
		t.Fatal("expected error for over-length string")
	}
}

func TestGUIntFieldRoundTrip(t *testing.T) {
	w := NewWriter()
	w.GUInt(70000)
	r := NewReader(w.Bytes())
	v, err := r.GUInt()
	if err != nil {
		t.Fatalf("GUInt: %v", err)
	}
	if v != 70000 {
		t.Fatalf("GUInt = %d, want 70000", v)
	}
}
