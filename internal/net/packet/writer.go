package packet

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Writer builds one sub-packet body. Builders are symmetric with Reader and
// refuse to emit a value outside its field's encoding range.
type Writer struct {
	buf []byte
	err error
}

// NewWriter starts an empty sub-packet body.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 32)}
}

// NewWriterWithID starts a sub-packet body with the given outbound opcode
// as its first (biased) byte.
func NewWriterWithID(id OutboundID) *Writer {
	w := NewWriter()
	w.GChar(int(id))
	return w
}

// Err returns the first encoding error encountered, if any. Checked once at
// the end of a builder chain instead of after every field write, surfacing
// range-check failures instead of silently truncating.
func (w *Writer) Err() error {
	return w.err
}

// GChar appends a single biased byte.
func (w *Writer) GChar(v int) *Writer {
	if w.err != nil {
		return w
	}
	b, err := EncodeGChar(v)
	if err != nil {
		w.err = err
		return w
	}
	w.buf = append(w.buf, b)
	return w
}

// GShort appends a 2-byte big-endian base-224 field.
func (w *Writer) GShort(v int) *Writer { return w.fixed(v, 2) }

// GInt4 appends a 4-byte big-endian base-224 field.
func (w *Writer) GInt4(v int) *Writer { return w.fixed(v, 4) }

// GInt5 appends a 5-byte big-endian base-224 field.
func (w *Writer) GInt5(v int) *Writer { return w.fixed(v, 5) }

func (w *Writer) fixed(v, n int) *Writer {
	if w.err != nil {
		return w
	}
	b, err := EncodeFixed(int64(v), n)
	if err != nil {
		w.err = err
		return w
	}
	w.buf = append(w.buf, b...)
	return w
}

// GUInt appends a self-delimiting length field: a gchar byte count followed
// by the GUInt digit bytes.
func (w *Writer) GUInt(v uint32) *Writer {
	if w.err != nil {
		return w
	}
	digits := EncodeGUInt(v)
	if len(digits) > MaxGChar {
		w.err = fmt.Errorf("packet: GUInt value %d needs too many digit bytes", v)
		return w
	}
	lenByte, _ := EncodeGChar(len(digits))
	w.buf = append(w.buf, lenByte)
	w.buf = append(w.buf, digits...)
	return w
}

// GString appends a length-prefixed Latin-1 string. s longer than 223 bytes
// once encoded is a range error, since a gchar length prefix cannot address
// more.
func (w *Writer) GString(s string) *Writer {
	if w.err != nil {
		return w
	}
	enc, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		enc = []byte(s)
	}
	lenByte, err := EncodeGChar(len(enc))
	if err != nil {
		w.err = fmt.Errorf("packet: string %q too long for gchar length prefix: %w", s, err)
		return w
	}
	w.buf = append(w.buf, lenByte)
	w.buf = append(w.buf, enc...)
	return w
}

// NullTermString appends a Latin-1 string followed by a 0x00 terminator.
func (w *Writer) NullTermString(s string) *Writer {
	if w.err != nil {
		return w
	}
	enc, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		enc = []byte(s)
	}
	w.buf = append(w.buf, enc...)
	w.buf = append(w.buf, 0)
	return w
}

// RawBytes appends b verbatim, unencoded.
func (w *Writer) RawBytes(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Bytes returns the built sub-packet body.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len reports the current body length.
func (w *Writer) Len() int {
	return len(w.buf)
}
