package packet

import (
	"errors"

	"golang.org/x/text/encoding/charmap"
)

// ErrMalformed is returned when a field reader would run past the end of
// the sub-packet body. Callers generally log and drop the sub-packet rather
// than treat this as fatal.
var ErrMalformed = errors.New("packet: malformed sub-packet")

// Reader decodes Graal-encoded fields from a single sub-packet body (the
// bytes between two '\n' delimiters, with the leading opcode byte already
// stripped by the caller — see Registry.Dispatch).
type Reader struct {
	data []byte
	off  int
}

// NewReader wraps body (opcode byte already removed) for field reads.
func NewReader(body []byte) *Reader {
	return &Reader{data: body}
}

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int {
	if r.off >= len(r.data) {
		return 0
	}
	return len(r.data) - r.off
}

// GChar reads a single biased byte (0..223).
func (r *Reader) GChar() (int, error) {
	if r.Remaining() < 1 {
		return 0, ErrMalformed
	}
	v := DecodeGChar(r.data[r.off])
	r.off++
	return v, nil
}

// GShort reads a 2-byte big-endian base-224 field.
func (r *Reader) GShort() (int, error) {
	return r.fixed(2)
}

// GInt4 reads a 4-byte big-endian base-224 field.
func (r *Reader) GInt4() (int, error) {
	return r.fixed(4)
}

// GInt5 reads a 5-byte big-endian base-224 field.
func (r *Reader) GInt5() (int, error) {
	return r.fixed(5)
}

func (r *Reader) fixed(n int) (int, error) {
	if r.Remaining() < n {
		return 0, ErrMalformed
	}
	v := DecodeFixed(r.data[r.off : r.off+n])
	r.off += n
	return int(v), nil
}

// GUInt reads a self-delimiting length field: a leading gchar giving the
// byte count, followed by that many GUInt digit bytes.
func (r *Reader) GUInt() (uint32, error) {
	n, err := r.GChar()
	if err != nil {
		return 0, err
	}
	if r.Remaining() < n {
		return 0, ErrMalformed
	}
	v := DecodeGUInt(r.data[r.off : r.off+n])
	r.off += n
	return v, nil
}

// GString reads a length-prefixed string: a gchar length followed by that
// many raw bytes, decoded from Latin-1 (the protocol's wire encoding for
// chat, nicknames, and level names).
func (r *Reader) GString() (string, error) {
	n, err := r.GChar()
	if err != nil {
		return "", err
	}
	return r.latin1String(n)
}

// NullTermString reads bytes up to (and consuming) the next 0x00, or to the
// end of the body if no terminator is present.
func (r *Reader) NullTermString() (string, error) {
	start := r.off
	for r.off < len(r.data) && r.data[r.off] != 0 {
		r.off++
	}
	raw := r.data[start:r.off]
	if r.off < len(r.data) {
		r.off++ // consume terminator
	}
	return decodeLatin1(raw), nil
}

func (r *Reader) latin1String(n int) (string, error) {
	if n < 0 || r.Remaining() < n {
		return "", ErrMalformed
	}
	raw := r.data[r.off : r.off+n]
	r.off += n
	return decodeLatin1(raw), nil
}

// Bytes reads n raw bytes verbatim (used for board tiles and file chunks
// primed by a preceding RAW_DATA declaration).
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrMalformed
	}
	b := make([]byte, n)
	copy(b, r.data[r.off:r.off+n])
	r.off += n
	return b, nil
}

// Rest returns every remaining unread byte without advancing off.
func (r *Reader) Rest() []byte {
	return r.data[r.off:]
}

func decodeLatin1(raw []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
