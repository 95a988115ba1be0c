// Package net implements the transport and framing codec: length-prefixed
// TCP frames, the per-generation rolling obfuscation cipher, and
// generation-aware compression, plus the client-side session that drives a
// reader/writer goroutine pair over one TCP connection.
package net

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Transport error taxonomy.
var (
	// ErrTruncated: fewer bytes than the length header promised — fail the
	// connection.
	ErrTruncated = errors.New("net: truncated frame")
	// ErrCorrupt: decompression failed — fail the connection.
	ErrCorrupt = errors.New("net: corrupt frame")
)

// MaxFrameLen bounds a single frame's payload, matching the 16-bit length
// header's range.
const MaxFrameLen = 1<<16 - 1

// ReadFrame reads one length-prefixed frame from r, decrypts it (Gen ≥2),
// and decompresses it per gen, returning the decoded sub-packet stream
// bytes ready for packet.Splitter.
//
// Wire format: [2 bytes big-endian length][payload]. Payload is, in order,
// decrypt then decompress.
func ReadFrame(r io.Reader, gen Generation, dec *Cipher) ([]byte, error) {
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: reading length header: %v", ErrTruncated, err)
		}
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(header[:]))

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: reading %d-byte payload: %v", ErrTruncated, length, err)
	}

	if gen >= Gen2 && dec != nil {
		dec.Decrypt(payload)
	}

	return decompressFrame(gen, payload)
}

func decompressFrame(gen Generation, payload []byte) ([]byte, error) {
	switch gen {
	case Gen1, Gen2:
		return payload, nil
	case Gen3:
		return decompressZlib(payload)
	case Gen4:
		return decompressBzip2(payload)
	case Gen5:
		if len(payload) == 0 {
			return payload, nil
		}
		mode, body := Compression(payload[0]), payload[1:]
		switch mode {
		case CompressNone:
			return body, nil
		case CompressZlib:
			return decompressZlib(body)
		case CompressBzip2:
			return decompressBzip2(body)
		default:
			return nil, fmt.Errorf("%w: unknown gen5 compression prefix %d", ErrCorrupt, mode)
		}
	default:
		return nil, fmt.Errorf("net: unsupported generation %d", gen)
	}
}

// WriteFrame compresses (per gen), encrypts (Gen ≥2), and writes one
// length-prefixed frame to w. Receivers must tolerate any Gen5 compression
// choice regardless of their own preference; this encoder always picks zlib
// for Gen5's "auto" compressed case, never bzip2 — no bzip2 encoder is
// available in the standard library or the wired dependency set.
func WriteFrame(w io.Writer, payload []byte, gen Generation, enc *Cipher, preferCompress bool) error {
	framed, err := compressFrame(gen, payload, preferCompress)
	if err != nil {
		return err
	}
	if len(framed) > MaxFrameLen {
		return fmt.Errorf("net: frame payload %d exceeds max %d", len(framed), MaxFrameLen)
	}

	if gen >= Gen2 && enc != nil {
		enc.Encrypt(framed)
	}

	var header [2]byte
	binary.BigEndian.PutUint16(header[:], uint16(len(framed)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("net: write frame header: %w", err)
	}
	if _, err := w.Write(framed); err != nil {
		return fmt.Errorf("net: write frame payload: %w", err)
	}
	return nil
}

func compressFrame(gen Generation, payload []byte, preferCompress bool) ([]byte, error) {
	switch gen {
	case Gen1, Gen2:
		return payload, nil
	case Gen3:
		return compressZlib(payload)
	case Gen4:
		// No bzip2 encoder available: send raw.
		return payload, nil
	case Gen5:
		if !preferCompress {
			return append([]byte{byte(CompressNone)}, payload...), nil
		}
		z, err := compressZlib(payload)
		if err != nil {
			return nil, err
		}
		return append([]byte{byte(CompressZlib)}, z...), nil
	default:
		return nil, fmt.Errorf("net: unsupported generation %d", gen)
	}
}
