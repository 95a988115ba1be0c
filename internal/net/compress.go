package net

import (
	"bytes"
	"compress/bzip2"
	"compress/zlib"
	"fmt"
	"io"
)

// compressZlib compresses payload with zlib (used for Gen3, and for Gen5
// frames that choose the zlib prefix).
func compressZlib(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, fmt.Errorf("net: zlib compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("net: zlib compress: %w", err)
	}
	return buf.Bytes(), nil
}

// decompressZlib reverses compressZlib. Errors here are wrapped as
// ErrCorrupt and fail the connection.
func decompressZlib(payload []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib header: %v", ErrCorrupt, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib stream: %v", ErrCorrupt, err)
	}
	return out, nil
}

// decompressBzip2 decompresses a bzip2-framed payload (Gen4, and Gen5
// frames that chose the bzip2 prefix). The standard library's bzip2 reader
// is decode-only and no wired dependency offers an encoder, so there is no
// compressBzip2 — outbound Gen4 traffic is sent raw, and outbound Gen5
// traffic never uses the bzip2 prefix.
func decompressBzip2(payload []byte) ([]byte, error) {
	br := bzip2.NewReader(bytes.NewReader(payload))
	out, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("%w: bzip2 stream: %v", ErrCorrupt, err)
	}
	return out, nil
}
