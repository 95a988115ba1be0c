package net

// Generation identifies one of the encryption/compression variants
// negotiated at handshake.
type Generation int

const (
	Gen1 Generation = iota + 1 // no encryption, no compression
	Gen2                       // rolling XOR cipher, no compression
	Gen3                       // cipher + zlib, always
	Gen4                       // cipher + bzip2, always
	Gen5                       // cipher + "auto": per-frame compression choice, signaled by a prefix byte
)

// Compression identifies a single frame's compression scheme. For Gen5 this
// is chosen per frame by the sender and signaled with a one-byte prefix
// placed after decryption.
type Compression byte

const (
	CompressNone  Compression = 0
	CompressZlib  Compression = 1
	CompressBzip2 Compression = 2
)
