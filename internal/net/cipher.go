package net

// Cipher is the per-generation rolling obfuscation stream used by
// generations ≥2: every byte is XORed against the next byte of a
// deterministic stream seeded by the session key exchanged at login, with
// independent state kept per direction.
//
// State is a small fixed key array folded back into itself after each byte
// processed, so the stream is a pure
// function of (initial key, generation, ciphertext bytes seen so far) —
// never of wall-clock time or randomness. Folding the *ciphertext* byte
// (not the plaintext byte) on both the encrypt and decrypt side is what
// keeps the two directions' streams identical so XOR cancels: Encrypt folds
// its output, Decrypt folds its input.
type Cipher struct {
	gen Generation
	key [gKeySize]byte
	idx int
}

const gKeySize = 16

// NewCipher seeds a Cipher for one direction from the session key exchanged
// at handshake and the negotiated generation.
func NewCipher(gen Generation, sessionKey byte) *Cipher {
	c := &Cipher{gen: gen}
	seed := uint32(sessionKey)*2654435761 + uint32(gen)
	for i := range c.key {
		seed = seed*1103515245 + 12345
		c.key[i] = byte(seed >> 16)
	}
	return c
}

// Encrypt XORs plaintext data in place into ciphertext and advances state.
func (c *Cipher) Encrypt(data []byte) []byte {
	for i := range data {
		data[i] ^= c.next()
		c.fold(data[i])
	}
	return data
}

// Decrypt XORs ciphertext data in place into plaintext and advances state.
func (c *Cipher) Decrypt(data []byte) []byte {
	for i := range data {
		cipherByte := data[i]
		data[i] ^= c.next()
		c.fold(cipherByte)
	}
	return data
}

func (c *Cipher) next() byte {
	return c.key[c.idx%gKeySize]
}

// fold advances the rolling key state with the ciphertext byte just
// produced/consumed, so the stream is never a short repeating XOR pad.
func (c *Cipher) fold(cipherByte byte) {
	c.key[c.idx%gKeySize] += cipherByte + byte(c.idx)
	c.idx++
}
