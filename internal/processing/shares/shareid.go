package shares

import (
	"crypto/rand"
)

const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CryptoIDGenerator mints base62 share identifiers from crypto/rand.
type CryptoIDGenerator struct {
	length int
}

func NewCryptoIDGenerator(length int) *CryptoIDGenerator {
	if length <= 0 {
		length = 16
	}
	return &CryptoIDGenerator{length: length}
}

func (g *CryptoIDGenerator) NewID() (string, error) {
	buf := make([]byte, g.length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	out := make([]byte, g.length)
	for i := range buf {
		out[i] = base62Alphabet[int(buf[i])%len(base62Alphabet)]
	}

	return string(out), nil
}
