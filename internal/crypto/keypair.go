package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// randReader is the random source used for key generation and encapsulation.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// Keypair holds the packed public and secret keys of either scheme family.
type Keypair struct {
	// PublicKey is the packed public key.
	PublicKey []byte
	// SecretKey is the packed secret key.
	SecretKey []byte
}

// Wipe overwrites the secret key bytes with zeros.
func (k *Keypair) Wipe() {
	if k == nil {
		return
	}
	Wipe(k.SecretKey)
}

// readSeed fills a fresh n-byte seed from the configured random source.
func readSeed(n int) ([]byte, error) {
	r := randReader
	if r == nil {
		r = rand.Reader
	}
	seed := make([]byte, n)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	return seed, nil
}

// clone returns a copy of b so callers never alias circl's internal buffers.
func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
