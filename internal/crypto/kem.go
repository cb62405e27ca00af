package crypto

import (
	"fmt"
	"strings"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/kyber/kyber1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
)

// KEMScheme wraps a circl key encapsulation scheme with explicit size checks.
type KEMScheme struct {
	scheme kem.Scheme
	name   string
}

// KEMSchemes lists the supported KEM scheme names.
func KEMSchemes() []string {
	return []string{Kyber1024, MLKEM1024}
}

// KEMSchemeByName returns the named scheme. Matching is case-insensitive.
// An empty name selects DefaultKEMScheme.
func KEMSchemeByName(name string) (*KEMScheme, error) {
	if name == "" {
		name = DefaultKEMScheme
	}
	switch {
	case strings.EqualFold(name, Kyber1024):
		return &KEMScheme{scheme: kyber1024.Scheme(), name: Kyber1024}, nil
	case strings.EqualFold(name, MLKEM1024):
		return &KEMScheme{scheme: mlkem1024.Scheme(), name: MLKEM1024}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// Name returns the canonical scheme name.
func (s *KEMScheme) Name() string { return s.name }

// PublicKeySize returns the packed public key size in bytes.
func (s *KEMScheme) PublicKeySize() int { return s.scheme.PublicKeySize() }

// SecretKeySize returns the packed secret key size in bytes.
func (s *KEMScheme) SecretKeySize() int { return s.scheme.PrivateKeySize() }

// CiphertextSize returns the ciphertext size in bytes.
func (s *KEMScheme) CiphertextSize() int { return s.scheme.CiphertextSize() }

// SharedSecretSize returns the shared secret size in bytes.
func (s *KEMScheme) SharedSecretSize() int { return s.scheme.SharedKeySize() }

// GenerateKeypair creates a new keypair from a fresh random seed.
func (s *KEMScheme) GenerateKeypair() (*Keypair, error) {
	seed, err := readSeed(s.scheme.SeedSize())
	if err != nil {
		return nil, err
	}
	defer Wipe(seed)
	return s.DeriveKeypair(seed)
}

// DeriveKeypair deterministically derives a keypair from seed, which must be
// exactly SeedSize bytes.
func (s *KEMScheme) DeriveKeypair(seed []byte) (*Keypair, error) {
	if len(seed) != s.scheme.SeedSize() {
		return nil, fmt.Errorf("%s: seed must be %d bytes", s.name, s.scheme.SeedSize())
	}
	pk, sk := s.scheme.DeriveKeyPair(seed)

	pubBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%s: marshal public key: %w", s.name, err)
	}
	secBytes, err := sk.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%s: marshal secret key: %w", s.name, err)
	}

	return &Keypair{
		PublicKey: clone(pubBytes),
		SecretKey: clone(secBytes),
	}, nil
}

// Encapsulate generates a fresh shared secret for publicKey and returns it
// together with the ciphertext that carries it.
func (s *KEMScheme) Encapsulate(publicKey []byte) (sharedSecret, ciphertext []byte, err error) {
	if len(publicKey) != s.scheme.PublicKeySize() {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidPublicKeySize, len(publicKey), s.scheme.PublicKeySize())
	}

	pk, err := s.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	seed, err := readSeed(s.scheme.EncapsulationSeedSize())
	if err != nil {
		return nil, nil, err
	}
	defer Wipe(seed)

	ct, ss, err := s.scheme.EncapsulateDeterministically(pk, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: encapsulate: %w", s.name, err)
	}
	return clone(ss), clone(ct), nil
}

// Decapsulate recovers the shared secret carried by ciphertext. A correctly
// sized ciphertext that was not produced for this key yields the scheme's
// implicit-rejection secret rather than an error.
func (s *KEMScheme) Decapsulate(secretKey, ciphertext []byte) ([]byte, error) {
	if len(secretKey) != s.scheme.PrivateKeySize() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSecretKeySize, len(secretKey), s.scheme.PrivateKeySize())
	}
	if len(ciphertext) != s.scheme.CiphertextSize() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidCiphertextSize, len(ciphertext), s.scheme.CiphertextSize())
	}

	sk, err := s.scheme.UnmarshalBinaryPrivateKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
	}

	ss, err := s.scheme.Decapsulate(sk, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%s: decapsulate: %w", s.name, err)
	}
	return clone(ss), nil
}
