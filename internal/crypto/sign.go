package crypto

import (
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/dilithium/mode5"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
)

// SignatureScheme wraps a circl signature scheme with explicit size checks.
type SignatureScheme struct {
	scheme sign.Scheme
	name   string
}

// SignatureSchemes lists the supported signature scheme names.
func SignatureSchemes() []string {
	return []string{Dilithium5, MLDSA87}
}

// SignatureSchemeByName returns the named scheme. Matching is case-insensitive.
// An empty name selects DefaultSignatureScheme.
func SignatureSchemeByName(name string) (*SignatureScheme, error) {
	if name == "" {
		name = DefaultSignatureScheme
	}
	switch {
	case strings.EqualFold(name, Dilithium5):
		return &SignatureScheme{scheme: mode5.Scheme(), name: Dilithium5}, nil
	case strings.EqualFold(name, MLDSA87):
		return &SignatureScheme{scheme: mldsa87.Scheme(), name: MLDSA87}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// Name returns the canonical scheme name.
func (s *SignatureScheme) Name() string { return s.name }

// PublicKeySize returns the packed public key size in bytes.
func (s *SignatureScheme) PublicKeySize() int { return s.scheme.PublicKeySize() }

// SecretKeySize returns the packed secret key size in bytes.
func (s *SignatureScheme) SecretKeySize() int { return s.scheme.PrivateKeySize() }

// SignatureSize returns the signature size in bytes.
func (s *SignatureScheme) SignatureSize() int { return s.scheme.SignatureSize() }

// GenerateKeypair creates a new keypair from a fresh random seed.
func (s *SignatureScheme) GenerateKeypair() (*Keypair, error) {
	seed, err := readSeed(s.scheme.SeedSize())
	if err != nil {
		return nil, err
	}
	defer Wipe(seed)
	return s.DeriveKeypair(seed)
}

// DeriveKeypair deterministically derives a keypair from seed, which must be
// exactly SeedSize bytes.
func (s *SignatureScheme) DeriveKeypair(seed []byte) (*Keypair, error) {
	if len(seed) != s.scheme.SeedSize() {
		return nil, fmt.Errorf("%s: seed must be %d bytes", s.name, s.scheme.SeedSize())
	}
	pk, sk := s.scheme.DeriveKey(seed)

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

// Sign signs message with the packed secret key.
func (s *SignatureScheme) Sign(secretKey, message []byte) ([]byte, error) {
	if len(secretKey) != s.scheme.PrivateKeySize() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSecretKeySize, len(secretKey), s.scheme.PrivateKeySize())
	}

	sk, err := s.scheme.UnmarshalBinaryPrivateKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
	}

	return clone(s.scheme.Sign(sk, message, nil)), nil
}

// Verify checks signature over message. It returns (false, nil) for a
// well-formed signature that does not match, and an error only when the
// public key or signature is malformed.
func (s *SignatureScheme) Verify(publicKey, message, signature []byte) (bool, error) {
	if len(publicKey) != s.scheme.PublicKeySize() {
		return false, fmt.Errorf("%w: got %d, want %d", ErrInvalidPublicKeySize, len(publicKey), s.scheme.PublicKeySize())
	}
	if len(signature) != s.scheme.SignatureSize() {
		return false, fmt.Errorf("%w: got %d, want %d", ErrInvalidSignatureSize, len(signature), s.scheme.SignatureSize())
	}

	pk, err := s.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	return s.scheme.Verify(pk, message, signature, nil), nil
}

// PublicKeyFromSecret recovers the packed public key from a packed secret key.
func (s *SignatureScheme) PublicKeyFromSecret(secretKey []byte) ([]byte, error) {
	if len(secretKey) != s.scheme.PrivateKeySize() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSecretKeySize, len(secretKey), s.scheme.PrivateKeySize())
	}
	sk, err := s.scheme.UnmarshalBinaryPrivateKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
	}
	pub, ok := sk.Public().(sign.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected public key type %T", s.name, sk.Public())
	}
	b, err := pub.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%s: marshal public key: %w", s.name, err)
	}
	return clone(b), nil
}
