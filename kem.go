package pqcbridge

import (
	"github.com/rs/zerolog"

	"github.com/afetnet/pqcbridge/internal/crypto"
)

// KEM performs key encapsulation with one KEM scheme.
type KEM struct {
	scheme *crypto.KEMScheme
	log    zerolog.Logger
}

// NewKEM creates a KEM. The default scheme is Kyber1024.
func NewKEM(opts ...Option) (*KEM, error) {
	cfg := applyOptions(opts)
	scheme, err := crypto.KEMSchemeByName(cfg.kemScheme)
	if err != nil {
		return nil, wrapError("new kem", err)
	}
	return &KEM{
		scheme: scheme,
		log:    cfg.logger.With().Str("scheme", scheme.Name()).Logger(),
	}, nil
}

// Algorithm returns the canonical scheme name.
func (k *KEM) Algorithm() string { return k.scheme.Name() }

// PublicKeySize returns the packed public key size in bytes.
func (k *KEM) PublicKeySize() int { return k.scheme.PublicKeySize() }

// SecretKeySize returns the packed secret key size in bytes.
func (k *KEM) SecretKeySize() int { return k.scheme.SecretKeySize() }

// CiphertextSize returns the ciphertext size in bytes.
func (k *KEM) CiphertextSize() int { return k.scheme.CiphertextSize() }

// SharedSecretSize returns the shared secret size in bytes.
func (k *KEM) SharedSecretSize() int { return k.scheme.SharedSecretSize() }

// GenerateKeypair creates a fresh KEM keypair.
func (k *KEM) GenerateKeypair() (*Keypair, error) {
	kp, err := k.scheme.GenerateKeypair()
	if err != nil {
		k.log.Debug().Err(err).Msg("keypair generation failed")
		return nil, wrapError("kem keypair", err)
	}
	k.log.Debug().Msg("generated kem keypair")
	return fromCryptoKeypair(kp), nil
}

// Encapsulate creates a fresh shared secret for the hex public key.
func (k *KEM) Encapsulate(publicKeyHex string) (*Encapsulation, error) {
	pk, err := decodeField(FieldPublicKey, publicKeyHex, k.scheme.PublicKeySize())
	if err != nil {
		k.log.Debug().Err(err).Msg("encapsulate rejected input")
		return nil, err
	}
	shared, ct, err := k.scheme.Encapsulate(pk)
	if err != nil {
		k.log.Debug().Err(err).Msg("encapsulate failed")
		return nil, wrapError("encapsulate", err)
	}
	k.log.Debug().Msg("encapsulated shared secret")
	return &Encapsulation{SharedSecret: shared, Ciphertext: ct}, nil
}

// Decapsulate recovers the hex shared secret from a hex ciphertext.
//
// A correctly sized ciphertext that was produced for a different key is not
// an error: the scheme's implicit rejection yields an unrelated secret.
func (k *KEM) Decapsulate(secretKeyHex, ciphertextHex string) (string, error) {
	sk, err := decodeField(FieldSecretKey, secretKeyHex, k.scheme.SecretKeySize())
	if err != nil {
		k.log.Debug().Err(err).Msg("decapsulate rejected input")
		return "", err
	}
	ct, err := decodeField(FieldCiphertext, ciphertextHex, k.scheme.CiphertextSize())
	if err != nil {
		k.log.Debug().Err(err).Msg("decapsulate rejected input")
		return "", err
	}
	shared, err := k.scheme.Decapsulate(sk, ct)
	if err != nil {
		return "", wrapError("decapsulate", err)
	}
	k.log.Debug().Msg("decapsulated shared secret")
	return crypto.ToHex(shared), nil
}

// Seal encrypts plaintext to the hex public key and returns
// "kem_ciphertext_hex:sealed_hex". The sealed half is nonce || ciphertext ||
// tag under an AES-256-GCM key derived from the encapsulated secret.
func (k *KEM) Seal(publicKeyHex string, plaintext, aad []byte) (string, error) {
	pk, err := decodeField(FieldPublicKey, publicKeyHex, k.scheme.PublicKeySize())
	if err != nil {
		return "", err
	}
	kemCT, sealed, err := k.scheme.Seal(pk, plaintext, aad)
	if err != nil {
		return "", wrapError("seal", err)
	}
	k.log.Debug().Int("plaintext_len", len(plaintext)).Msg("sealed message")
	return JoinPair(kemCT, sealed), nil
}

// Open decrypts the output of Seal with the hex secret key. A tampered
// envelope or wrong key returns ErrDecryptionFailed.
func (k *KEM) Open(secretKeyHex, sealedPair string, aad []byte) ([]byte, error) {
	sk, err := decodeField(FieldSecretKey, secretKeyHex, k.scheme.SecretKeySize())
	if err != nil {
		return nil, err
	}
	kemCT, sealed, err := SplitPair(sealedPair)
	if err != nil {
		return nil, err
	}
	if len(kemCT) != k.scheme.CiphertextSize() {
		return nil, &InputError{Field: FieldCiphertext, Err: ErrInvalidCiphertext}
	}
	plaintext, err := k.scheme.Open(sk, kemCT, sealed, aad)
	if err != nil {
		k.log.Debug().Err(err).Msg("open failed")
		return nil, wrapError("open", err)
	}
	return plaintext, nil
}
