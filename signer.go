package pqcbridge

import (
	"github.com/rs/zerolog"

	"github.com/afetnet/pqcbridge/internal/crypto"
)

// Signer produces and checks signatures with one signature scheme.
type Signer struct {
	scheme *crypto.SignatureScheme
	log    zerolog.Logger
}

// NewSigner creates a Signer. The default scheme is Dilithium5.
func NewSigner(opts ...Option) (*Signer, error) {
	cfg := applyOptions(opts)
	scheme, err := crypto.SignatureSchemeByName(cfg.signatureScheme)
	if err != nil {
		return nil, wrapError("new signer", err)
	}
	return &Signer{
		scheme: scheme,
		log:    cfg.logger.With().Str("scheme", scheme.Name()).Logger(),
	}, nil
}

// Algorithm returns the canonical scheme name.
func (s *Signer) Algorithm() string { return s.scheme.Name() }

// PublicKeySize returns the packed public key size in bytes.
func (s *Signer) PublicKeySize() int { return s.scheme.PublicKeySize() }

// SecretKeySize returns the packed secret key size in bytes.
func (s *Signer) SecretKeySize() int { return s.scheme.SecretKeySize() }

// SignatureSize returns the signature size in bytes.
func (s *Signer) SignatureSize() int { return s.scheme.SignatureSize() }

// GenerateKeypair creates a fresh signing keypair.
func (s *Signer) GenerateKeypair() (*Keypair, error) {
	kp, err := s.scheme.GenerateKeypair()
	if err != nil {
		s.log.Debug().Err(err).Msg("keypair generation failed")
		return nil, wrapError("sign keypair", err)
	}
	s.log.Debug().Msg("generated signing keypair")
	return fromCryptoKeypair(kp), nil
}

// Sign signs message (taken as its UTF-8 bytes) with the hex secret key and
// returns the hex signature.
func (s *Signer) Sign(secretKeyHex, message string) (string, error) {
	return s.SignBytes(secretKeyHex, []byte(message))
}

// SignBytes signs an arbitrary byte message.
func (s *Signer) SignBytes(secretKeyHex string, message []byte) (string, error) {
	sk, err := decodeField(FieldSecretKey, secretKeyHex, s.scheme.SecretKeySize())
	if err != nil {
		s.log.Debug().Err(err).Msg("sign rejected input")
		return "", err
	}
	sig, err := s.scheme.Sign(sk, message)
	if err != nil {
		s.log.Debug().Err(err).Msg("sign failed")
		return "", wrapError("sign", err)
	}
	s.log.Debug().Int("message_len", len(message)).Msg("signed message")
	return crypto.ToHex(sig), nil
}

// Verify reports whether signatureHex is a valid signature of message under
// the hex public key. A well-formed signature that does not match returns
// (false, nil); malformed arguments return an error matching
// ErrMalformedInput.
func (s *Signer) Verify(publicKeyHex, message, signatureHex string) (bool, error) {
	return s.VerifyBytes(publicKeyHex, []byte(message), signatureHex)
}

// VerifyBytes is Verify for an arbitrary byte message.
func (s *Signer) VerifyBytes(publicKeyHex string, message []byte, signatureHex string) (bool, error) {
	pk, err := decodeField(FieldPublicKey, publicKeyHex, s.scheme.PublicKeySize())
	if err != nil {
		s.log.Debug().Err(err).Msg("verify rejected input")
		return false, err
	}
	sig, err := decodeField(FieldSignature, signatureHex, s.scheme.SignatureSize())
	if err != nil {
		s.log.Debug().Err(err).Msg("verify rejected input")
		return false, err
	}
	ok, err := s.scheme.Verify(pk, message, sig)
	if err != nil {
		return false, wrapError("verify", err)
	}
	s.log.Debug().Bool("valid", ok).Int("message_len", len(message)).Msg("verified signature")
	return ok, nil
}

// PublicKey recovers the hex public key from a hex secret key.
func (s *Signer) PublicKey(secretKeyHex string) (string, error) {
	sk, err := decodeField(FieldSecretKey, secretKeyHex, s.scheme.SecretKeySize())
	if err != nil {
		return "", err
	}
	pk, err := s.scheme.PublicKeyFromSecret(sk)
	if err != nil {
		return "", wrapError("public key", err)
	}
	return crypto.ToHex(pk), nil
}
