package crypto

import (
	"github.com/cloudflare/circl/kem/kyber/kyber1024"
	"github.com/cloudflare/circl/sign/dilithium/mode5"
)

const (
	// SessionContext is the HKDF info prefix for session keys derived from
	// KEM shared secrets.
	SessionContext = "pqcbridge:session:v1"

	// SealContext is the HKDF info string for AES keys used by Seal/Open.
	SealContext = "pqcbridge:seal:v1"

	// Dilithium5PublicKeySize is the size of a Dilithium5 public key in bytes.
	Dilithium5PublicKeySize = mode5.PublicKeySize
	// Dilithium5SecretKeySize is the size of a Dilithium5 secret key in bytes.
	Dilithium5SecretKeySize = mode5.PrivateKeySize
	// Dilithium5SignatureSize is the size of a Dilithium5 signature in bytes.
	Dilithium5SignatureSize = mode5.SignatureSize

	// Kyber1024PublicKeySize is the size of a Kyber1024 public key in bytes.
	Kyber1024PublicKeySize = kyber1024.PublicKeySize
	// Kyber1024SecretKeySize is the size of a Kyber1024 secret key in bytes.
	Kyber1024SecretKeySize = kyber1024.PrivateKeySize
	// Kyber1024CiphertextSize is the size of a Kyber1024 ciphertext in bytes.
	Kyber1024CiphertextSize = kyber1024.CiphertextSize

	// SharedSecretSize is the size of a KEM shared secret in bytes.
	SharedSecretSize = 32
	// SessionKeySize is the size of a derived session key in bytes.
	SessionKeySize = 32

	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16
)

// Scheme names accepted by SignatureSchemeByName and KEMSchemeByName.
const (
	Dilithium5 = "Dilithium5"
	MLDSA87    = "ML-DSA-87"
	Kyber1024  = "Kyber1024"
	MLKEM1024  = "ML-KEM-1024"
)

// DefaultSignatureScheme and DefaultKEMScheme are used when no scheme is configured.
const (
	DefaultSignatureScheme = Dilithium5
	DefaultKEMScheme       = Kyber1024
)
