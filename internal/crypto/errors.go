package crypto

import "errors"

var (
	// ErrInvalidHex is returned when a string is not valid hex.
	ErrInvalidHex = errors.New("invalid hex encoding")

	// ErrInvalidSecretKeySize is returned when the secret key size is invalid.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidPublicKeySize is returned when the public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidSignatureSize is returned when the signature size is invalid.
	ErrInvalidSignatureSize = errors.New("invalid signature size")

	// ErrInvalidCiphertextSize is returned when the ciphertext size is invalid.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidSecretKey is returned when a correctly sized secret key is
	// rejected by the scheme.
	ErrInvalidSecretKey = errors.New("invalid secret key")

	// ErrInvalidPublicKey is returned when a correctly sized public key is
	// rejected by the scheme (for example, coefficients out of range).
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrUnsupportedAlgorithm is returned for an unknown scheme name.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrRandomness is returned when the random source fails.
	ErrRandomness = errors.New("random source failure")

	// ErrDecryptionFailed is returned when AES-GCM authentication fails.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")
)
