package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// SealAES encrypts plaintext with AES-256-GCM.
// Returns: nonce (12 bytes) || ciphertext || tag (16 bytes)
func SealAES(key, plaintext, aad, nonce []byte) ([]byte, error) {
	if len(nonce) != AESNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), AESNonceSize)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, AESNonceSize+len(plaintext)+AESTagSize)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, aad), nil
}

// OpenAES decrypts the output of SealAES. Any authentication failure is
// reported as ErrDecryptionFailed.
func OpenAES(key, sealed, aad []byte) ([]byte, error) {
	if len(sealed) < AESNonceSize+AESTagSize {
		return nil, fmt.Errorf("%w: sealed data too short", ErrDecryptionFailed)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := sealed[:AESNonceSize]
	plaintext, err := gcm.Open(nil, nonce, sealed[AESNonceSize:], aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// NewNonce returns a fresh random AES-GCM nonce.
func NewNonce() ([]byte, error) {
	return readSeed(AESNonceSize)
}
