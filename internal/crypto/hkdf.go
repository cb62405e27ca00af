package crypto

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey derives a key using HKDF-SHA-512. An empty salt is replaced by a
// hash-length string of zeros, as RFC 5869 specifies.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, sha512.Size)
	}

	reader := hkdf.New(sha512.New, secret, salt, info)
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}

// DeriveSessionKey binds a KEM shared secret to the two participants of an
// exchange. The info string is SessionContext || initiator || 0x00 || responder,
// so swapping the roles yields a different key.
func DeriveSessionKey(sharedSecret []byte, initiatorID, responderID string) ([]byte, error) {
	if len(sharedSecret) != SharedSecretSize {
		return nil, fmt.Errorf("%w: shared secret is %d bytes, want %d", ErrInvalidKeySize, len(sharedSecret), SharedSecretSize)
	}
	if initiatorID == "" || responderID == "" {
		return nil, errors.New("participant ids must be non-empty")
	}

	info := make([]byte, 0, len(SessionContext)+len(initiatorID)+1+len(responderID))
	info = append(info, SessionContext...)
	info = append(info, initiatorID...)
	info = append(info, 0x00)
	info = append(info, responderID...)

	return DeriveKey(sharedSecret, nil, info, SessionKeySize)
}
