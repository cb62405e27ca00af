package crypto

import "fmt"

// Seal encapsulates a fresh shared secret to publicKey, derives an AES-256 key
// from it with HKDF-SHA-512 (salted with the KEM ciphertext) and encrypts
// plaintext with AES-256-GCM.
func (s *KEMScheme) Seal(publicKey, plaintext, aad []byte) (kemCiphertext, sealed []byte, err error) {
	shared, kemCiphertext, err := s.Encapsulate(publicKey)
	if err != nil {
		return nil, nil, err
	}
	defer Wipe(shared)

	key, err := DeriveKey(shared, kemCiphertext, []byte(SealContext), AESKeySize)
	if err != nil {
		return nil, nil, err
	}
	defer Wipe(key)

	nonce, err := NewNonce()
	if err != nil {
		return nil, nil, err
	}

	sealed, err = SealAES(key, plaintext, aad, nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: seal: %w", s.name, err)
	}
	return kemCiphertext, sealed, nil
}

// Open reverses Seal. A foreign or tampered KEM ciphertext decapsulates to an
// unrelated secret, which then surfaces as ErrDecryptionFailed.
func (s *KEMScheme) Open(secretKey, kemCiphertext, sealed, aad []byte) ([]byte, error) {
	shared, err := s.Decapsulate(secretKey, kemCiphertext)
	if err != nil {
		return nil, err
	}
	defer Wipe(shared)

	key, err := DeriveKey(shared, kemCiphertext, []byte(SealContext), AESKeySize)
	if err != nil {
		return nil, err
	}
	defer Wipe(key)

	return OpenAES(key, sealed, aad)
}
