package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	t.Parallel()
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		salt   []byte
		info   []byte
		length int
	}{
		{"basic 32 bytes", make([]byte, 32), []byte("info"), 32},
		{"empty salt", nil, []byte("info"), 32},
		{"empty info", make([]byte, 32), nil, 32},
		{"16 byte key", make([]byte, 32), []byte("info"), 16},
		{"64 byte key", make([]byte, 32), []byte("info"), 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveKey(secret, tt.salt, tt.info, tt.length)
			if err != nil {
				t.Fatalf("DeriveKey() error = %v", err)
			}
			if len(key) != tt.length {
				t.Errorf("key length = %d, want %d", len(key), tt.length)
			}

			again, err := DeriveKey(secret, tt.salt, tt.info, tt.length)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(key, again) {
				t.Error("DeriveKey() is not deterministic")
			}
		})
	}
}

func TestDeriveKey_DomainSeparation(t *testing.T) {
	secret := bytes.Repeat([]byte{0x11}, 32)

	k1, err := DeriveKey(secret, nil, []byte(SessionContext), 32)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := DeriveKey(secret, nil, []byte(SealContext), 32)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(k1, k2) {
		t.Error("different info strings produced the same key")
	}
}

func TestDeriveSessionKey(t *testing.T) {
	shared := bytes.Repeat([]byte{0x22}, SharedSecretSize)

	k, err := DeriveSessionKey(shared, "alice", "bob")
	if err != nil {
		t.Fatalf("DeriveSessionKey() error = %v", err)
	}
	if len(k) != SessionKeySize {
		t.Errorf("session key length = %d, want %d", len(k), SessionKeySize)
	}

	again, err := DeriveSessionKey(shared, "alice", "bob")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(k, again) {
		t.Error("DeriveSessionKey() is not deterministic")
	}

	swapped, err := DeriveSessionKey(shared, "bob", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(k, swapped) {
		t.Error("swapping participants produced the same key")
	}

	// "ab"+"c" and "a"+"bc" must not collide thanks to the separator.
	k1, err := DeriveSessionKey(shared, "ab", "c")
	if err != nil {
		t.Fatal(err)
	}
	k2, err := DeriveSessionKey(shared, "a", "bc")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(k1, k2) {
		t.Error("ambiguous participant concatenation produced the same key")
	}
}

func TestDeriveSessionKey_Invalid(t *testing.T) {
	shared := make([]byte, SharedSecretSize)

	if _, err := DeriveSessionKey(shared[:16], "a", "b"); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("short secret error = %v, want ErrInvalidKeySize", err)
	}
	if _, err := DeriveSessionKey(shared, "", "b"); err == nil {
		t.Error("expected error for empty initiator")
	}
	if _, err := DeriveSessionKey(shared, "a", ""); err == nil {
		t.Error("expected error for empty responder")
	}
}
