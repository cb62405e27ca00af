package pqcbridge

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func withClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

func TestDeriveSessionKey(t *testing.T) {
	shared := strings.Repeat("ab", 32)

	k1, err := DeriveSessionKey(shared, "alice", "bob")
	if err != nil {
		t.Fatalf("DeriveSessionKey() error = %v", err)
	}
	if len(k1) != 64 {
		t.Errorf("key hex length = %d, want 64", len(k1))
	}

	k2, _ := DeriveSessionKey(shared, "alice", "bob")
	if k1 != k2 {
		t.Error("DeriveSessionKey is not deterministic")
	}

	swapped, _ := DeriveSessionKey(shared, "bob", "alice")
	if swapped == k1 {
		t.Error("swapping participants produced the same key")
	}

	// "ab"+"c" must not collide with "a"+"bc"
	x, _ := DeriveSessionKey(shared, "ab", "c")
	y, _ := DeriveSessionKey(shared, "a", "bc")
	if x == y {
		t.Error("participant ids are not unambiguously separated")
	}
}

func TestDeriveSessionKey_Errors(t *testing.T) {
	shared := strings.Repeat("00", 32)

	if _, err := DeriveSessionKey("zz", "a", "b"); !errors.Is(err, ErrMalformedHex) {
		t.Errorf("bad hex error = %v", err)
	}
	if _, err := DeriveSessionKey("0011", "a", "b"); !errors.Is(err, ErrInvalidSharedSecret) {
		t.Errorf("short secret error = %v", err)
	}
	if _, err := DeriveSessionKey(shared, "", "b"); !errors.Is(err, ErrInvalidParticipant) {
		t.Errorf("empty initiator error = %v", err)
	}
	if _, err := DeriveSessionKey(shared, "a", ""); !errors.Is(err, ErrInvalidParticipant) {
		t.Errorf("empty responder error = %v", err)
	}
}

func TestSession_EstablishAccept(t *testing.T) {
	k := newTestKEM(t)
	bob, _ := k.GenerateKeypair()

	a, ct, err := k.Establish(bob.PublicKeyHex(), "alice", "bob")
	if err != nil {
		t.Fatalf("Establish() error = %v", err)
	}
	b, err := k.Accept(bob.SecretKeyHex(), ct, "alice", "bob")
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	if a.ID != b.ID {
		t.Errorf("session ids differ: %s vs %s", a.ID, b.ID)
	}
	if a.KeyHex() != b.KeyHex() {
		t.Fatal("session keys differ")
	}

	sealed, err := a.Encrypt([]byte("hello bob"), nil)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	got, err := b.Decrypt(sealed, nil)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(got, []byte("hello bob")) {
		t.Errorf("Decrypt() = %q", got)
	}
	if a.Sent() != 1 {
		t.Errorf("Sent() = %d, want 1", a.Sent())
	}
}

func TestSession_AcceptWrongParticipants(t *testing.T) {
	k := newTestKEM(t)
	bob, _ := k.GenerateKeypair()

	a, ct, _ := k.Establish(bob.PublicKeyHex(), "alice", "bob")
	b, err := k.Accept(bob.SecretKeyHex(), ct, "mallory", "bob")
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if a.KeyHex() == b.KeyHex() {
		t.Error("sessions with different participants share a key")
	}
}

func TestSession_MessageLimit(t *testing.T) {
	k := newTestKEM(t)
	bob, _ := k.GenerateKeypair()

	s, _, err := k.Establish(bob.PublicKeyHex(), "alice", "bob", WithSessionMaxMessages(2))
	if err != nil {
		t.Fatalf("Establish() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := s.Encrypt([]byte("m"), nil); err != nil {
			t.Fatalf("Encrypt() #%d error = %v", i, err)
		}
	}
	if _, err := s.Encrypt([]byte("m"), nil); !errors.Is(err, ErrSessionExhausted) {
		t.Errorf("Encrypt() past limit error = %v, want ErrSessionExhausted", err)
	}
}

func TestSession_Expiry(t *testing.T) {
	k := newTestKEM(t)
	bob, _ := k.GenerateKeypair()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	s, _, err := k.Establish(bob.PublicKeyHex(), "alice", "bob", WithSessionTTL(time.Minute), withClock(clock))
	if err != nil {
		t.Fatalf("Establish() error = %v", err)
	}
	if !s.ExpiresAt.Equal(now.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v", s.ExpiresAt)
	}
	if s.Expired() {
		t.Error("fresh session reports expired")
	}

	now = now.Add(time.Minute)
	if !s.Expired() {
		t.Error("session not expired at deadline")
	}
	if _, err := s.Encrypt([]byte("m"), nil); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Encrypt() error = %v, want ErrSessionExpired", err)
	}
}

func TestSession_Close(t *testing.T) {
	k := newTestKEM(t)
	bob, _ := k.GenerateKeypair()

	s, _, _ := k.Establish(bob.PublicKeyHex(), "alice", "bob")
	sealed, _ := s.Encrypt([]byte("m"), nil)
	s.Close()

	if _, err := s.Decrypt(sealed, nil); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Decrypt() after Close error = %v, want ErrSessionExpired", err)
	}
	if s.KeyHex() != "" {
		t.Error("KeyHex() after Close is not empty")
	}
}

func TestSession_DecryptErrors(t *testing.T) {
	k := newTestKEM(t)
	bob, _ := k.GenerateKeypair()
	s, _, _ := k.Establish(bob.PublicKeyHex(), "alice", "bob")

	if _, err := s.Decrypt("nothex", nil); !errors.Is(err, ErrMalformedHex) {
		t.Errorf("Decrypt(bad hex) error = %v", err)
	}
	sealed, _ := s.Encrypt([]byte("m"), []byte("a"))
	if _, err := s.Decrypt(sealed, []byte("b")); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Decrypt(wrong aad) error = %v", err)
	}
}

func TestSession_EstablishValidatesParticipants(t *testing.T) {
	k := newTestKEM(t)
	bob, _ := k.GenerateKeypair()

	if _, _, err := k.Establish(bob.PublicKeyHex(), "", "bob"); !errors.Is(err, ErrInvalidParticipant) {
		t.Errorf("Establish() error = %v", err)
	}
	if _, err := k.Accept(bob.SecretKeyHex(), "00", "alice", ""); !errors.Is(err, ErrInvalidParticipant) {
		t.Errorf("Accept() error = %v", err)
	}
}
