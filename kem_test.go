package pqcbridge

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/afetnet/pqcbridge/internal/crypto"
)

func newTestKEM(t *testing.T, opts ...Option) *KEM {
	t.Helper()
	k, err := NewKEM(opts...)
	if err != nil {
		t.Fatalf("NewKEM() error = %v", err)
	}
	return k
}

func TestKEM_Defaults(t *testing.T) {
	k := newTestKEM(t)
	if k.Algorithm() != SchemeKyber1024 {
		t.Errorf("Algorithm() = %s", k.Algorithm())
	}
	if k.PublicKeySize() != crypto.Kyber1024PublicKeySize {
		t.Errorf("PublicKeySize() = %d", k.PublicKeySize())
	}
	if k.SecretKeySize() != crypto.Kyber1024SecretKeySize {
		t.Errorf("SecretKeySize() = %d", k.SecretKeySize())
	}
	if k.CiphertextSize() != crypto.Kyber1024CiphertextSize {
		t.Errorf("CiphertextSize() = %d", k.CiphertextSize())
	}
	if k.SharedSecretSize() != crypto.SharedSecretSize {
		t.Errorf("SharedSecretSize() = %d", k.SharedSecretSize())
	}
}

func TestKEM_RoundTrip(t *testing.T) {
	for _, name := range KEMSchemes() {
		t.Run(name, func(t *testing.T) {
			k := newTestKEM(t, WithKEMScheme(name))
			kp, err := k.GenerateKeypair()
			if err != nil {
				t.Fatalf("GenerateKeypair() error = %v", err)
			}

			enc, err := k.Encapsulate(kp.PublicKeyHex())
			if err != nil {
				t.Fatalf("Encapsulate() error = %v", err)
			}
			shared, ct, ok := strings.Cut(enc.String(), ":")
			if !ok {
				t.Fatal("encapsulation string has no separator")
			}
			if len(shared) != 2*k.SharedSecretSize() || len(ct) != 2*k.CiphertextSize() {
				t.Errorf("hex lengths = %d, %d", len(shared), len(ct))
			}

			got, err := k.Decapsulate(kp.SecretKeyHex(), ct)
			if err != nil {
				t.Fatalf("Decapsulate() error = %v", err)
			}
			if got != shared {
				t.Error("decapsulated secret does not match encapsulated secret")
			}
		})
	}
}

func TestKEM_EncapsulateIsRandomized(t *testing.T) {
	k := newTestKEM(t)
	kp, _ := k.GenerateKeypair()

	a, _ := k.Encapsulate(kp.PublicKeyHex())
	b, _ := k.Encapsulate(kp.PublicKeyHex())
	if bytes.Equal(a.Ciphertext, b.Ciphertext) || bytes.Equal(a.SharedSecret, b.SharedSecret) {
		t.Error("two encapsulations produced identical output")
	}
}

func TestKEM_ImplicitRejection(t *testing.T) {
	k := newTestKEM(t)
	alice, _ := k.GenerateKeypair()
	bob, _ := k.GenerateKeypair()

	enc, _ := k.Encapsulate(alice.PublicKeyHex())
	got, err := k.Decapsulate(bob.SecretKeyHex(), enc.CiphertextHex())
	if err != nil {
		t.Fatalf("Decapsulate(foreign ciphertext) error = %v, want nil", err)
	}
	if got == enc.SharedSecretHex() {
		t.Error("foreign ciphertext decapsulated to the sender's secret")
	}
}

func TestKEM_MalformedInput(t *testing.T) {
	k := newTestKEM(t)
	kp, _ := k.GenerateKeypair()
	enc, _ := k.Encapsulate(kp.PublicKeyHex())

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"encapsulate bad hex", func() error { _, err := k.Encapsulate("xyz"); return err }, ErrMalformedHex},
		{"encapsulate short key", func() error { _, err := k.Encapsulate("0011"); return err }, ErrInvalidPublicKey},
		{"encapsulate with secret key", func() error { _, err := k.Encapsulate(kp.SecretKeyHex()); return err }, ErrInvalidPublicKey},
		{"decapsulate bad secret hex", func() error { _, err := k.Decapsulate("q", enc.CiphertextHex()); return err }, ErrMalformedHex},
		{"decapsulate short secret", func() error { _, err := k.Decapsulate("00", enc.CiphertextHex()); return err }, ErrInvalidSecretKey},
		{"decapsulate zeroed secret", func() error {
			_, err := k.Decapsulate(strings.Repeat("00", k.SecretKeySize()), enc.CiphertextHex())
			return err
		}, ErrInvalidSecretKey},
		{"decapsulate saturated secret", func() error {
			_, err := k.Decapsulate(strings.Repeat("ff", k.SecretKeySize()), enc.CiphertextHex())
			return err
		}, ErrInvalidSecretKey},
		{"open zeroed secret", func() error {
			sealed, _ := k.Seal(kp.PublicKeyHex(), []byte("m"), nil)
			_, err := k.Open(strings.Repeat("00", k.SecretKeySize()), sealed, nil)
			return err
		}, ErrInvalidSecretKey},
		{"decapsulate bad ciphertext hex", func() error { _, err := k.Decapsulate(kp.SecretKeyHex(), "g0"); return err }, ErrMalformedHex},
		{"decapsulate short ciphertext", func() error {
			_, err := k.Decapsulate(kp.SecretKeyHex(), enc.CiphertextHex()[2:])
			return err
		}, ErrInvalidCiphertext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("error = %v does not match ErrMalformedInput", err)
			}
		})
	}
}

func TestKEM_SealOpen(t *testing.T) {
	k := newTestKEM(t)
	kp, _ := k.GenerateKeypair()
	plaintext := []byte("meet at the rally point")
	aad := []byte("channel-7")

	sealed, err := k.Seal(kp.PublicKeyHex(), plaintext, aad)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if strings.Count(sealed, ":") != 1 {
		t.Fatalf("sealed = %q, want a hex pair", sealed)
	}

	got, err := k.Open(kp.SecretKeyHex(), sealed, aad)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Open() = %q, want %q", got, plaintext)
	}
}

func TestKEM_OpenFailures(t *testing.T) {
	k := newTestKEM(t)
	kp, _ := k.GenerateKeypair()
	other, _ := k.GenerateKeypair()
	sealed, _ := k.Seal(kp.PublicKeyHex(), []byte("secret"), nil)

	if _, err := k.Open(other.SecretKeyHex(), sealed, nil); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Open(wrong key) error = %v, want ErrDecryptionFailed", err)
	}
	if _, err := k.Open(kp.SecretKeyHex(), sealed, []byte("aad")); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Open(wrong aad) error = %v, want ErrDecryptionFailed", err)
	}

	kemCT, body, _ := SplitPair(sealed)
	body[len(body)-1] ^= 0x80
	if _, err := k.Open(kp.SecretKeyHex(), JoinPair(kemCT, body), nil); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Open(tampered) error = %v, want ErrDecryptionFailed", err)
	}

	if _, err := k.Open(kp.SecretKeyHex(), "00", nil); !errors.Is(err, ErrMalformedPair) {
		t.Errorf("Open(no pair) error = %v, want ErrMalformedPair", err)
	}
	if _, err := k.Open(kp.SecretKeyHex(), "00:00", nil); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("Open(short kem ciphertext) error = %v, want ErrInvalidCiphertext", err)
	}
	if _, err := k.Open(kp.SecretKeyHex(), JoinPair(kemCT, []byte{1, 2, 3}), nil); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Open(short body) error = %v, want ErrDecryptionFailed", err)
	}
}
