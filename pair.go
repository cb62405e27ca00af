package pqcbridge

import (
	"fmt"
	"strings"

	"github.com/afetnet/pqcbridge/internal/crypto"
)

// PairSeparator joins the two halves of every composite string.
const PairSeparator = ":"

// JoinPair encodes a and b as "hex(a):hex(b)".
func JoinPair(a, b []byte) string {
	return crypto.ToHex(a) + PairSeparator + crypto.ToHex(b)
}

// SplitPair decodes a "hex:hex" string. Exactly one separator is required and
// neither half may be empty.
func SplitPair(s string) (first, second []byte, err error) {
	if strings.Count(s, PairSeparator) != 1 {
		return nil, nil, &InputError{
			Field:  FieldPair,
			Err:    ErrMalformedPair,
			Detail: fmt.Errorf("want exactly one %q separator", PairSeparator),
		}
	}
	a, b, _ := strings.Cut(s, PairSeparator)
	if a == "" || b == "" {
		return nil, nil, &InputError{Field: FieldPair, Err: ErrMalformedPair, Detail: fmt.Errorf("empty half")}
	}
	if first, err = crypto.FromHex(a); err != nil {
		return nil, nil, &InputError{Field: FieldPair, Err: ErrMalformedHex, Detail: err}
	}
	if second, err = crypto.FromHex(b); err != nil {
		return nil, nil, &InputError{Field: FieldPair, Err: ErrMalformedHex, Detail: err}
	}
	return first, second, nil
}

// Keypair is a packed public/secret key pair of either scheme family.
// Its String form is "public_hex:secret_hex" and therefore contains secret
// key material.
type Keypair struct {
	PublicKey []byte
	SecretKey []byte
}

// PublicKeyHex returns the hex-encoded public key.
func (k *Keypair) PublicKeyHex() string { return crypto.ToHex(k.PublicKey) }

// SecretKeyHex returns the hex-encoded secret key.
func (k *Keypair) SecretKeyHex() string { return crypto.ToHex(k.SecretKey) }

// String returns "public_hex:secret_hex".
func (k *Keypair) String() string { return JoinPair(k.PublicKey, k.SecretKey) }

// Wipe zeroes the secret key.
func (k *Keypair) Wipe() {
	if k == nil {
		return
	}
	crypto.Wipe(k.SecretKey)
}

// ParseKeypair parses "public_hex:secret_hex". Sizes are not checked; the
// scheme that consumes the keys does that.
func ParseKeypair(s string) (*Keypair, error) {
	pub, sec, err := SplitPair(s)
	if err != nil {
		return nil, err
	}
	return &Keypair{PublicKey: pub, SecretKey: sec}, nil
}

// Encapsulation is the result of a KEM encapsulation.
// Its String form is "shared_secret_hex:ciphertext_hex".
type Encapsulation struct {
	SharedSecret []byte
	Ciphertext   []byte
}

// SharedSecretHex returns the hex-encoded shared secret.
func (e *Encapsulation) SharedSecretHex() string { return crypto.ToHex(e.SharedSecret) }

// CiphertextHex returns the hex-encoded ciphertext.
func (e *Encapsulation) CiphertextHex() string { return crypto.ToHex(e.Ciphertext) }

// String returns "shared_secret_hex:ciphertext_hex".
func (e *Encapsulation) String() string { return JoinPair(e.SharedSecret, e.Ciphertext) }

// ParseEncapsulation parses "shared_secret_hex:ciphertext_hex".
func ParseEncapsulation(s string) (*Encapsulation, error) {
	shared, ct, err := SplitPair(s)
	if err != nil {
		return nil, err
	}
	return &Encapsulation{SharedSecret: shared, Ciphertext: ct}, nil
}

func fromCryptoKeypair(kp *crypto.Keypair) *Keypair {
	return &Keypair{PublicKey: kp.PublicKey, SecretKey: kp.SecretKey}
}
