package pqcbridge

import (
	"errors"
	"fmt"

	"github.com/afetnet/pqcbridge/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMalformedInput matches every error caused by caller-supplied input,
	// as opposed to a failure of the operation itself.
	ErrMalformedInput = errors.New("malformed input")

	// ErrMalformedHex is returned when an argument is not valid hex.
	ErrMalformedHex = errors.New("malformed hex")

	// ErrMalformedPair is returned when a "hex:hex" pair cannot be split.
	ErrMalformedPair = errors.New("malformed hex pair")

	// ErrInvalidPublicKey is returned when a public key has the wrong size or
	// is rejected by the scheme.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidSecretKey is returned when a secret key has the wrong size or
	// is rejected by the scheme.
	ErrInvalidSecretKey = errors.New("invalid secret key")

	// ErrInvalidSignature is returned when a signature has the wrong size.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidCiphertext is returned when a KEM ciphertext has the wrong size.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrInvalidSharedSecret is returned when a shared secret has the wrong size.
	ErrInvalidSharedSecret = errors.New("invalid shared secret")

	// ErrInvalidParticipant is returned when a session participant id is empty.
	ErrInvalidParticipant = errors.New("invalid participant id")

	// ErrUnsupportedAlgorithm is returned for an unknown scheme name.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrDecryptionFailed is returned when sealed data fails authentication.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrRandomness is returned when the system random source fails.
	ErrRandomness = errors.New("random source failure")

	// ErrInvalidKeyRecord is returned when a key record fails validation.
	ErrInvalidKeyRecord = errors.New("invalid key record")

	// ErrSessionExpired is returned when a session is used after its deadline.
	ErrSessionExpired = errors.New("session expired")

	// ErrSessionExhausted is returned when a session has reached its message limit.
	ErrSessionExhausted = errors.New("session message limit reached")
)

// Argument names reported by InputError.Field.
const (
	FieldPublicKey    = "public_key"
	FieldSecretKey    = "secret_key"
	FieldSignature    = "signature"
	FieldCiphertext   = "ciphertext"
	FieldSharedSecret = "shared_secret"
	FieldPair         = "pair"
	FieldSealed       = "sealed"
	FieldParticipant  = "participant"
)

// BridgeError is implemented by all errors created by this package.
type BridgeError interface {
	error
	BridgeError() // marker method
}

// InputError reports which argument of a call was malformed.
type InputError struct {
	// Field names the argument, e.g. FieldSecretKey.
	Field string
	// Err is one of the sentinel errors above.
	Err error
	// Detail is the underlying decode or size error, if any.
	Detail error
}

func (e *InputError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("%s: %v: %v", e.Field, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap returns the sentinel error.
func (e *InputError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
// Every InputError matches ErrMalformedInput.
func (e *InputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// BridgeError implements the BridgeError interface.
func (e *InputError) BridgeError() {}

// OperationError represents a failure of a well-formed call.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// BridgeError implements the BridgeError interface.
func (e *OperationError) BridgeError() {}

// sizeSentinel maps an argument name to the error reported for a bad length.
func sizeSentinel(field string) error {
	switch field {
	case FieldPublicKey:
		return ErrInvalidPublicKey
	case FieldSecretKey:
		return ErrInvalidSecretKey
	case FieldSignature:
		return ErrInvalidSignature
	case FieldCiphertext:
		return ErrInvalidCiphertext
	case FieldSharedSecret:
		return ErrInvalidSharedSecret
	}
	return ErrMalformedInput
}

// decodeField decodes one hex argument and checks its length. A size of zero
// or less skips the length check. Secret keys made of a single repeated byte,
// such as a zeroed buffer, are rejected: the schemes would accept them as keys.
func decodeField(field, s string, size int) ([]byte, error) {
	data, err := crypto.FromHex(s)
	if err != nil {
		return nil, &InputError{Field: field, Err: ErrMalformedHex, Detail: err}
	}
	if size > 0 && len(data) != size {
		return nil, &InputError{
			Field:  field,
			Err:    sizeSentinel(field),
			Detail: fmt.Errorf("got %d bytes, want %d", len(data), size),
		}
	}
	if field == FieldSecretKey && uniform(data) {
		return nil, &InputError{
			Field:  field,
			Err:    ErrInvalidSecretKey,
			Detail: fmt.Errorf("every byte is 0x%02x", data[0]),
		}
	}
	return data, nil
}

// uniform reports whether b is non-empty and every byte equals the first.
func uniform(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b[1:] {
		if c != b[0] {
			return false
		}
	}
	return true
}

// wrapError converts internal crypto errors to public errors.
// This ensures that errors.Is() checks work with public sentinel errors.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, crypto.ErrInvalidHex):
		return &InputError{Field: FieldPair, Err: ErrMalformedHex, Detail: err}
	case errors.Is(err, crypto.ErrInvalidPublicKeySize), errors.Is(err, crypto.ErrInvalidPublicKey):
		return &InputError{Field: FieldPublicKey, Err: ErrInvalidPublicKey, Detail: err}
	case errors.Is(err, crypto.ErrInvalidSecretKeySize), errors.Is(err, crypto.ErrInvalidSecretKey):
		return &InputError{Field: FieldSecretKey, Err: ErrInvalidSecretKey, Detail: err}
	case errors.Is(err, crypto.ErrInvalidSignatureSize):
		return &InputError{Field: FieldSignature, Err: ErrInvalidSignature, Detail: err}
	case errors.Is(err, crypto.ErrInvalidCiphertextSize):
		return &InputError{Field: FieldCiphertext, Err: ErrInvalidCiphertext, Detail: err}
	case errors.Is(err, crypto.ErrUnsupportedAlgorithm):
		return &OperationError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnsupportedAlgorithm, err)}
	case errors.Is(err, crypto.ErrDecryptionFailed):
		return &OperationError{Op: op, Err: ErrDecryptionFailed}
	case errors.Is(err, crypto.ErrRandomness):
		return &OperationError{Op: op, Err: fmt.Errorf("%w: %v", ErrRandomness, err)}
	}

	return &OperationError{Op: op, Err: err}
}
