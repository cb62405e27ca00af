// Package boundary implements the C-compatible surface of pqcbridge in pure
// Go: status codes, the registry of library-owned strings and the Bridge that
// backs every exported function. cmd/libpqcbridge supplies the cgo allocator
// and the //export wrappers.
package boundary

import (
	"errors"

	"github.com/afetnet/pqcbridge"
)

// Status is the integer result of every exported function.
type Status int

const (
	StatusOK                   Status = 0
	StatusMalformedHex         Status = -1
	StatusInvalidPublicKey     Status = -2
	StatusInvalidSecretKey     Status = -3
	StatusInvalidSignature     Status = -4
	StatusInvalidCiphertext    Status = -5
	StatusMalformedPair        Status = -6
	StatusNullArgument         Status = -7
	StatusUnknownHandle        Status = -8
	StatusUnsupportedAlgorithm Status = -9
	StatusInternal             Status = -10
	StatusInputTooLarge        Status = -11
)

var statusText = map[Status]string{
	StatusOK:                   "ok",
	StatusMalformedHex:         "malformed hex",
	StatusInvalidPublicKey:     "invalid public key",
	StatusInvalidSecretKey:     "invalid secret key",
	StatusInvalidSignature:     "invalid signature",
	StatusInvalidCiphertext:    "invalid ciphertext",
	StatusMalformedPair:        "malformed hex pair",
	StatusNullArgument:         "null argument",
	StatusUnknownHandle:        "unknown or already released string",
	StatusUnsupportedAlgorithm: "unsupported algorithm",
	StatusInternal:             "internal error",
	StatusInputTooLarge:        "input too large",
}

// Statuses lists every defined status code, OK first.
func Statuses() []Status {
	return []Status{
		StatusOK, StatusMalformedHex, StatusInvalidPublicKey, StatusInvalidSecretKey,
		StatusInvalidSignature, StatusInvalidCiphertext, StatusMalformedPair,
		StatusNullArgument, StatusUnknownHandle, StatusUnsupportedAlgorithm, StatusInternal,
		StatusInputTooLarge,
	}
}

func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return "unknown status"
}

// StatusOf maps an error from the pqcbridge package to a status code.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, pqcbridge.ErrMalformedHex):
		return StatusMalformedHex
	case errors.Is(err, pqcbridge.ErrMalformedPair):
		return StatusMalformedPair
	case errors.Is(err, pqcbridge.ErrInvalidPublicKey):
		return StatusInvalidPublicKey
	case errors.Is(err, pqcbridge.ErrInvalidSecretKey):
		return StatusInvalidSecretKey
	case errors.Is(err, pqcbridge.ErrInvalidSignature):
		return StatusInvalidSignature
	case errors.Is(err, pqcbridge.ErrInvalidCiphertext):
		return StatusInvalidCiphertext
	case errors.Is(err, pqcbridge.ErrUnsupportedAlgorithm):
		return StatusUnsupportedAlgorithm
	case errors.Is(err, ErrInputTooLarge):
		return StatusInputTooLarge
	case errors.Is(err, ErrNullArgument):
		return StatusNullArgument
	case errors.Is(err, ErrUnknownHandle), errors.Is(err, ErrAlreadyReleased):
		return StatusUnknownHandle
	}
	return StatusInternal
}
