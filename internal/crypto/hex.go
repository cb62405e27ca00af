package crypto

import (
	"encoding/hex"
	"fmt"
)

// ToHex encodes bytes as lower-case hex.
func ToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// FromHex decodes hex in either case. Odd-length input and non-hex characters
// are reported as ErrInvalidHex with the offending position.
func FromHex(s string) ([]byte, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return data, nil
}

// FromHexSized decodes hex and checks the decoded length. A length mismatch is
// reported as sizeErr so callers can tell which argument was wrong.
func FromHexSized(s string, size int, sizeErr error) ([]byte, error) {
	data, err := FromHex(s)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", sizeErr, len(data), size)
	}
	return data, nil
}
