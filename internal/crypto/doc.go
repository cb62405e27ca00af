// Package crypto provides the byte-level post-quantum primitives behind the
// pqcbridge API. It adapts circl's lattice schemes to a small, size-checked
// surface and never substitutes default keys for malformed input.
//
// # Algorithm Suite
//
// Signature schemes (NIST security category 5):
//
//   - Dilithium5 (CRYSTALS-Dilithium round 3, the default): 2592-byte public
//     keys, 4864-byte secret keys, 4595-byte signatures.
//
//   - ML-DSA-87 (NIST FIPS 204): the standardized successor of Dilithium5.
//
// Key encapsulation mechanisms (NIST security category 5):
//
//   - Kyber1024 (CRYSTALS-Kyber round 3, the default): 1568-byte public keys,
//     3168-byte secret keys, 1568-byte ciphertexts, 32-byte shared secrets.
//
//   - ML-KEM-1024 (NIST FIPS 203): the standardized successor of Kyber1024.
//
// Auxiliary primitives used for sealing and session keys:
//
//   - HKDF-SHA-512 (RFC 5869) to derive AES keys and session keys from KEM
//     shared secrets with domain separation.
//
//   - AES-256-GCM for authenticated encryption under a derived key.
//
// # Input Validation
//
// Every function that accepts key, signature or ciphertext bytes checks the
// length against the selected scheme before handing the bytes to circl.
// Violations are reported with the size sentinels in errors.go, so callers
// can tell malformed input apart from a failed verification:
//
//	ok, err := scheme.Verify(pk, msg, sig)
//	switch {
//	case err != nil:
//	    // malformed public key or signature
//	case !ok:
//	    // well-formed input, signature does not match
//	}
//
// # Randomness
//
// Key generation and encapsulation draw seeds from crypto/rand. Tests inside
// this module can substitute a deterministic reader with
// [SetRandReaderForTesting].
//
// # Hex Encoding
//
// [ToHex] always produces lower-case hex. [FromHex] accepts either case and
// reports odd-length or non-hex input as [ErrInvalidHex].
package crypto
