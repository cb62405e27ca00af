// Package pqcbridge exposes category-5 post-quantum signatures (Dilithium5,
// ML-DSA-87) and key encapsulation (Kyber1024, ML-KEM-1024) behind a small
// string API built on lower-case hex and "hex:hex" pairs, the same convention
// used by the C-compatible shared library in cmd/libpqcbridge.
//
// Unlike a thin marshalling shim, every call validates its input: malformed
// hex, wrong-length keys, signatures and ciphertexts are reported as errors
// that match the sentinels in this package via errors.Is, and a signature
// mismatch is reported as (false, nil) so it can never be confused with bad
// input.
//
// Signatures:
//
//	signer, err := pqcbridge.NewSigner()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	kp, err := signer.GenerateKeypair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sig, err := signer.Sign(kp.SecretKeyHex(), "hello")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok, err := signer.Verify(kp.PublicKeyHex(), "hello", sig)
//	switch {
//	case errors.Is(err, pqcbridge.ErrMalformedInput):
//	    // caller passed garbage
//	case !ok:
//	    // well-formed, but the signature does not match
//	}
//
// Key encapsulation:
//
//	kem, err := pqcbridge.NewKEM()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	kp, _ := kem.GenerateKeypair()
//	enc, _ := kem.Encapsulate(kp.PublicKeyHex())
//	shared, _ := kem.Decapsulate(kp.SecretKeyHex(), enc.CiphertextHex())
//	// shared == enc.SharedSecretHex()
//
// Signer and KEM values are immutable after construction and safe for
// concurrent use.
package pqcbridge
