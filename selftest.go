package pqcbridge

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

// CheckResult is the outcome of one self-test check.
type CheckResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (c CheckResult) Passed() bool { return c.Err == nil }

var errSelfTest = errors.New("self-test failed")

// SelfTest exercises every operation of signer and kem end to end, including
// the rejection paths. It returns one result per check and a non-nil error if
// any check failed.
func SelfTest(signer *Signer, kem *KEM) ([]CheckResult, error) {
	const msg = "pqcbridge self-test"

	if signer == nil || kem == nil {
		return nil, fmt.Errorf("%w: signer and kem are required", errSelfTest)
	}

	var results []CheckResult
	failed := 0
	run := func(name string, fn func() error) {
		start := time.Now()
		err := fn()
		results = append(results, CheckResult{Name: name, Err: err, Duration: time.Since(start)})
		if err != nil {
			failed++
		}
	}

	var sigKP *Keypair
	var sig string
	run("sign/keypair", func() (err error) {
		sigKP, err = signer.GenerateKeypair()
		if err != nil {
			return err
		}
		if len(sigKP.PublicKey) != signer.PublicKeySize() || len(sigKP.SecretKey) != signer.SecretKeySize() {
			return fmt.Errorf("unexpected key sizes %d/%d", len(sigKP.PublicKey), len(sigKP.SecretKey))
		}
		return nil
	})
	if sigKP != nil {
		run("sign/roundtrip", func() (err error) {
			sig, err = signer.Sign(sigKP.SecretKeyHex(), msg)
			if err != nil {
				return err
			}
			ok, err := signer.Verify(sigKP.PublicKeyHex(), msg, sig)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("valid signature rejected")
			}
			return nil
		})
		run("sign/tampered-message", func() error {
			ok, err := signer.Verify(sigKP.PublicKeyHex(), msg+"!", sig)
			if err != nil {
				return err
			}
			if ok {
				return errors.New("signature accepted for a different message")
			}
			return nil
		})
		run("sign/malformed-input", func() error {
			_, err := signer.Verify(sigKP.PublicKeyHex(), msg, "zz")
			if !errors.Is(err, ErrMalformedInput) {
				return fmt.Errorf("malformed signature not rejected: %v", err)
			}
			return nil
		})
	}

	var kemKP *Keypair
	run("kem/keypair", func() (err error) {
		kemKP, err = kem.GenerateKeypair()
		return err
	})
	if kemKP != nil {
		run("kem/roundtrip", func() error {
			enc, err := kem.Encapsulate(kemKP.PublicKeyHex())
			if err != nil {
				return err
			}
			shared, err := kem.Decapsulate(kemKP.SecretKeyHex(), enc.CiphertextHex())
			if err != nil {
				return err
			}
			if shared != enc.SharedSecretHex() {
				return errors.New("shared secrets differ")
			}
			return nil
		})
		run("kem/malformed-ciphertext", func() error {
			_, err := kem.Decapsulate(kemKP.SecretKeyHex(), "00")
			if !errors.Is(err, ErrInvalidCiphertext) {
				return fmt.Errorf("short ciphertext not rejected: %v", err)
			}
			return nil
		})
		run("kem/seal-open", func() error {
			sealed, err := kem.Seal(kemKP.PublicKeyHex(), []byte(msg), nil)
			if err != nil {
				return err
			}
			pt, err := kem.Open(kemKP.SecretKeyHex(), sealed, nil)
			if err != nil {
				return err
			}
			if !bytes.Equal(pt, []byte(msg)) {
				return errors.New("opened plaintext differs")
			}
			return nil
		})
		run("kem/session", func() error {
			a, ct, err := kem.Establish(kemKP.PublicKeyHex(), "initiator", "responder")
			if err != nil {
				return err
			}
			defer a.Close()
			b, err := kem.Accept(kemKP.SecretKeyHex(), ct, "initiator", "responder")
			if err != nil {
				return err
			}
			defer b.Close()
			if a.KeyHex() != b.KeyHex() {
				return errors.New("session keys differ")
			}
			return nil
		})
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d checks", errSelfTest, failed, len(results))
	}
	return results, nil
}
