package boundary

import (
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/afetnet/pqcbridge"
	"github.com/afetnet/pqcbridge/internal/logger"
	"github.com/afetnet/pqcbridge/internal/metrics"
)

// Operation names used for metrics and log fields.
const (
	OpSignKeypair = "sign_keypair"
	OpSign        = "sign"
	OpVerify      = "verify"
	OpKEMKeypair  = "kem_keypair"
	OpEncapsulate = "kem_encapsulate"
	OpDecapsulate = "kem_decapsulate"
	OpFree        = "free_string"
)

// Verify results other than a negative Status.
const (
	VerifyValid    = 1
	VerifyMismatch = 0
)

// Bridge backs every exported C function. Arguments arrive as pointers so
// that a NULL C argument is distinguishable from an empty string.
type Bridge struct {
	signer  *pqcbridge.Signer
	kem     *pqcbridge.KEM
	reg     *Registry
	metrics *metrics.Recorder
	log     *zerolog.Logger
}

// New creates a Bridge whose strings are allocated by alloc.
func New(cfg Config, alloc Allocator) (*Bridge, error) {
	log := logger.Create(&logger.Config{
		MinLevel: cfg.LogLevel,
		JSON:     cfg.LogJSON,
		Output:   cfg.Output,
	})

	signer, err := pqcbridge.NewSigner(
		pqcbridge.WithSignatureScheme(cfg.SignatureScheme),
		pqcbridge.WithLogger(*log),
	)
	if err != nil {
		log.Error().Err(err).Str("scheme", cfg.SignatureScheme).Msg("cannot configure signature scheme")
		return nil, err
	}
	kem, err := pqcbridge.NewKEM(
		pqcbridge.WithKEMScheme(cfg.KEMScheme),
		pqcbridge.WithLogger(*log),
	)
	if err != nil {
		log.Error().Err(err).Str("scheme", cfg.KEMScheme).Msg("cannot configure kem scheme")
		return nil, err
	}

	log.Debug().
		Str("signature", signer.Algorithm()).
		Str("kem", kem.Algorithm()).
		Str("version", pqcbridge.Version).
		Msg("bridge ready")

	return &Bridge{
		signer:  signer,
		kem:     kem,
		reg:     NewRegistry(alloc),
		metrics: metrics.NewRecorder(),
		log:     log,
	}, nil
}

// Registry returns the string registry.
func (b *Bridge) Registry() *Registry { return b.reg }

// Metrics returns the per-operation recorder.
func (b *Bridge) Metrics() *metrics.Recorder { return b.metrics }

// Signer returns the configured signer.
func (b *Bridge) Signer() *pqcbridge.Signer { return b.signer }

// KEM returns the configured KEM.
func (b *Bridge) KEM() *pqcbridge.KEM { return b.kem }

// produce runs fn and exports its result. On failure the returned pointer is
// nil and nothing is allocated.
func (b *Bridge) produce(op string, fn func() (string, error)) (unsafe.Pointer, Status) {
	done := b.metrics.Track(op)
	out, err := fn()
	done(err)

	if err != nil {
		st := StatusOf(err)
		b.log.Debug().Str("op", op).Int("status", int(st)).Err(err).Msg("operation failed")
		return nil, st
	}
	return b.reg.Export(out).Ptr(), StatusOK
}

func nullArgs(args ...*string) bool {
	for _, a := range args {
		if a == nil {
			return true
		}
	}
	return false
}

// SignKeypair returns "public_hex:secret_hex".
func (b *Bridge) SignKeypair() (unsafe.Pointer, Status) {
	return b.produce(OpSignKeypair, func() (string, error) {
		kp, err := b.signer.GenerateKeypair()
		if err != nil {
			return "", err
		}
		defer kp.Wipe()
		return kp.String(), nil
	})
}

// Sign signs a NUL-terminated text message.
func (b *Bridge) Sign(secretHex, message *string) (unsafe.Pointer, Status) {
	return b.produce(OpSign, func() (string, error) {
		if nullArgs(secretHex, message) {
			return "", ErrNullArgument
		}
		return b.signer.Sign(*secretHex, *message)
	})
}

// SignBytes signs a binary message. A nil message means the caller passed a
// NULL pointer with a non-zero length.
func (b *Bridge) SignBytes(secretHex *string, message *[]byte) (unsafe.Pointer, Status) {
	return b.produce(OpSign, func() (string, error) {
		if secretHex == nil || message == nil {
			return "", ErrNullArgument
		}
		return b.signer.SignBytes(*secretHex, *message)
	})
}

func (b *Bridge) verify(fn func() (bool, error)) int {
	done := b.metrics.Track(OpVerify)
	ok, err := fn()
	done(err)

	if err != nil {
		st := StatusOf(err)
		b.log.Debug().Str("op", OpVerify).Int("status", int(st)).Err(err).Msg("operation failed")
		return int(st)
	}
	if !ok {
		return VerifyMismatch
	}
	return VerifyValid
}

// Verify returns VerifyValid, VerifyMismatch or a negative Status.
func (b *Bridge) Verify(publicHex, message, signatureHex *string) int {
	return b.verify(func() (bool, error) {
		if nullArgs(publicHex, message, signatureHex) {
			return false, ErrNullArgument
		}
		return b.signer.Verify(*publicHex, *message, *signatureHex)
	})
}

// VerifyBytes is Verify for a binary message.
func (b *Bridge) VerifyBytes(publicHex *string, message *[]byte, signatureHex *string) int {
	return b.verify(func() (bool, error) {
		if nullArgs(publicHex, signatureHex) || message == nil {
			return false, ErrNullArgument
		}
		return b.signer.VerifyBytes(*publicHex, *message, *signatureHex)
	})
}

// KEMKeypair returns "public_hex:secret_hex".
func (b *Bridge) KEMKeypair() (unsafe.Pointer, Status) {
	return b.produce(OpKEMKeypair, func() (string, error) {
		kp, err := b.kem.GenerateKeypair()
		if err != nil {
			return "", err
		}
		defer kp.Wipe()
		return kp.String(), nil
	})
}

// Encapsulate returns "shared_secret_hex:ciphertext_hex".
func (b *Bridge) Encapsulate(publicHex *string) (unsafe.Pointer, Status) {
	return b.produce(OpEncapsulate, func() (string, error) {
		if publicHex == nil {
			return "", ErrNullArgument
		}
		enc, err := b.kem.Encapsulate(*publicHex)
		if err != nil {
			return "", err
		}
		return enc.String(), nil
	})
}

// Decapsulate returns the shared secret hex.
func (b *Bridge) Decapsulate(secretHex, ciphertextHex *string) (unsafe.Pointer, Status) {
	return b.produce(OpDecapsulate, func() (string, error) {
		if nullArgs(secretHex, ciphertextHex) {
			return "", ErrNullArgument
		}
		return b.kem.Decapsulate(*secretHex, *ciphertextHex)
	})
}

// Free releases a string returned by any other function. Freeing NULL is a
// no-op, as with free(3). Unknown or already released pointers are reported
// and left alone.
func (b *Bridge) Free(p unsafe.Pointer) Status {
	if p == nil {
		return StatusOK
	}
	err := b.reg.Release(p)
	if err != nil {
		b.log.Warn().Str("op", OpFree).Err(err).Msg("rejected release of unknown string")
	}
	b.metrics.Observe(OpFree, 0, err)
	return StatusOf(err)
}

// LiveStrings returns the number of unreleased strings.
func (b *Bridge) LiveStrings() int {
	return b.reg.Live()
}
