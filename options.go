package pqcbridge

import (
	"github.com/rs/zerolog"

	"github.com/afetnet/pqcbridge/internal/crypto"
)

// Version is the library version reported by the CLI and pqc_version().
const Version = "0.4.0"

// Scheme names accepted by WithSignatureScheme and WithKEMScheme.
const (
	SchemeDilithium5 = crypto.Dilithium5
	SchemeMLDSA87    = crypto.MLDSA87
	SchemeKyber1024  = crypto.Kyber1024
	SchemeMLKEM1024  = crypto.MLKEM1024
)

// bridgeConfig holds configuration shared by Signer and KEM.
type bridgeConfig struct {
	signatureScheme string
	kemScheme       string
	logger          zerolog.Logger
}

// Option configures a Signer or KEM.
type Option func(*bridgeConfig)

func defaultConfig() *bridgeConfig {
	return &bridgeConfig{
		signatureScheme: crypto.DefaultSignatureScheme,
		kemScheme:       crypto.DefaultKEMScheme,
		logger:          zerolog.Nop(),
	}
}

func applyOptions(opts []Option) *bridgeConfig {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSignatureScheme selects the signature scheme by name. Names are matched
// case-insensitively; an empty name keeps the default (Dilithium5).
func WithSignatureScheme(name string) Option {
	return func(c *bridgeConfig) {
		if name != "" {
			c.signatureScheme = name
		}
	}
}

// WithKEMScheme selects the KEM by name. Names are matched case-insensitively;
// an empty name keeps the default (Kyber1024).
func WithKEMScheme(name string) Option {
	return func(c *bridgeConfig) {
		if name != "" {
			c.kemScheme = name
		}
	}
}

// WithLogger sets the logger used for debug tracing of operations.
// Key material is never logged.
func WithLogger(l zerolog.Logger) Option {
	return func(c *bridgeConfig) {
		c.logger = l
	}
}

// SignatureSchemes lists the supported signature scheme names.
func SignatureSchemes() []string {
	return crypto.SignatureSchemes()
}

// KEMSchemes lists the supported KEM names.
func KEMSchemes() []string {
	return crypto.KEMSchemes()
}
