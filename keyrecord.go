package pqcbridge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afetnet/pqcbridge/internal/crypto"
)

// KeyRecordVersion is the current key record format version.
const KeyRecordVersion = 1

// KeyKind distinguishes signing keys from encryption (KEM) keys.
type KeyKind string

const (
	// KindSigning marks a signature keypair.
	KindSigning KeyKind = "signing"
	// KindEncryption marks a KEM keypair.
	KindEncryption KeyKind = "encryption"
)

// KeyRecord is the persisted form of a keypair.
// WARNING: a record with SecretKey set contains private key material - handle securely.
type KeyRecord struct {
	// Version is the record format version. MUST be 1.
	Version int `json:"version"`
	// ID is a random UUID identifying the key.
	ID string `json:"id"`
	// Kind is KindSigning or KindEncryption.
	Kind KeyKind `json:"kind"`
	// Algorithm is the canonical scheme name, e.g. "Dilithium5".
	Algorithm string `json:"algorithm"`
	// PublicKey is the hex public key.
	PublicKey string `json:"publicKey"`
	// SecretKey is the hex secret key. Omitted from public records.
	SecretKey string `json:"secretKey,omitempty"`
	// CreatedAt is the creation timestamp (ISO 8601).
	CreatedAt time.Time `json:"createdAt"`
	// ExpiresAt is the expiry timestamp. Nil means the key does not expire.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	// RotatedFrom is the ID of the record this key replaced.
	RotatedFrom string `json:"rotatedFrom,omitempty"`
}

func newKeyRecord(kind KeyKind, algorithm string, kp *Keypair, ttl time.Duration) *KeyRecord {
	now := time.Now().UTC()
	r := &KeyRecord{
		Version:   KeyRecordVersion,
		ID:        uuid.NewString(),
		Kind:      kind,
		Algorithm: algorithm,
		PublicKey: kp.PublicKeyHex(),
		SecretKey: kp.SecretKeyHex(),
		CreatedAt: now,
	}
	if ttl > 0 {
		exp := now.Add(ttl)
		r.ExpiresAt = &exp
	}
	return r
}

// NewKeyRecord wraps a signing keypair in a record. A ttl of zero or less
// means the key never expires.
func (s *Signer) NewKeyRecord(kp *Keypair, ttl time.Duration) *KeyRecord {
	return newKeyRecord(KindSigning, s.Algorithm(), kp, ttl)
}

// NewKeyRecord wraps a KEM keypair in a record.
func (k *KEM) NewKeyRecord(kp *Keypair, ttl time.Duration) *KeyRecord {
	return newKeyRecord(KindEncryption, k.Algorithm(), kp, ttl)
}

// Rotate generates a replacement for old that expires after ttl. The new
// record's RotatedFrom points at old.
func (s *Signer) Rotate(old *KeyRecord, ttl time.Duration) (*KeyRecord, error) {
	if old == nil {
		return nil, fmt.Errorf("%w: no record to rotate", ErrInvalidKeyRecord)
	}
	if old.Kind != KindSigning {
		return nil, fmt.Errorf("%w: cannot rotate %s key with a signer", ErrInvalidKeyRecord, old.Kind)
	}
	kp, err := s.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	r := s.NewKeyRecord(kp, ttl)
	r.RotatedFrom = old.ID
	return r, nil
}

// Rotate generates a replacement for old.
func (k *KEM) Rotate(old *KeyRecord, ttl time.Duration) (*KeyRecord, error) {
	if old == nil {
		return nil, fmt.Errorf("%w: no record to rotate", ErrInvalidKeyRecord)
	}
	if old.Kind != KindEncryption {
		return nil, fmt.Errorf("%w: cannot rotate %s key with a kem", ErrInvalidKeyRecord, old.Kind)
	}
	kp, err := k.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	r := k.NewKeyRecord(kp, ttl)
	r.RotatedFrom = old.ID
	return r, nil
}

// Validate checks the record's version, id, kind, algorithm and key sizes.
func (r *KeyRecord) Validate() error {
	if r.Version != KeyRecordVersion {
		return fmt.Errorf("%w: unsupported version %d, expected %d", ErrInvalidKeyRecord, r.Version, KeyRecordVersion)
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("%w: id is not a uuid", ErrInvalidKeyRecord)
	}

	var pubSize, secSize int
	switch r.Kind {
	case KindSigning:
		scheme, err := crypto.SignatureSchemeByName(r.Algorithm)
		if err != nil || r.Algorithm == "" {
			return fmt.Errorf("%w: unknown signing algorithm %q", ErrInvalidKeyRecord, r.Algorithm)
		}
		pubSize, secSize = scheme.PublicKeySize(), scheme.SecretKeySize()
	case KindEncryption:
		scheme, err := crypto.KEMSchemeByName(r.Algorithm)
		if err != nil || r.Algorithm == "" {
			return fmt.Errorf("%w: unknown kem algorithm %q", ErrInvalidKeyRecord, r.Algorithm)
		}
		pubSize, secSize = scheme.PublicKeySize(), scheme.SecretKeySize()
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidKeyRecord, r.Kind)
	}

	if _, err := crypto.FromHexSized(r.PublicKey, pubSize, ErrInvalidPublicKey); err != nil {
		return fmt.Errorf("%w: publicKey: %v", ErrInvalidKeyRecord, err)
	}
	if r.SecretKey != "" {
		if _, err := crypto.FromHexSized(r.SecretKey, secSize, ErrInvalidSecretKey); err != nil {
			return fmt.Errorf("%w: secretKey: %v", ErrInvalidKeyRecord, err)
		}
	}

	if r.CreatedAt.IsZero() {
		return fmt.Errorf("%w: createdAt is required", ErrInvalidKeyRecord)
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(r.CreatedAt) {
		return fmt.Errorf("%w: expiresAt must be after createdAt", ErrInvalidKeyRecord)
	}
	return nil
}

// Expired reports whether the record has expired at now.
func (r *KeyRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// HasSecret reports whether the record carries secret key material.
func (r *KeyRecord) HasSecret() bool {
	return r.SecretKey != ""
}

// Public returns a copy of the record without the secret key.
func (r *KeyRecord) Public() *KeyRecord {
	cp := *r
	cp.SecretKey = ""
	return &cp
}

// Keypair decodes the record's keys. The SecretKey field of the result is nil
// for public records.
func (r *KeyRecord) Keypair() (*Keypair, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	pub, _ := crypto.FromHex(r.PublicKey)
	kp := &Keypair{PublicKey: pub}
	if r.SecretKey != "" {
		kp.SecretKey, _ = crypto.FromHex(r.SecretKey)
	}
	return kp, nil
}

// MarshalIndent encodes the record as indented JSON.
func (r *KeyRecord) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ParseKeyRecord decodes and validates a JSON key record.
func ParseKeyRecord(data []byte) (*KeyRecord, error) {
	var r KeyRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyRecord, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
