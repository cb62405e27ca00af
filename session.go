package pqcbridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/afetnet/pqcbridge/internal/crypto"
)

const (
	// DefaultSessionTTL is how long a session key may be used.
	DefaultSessionTTL = time.Hour
	// DefaultSessionMaxMessages is how many messages a session may encrypt.
	DefaultSessionMaxMessages = 1000
)

// sessionNamespace scopes session ids, which are name-based UUIDs of the KEM
// ciphertext so that both participants compute the same id.
var sessionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("pqcbridge:session"))

// DeriveSessionKey derives a 32-byte session key from a hex KEM shared secret
// and the two participant ids. Swapping the ids yields a different key.
func DeriveSessionKey(sharedSecretHex, initiatorID, responderID string) (string, error) {
	shared, err := decodeField(FieldSharedSecret, sharedSecretHex, crypto.SharedSecretSize)
	if err != nil {
		return "", err
	}
	if err := checkParticipants(initiatorID, responderID); err != nil {
		return "", err
	}
	key, err := crypto.DeriveSessionKey(shared, initiatorID, responderID)
	if err != nil {
		return "", wrapError("derive session key", err)
	}
	return crypto.ToHex(key), nil
}

func checkParticipants(initiatorID, responderID string) error {
	if initiatorID == "" {
		return &InputError{Field: FieldParticipant, Err: ErrInvalidParticipant, Detail: fmt.Errorf("empty initiator id")}
	}
	if responderID == "" {
		return &InputError{Field: FieldParticipant, Err: ErrInvalidParticipant, Detail: fmt.Errorf("empty responder id")}
	}
	return nil
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionTTL sets how long the session key stays usable.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *Session) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSessionMaxMessages sets how many messages the session may encrypt.
func WithSessionMaxMessages(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.MaxMessages = n
		}
	}
}

// Session is a forward-secret channel between two participants, keyed by a
// single KEM exchange. It is safe for concurrent use.
type Session struct {
	ID          string
	InitiatorID string
	ResponderID string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	MaxMessages int

	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	key  []byte
	sent int
}

func newSession(key, kemCiphertext []byte, initiatorID, responderID string, opts []SessionOption) *Session {
	s := &Session{
		ID:          uuid.NewSHA1(sessionNamespace, kemCiphertext).String(),
		InitiatorID: initiatorID,
		ResponderID: responderID,
		MaxMessages: DefaultSessionMaxMessages,
		ttl:         DefaultSessionTTL,
		now:         time.Now,
		key:         key,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.CreatedAt = s.now().UTC()
	s.ExpiresAt = s.CreatedAt.Add(s.ttl)
	return s
}

// Establish starts a session with the holder of responderPublicKeyHex. The
// returned ciphertext must be delivered to the responder, who passes it to
// Accept.
func (k *KEM) Establish(responderPublicKeyHex, initiatorID, responderID string, opts ...SessionOption) (*Session, string, error) {
	if err := checkParticipants(initiatorID, responderID); err != nil {
		return nil, "", err
	}
	enc, err := k.Encapsulate(responderPublicKeyHex)
	if err != nil {
		return nil, "", err
	}
	defer crypto.Wipe(enc.SharedSecret)

	key, err := crypto.DeriveSessionKey(enc.SharedSecret, initiatorID, responderID)
	if err != nil {
		return nil, "", wrapError("establish session", err)
	}
	s := newSession(key, enc.Ciphertext, initiatorID, responderID, opts)
	k.log.Debug().Str("session", s.ID).Msg("established session")
	return s, enc.CiphertextHex(), nil
}

// Accept completes a session started by Establish.
func (k *KEM) Accept(secretKeyHex, ciphertextHex, initiatorID, responderID string, opts ...SessionOption) (*Session, error) {
	if err := checkParticipants(initiatorID, responderID); err != nil {
		return nil, err
	}
	sharedHex, err := k.Decapsulate(secretKeyHex, ciphertextHex)
	if err != nil {
		return nil, err
	}
	shared, _ := crypto.FromHex(sharedHex)
	defer crypto.Wipe(shared)

	key, err := crypto.DeriveSessionKey(shared, initiatorID, responderID)
	if err != nil {
		return nil, wrapError("accept session", err)
	}
	ct, _ := crypto.FromHex(ciphertextHex)
	s := newSession(key, ct, initiatorID, responderID, opts)
	k.log.Debug().Str("session", s.ID).Msg("accepted session")
	return s, nil
}

// KeyHex returns the hex session key.
func (s *Session) KeyHex() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return crypto.ToHex(s.key)
}

// Expired reports whether the session is past its deadline.
func (s *Session) Expired() bool {
	return !s.now().Before(s.ExpiresAt)
}

// Sent returns the number of messages encrypted so far.
func (s *Session) Sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// Encrypt seals plaintext under the session key and returns
// hex(nonce || ciphertext || tag). Each call counts against MaxMessages.
func (s *Session) Encrypt(plaintext, aad []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return "", err
	}
	if s.sent >= s.MaxMessages {
		return "", &OperationError{Op: "session encrypt", Err: ErrSessionExhausted}
	}

	nonce, err := crypto.NewNonce()
	if err != nil {
		return "", wrapError("session encrypt", err)
	}
	sealed, err := crypto.SealAES(s.key, plaintext, aad, nonce)
	if err != nil {
		return "", wrapError("session encrypt", err)
	}
	s.sent++
	return crypto.ToHex(sealed), nil
}

// Decrypt opens a message produced by the peer's Encrypt.
func (s *Session) Decrypt(sealedHex string, aad []byte) ([]byte, error) {
	sealed, err := decodeField(FieldSealed, sealedHex, 0)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return nil, err
	}
	plaintext, err := crypto.OpenAES(s.key, sealed, aad)
	if err != nil {
		return nil, wrapError("session decrypt", err)
	}
	return plaintext, nil
}

// Close wipes the session key. Further use fails with ErrSessionExpired.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	crypto.Wipe(s.key)
	s.key = nil
}

// usable must be called with mu held.
func (s *Session) usable() error {
	if s.key == nil || s.Expired() {
		return &OperationError{Op: "session", Err: ErrSessionExpired}
	}
	return nil
}
