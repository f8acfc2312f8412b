// Package message holds the unit of work the batch transformer encrypts.
package message

import (
	"context"
	"fmt"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/validator"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/google/uuid"
)

// Sender and recipient used when a message names neither.
const (
	DefaultSender    = "Sistema"
	DefaultRecipient = "Usuario"
)

// Message is a piece of text bound to a prime key. Content holds the
// ciphertext while Encrypted is true.
type Message struct {
	ID        types.MessageID `json:"id" yaml:"id" msgpack:"id"`
	Content   string          `json:"content" yaml:"content" msgpack:"content" validate:"required"`
	Sender    string          `json:"sender" yaml:"sender" msgpack:"sender"`
	Recipient string          `json:"recipient" yaml:"recipient" msgpack:"recipient"`
	PrimeCode int             `json:"prime_code" yaml:"prime_code" msgpack:"prime_code" validate:"gt=1,prime"`
	Encrypted bool            `json:"encrypted" yaml:"encrypted" msgpack:"encrypted"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at" msgpack:"created_at"`
}

// New builds a validated plaintext message. Empty sender or recipient fall back to the defaults.
func New(content, sender, recipient string, key int) (*Message, error) {
	if sender == "" {
		sender = DefaultSender
	}
	if recipient == "" {
		recipient = DefaultRecipient
	}
	m := &Message{
		ID:        types.MessageID(uuid.New()),
		Content:   content,
		Sender:    sender,
		Recipient: recipient,
		PrimeCode: key,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the message. A non-prime key is reported as KeyNotPrime.
func (m *Message) Validate() error {
	if !prime.IsPrime(m.PrimeCode) {
		return blame.KeyNotPrimeError(m.PrimeCode)
	}
	return validator.Default().Validate(m)
}

// Encrypt replaces the content by its ciphertext. Encrypting twice is a no-op.
func (m *Message) Encrypt() {
	if m.Encrypted {
		return
	}
	m.Content = cipher.EncryptText(m.Content, m.PrimeCode, 0)
	m.Encrypted = true
}

// Decrypt restores the plaintext. Decrypting a plaintext message is a no-op.
func (m *Message) Decrypt() {
	if !m.Encrypted {
		return
	}
	m.Content = cipher.DecryptText(m.Content, m.PrimeCode, 0)
	m.Encrypted = false
}

// Apply runs op on m after validating it.
func (m *Message) Apply(op cipher.Operation) error {
	if m == nil {
		return blame.MessageInvalidError(map[string]string{"message": "message is nil"})
	}
	if err := m.Validate(); err != nil {
		return err
	}
	switch op {
	case cipher.Encrypt:
		m.Encrypt()
	case cipher.Decrypt:
		m.Decrypt()
	default:
		return blame.UnknownOperationError(op.String())
	}
	return nil
}

// ItemFunc adapts Apply to the batch transformer's item function.
func ItemFunc(op cipher.Operation) func(ctx context.Context, index int, m *Message) error {
	return func(_ context.Context, _ int, m *Message) error {
		return m.Apply(op)
	}
}

// State is "encrypted" or "plain".
func (m *Message) State() string {
	if m.Encrypted {
		return "encrypted"
	}
	return "plain"
}

// Preview returns at most n runes of the content, marking truncation with "...".
func (m *Message) Preview(n int) string {
	runes := []rune(m.Content)
	if n <= 0 || len(runes) <= n {
		return m.Content
	}
	return string(runes[:n]) + "..."
}

// String renders a one-line summary.
func (m *Message) String() string {
	return fmt.Sprintf("[%s] %s -> %s key=%d %s: %q",
		m.ID.String()[:8], m.Sender, m.Recipient, m.PrimeCode, m.State(), m.Preview(40))
}
