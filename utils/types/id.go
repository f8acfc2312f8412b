package types

import "github.com/google/uuid"

// MessageID identifies a message across exports and imports. It encodes as
// a plain uuid string in every codec.
type MessageID uuid.UUID

func (m MessageID) String() string  { return uuid.UUID(m).String() }
func (m MessageID) UUID() uuid.UUID { return uuid.UUID(m) }

// IsEmpty reports whether m is the nil uuid.
func (m MessageID) IsEmpty() bool {
	return uuid.UUID(m) == uuid.Nil
}

func (m MessageID) MarshalText() ([]byte, error) {
	return uuid.UUID(m).MarshalText()
}

func (m *MessageID) UnmarshalText(data []byte) error {
	id, err := uuid.ParseBytes(data)
	if err != nil {
		return err
	}
	*m = MessageID(id)
	return nil
}
