package message_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felo0o0/PrimeSecure/batch"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/message"
)

func TestNewDefaults(t *testing.T) {
	m, err := message.New("hola", "", "", 101)
	require.NoError(t, err)
	assert.Equal(t, message.DefaultSender, m.Sender)
	assert.Equal(t, message.DefaultRecipient, m.Recipient)
	assert.False(t, m.ID.IsEmpty())
	assert.False(t, m.Encrypted)
}

func TestNewRejectsInvalidMessages(t *testing.T) {
	_, err := message.New("hola", "a", "b", 100)
	assert.True(t, blame.HasCode(err, blame.ErrorKeyNotPrime))

	_, err = message.New("", "a", "b", 101)
	assert.True(t, blame.HasCode(err, blame.ErrorMessageInvalid))
}

func TestEncryptIsIdempotent(t *testing.T) {
	m, err := message.New("Attack at dawn!", "alice", "bob", 997)
	require.NoError(t, err)

	m.Encrypt()
	once := m.Content
	m.Encrypt()
	assert.Equal(t, once, m.Content)
	assert.True(t, m.Encrypted)

	m.Decrypt()
	m.Decrypt()
	assert.Equal(t, "Attack at dawn!", m.Content)
	assert.False(t, m.Encrypted)
}

func TestApplyUnknownOperation(t *testing.T) {
	m, err := message.New("x", "", "", 7)
	require.NoError(t, err)
	assert.True(t, blame.HasCode(m.Apply("rot13"), blame.ErrorUnknownOperation))
}

func TestPreviewAndString(t *testing.T) {
	m, err := message.New(strings.Repeat("ñ", 50), "alice", "bob", 13)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ñ", 5)+"...", m.Preview(5))
	assert.Equal(t, m.Content, m.Preview(0))
	assert.Contains(t, m.String(), "alice -> bob key=13 plain")
}

func TestBatchRoundTripOverMessages(t *testing.T) {
	msgs := make([]*message.Message, 0, 25)
	for i := 0; i < 25; i++ {
		m, err := message.New(strings.Repeat("msg #", i%4+1), "s", "r", []int{2, 3, 101, 997, 7919}[i%5])
		require.NoError(t, err)
		msgs = append(msgs, m)
	}
	originals := make([]string, len(msgs))
	for i, m := range msgs {
		originals[i] = m.Content
	}

	_, err := batch.TransformBatch(context.Background(), msgs, message.ItemFunc(cipher.Encrypt), 4)
	require.NoError(t, err)
	for _, m := range msgs {
		assert.True(t, m.Encrypted)
	}

	_, err = batch.TransformBatch(context.Background(), msgs, message.ItemFunc(cipher.Decrypt), 6)
	require.NoError(t, err)
	for i, m := range msgs {
		assert.Equal(t, originals[i], m.Content)
	}
}

func TestBatchReportsInvalidMessages(t *testing.T) {
	good, err := message.New("fine", "", "", 11)
	require.NoError(t, err)
	bad := &message.Message{Content: "broken", PrimeCode: 12}

	report, err := batch.TransformBatch(context.Background(), []*message.Message{good, bad, nil}, message.ItemFunc(cipher.Encrypt), 3)
	assert.True(t, blame.HasCode(err, blame.ErrorPartialFailure))
	assert.True(t, blame.HasCode(err, blame.ErrorKeyNotPrime))
	assert.Equal(t, 2, report.Failed())
	assert.True(t, good.Encrypted)
}
