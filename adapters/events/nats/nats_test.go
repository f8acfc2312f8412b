package nats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
)

type scanPayload struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func testManager(t *testing.T, opts ...Option) *NATSManager {
	t.Helper()
	w := newManager(append([]Option{WithLogger(log.NewNopLogger())}, opts...)...)
	t.Cleanup(w.tracker.Close)
	return w
}

func TestSubject(t *testing.T) {
	w := testManager(t, WithSubjectPrefix("svc"))
	assert.Equal(t, "svc.scan.completed", w.Subject(constant.EventScanCompleted))

	bare := testManager(t, WithSubjectPrefix(""))
	assert.Equal(t, "scan.completed", bare.Subject(constant.EventScanCompleted))
}

func TestEncodeMsgCarriesIDHeader(t *testing.T) {
	w := testManager(t, WithServiceName("primes"))
	event := w.NewEvent(constant.EventScanCompleted, scanPayload{Start: 1, End: 9})

	msg, err := EncodeMsg(event)
	require.NoError(t, err)
	assert.Equal(t, "primesecure.scan.completed", msg.Subject)
	assert.Equal(t, event.ID, msg.Header.Get(constant.MessageIdHeader))

	var decoded Event[scanPayload]
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "primes", decoded.Service)
	assert.Equal(t, scanPayload{Start: 1, End: 9}, decoded.Data)
}

func TestWrapDeliversOncePerID(t *testing.T) {
	w := testManager(t)
	msg, err := EncodeMsg(w.NewEvent(constant.EventBatchCompleted, scanPayload{End: 3}))
	require.NoError(t, err)

	calls := 0
	var got scanPayload
	handler := w.wrap(func(e Event[json.RawMessage]) error {
		calls++
		return json.Unmarshal(e.Data, &got)
	})
	handler(msg)
	handler(msg)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, got.End)
}

func TestWrapSurvivesBadInputAndPanics(t *testing.T) {
	w := testManager(t)
	handler := w.wrap(func(Event[json.RawMessage]) error { panic("boom") })

	assert.NotPanics(t, func() { handler(&nats.Msg{Subject: "x", Data: []byte("not json")}) })

	msg, err := EncodeMsg(w.NewEvent("x", nil))
	require.NoError(t, err)
	assert.NotPanics(t, func() { handler(msg) })
}

func TestPublishWithoutConnection(t *testing.T) {
	w := testManager(t)
	err := w.Publish(context.Background(), constant.EventScanCompleted, scanPayload{})
	assert.True(t, blame.HasCode(err, blame.ErrorEventPublishFailed))
	assert.Error(t, w.Ping())
}

func TestConnectFailure(t *testing.T) {
	_, err := NewNATSManager("nats://127.0.0.1:1",
		WithLogger(log.NewNopLogger()),
		WithTimeout(100*time.Millisecond),
		WithReconnect(0, 0))
	assert.True(t, blame.HasCode(err, blame.ErrorEventPublishFailed))
}
