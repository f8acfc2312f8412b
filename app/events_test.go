package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/app"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/message"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads []any
	err      error
	closed   bool
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, payload)
	return p.err
}

func (p *recordingPublisher) Ping() error  { return nil }
func (p *recordingPublisher) Close() error { p.closed = true; return nil }

func (p *recordingPublisher) Subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.subjects...)
}

func newAppWithEvents(t *testing.T, pub *recordingPublisher, mutate ...func(*app.Config)) *app.App {
	t.Helper()
	cfg := app.DefaultConfig()
	for _, m := range mutate {
		m(cfg)
	}
	a, err := app.New(context.Background(), cfg,
		app.WithLogger(log.NewNopLogger()),
		app.WithEvents(pub))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestOperationsPublishEvents(t *testing.T) {
	pub := &recordingPublisher{}
	a := newAppWithEvents(t, pub)
	ctx := context.Background()

	_, err := a.ScanPrimes(ctx, prime.Range{Start: 0, End: 50}, 2)
	require.NoError(t, err)

	m, err := message.New("hola", "a", "b", 101)
	require.NoError(t, err)
	_, err = a.TransformMessages(ctx, []*message.Message{m}, cipher.Encrypt, 1)
	require.NoError(t, err)

	_, _, err = a.ProcessText(ctx, "abc", 101, cipher.Encrypt, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{
		constant.EventScanCompleted,
		constant.EventBatchCompleted,
		constant.EventTextProcessed,
	}, pub.Subjects())

	scan, ok := pub.payloads[0].(app.ScanEvent)
	require.True(t, ok)
	assert.Equal(t, 15, scan.Found)
	assert.Equal(t, constant.Completed, scan.Status)

	report, ok := pub.payloads[1].(app.BatchEvent)
	require.True(t, ok)
	assert.Equal(t, 1, report.Succeeded)
}

func TestCachedScanIsNotRepublished(t *testing.T) {
	pub := &recordingPublisher{}
	a := newAppWithEvents(t, pub)
	r := prime.Range{Start: 0, End: 50}

	_, err := a.ScanPrimes(context.Background(), r, 2)
	require.NoError(t, err)
	_, err = a.ScanPrimes(context.Background(), r, 2)
	require.NoError(t, err)
	assert.Len(t, pub.Subjects(), 1)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bus down")}
	a := newAppWithEvents(t, pub)

	res, err := a.ScanPrimes(context.Background(), prime.Range{Start: 0, End: 10}, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 5, 7}, res.Primes)
}

func TestCloseClosesPublisher(t *testing.T) {
	pub := &recordingPublisher{}
	cfg := app.DefaultConfig()
	a, err := app.New(context.Background(), cfg, app.WithLogger(log.NewNopLogger()), app.WithEvents(pub))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.True(t, pub.closed)
}

func TestEventsEnabledWithoutServerFails(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.Events.Enabled = true
	cfg.Events.URL = "nats://127.0.0.1:1"
	cfg.Events.Timeout = 100 * time.Millisecond

	_, err := app.New(context.Background(), cfg, app.WithLogger(log.NewNopLogger()))
	assert.Error(t, err)
}

func TestRefillKeyring(t *testing.T) {
	pub := &recordingPublisher{}
	a := newAppWithEvents(t, pub, func(c *app.Config) { c.Keyring.SeedCount = 5 })
	ctx := context.Background()

	added, err := a.RefillKeyring(ctx)
	require.NoError(t, err)
	assert.Len(t, added, 5)
	assert.Equal(t, []string{constant.EventKeyringSeeded}, pub.Subjects())

	added, err = a.RefillKeyring(ctx)
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestRunMaintenance(t *testing.T) {
	disabled := newApp(t)
	require.NoError(t, disabled.RunMaintenance(context.Background()))

	a := newApp(t, func(c *app.Config) {
		c.Keyring.SeedCount = 3
		c.Keyring.RefillInterval = 10 * time.Millisecond
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunMaintenance(ctx) }()

	assert.Eventually(t, func() bool {
		n, err := a.Keyring().Len(context.Background())
		return err == nil && n == 3
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
