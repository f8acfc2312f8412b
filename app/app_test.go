package app_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/app"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/message"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
)

func newApp(t *testing.T, mutate ...func(*app.Config)) *app.App {
	t.Helper()
	cfg := app.DefaultConfig()
	for _, m := range mutate {
		m(cfg)
	}
	a, err := app.New(context.Background(), cfg, app.WithLogger(log.NewNopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.Keyring.Backend = "etcd"

	_, err := app.New(context.Background(), cfg, app.WithLogger(log.NewNopLogger()))
	require.Error(t, err)
	assert.True(t, blame.HasCode(err, blame.ErrorConfigLoadFailure))
}

func TestWorkersResolution(t *testing.T) {
	a := newApp(t)
	assert.Equal(t, 3, a.Workers(3, 100))
	assert.Equal(t, a.Config().Workers.Default, a.Workers(0, 100))

	derived := newApp(t, func(c *app.Config) { c.Workers.Default = 0 })
	assert.Equal(t, 1, derived.Workers(0, 1))
	assert.GreaterOrEqual(t, derived.Workers(0, 10000), 1)
}

func TestScanPrimesCachesCompleteResults(t *testing.T) {
	a := newApp(t)
	r := prime.Range{Start: 100, End: 200}

	first, err := a.ScanPrimes(context.Background(), r, 4)
	require.NoError(t, err)
	assert.Len(t, first.Primes, 21)

	second, err := a.ScanPrimes(context.Background(), r, 4)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := a.ScanPrimes(context.Background(), r, 7)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 7, other.WorkerCount())
	assert.Equal(t, first.Primes, other.Primes)
}

func TestScanPrimesDoesNotCacheCancelled(t *testing.T) {
	a := newApp(t)
	r := prime.Range{Start: 0, End: 1000}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := a.ScanPrimes(ctx, r, 2)
	require.Error(t, err)
	assert.True(t, blame.HasCode(err, blame.ErrorBatchCancelled))
	require.NotNil(t, res)
	assert.Equal(t, constant.Cancelled, res.Status)

	res, err = a.ScanPrimes(context.Background(), r, 2)
	require.NoError(t, err)
	assert.Equal(t, constant.Completed, res.Status)
	assert.Len(t, res.Primes, 168)
}

func TestScanPrimesWithoutCache(t *testing.T) {
	a := newApp(t, func(c *app.Config) { c.Cache.Size = 0 })
	r := prime.Range{Start: 10, End: 20}

	first, err := a.ScanPrimes(context.Background(), r, 2)
	require.NoError(t, err)
	second, err := a.ScanPrimes(context.Background(), r, 2)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, []int{11, 13, 17, 19}, second.Primes)
}

func TestMessagesRoundTrip(t *testing.T) {
	a := newApp(t)
	msgs, err := a.GenerateSamples(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, msgs, 25)

	originals := make([]string, len(msgs))
	for i, m := range msgs {
		originals[i] = m.Content
	}

	report, err := a.EncryptMessages(context.Background(), msgs, 4)
	require.NoError(t, err)
	assert.Equal(t, 25, report.Succeeded)
	assert.Equal(t, 4, report.Workers)
	for _, m := range msgs {
		assert.True(t, m.Encrypted)
	}

	_, err = a.DecryptMessages(context.Background(), msgs, 0)
	require.NoError(t, err)
	for i, m := range msgs {
		assert.Equal(t, originals[i], m.Content)
		assert.False(t, m.Encrypted)
	}
}

func TestTransformMessagesUnknownOperation(t *testing.T) {
	a := newApp(t)
	_, err := a.TransformMessages(context.Background(), nil, cipher.Operation("rot13"), 1)
	assert.True(t, blame.HasCode(err, blame.ErrorUnknownOperation))
}

func TestProcessText(t *testing.T) {
	a := newApp(t)
	text := "Hola, mundo! 123 ¿qué tal?"

	enc, report, err := a.ProcessText(context.Background(), text, 101, cipher.Encrypt, 5)
	require.NoError(t, err)
	assert.NotEqual(t, text, enc)
	assert.Equal(t, constant.Completed, report.Status)

	dec, _, err := a.ProcessText(context.Background(), enc, 101, cipher.Decrypt, 2)
	require.NoError(t, err)
	assert.Equal(t, text, dec)

	_, _, err = a.ProcessText(context.Background(), text, 100, cipher.Encrypt, 2)
	assert.True(t, blame.HasCode(err, blame.ErrorKeyNotPrime))
}

func TestProcessFile(t *testing.T) {
	a := newApp(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "plain.txt")
	enc := filepath.Join(dir, "secret.txt")
	out := filepath.Join(dir, "restored.txt")
	content := strings.Repeat("PrimeSecure keeps secrets. ", 40)
	require.NoError(t, os.WriteFile(in, []byte(content), 0o600))

	report, err := a.ProcessFile(context.Background(), in, enc, 997, cipher.Encrypt, 3)
	require.NoError(t, err)
	assert.Equal(t, len(content), report.Bytes)
	assert.Equal(t, 3, report.Workers)
	assert.Equal(t, constant.Completed, report.Status)

	_, err = a.ProcessFile(context.Background(), enc, out, 997, cipher.Decrypt, 7)
	require.NoError(t, err)
	restored, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, content, string(restored))

	_, err = a.ProcessFile(context.Background(), filepath.Join(dir, "missing.txt"), out, 997, cipher.Encrypt, 1)
	assert.True(t, blame.HasCode(err, blame.ErrorIOFailure))
}

func TestImportCSV(t *testing.T) {
	a := newApp(t)
	input := "content,sender,recipient,prime_code\n" +
		"hello,alice,bob,101\n" +
		"no key,carol,,\n" +
		"bad key,dave,erin,100\n" +
		"broken,row\n"

	msgs, rowErrs, err := a.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, 101, msgs[0].PrimeCode)
	assert.Equal(t, message.DefaultRecipient, msgs[1].Recipient)
	assert.True(t, prime.IsPrime(msgs[1].PrimeCode))

	require.Len(t, rowErrs, 2)
	for _, e := range rowErrs {
		assert.True(t, blame.HasCode(e, blame.ErrorItemMalformed))
	}

	n, err := a.Keyring().Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "test"), 0o755))
	body := "service: primesecure-test\nworkers:\n  default: 6\ncache:\n  ttl: 30s\nkeyring:\n  min: 10\n  max: 50\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test", "config.yaml"), []byte(body), 0o644))
	t.Setenv("PRIMESECURE_HTTP_PORT", "9090")

	cfg, err := app.LoadConfig(dir, "test")
	require.NoError(t, err)
	assert.Equal(t, "primesecure-test", cfg.Service)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 6, cfg.Workers.Default)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Keyring.Min)
	assert.Equal(t, 50, cfg.Keyring.Max)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, constant.MemoryBackend, cfg.Keyring.Backend)
	assert.Equal(t, "primesecure-test:primes", cfg.SetKey())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("PRIMESECURE_ARCHIVE_FORMAT", "xml")
	_, err := app.LoadConfig("", "dev")
	require.Error(t, err)
	assert.True(t, blame.HasCode(err, blame.ErrorConfigLoadFailure))
}
