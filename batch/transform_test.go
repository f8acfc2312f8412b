package batch_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felo0o0/PrimeSecure/batch"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
)

type note struct {
	text string
	key  int
}

func encryptNote(_ context.Context, _ int, n *note) error {
	n.text = cipher.EncryptText(n.text, n.key, 0)
	return nil
}

func decryptNote(_ context.Context, _ int, n *note) error {
	n.text = cipher.DecryptText(n.text, n.key, 0)
	return nil
}

func sampleNotes() []*note {
	return []*note{
		{"Hola Mundo!", 101},
		{"Prime keys: 2, 3, 5", 997},
		{"", 7},
		{"ñandú 🚀", 13},
		{"The quick brown fox.", 541},
	}
}

func TestTransformBatchRoundTrip(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 5, 8} {
		notes := sampleNotes()
		originals := make([]string, len(notes))
		for i, n := range notes {
			originals[i] = n.text
		}

		report, err := batch.TransformBatch(context.Background(), notes, encryptNote, workers)
		require.NoError(t, err)
		assert.Equal(t, len(notes), report.Succeeded)
		assert.NotEqual(t, originals[0], notes[0].text)

		_, err = batch.TransformBatch(context.Background(), notes, decryptNote, workers)
		require.NoError(t, err)
		for i, n := range notes {
			assert.Equal(t, originals[i], n.text, "workers=%d item=%d", workers, i)
		}
	}
}

func TestTransformBatchEmpty(t *testing.T) {
	called := false
	report, err := batch.TransformBatch(context.Background(), []*note{}, func(context.Context, int, *note) error {
		called = true
		return nil
	}, 4)
	require.NoError(t, err)
	assert.Zero(t, report.Workers)
	assert.Zero(t, report.Total)
	assert.False(t, called)
}

func TestTransformBatchClampsWorkers(t *testing.T) {
	notes := sampleNotes()[:3]
	report, err := batch.TransformBatch(context.Background(), notes, encryptNote, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Workers)

	same := sampleNotes()[:3]
	_, err = batch.TransformBatch(context.Background(), same, encryptNote, 3)
	require.NoError(t, err)
	for i := range notes {
		assert.Equal(t, same[i].text, notes[i].text)
	}
}

func TestTransformBatchPartialFailure(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	bad := errors.New("odd item")
	report, err := batch.TransformBatch(context.Background(), items, func(_ context.Context, i int, v int) error {
		if v%2 == 1 {
			return bad
		}
		items[i] = v * 10
		return nil
	}, 3)

	require.Error(t, err)
	assert.True(t, blame.HasCode(err, blame.ErrorPartialFailure))
	assert.True(t, blame.HasCode(err, blame.ErrorItemMalformed))
	assert.ErrorIs(t, err, bad)

	assert.Equal(t, 3, report.Failed())
	assert.Equal(t, 3, report.Succeeded)
	assert.Zero(t, report.Skipped)
	assert.Equal(t, constant.Partial, report.Status)
	assert.Equal(t, []int{1, 20, 3, 40, 5, 60}, items)

	indexes := []int{}
	for _, f := range report.Failures {
		indexes = append(indexes, f.Index)
		assert.True(t, f.Output.IsError())
	}
	assert.Equal(t, []int{0, 2, 4}, indexes)
}

func TestTransformBatchRecoversItemPanics(t *testing.T) {
	items := []string{"ok", "boom", "ok"}
	report, err := batch.TransformBatch(context.Background(), items, func(_ context.Context, _ int, v string) error {
		if v == "boom" {
			panic("bad item")
		}
		return nil
	}, 2)
	assert.True(t, blame.HasCode(err, blame.ErrorPartialFailure))
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 1, report.Failures[0].Index)
}

func TestTransformBatchCancelled(t *testing.T) {
	items := make([]int, 200)
	ctx, cancel := context.WithCancel(context.Background())
	var done int32

	report, err := batch.TransformBatch(ctx, items, func(_ context.Context, _ int, _ int) error {
		if atomic.AddInt32(&done, 1) == 10 {
			cancel()
		}
		return nil
	}, 1)

	require.Error(t, err)
	assert.True(t, blame.HasCode(err, blame.ErrorBatchCancelled))
	assert.Equal(t, constant.Cancelled, report.Status)
	assert.Equal(t, 10, report.Succeeded)
	assert.Equal(t, 190, report.Skipped)
}

func TestTransformTextIndependentOfWorkers(t *testing.T) {
	text := strings.Repeat("PrimeSecure keeps ñ, 東京 and punctuation {!?} intact. ", 20)

	one, _, err := batch.TransformText(context.Background(), text, 101, cipher.Encrypt, 1)
	require.NoError(t, err)
	five, report, err := batch.TransformText(context.Background(), text, 101, cipher.Encrypt, 5)
	require.NoError(t, err)

	assert.Equal(t, one, five)
	assert.Equal(t, 5, report.Workers)
	assert.Equal(t, len([]rune(text)), report.Succeeded)
	assert.Equal(t, constant.OpEncrypt, report.Operation)

	back, _, err := batch.TransformText(context.Background(), five, 101, cipher.Decrypt, 3)
	require.NoError(t, err)
	assert.Equal(t, text, back)
}

func TestTransformChunksPassesGlobalOffsets(t *testing.T) {
	var mu sync.Mutex
	offsets := map[string]int{}
	out, report, err := batch.TransformChunks(context.Background(), "abcdefghij", func(chunk string, offset int) string {
		mu.Lock()
		offsets[chunk] = offset
		mu.Unlock()
		return strings.ToUpper(chunk)
	}, 4)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJ", out)
	assert.Equal(t, 4, report.Workers)
	assert.Equal(t, map[string]int{"abc": 0, "def": 3, "gh": 6, "ij": 8}, offsets)
}

func TestTransformTextEmpty(t *testing.T) {
	out, report, err := batch.TransformText(context.Background(), "", 101, cipher.Encrypt, 4)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, report.Workers)
}

func TestTransformTextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, report, err := batch.TransformText(ctx, "some text to protect", 101, cipher.Encrypt, 2)
	assert.Empty(t, out)
	assert.True(t, blame.HasCode(err, blame.ErrorBatchCancelled))
	assert.Equal(t, constant.Cancelled, report.Status)
}

func TestTransformChunksStepsThroughLargeSpans(t *testing.T) {
	var mu sync.Mutex
	offsets := map[string]int{}
	out, report, err := batch.TransformChunks(context.Background(), "abcdefghij", func(chunk string, offset int) string {
		mu.Lock()
		offsets[chunk] = offset
		mu.Unlock()
		return strings.ToUpper(chunk)
	}, 2, batch.WithChunkSize(3))
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJ", out)
	assert.Equal(t, 10, report.Succeeded)
	assert.Equal(t, map[string]int{"abc": 0, "de": 3, "fgh": 5, "ij": 8}, offsets)
}

func TestTransformTextChunkSizeKeepsOutput(t *testing.T) {
	text := strings.Repeat("Position matters: 42 {ok}! ", 30)

	whole, _, err := batch.TransformText(context.Background(), text, 53, cipher.Encrypt, 1)
	require.NoError(t, err)
	stepped, _, err := batch.TransformText(context.Background(), text, 53, cipher.Encrypt, 3, batch.WithChunkSize(7))
	require.NoError(t, err)
	assert.Equal(t, whole, stepped)
}

func TestTransformChunksStopsInsideASpan(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	out, report, err := batch.TransformChunks(ctx, "abcdefgh", func(chunk string, offset int) string {
		calls++
		cancel()
		return chunk
	}, 1, batch.WithChunkSize(2))
	assert.Empty(t, out)
	assert.True(t, blame.HasCode(err, blame.ErrorBatchCancelled))
	assert.Equal(t, 1, calls)
	assert.Equal(t, constant.Cancelled, report.Status)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 6, report.Skipped)
}
