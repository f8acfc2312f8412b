package result_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/result"
)

func TestNewSuccess(t *testing.T) {
	value := "success value"
	successResult := result.NewSuccess(&value)

	assert.True(t, successResult.IsSuccess())
	assert.False(t, successResult.IsError())

	val, err := successResult.Value()
	assert.Nil(t, err)
	assert.Equal(t, value, *val)
	assert.Equal(t, &value, successResult.ToValue())
	assert.Nil(t, successResult.Error())
}

func TestNewFailure(t *testing.T) {
	testErr := blame.NewBasicBlame("test-error")
	errorResult := result.NewFailure[any](testErr)

	assert.False(t, errorResult.IsSuccess())
	assert.True(t, errorResult.IsError())

	_, err := errorResult.Value()
	assert.Error(t, err)
	assert.Equal(t, testErr, err)
	assert.Equal(t, testErr, errorResult.Error())
	assert.Nil(t, errorResult.ToValue())
}

func TestFailureWithValueKeepsPartialOutput(t *testing.T) {
	partial := []int{2, 3, 5}
	r := result.NewFailureWithValue(&partial, blame.CancelledError("scan"))

	val, err := r.Value()
	assert.Equal(t, partial, *val)
	assert.True(t, blame.HasCode(err, blame.ErrorBatchCancelled))
}

func TestToResult(t *testing.T) {
	value := "success value"
	successResult := result.ToResult(&value, nil)
	assert.True(t, successResult.IsSuccess())

	errorResult := result.ToResult(&value, blame.NewBasicBlame("test-error"))
	assert.True(t, errorResult.IsError())
	assert.Nil(t, errorResult.ToValue())
	assert.Equal(t, "test-error", errorResult.Error().FetchErrCode().String())

	foreign := result.ToResult[string](nil, errors.New("plain"))
	assert.Equal(t, blame.ErrorInternalServerError, foreign.Error().FetchErrCode())
}

func TestUnwrap(t *testing.T) {
	value := 7
	got, err := result.Unwrap(result.NewSuccess(&value))
	assert.NoError(t, err)
	assert.Equal(t, 7, *got)

	_, err = result.Unwrap(result.NewFailure[int](blame.KeyNotPrimeError(8)))
	assert.True(t, blame.HasCode(err, blame.ErrorKeyNotPrime))
}

func TestNewTaskResult(t *testing.T) {
	value := "done"
	tr := result.NewTaskResult(4, 2, result.NewSuccess(&value))

	assert.Equal(t, 4, tr.Index)
	assert.Equal(t, 2, tr.WorkerID)
	assert.True(t, tr.Output.IsSuccess())
}
