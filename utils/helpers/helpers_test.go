package helpers_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestIsEmpty(t *testing.T) {
	var nilSlice []int
	var nilPtr *int

	assert.True(t, helpers.IsEmpty(""))
	assert.True(t, helpers.IsEmpty("   "))
	assert.True(t, helpers.IsEmpty(0))
	assert.True(t, helpers.IsEmpty(nilSlice))
	assert.True(t, helpers.IsEmpty(nilPtr))
	assert.True(t, helpers.IsEmpty(types.LanguageTag{}))

	assert.False(t, helpers.IsEmpty("x"))
	assert.False(t, helpers.IsEmpty(7))
	assert.False(t, helpers.IsEmpty([]int{1}))
	assert.False(t, helpers.IsEmpty(struct{ A int }{A: 1}))
}

func TestFetchErrorStack(t *testing.T) {
	errs := []error{assert.AnError, nil, assert.AnError}
	assert.Len(t, helpers.FetchErrorStrings(errs), 2)
	assert.Equal(t, assert.AnError.Error()+"; "+assert.AnError.Error(), helpers.FetchErrorStack(errs))
}

func TestFetchHTTPStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, helpers.FetchHTTPStatusCode(constant.BadRequest))
	assert.Equal(t, http.StatusConflict, helpers.FetchHTTPStatusCode(constant.Conflict))
	assert.Equal(t, http.StatusServiceUnavailable, helpers.FetchHTTPStatusCode(constant.Unavailable))
	assert.Equal(t, http.StatusInternalServerError, helpers.FetchHTTPStatusCode("anything"))
}

func TestParseLanguageTag(t *testing.T) {
	assert.Equal(t, "es", helpers.ParseLanguageTag("es").String())
	assert.Equal(t, "en", helpers.ParseLanguageTag("").String())
	assert.Equal(t, "en", helpers.ParseLanguageTag("not a tag!").String())
}

func TestGenerateReasonCode(t *testing.T) {
	assert.Equal(t, "PRIME-100001", helpers.GenerateReasonCode("prime", 100001))
	assert.Equal(t, "42", helpers.GenerateReasonCode("", 42))
}

func TestPrintlnWritesToConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := helpers.SetConsoleOutput(&buf)
	defer helpers.SetConsoleOutput(prev)

	helpers.Println(zapcore.WarnLevel, "no configuration file found", ", using defaults")
	assert.Contains(t, buf.String(), "[WARN] no configuration file found, using defaults")
	assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
}

func TestTailCallerEncoder(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	caller := zapcore.NewEntryCaller(0, "/home/dev/primesecure/batch/transform.go", 42, true)

	err := enc.AddArray("c", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		helpers.TailCallerEncoder(2)(caller, arr)
		return nil
	}))
	assert.NoError(t, err)
	assert.Equal(t, []any{"batch/transform.go:42"}, enc.Fields["c"])
}
