package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Felo0o0/PrimeSecure/adapters/validator"
	"github.com/Felo0o0/PrimeSecure/blame"
)

type keyRequest struct {
	Key     int    `json:"key" validate:"gt=1,prime"`
	Backend string `json:"backend" validate:"required,oneof=memory redis"`
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	v := validator.NewValidator()

	errs := v.ValidateStruct(keyRequest{Key: 100})
	assert.Equal(t, "key must be a prime number, got 100", errs["key"])
	assert.Equal(t, "backend is required", errs["backend"])

	assert.Empty(t, v.ValidateStruct(keyRequest{Key: 101, Backend: "redis"}))
}

func TestValidateWrapsInBlame(t *testing.T) {
	err := validator.Default().Validate(keyRequest{Key: 1, Backend: "disk"})
	assert.True(t, blame.HasCode(err, blame.ErrorMessageInvalid))

	assert.NoError(t, validator.Default().Validate(keyRequest{Key: 2, Backend: "memory"}))
}

func TestValidateField(t *testing.T) {
	v := validator.NewValidator()
	assert.Empty(t, v.ValidateField(997, "prime"))
	assert.NotEmpty(t, v.ValidateField(999, "prime"))
	assert.Contains(t, v.ValidateField("c", "oneof=a b"), "must be one of [a b]")
}
