package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/go-playground/validator/v10"
)

// PrimeTag validates that an integer field holds a prime.
const PrimeTag = "prime"

// Validator is a high-level wrapper for go-playground/validator.
type Validator struct {
	validator *validator.Validate
}

var (
	defaultValidator     *Validator
	defaultValidatorOnce sync.Once
)

// Default returns the process-wide validator. It is safe for concurrent use.
func Default() *Validator {
	defaultValidatorOnce.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator
}

// NewValidator creates a new Validator that reports json field names and knows the prime tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation(PrimeTag, func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return prime.IsPrime(int(fl.Field().Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return prime.IsPrime(int(fl.Field().Uint()))
		}
		return false
	})
	return &Validator{validator: v}
}

// Validate checks s and wraps any failure in a MessageInvalid blame.
func (v *Validator) Validate(s any) error {
	if errs := v.ValidateStruct(s); len(errs) > 0 {
		return blame.MessageInvalidError(errs)
	}
	return nil
}

// ValidateStruct validates a struct and returns a map of field names to error messages.
func (v *Validator) ValidateStruct(s any) map[string]string {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"error": err.Error()}
	}

	errorMap := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		errorMap[fieldError.Field()] = v.getErrorMessage(fieldError)
	}
	return errorMap
}

// ValidateField validates a single value against tag.
func (v *Validator) ValidateField(field any, tag string) string {
	err := v.validator.Var(field, tag)
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	if len(validationErrors) > 0 {
		return v.getErrorMessage(validationErrors[0])
	}
	return "validation error"
}

// RegisterValidation registers a custom validation function for a specific tag.
func (v *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return v.validator.RegisterValidation(tag, fn)
}

// Engine exposes the underlying validate instance, e.g. for gin's binding.
func (v *Validator) Engine() *validator.Validate {
	return v.validator
}

// getErrorMessage generates a user-friendly error message from a FieldError.
func (v *Validator) getErrorMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldError.Field())
	case PrimeTag:
		return fmt.Sprintf("%s must be a prime number, got %v", fieldError.Field(), fieldError.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fieldError.Field(), fieldError.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fieldError.Field(), fieldError.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fieldError.Field(), fieldError.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fieldError.Field(), fieldError.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fieldError.Field(), fieldError.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fieldError.Field(), fieldError.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", fieldError.Field())
	default:
		return fmt.Sprintf("invalid %s", fieldError.Field())
	}
}
