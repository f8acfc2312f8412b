// Package helpers holds small utilities shared by every layer.
package helpers

import (
	"reflect"
	"strings"

	"github.com/Felo0o0/PrimeSecure/utils/types"
)

// IsEmpty reports whether value is a zero value. Blank strings, nil or empty
// collections and types implementing types.EmptyCheck are handled specially.
func IsEmpty[T any](value T) bool {
	if e, ok := any(value).(types.EmptyCheck); ok {
		return e.IsEmpty()
	}
	return isEmptyValue(reflect.ValueOf(value))
}

func isEmptyValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil() || IsEmpty(v.Elem().Interface())
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Map, reflect.Slice, reflect.Chan:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
