package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Felo0o0/PrimeSecure/adapters/validator"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/cipher"
	"github.com/Felo0o0/PrimeSecure/result"
	"github.com/gin-gonic/gin"
)

// ParamOrigin is where a parameter is read from.
type ParamOrigin int

const (
	Unknown ParamOrigin = iota
	RouteParam
	QueryParam
	HeaderParam
)

// String Conversion
func (p ParamOrigin) String() string {
	switch p {
	case RouteParam:
		return "route"
	case QueryParam:
		return "query"
	case HeaderParam:
		return "header"
	default:
		return "unknown"
	}
}

// ParamConverterFunc turns the raw text of a parameter into T.
type ParamConverterFunc[T any] func(string) (T, error)

// fetchParam returns the raw value and whether it was present.
func fetchParam(c *gin.Context, paramName string, origin ParamOrigin) (string, bool) {
	switch origin {
	case RouteParam:
		val := c.Param(paramName)
		return val, val != ""
	case QueryParam:
		val, exists := c.GetQuery(paramName)
		return val, exists && strings.TrimSpace(val) != ""
	case HeaderParam:
		val := c.GetHeader(paramName)
		return val, val != ""
	default:
		return "", false
	}
}

// fetchAndConvertParam reads and converts a parameter. A missing optional
// parameter yields fallback.
func fetchAndConvertParam[T any](
	c *gin.Context,
	paramName string,
	origin ParamOrigin,
	required bool,
	fallback T,
	converter ParamConverterFunc[T],
) result.Result[T] {
	raw, ok := fetchParam(c, paramName, origin)
	if !ok {
		if required {
			return result.NewFailure[T](blame.RequestBodyInvalidError(
				fmt.Errorf("%s parameter %q is required", origin, paramName)))
		}
		return result.NewSuccess(&fallback)
	}

	value, err := converter(raw)
	if err != nil {
		if b, isBlame := err.(blame.Blame); isBlame {
			return result.NewFailure[T](b)
		}
		return result.NewFailure[T](blame.RequestBodyInvalidError(
			fmt.Errorf("%s parameter %q: %w", origin, paramName, err)))
	}
	return result.NewSuccess(&value)
}

// FetchIntParam reads an integer parameter.
func FetchIntParam(c *gin.Context, paramName string, origin ParamOrigin, required bool, fallback int) result.Result[int] {
	return fetchAndConvertParam(c, paramName, origin, required, fallback, func(value string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(value))
	})
}

// FetchTextParam reads a string parameter.
func FetchTextParam(c *gin.Context, paramName string, origin ParamOrigin, required bool) result.Result[string] {
	return fetchAndConvertParam(c, paramName, origin, required, "", func(value string) (string, error) {
		return value, nil
	})
}

// FetchOperationParam reads the cipher operation from the route.
func FetchOperationParam(c *gin.Context, paramName string) result.Result[cipher.Operation] {
	return fetchAndConvertParam(c, paramName, RouteParam, true, cipher.Encrypt, cipher.ParseOperation)
}

// RetrieveFromGinContext returns the value stored under key, typed as T.
func RetrieveFromGinContext[T any](c *gin.Context, key string) result.Result[T] {
	val, exists := c.Get(key)
	if !exists {
		return result.NewFailure[T](blame.InternalServerError(fmt.Errorf("context key %q not set", key)))
	}

	typedVal, ok := val.(T)
	if !ok {
		return result.NewFailure[T](blame.InternalServerError(fmt.Errorf("context key %q holds %T", key, val)))
	}
	return result.NewSuccess(&typedVal)
}

// ExtractDataFromRequestBody binds and validates the JSON body.
func ExtractDataFromRequestBody[T any](c *gin.Context) result.Result[T] {
	var payload T
	if err := c.ShouldBindJSON(&payload); err != nil {
		return result.NewFailure[T](blame.RequestBodyInvalidError(err))
	}
	if err := validator.Default().Validate(&payload); err != nil {
		return result.NewFailure[T](blame.AsBlame(err))
	}
	return result.NewSuccess(&payload)
}

// ExtractDataFromQuery binds and validates the query string.
func ExtractDataFromQuery[T any](c *gin.Context) result.Result[T] {
	var payload T
	if err := c.ShouldBindQuery(&payload); err != nil {
		return result.NewFailure[T](blame.RequestBodyInvalidError(err))
	}
	if err := validator.Default().Validate(&payload); err != nil {
		return result.NewFailure[T](blame.AsBlame(err))
	}
	return result.NewSuccess(&payload)
}
