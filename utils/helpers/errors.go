package helpers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/types"
)

var statusByResponse = map[types.ResponseErrorType]int{
	constant.BadRequest:  http.StatusBadRequest,
	constant.NotFound:    http.StatusNotFound,
	constant.Conflict:    http.StatusConflict,
	constant.Unavailable: http.StatusServiceUnavailable,
	constant.TooMany:     http.StatusTooManyRequests,
}

// FetchHTTPStatusCode maps a response type to its HTTP status, 500 when unknown.
func FetchHTTPStatusCode(response types.ResponseErrorType) int {
	if code, ok := statusByResponse[response]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// FetchErrorStrings drops nil errors and returns the messages of the rest.
func FetchErrorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		out = append(out, err.Error())
	}
	return out
}

// FetchErrorStack joins FetchErrorStrings with "; ".
func FetchErrorStack(errs []error) string {
	return strings.Join(FetchErrorStrings(errs), "; ")
}

// GenerateReasonCode returns NAMESPACE-code, or just the code without a namespace.
func GenerateReasonCode(namespace string, code int) string {
	if IsEmpty(namespace) {
		return strconv.Itoa(code)
	}
	return fmt.Sprintf("%s-%d", strings.ToUpper(namespace), code)
}
