// Package blame is the error model of the module. Every failure carries a
// stable code, a reason code, a component and a response type, and its
// message can be translated through go-i18n.
package blame

import "github.com/Felo0o0/PrimeSecure/utils/types"

// Blame is a coded error. Instances are built by a BlameManager from the
// embedded definitions and are not mutated after construction.
type Blame interface {
	error

	FetchReasonCode() string
	FetchErrCode() types.ErrorCode
	FetchMessage() string
	FetchDescription() string
	FetchFields() map[string]any
	// FetchSource is the file:line that built the error.
	FetchSource() string
	FetchComponent() types.ComponentErrorType
	FetchResponseType() types.ResponseErrorType
	FetchCauses() []error

	// Translate renders message and description in the error's language,
	// falling back to the English definition.
	Translate() (message, description string)
	FetchErrorResponse(opts ...ResponseOption) ErrorResponse

	// Unwrap exposes the causes to errors.Is and errors.As.
	Unwrap() []error
}

// NewBasicBlame is an untranslated Blame holding only a code, mostly for
// matching with errors.Is.
func NewBasicBlame(errCode types.ErrorCode) Blame {
	return newError(errCode.String(), errCode, "", "")
}
