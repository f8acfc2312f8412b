package blame

import (
	"github.com/Felo0o0/PrimeSecure/utils/types"
)

const (
	ReasonCodeNameSpace = "PRIME"
	ReasonCodeBase      = 100000
)

// Error identifiers
const (
	ErrorInvalidRange        types.ErrorCode = "error-invalid-range"
	ErrorInvalidWorkerCount  types.ErrorCode = "error-invalid-worker-count"
	ErrorBatchCancelled      types.ErrorCode = "error-batch-cancelled"
	ErrorPartialFailure      types.ErrorCode = "error-partial-failure"
	ErrorItemMalformed       types.ErrorCode = "error-item-malformed"
	ErrorIOFailure           types.ErrorCode = "error-io-failure"
	ErrorKeyNotPrime         types.ErrorCode = "error-key-not-prime"
	ErrorNoPrimeInRange      types.ErrorCode = "error-no-prime-in-range"
	ErrorKeyringEmpty        types.ErrorCode = "error-keyring-empty"
	ErrorKeyringStoreFailed  types.ErrorCode = "error-keyring-store-failed"
	ErrorMessageInvalid      types.ErrorCode = "error-message-invalid"
	ErrorMarshalFailed       types.ErrorCode = "error-marshal-failed"
	ErrorUnmarshalFailed     types.ErrorCode = "error-unmarshal-failed"
	ErrorUnsupportedFormat   types.ErrorCode = "error-unsupported-format"
	ErrorConfigLoadFailure   types.ErrorCode = "error-config-load-failure"
	ErrorRequestBodyInvalid  types.ErrorCode = "error-request-body-invalid"
	ErrorInternalServerError types.ErrorCode = "error-internal-server-error"
	ErrorUnknownOperation    types.ErrorCode = "error-unknown-operation"
	ErrorTooManyRequests     types.ErrorCode = "error-too-many-requests"
	ErrorEventPublishFailed  types.ErrorCode = "error-event-publish-failed"
)
