package constant

import "github.com/Felo0o0/PrimeSecure/utils/types"

// These are ComponentErrorType constant
const (
	ErrPartition types.ComponentErrorType = "partition"
	ErrScanner   types.ComponentErrorType = "scanner"
	ErrBatch     types.ComponentErrorType = "batch"
	ErrCipher    types.ComponentErrorType = "cipher"
	ErrKeyring   types.ComponentErrorType = "keyring"
	ErrArchive   types.ComponentErrorType = "archive"
	ErrConfig    types.ComponentErrorType = "config"
	ErrHTTP      types.ComponentErrorType = "http"
	ErrEvents    types.ComponentErrorType = "events"
	ErrLibrary   types.ComponentErrorType = "library"
)

// These are generic request error constant
const (
	BadRequest     types.ResponseErrorType = "BadRequest"
	NotFound       types.ResponseErrorType = "NotFound"
	Conflict       types.ResponseErrorType = "Conflict"
	Unavailable    types.ResponseErrorType = "Unavailable"
	TooMany        types.ResponseErrorType = "TooManyRequests"
	InternalServer types.ResponseErrorType = "InternalServerError"
)
