package blame

import (
	"embed"
	"errors"
	"io/fs"
	"sync"

	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"go.uber.org/zap/zapcore"
)

//go:embed error_definition.json
var embeddedBlameData []byte

//go:embed locales/*.yaml
var embeddedLocaleFiles embed.FS

var embeddedLocales = mustSub(embeddedLocaleFiles, "locales")

var (
	defaultManager     *BlameManager
	defaultManagerOnce sync.Once
	defaultManagerMu   sync.RWMutex
)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("blame: locales directory missing from embed: " + err.Error())
	}
	return sub
}

// getDefaultManager lazily builds the process-wide manager from the embedded files.
func getDefaultManager() *BlameManager {
	defaultManagerOnce.Do(func() {
		manager, err := NewBlameManager()
		if err != nil {
			helpers.Println(zapcore.ErrorLevel, "Error initialising blame definitions: ", err)
			manager = &BlameManager{
				definitions: map[types.ErrorCode]*Error{},
				language:    helpers.GetDefaultLanguageTag(),
			}
		}
		defaultManagerMu.Lock()
		if defaultManager == nil {
			defaultManager = manager
		}
		defaultManagerMu.Unlock()
	})
	defaultManagerMu.RLock()
	defer defaultManagerMu.RUnlock()
	return defaultManager
}

// SetDefaultManager replaces the manager used by the constructors below,
// typically to switch the translation language from configuration.
func SetDefaultManager(manager *BlameManager) {
	if manager == nil {
		return
	}
	defaultManagerOnce.Do(func() {})
	defaultManagerMu.Lock()
	defaultManager = manager
	defaultManagerMu.Unlock()
}

// codeTarget lets HasCode match any Blame with errors.Is.
type codeTarget types.ErrorCode

func (c codeTarget) Error() string                  { return string(c) }
func (c codeTarget) FetchErrCode() types.ErrorCode { return types.ErrorCode(c) }

// HasCode reports whether err or any of its causes carries the error code.
func HasCode(err error, code types.ErrorCode) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, codeTarget(code))
}

// AsBlame returns err as a Blame, wrapping foreign errors as internal errors.
func AsBlame(err error) Blame {
	if err == nil {
		return nil
	}
	var b Blame
	if errors.As(err, &b) {
		return b
	}
	return InternalServerError(err)
}

// InvalidRangeError is returned when the end of a range lies before its start.
func InvalidRangeError(start, end int) Blame {
	return getDefaultManager().FetchBlameForError(ErrorInvalidRange,
		WithField("start", start), WithField("end", end))
}

// InvalidWorkerCountError describes a clamped worker count. It is logged, not returned.
func InvalidWorkerCountError(requested, effective int) Blame {
	return getDefaultManager().FetchBlameForError(ErrorInvalidWorkerCount,
		WithField("requested", requested), WithField("effective", effective))
}

// CancelledError reports a run stopped by its context.
func CancelledError(operation types.Operation, causes ...error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorBatchCancelled,
		WithField("operation", operation.String()), WithCauses(causes...))
}

// PartialFailureError aggregates the item failures of a batch.
func PartialFailureError(failed, total int, causes ...error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorPartialFailure,
		WithField("failed", failed), WithField("total", total), WithCauses(causes...))
}

// ItemMalformedError reports a single failed work item.
func ItemMalformedError(index int, cause error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorItemMalformed,
		WithField("index", index), WithCauses(cause))
}

// IOFailureError wraps a file system error.
func IOFailureError(path string, cause error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorIOFailure,
		WithField("path", path), WithCauses(cause))
}

// KeyNotPrimeError rejects a non-prime key.
func KeyNotPrimeError(key int) Blame {
	return getDefaultManager().FetchBlameForError(ErrorKeyNotPrime, WithField("key", key))
}

// NoPrimeInRangeError is returned when no prime exists inside the bounds.
func NoPrimeInRangeError(min, max int) Blame {
	return getDefaultManager().FetchBlameForError(ErrorNoPrimeInRange,
		WithField("min", min), WithField("max", max))
}

// KeyringEmptyError is returned when a random key is requested from an empty keyring.
func KeyringEmptyError() Blame {
	return getDefaultManager().FetchBlameForError(ErrorKeyringEmpty)
}

// KeyringStoreError wraps a backend failure.
func KeyringStoreError(operation string, cause error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorKeyringStoreFailed,
		WithField("operation", operation), WithCauses(cause))
}

// MessageInvalidError carries the validator messages per field.
func MessageInvalidError(fields map[string]string) Blame {
	opts := make([]Option, 0, len(fields))
	for field, reason := range fields {
		opts = append(opts, WithField(field, reason))
	}
	return getDefaultManager().FetchBlameForError(ErrorMessageInvalid, opts...)
}

// MarshalError wraps an encoding failure.
func MarshalError(codec types.CodecType, cause error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorMarshalFailed,
		WithField("codec", codec.String()), WithCauses(cause))
}

// UnMarshalError wraps a decoding failure.
func UnMarshalError(codec types.CodecType, cause error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorUnmarshalFailed,
		WithField("codec", codec.String()), WithCauses(cause))
}

// UnsupportedFormatError rejects an unknown archive format.
func UnsupportedFormatError(format string) Blame {
	return getDefaultManager().FetchBlameForError(ErrorUnsupportedFormat, WithField("format", format))
}

// ConfigLoadError wraps configuration read, decode or validation failures.
func ConfigLoadError(cause error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorConfigLoadFailure, WithCauses(cause))
}

// RequestBodyInvalidError wraps an HTTP binding failure.
func RequestBodyInvalidError(cause error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorRequestBodyInvalid, WithCauses(cause))
}

// InternalServerError wraps an unexpected failure.
func InternalServerError(cause error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorInternalServerError, WithCauses(cause))
}

// UnknownOperationError rejects an operation name other than encrypt or decrypt.
func UnknownOperationError(operation string) Blame {
	return getDefaultManager().FetchBlameForError(ErrorUnknownOperation, WithField("operation", operation))
}

// TooManyRequestsError rejects a client over its request rate.
func TooManyRequestsError(client string) Blame {
	return getDefaultManager().FetchBlameForError(ErrorTooManyRequests, WithField("client", client))
}

// EventPublishError wraps a failed publish on the event bus.
func EventPublishError(subject string, cause error) Blame {
	return getDefaultManager().FetchBlameForError(ErrorEventPublishFailed,
		WithField("subject", subject), WithCauses(cause))
}
