// Package types declares the named string kinds shared across packages so
// that error codes, statuses and operation names cannot be mixed up.
package types

import "go.uber.org/zap"

type (
	// ErrorCode is the stable, machine readable id of a blame error.
	ErrorCode string
	// ComponentErrorType names the subsystem an error came from.
	ComponentErrorType string
	// ResponseErrorType classifies an error for transport status mapping.
	ResponseErrorType string
	// CodecType names a serialization format such as json or msgpack.
	CodecType string
	// Operation names a unit of parallel work for logs and metrics.
	Operation string
	// Backend names a keyring storage backend.
	Backend string
	// Status is the outcome of a scan, message or batch.
	Status string
)

func (e ErrorCode) String() string          { return string(e) }
func (c ComponentErrorType) String() string { return string(c) }
func (r ResponseErrorType) String() string  { return string(r) }
func (c CodecType) String() string          { return string(c) }
func (o Operation) String() string          { return string(o) }
func (b Backend) String() string            { return string(b) }
func (s Status) String() string             { return string(s) }

// Field is a structured log field.
type Field = zap.Field
