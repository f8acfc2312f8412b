// Package archive exports and imports messages as binary, structured text,
// human-readable reports and CSV batches.
package archive

import (
	"io"
	"time"

	"github.com/Felo0o0/PrimeSecure/message"
	"github.com/Felo0o0/PrimeSecure/utils/codec"
	"github.com/Felo0o0/PrimeSecure/utils/types"
)

// FormatVersion is written into every archive envelope.
const FormatVersion = 1

// DefaultFormat is used when no format is configured.
const DefaultFormat = codec.MessagePack

// Envelope is the archived document.
type Envelope struct {
	Version    int                `json:"version" yaml:"version" msgpack:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at" msgpack:"exported_at"`
	Messages   []*message.Message `json:"messages" yaml:"messages" msgpack:"messages"`
}

// Export writes msgs to w in format.
func Export(w io.Writer, msgs []*message.Message, format types.CodecType) error {
	env := Envelope{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Messages:   msgs,
	}
	return codec.EncodeTo(w, env, format)
}

// Import reads messages previously written by Export in the same format.
func Import(r io.Reader, format types.CodecType) ([]*message.Message, error) {
	env, err := codec.DecodeFrom[Envelope](r, format)
	if err != nil {
		return nil, err
	}
	return env.Messages, nil
}
