// Package codec encodes and decodes values in the formats the archive and
// the CLI support.
package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"io"
	"strings"

	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

const (
	JSON        types.CodecType = "json"
	YAML        types.CodecType = "yaml"
	Gob         types.CodecType = "gob"
	MessagePack types.CodecType = "msgpack"
)

// Supported lists the formats Encode and Decode understand.
var Supported = []types.CodecType{MessagePack, JSON, YAML, Gob}

type encoder interface{ Encode(v any) error }
type decoder interface{ Decode(v any) error }

type format struct {
	encoder func(io.Writer) encoder
	decoder func(io.Reader) decoder
	// flush is called after a successful encode for streaming encoders.
	flush func(encoder) error
}

var formats = map[types.CodecType]format{
	JSON: {
		encoder: func(w io.Writer) encoder {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc
		},
		decoder: func(r io.Reader) decoder { return json.NewDecoder(r) },
	},
	YAML: {
		encoder: func(w io.Writer) encoder {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			return enc
		},
		decoder: func(r io.Reader) decoder { return yaml.NewDecoder(r) },
		flush:   func(e encoder) error { return e.(*yaml.Encoder).Close() },
	},
	Gob: {
		encoder: func(w io.Writer) encoder { return gob.NewEncoder(w) },
		decoder: func(r io.Reader) decoder { return gob.NewDecoder(r) },
	},
	MessagePack: {
		encoder: func(w io.Writer) encoder { return msgpack.NewEncoder(w) },
		decoder: func(r io.Reader) decoder { return msgpack.NewDecoder(r) },
	},
}

// Parse maps a format name (any case, "yml" accepted) to a codec type.
func Parse(name string) (types.CodecType, error) {
	ct := types.CodecType(strings.ToLower(strings.TrimSpace(name)))
	if ct == "yml" {
		ct = YAML
	}
	if _, ok := formats[ct]; !ok {
		return "", blame.UnsupportedFormatError(name)
	}
	return ct, nil
}

// EncodeTo writes data to w in the given format.
func EncodeTo[T any](w io.Writer, data T, ct types.CodecType) error {
	f, ok := formats[ct]
	if !ok {
		return blame.UnsupportedFormatError(ct.String())
	}
	enc := f.encoder(w)
	err := enc.Encode(data)
	if err == nil && f.flush != nil {
		err = f.flush(enc)
	}
	if err != nil {
		return blame.MarshalError(ct, err)
	}
	return nil
}

// DecodeFrom reads one value of type T from r in the given format.
func DecodeFrom[T any](r io.Reader, ct types.CodecType) (T, error) {
	var out T
	f, ok := formats[ct]
	if !ok {
		return out, blame.UnsupportedFormatError(ct.String())
	}
	if err := f.decoder(r).Decode(&out); err != nil {
		var zero T
		return zero, blame.UnMarshalError(ct, err)
	}
	return out, nil
}

// Encode is EncodeTo into a byte slice.
func Encode[T any](data T, ct types.CodecType) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, data, ct); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode is DecodeFrom over a byte slice.
func Decode[T any](data []byte, ct types.CodecType) (T, error) {
	return DecodeFrom[T](bytes.NewReader(data), ct)
}
