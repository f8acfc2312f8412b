package log

import (
	"fmt"

	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field constructors, so callers never import zap directly.
var (
	String   = zap.String
	Int      = zap.Int
	Ints     = zap.Ints
	Bool     = zap.Bool
	Duration = zap.Duration
	Any      = zap.Any
	Err      = zap.Error
)

// Stringer defers String() until the entry is written.
func Stringer(key string, value fmt.Stringer) types.Field {
	return zap.Stringer(key, value)
}

// Blame logs b as an object with its code, reason, message and causes.
func Blame(b blame.Blame) types.Field {
	if b == nil {
		return zap.Skip()
	}
	return zap.Object("blame", blameObject{b})
}

type blameObject struct{ blame.Blame }

func (o blameObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("code", o.FetchErrCode().String())
	enc.AddString("reason", o.FetchReasonCode())
	enc.AddString("message", o.FetchMessage())
	causes := o.FetchCauses()
	if len(causes) == 0 {
		return nil
	}
	return enc.AddArray("causes", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for _, c := range causes {
			if c == nil {
				arr.AppendString("<nil>")
				continue
			}
			arr.AppendString(c.Error())
		}
		return nil
	}))
}

