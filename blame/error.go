package blame

import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"

	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// Error is the Blame implementation.
type Error struct {
	reasonCode   string
	errCode      types.ErrorCode
	component    types.ComponentErrorType
	responseType types.ResponseErrorType
	message      string
	description  string
	fields       map[string]any
	causes       []error
	source       string
	bundle       *i18n.Bundle
	language     types.LanguageTag
}

var _ Blame = (*Error)(nil)

func newError(reasonCode string, code types.ErrorCode, message, description string) *Error {
	if reasonCode == "" {
		reasonCode = code.String()
	}
	return &Error{
		reasonCode:  reasonCode,
		errCode:     code,
		message:     message,
		description: description,
		fields:      map[string]any{},
		language:    helpers.GetDefaultLanguageTag(),
		source:      callerSource(3),
	}
}

func (e *Error) FetchReasonCode() string                    { return e.reasonCode }
func (e *Error) FetchErrCode() types.ErrorCode              { return e.errCode }
func (e *Error) FetchMessage() string                       { return e.message }
func (e *Error) FetchDescription() string                   { return e.description }
func (e *Error) FetchFields() map[string]any                { return e.fields }
func (e *Error) FetchSource() string                        { return e.source }
func (e *Error) FetchComponent() types.ComponentErrorType   { return e.component }
func (e *Error) FetchResponseType() types.ResponseErrorType { return e.responseType }
func (e *Error) FetchCauses() []error                       { return e.causes }
func (e *Error) Unwrap() []error                            { return e.causes }

// Error is "code: rendered message (causes: a; b)".
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.errCode.String())
	if msg := e.render(e.message); msg != "" {
		sb.WriteString(": " + msg)
	}
	if len(e.causes) > 0 {
		sb.WriteString(" (causes: " + helpers.FetchErrorStack(e.causes) + ")")
	}
	return sb.String()
}

// Is matches any target carrying the same error code.
func (e *Error) Is(target error) bool {
	coded, ok := target.(interface{ FetchErrCode() types.ErrorCode })
	return ok && coded.FetchErrCode() == e.errCode
}

// instance copies a definition so fields and causes can be added to the copy.
func (e *Error) instance(opts ...Option) *Error {
	d := decoration{fields: map[string]any{}}
	for _, opt := range opts {
		opt(&d)
	}
	c := *e
	c.fields = maps.Clone(e.fields)
	if c.fields == nil {
		c.fields = map[string]any{}
	}
	maps.Copy(c.fields, d.fields)
	c.causes = append(slices.Clone(e.causes), d.causes...)
	c.source = callerSource(4)
	return &c
}

// render fills {{.field}} placeholders without a template engine, so a
// bad placeholder never hides the error itself.
func (e *Error) render(text string) string {
	for key, value := range e.fields {
		text = strings.ReplaceAll(text, "{{."+key+"}}", fmt.Sprint(value))
	}
	return text
}

func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file[strings.LastIndex(file, "/")+1:], line)
}

// Option decorates an error instance with template fields and causes.
type Option func(*decoration)

type decoration struct {
	fields map[string]any
	causes []error
}

// WithField sets one template field.
func WithField(key string, value any) Option {
	return func(d *decoration) { d.fields[key] = value }
}

// WithFields sets several template fields.
func WithFields(fields map[string]any) Option {
	return func(d *decoration) { maps.Copy(d.fields, fields) }
}

// WithCauses appends the non-nil causes.
func WithCauses(causes ...error) Option {
	return func(d *decoration) {
		for _, c := range causes {
			if c != nil {
				d.causes = append(d.causes, c)
			}
		}
	}
}
