package blame

import (
	"maps"

	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap/zapcore"
)

// ErrorResponse is the serialisable form of a Blame.
type ErrorResponse struct {
	ReasonCode   string                   `json:"reason_code,omitempty"`
	ErrorCode    types.ErrorCode          `json:"error_code,omitempty"`
	Message      string                   `json:"message,omitempty"`
	Description  string                   `json:"description,omitempty"`
	Fields       map[string]any           `json:"fields,omitempty"`
	Component    types.ComponentErrorType `json:"component,omitempty"`
	ResponseType types.ResponseErrorType  `json:"response_type,omitempty"`
	Causes       []string                 `json:"causes,omitempty"`
}

// ResponseOption adjusts an ErrorResponse as it is built.
type ResponseOption func(*ErrorResponse, Blame)

// WithTranslation uses the translated message and description.
func WithTranslation() ResponseOption {
	return func(r *ErrorResponse, b Blame) {
		r.Message, r.Description = b.Translate()
	}
}

// WithTranslationTo translates into language without changing the error.
func WithTranslationTo(language types.LanguageTag) ResponseOption {
	return func(r *ErrorResponse, b Blame) {
		e, ok := b.(*Error)
		if !ok {
			r.Message, r.Description = b.Translate()
			return
		}
		c := *e
		c.language = language
		r.Message, r.Description = c.Translate()
	}
}

// WithCustomField adds a field to the response only.
func WithCustomField(key string, value any) ResponseOption {
	return func(r *ErrorResponse, _ Blame) {
		if r.Fields == nil {
			r.Fields = map[string]any{}
		}
		r.Fields[key] = value
	}
}

func (e *Error) FetchErrorResponse(opts ...ResponseOption) ErrorResponse {
	r := ErrorResponse{
		ReasonCode:   e.reasonCode,
		ErrorCode:    e.errCode,
		Message:      e.render(e.message),
		Description:  e.render(e.description),
		Fields:       maps.Clone(e.fields),
		Component:    e.component,
		ResponseType: e.responseType,
		Causes:       helpers.FetchErrorStrings(e.causes),
	}
	for _, opt := range opts {
		opt(&r, e)
	}
	return r
}

// Translate looks the code up in the bundle. The description is stored
// under "<code>.description".
func (e *Error) Translate() (string, string) {
	message, description := e.render(e.message), e.render(e.description)
	if e.bundle == nil || e.language.IsEmpty() {
		return message, description
	}

	loc := i18n.NewLocalizer(e.bundle, e.language.String())
	localize := func(id, fallback string) string {
		out, err := loc.Localize(&i18n.LocalizeConfig{
			DefaultMessage: &i18n.Message{ID: id, Other: fallback},
			TemplateData:   e.fields,
		})
		if err != nil {
			helpers.Println(zapcore.WarnLevel, "blame: cannot localize ", id, ": ", err)
			return fallback
		}
		return out
	}
	return localize(e.errCode.String(), message), localize(e.errCode.String()+".description", description)
}
