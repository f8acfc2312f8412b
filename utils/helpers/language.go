package helpers

import (
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// GetDefaultLanguageTag is English.
func GetDefaultLanguageTag() types.LanguageTag {
	return types.LanguageTag(language.English)
}

// ParseLanguageTag parses tag, falling back to the default on empty or bad input.
func ParseLanguageTag(tag string) types.LanguageTag {
	parsed, err := language.Parse(tag)
	if tag == "" || err != nil {
		return GetDefaultLanguageTag()
	}
	return types.LanguageTag(parsed)
}

// NewBundle creates an i18n bundle whose default language is lang.
func NewBundle(lang types.LanguageTag) *i18n.Bundle {
	if lang.IsEmpty() {
		lang = GetDefaultLanguageTag()
	}
	return i18n.NewBundle(lang.Tag())
}
