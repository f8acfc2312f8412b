package types

import "golang.org/x/text/language"

// EmptyCheck is implemented by values that define their own emptiness.
type EmptyCheck interface {
	IsEmpty() bool
}

// LanguageTag is a language.Tag that satisfies EmptyCheck.
type LanguageTag language.Tag

// Tag returns the underlying language.Tag.
func (l LanguageTag) Tag() language.Tag {
	return language.Tag(l)
}

// IsEmpty reports whether l is the zero tag.
func (l LanguageTag) IsEmpty() bool {
	return l == LanguageTag{}
}

func (l LanguageTag) String() string {
	return l.Tag().String()
}
