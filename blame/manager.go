package blame

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"

	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"github.com/Felo0o0/PrimeSecure/utils/types"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"gopkg.in/yaml.v3"
)

// BlameDefinition represents a blame definition.
type BlameDefinition struct {
	ReasonCode   string `json:"ReasonCode"`
	Code         string `json:"Code"`
	Message      string `json:"Message"`
	Description  string `json:"Description"`
	Component    string `json:"Component"`
	ResponseType string `json:"ResponseType"`
}

// BlameManager holds the error definitions and the translation bundle.
// Definitions are read-only after construction, so lookups are safe from any goroutine.
type BlameManager struct {
	definitions map[types.ErrorCode]*Error
	bundle      *i18n.Bundle
	language    types.LanguageTag
}

// BlameManagerOption configures a BlameManager.
type BlameManagerOption func(*blameManagerConfig)

type blameManagerConfig struct {
	language    types.LanguageTag
	locales     fs.FS
	definitions []BlameDefinition
}

// WithLanguage selects the language errors translate to.
func WithLanguage(tag string) BlameManagerOption {
	return func(c *blameManagerConfig) {
		c.language = helpers.ParseLanguageTag(tag)
	}
}

// WithLocales replaces the embedded locale files; locales must hold active.<lang>.yaml files at its root.
func WithLocales(locales fs.FS) BlameManagerOption {
	return func(c *blameManagerConfig) {
		c.locales = locales
	}
}

// WithDefinitions adds or overrides error definitions.
func WithDefinitions(defs ...BlameDefinition) BlameManagerOption {
	return func(c *blameManagerConfig) {
		c.definitions = append(c.definitions, defs...)
	}
}

// NewBlameManager builds the manager from the embedded definitions and locales.
func NewBlameManager(opts ...BlameManagerOption) (*BlameManager, error) {
	cfg := &blameManagerConfig{
		language: helpers.GetDefaultLanguageTag(),
		locales:  embeddedLocales,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	bundle := helpers.NewBundle(helpers.GetDefaultLanguageTag())
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	if err := loadLocales(bundle, cfg.locales); err != nil {
		return nil, err
	}

	var defs []BlameDefinition
	if err := json.Unmarshal(embeddedBlameData, &defs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blame definition file: %w", err)
	}
	defs = append(defs, cfg.definitions...)

	manager := &BlameManager{
		definitions: make(map[types.ErrorCode]*Error, len(defs)),
		bundle:      bundle,
		language:    cfg.language,
	}
	for index, def := range defs {
		if helpers.IsEmpty(def.ReasonCode) {
			def.ReasonCode = helpers.GenerateReasonCode(ReasonCodeNameSpace, ReasonCodeBase+index+1)
		}
		e := newError(def.ReasonCode, types.ErrorCode(def.Code), def.Message, def.Description)
		e.component = types.ComponentErrorType(def.Component)
		e.responseType = types.ResponseErrorType(def.ResponseType)
		e.bundle, e.language = bundle, cfg.language
		manager.definitions[e.errCode] = e
	}
	return manager, nil
}

// loadLocales parses every active.*.yaml file at the root of locales into the bundle.
func loadLocales(bundle *i18n.Bundle, locales fs.FS) error {
	if locales == nil {
		return nil
	}
	files, err := fs.Glob(locales, "active.*.yaml")
	if err != nil {
		return fmt.Errorf("failed to list locale files: %w", err)
	}
	for _, file := range files {
		data, err := fs.ReadFile(locales, file)
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", file, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, path.Base(file)); err != nil {
			return fmt.Errorf("failed to parse locale file %s: %w", file, err)
		}
	}
	return nil
}

// FetchBlameForError returns a fresh copy of the definition decorated with the options.
// Unknown codes yield a bare error that still carries the fields and causes.
func (bm *BlameManager) FetchBlameForError(errorCode types.ErrorCode, opts ...Option) Blame {
	def, ok := bm.definitions[errorCode]
	if !ok {
		def = newError("", errorCode, "", "")
		def.bundle, def.language = bm.bundle, bm.language
	}
	return def.instance(opts...)
}

// Language returns the language errors from this manager translate to.
func (bm *BlameManager) Language() types.LanguageTag {
	return bm.language
}

// Bundle returns the shared translation bundle.
func (bm *BlameManager) Bundle() *i18n.Bundle {
	return bm.bundle
}
