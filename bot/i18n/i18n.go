// Package i18n serves interface texts for the supported languages.
//
// Language codes follow the bot's wire format (ru_ru, en_us). Texts live in
// embedded go-i18n TOML files named after the matching BCP 47 tag.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/m3rciful/coinbot/core/logger"
)

//go:embed locales/*.toml
var localesFS embed.FS

// Language codes accepted in callbacks and /getcrypto.
const (
	Russian = "ru_ru"
	English = "en_us"
)

// DefaultCode is used for chats that never picked a language.
const DefaultCode = Russian

type locale struct {
	code string
	tag  language.Tag
}

var locales = []locale{
	{code: Russian, tag: language.MustParse("ru-RU")},
	{code: English, tag: language.AmericanEnglish},
}

// Store resolves (language, key) pairs to texts.
type Store struct {
	bundle     *goi18n.Bundle
	localizers map[string]*goi18n.Localizer
	tags       map[string]string
	def        string
}

// New loads every embedded locale. defaultCode is what Resolve falls back
// to; an empty value selects DefaultCode.
func New(defaultCode string) (*Store, error) {
	if defaultCode == "" {
		defaultCode = DefaultCode
	}
	defaultCode = strings.ToLower(strings.TrimSpace(defaultCode))

	bundle := goi18n.NewBundle(locales[0].tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	s := &Store{
		bundle:     bundle,
		localizers: make(map[string]*goi18n.Localizer, len(locales)),
		tags:       make(map[string]string, len(locales)),
		def:        defaultCode,
	}
	for _, l := range locales {
		filename := fmt.Sprintf("locales/active.%s.toml", l.tag)
		data, err := localesFS.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("read locale file %s: %w", filename, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, filename); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", filename, err)
		}
		s.localizers[l.code] = goi18n.NewLocalizer(bundle, l.tag.String())
		s.tags[l.code] = l.tag.String()
	}
	if !s.Has(defaultCode) {
		return nil, fmt.Errorf("unsupported default language %q", defaultCode)
	}
	return s, nil
}

// Codes lists supported language codes in menu order.
func (s *Store) Codes() []string {
	out := make([]string, len(locales))
	for i, l := range locales {
		out[i] = l.code
	}
	return out
}

// Has reports whether code is a supported language.
func (s *Store) Has(code string) bool {
	_, ok := s.localizers[code]
	return ok
}

// Default is the fallback language code.
func (s *Store) Default() string {
	return s.def
}

// Resolve maps an empty or unknown code to the default language.
func (s *Store) Resolve(code string) string {
	if s.Has(code) {
		return code
	}
	return s.def
}

// Name is the language's own display name.
func (s *Store) Name(code string) string {
	return s.T(code, KeyLanguageName)
}

// Lookup returns the text for key in exactly the given language. It never
// falls back to another language.
func (s *Store) Lookup(code, key string) (string, bool) {
	loc, ok := s.localizers[code]
	if !ok {
		return "", false
	}
	msg, tag, err := loc.LocalizeWithTag(&goi18n.LocalizeConfig{MessageID: key})
	if err != nil || tag.String() != s.tags[code] {
		return "", false
	}
	return msg, true
}

// T returns the text for key, or the key itself when the language or the key
// is unknown.
func (s *Store) T(code, key string) string {
	return s.Text(context.Background(), code, key)
}

// Text is T with the miss logged against ctx.
func (s *Store) Text(ctx context.Context, code, key string) string {
	if msg, ok := s.Lookup(code, key); ok {
		return msg
	}
	logger.Debug(ctx, logger.CompI18n, "text.missing",
		slog.String("lang", code),
		slog.String("key", key),
	)
	return key
}
