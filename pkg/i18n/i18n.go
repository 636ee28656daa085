// Package i18n holds the user-facing prompts and messages in English and Russian.
package i18n

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

const (
	English = "en"
	Russian = "ru"
)

var (
	supported = []language.Tag{language.English, language.Russian}
	codes     = []string{English, Russian}
	matcher   = language.NewMatcher(supported)
)

// Normalize maps a locale such as "ru_RU.UTF-8" or "ru-RU" to a supported language code.
func Normalize(locale string) (string, bool) {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || strings.EqualFold(locale, "C") || strings.EqualFold(locale, "POSIX") {
		return "", false
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "", false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	return codes[index], true
}

// Detect returns the language of the current user, falling back to English.
func Detect() string {
	for _, locale := range systemLocales() {
		if lang, ok := Normalize(locale); ok {
			return lang
		}
	}
	return English
}

func envLocales() []string {
	locales := []string{}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			locales = append(locales, v)
		}
	}
	return locales
}

// T returns the message for key in lang. Unknown languages use English, unknown keys are "".
func T(lang string, key string) string {
	texts, ok := messages[lang]
	if !ok {
		texts = messages[English]
	}
	return texts[key]
}

// Localizer looks up messages in one language.
type Localizer struct {
	Lang string
}

// New returns a Localizer for lang, detecting the system language when lang is empty.
func New(lang string) *Localizer {
	if lang == "" {
		lang = Detect()
	}
	return &Localizer{Lang: lang}
}

func (l *Localizer) T(key string) string {
	return T(l.Lang, key)
}

func (l *Localizer) Tf(key string, args ...interface{}) string {
	return fmt.Sprintf(T(l.Lang, key), args...)
}
