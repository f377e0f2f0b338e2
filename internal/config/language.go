package config

import (
	"strings"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when neither the preferences nor the system
// name a language.
const DefaultLanguage = "en"

// NormalizeLanguage reduces a locale such as "fr_FR.UTF-8" to its base
// language code. It returns "" when s names no language.
func NormalizeLanguage(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// SystemLanguage returns the base language of the first recognized user
// locale, or "".
func SystemLanguage() string {
	locales, err := locale.GetLocales()
	if err != nil {
		return ""
	}
	for _, l := range locales {
		if lang := NormalizeLanguage(l); lang != "" {
			return lang
		}
	}
	return ""
}
