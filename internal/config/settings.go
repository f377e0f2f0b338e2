package config

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dshills/shortcuts/internal/config/loader"
)

// Well-known sections and keys.
const (
	SectionLanguage = "language"
	KeyLanguage     = "language"

	// SectionAssets lists action asset files. Files are loaded in key order.
	SectionAssets = "action_assets"

	// SectionMutations lists action ID mutation files.
	SectionMutations = "action_id_mutations"

	SectionDebug = "debug"
	KeyDebug     = "enabled"

	SectionLogging = "logging"
	KeyLogLevel    = "level"
)

// Language returns the configured language. Without a setting, the
// system language is used, then DefaultLanguage.
func (p *Prefs) Language() string {
	if v, ok := p.Value(SectionLanguage, KeyLanguage, false); ok {
		if lang := NormalizeLanguage(v); lang != "" {
			return lang
		}
		p.log.WithField("language", v).Warn("unrecognized language setting")
	}
	if lang := SystemLanguage(); lang != "" {
		return lang
	}
	return DefaultLanguage
}

// SetLanguage stores the language in the user layer.
func (p *Prefs) SetLanguage(lang string) error {
	return p.SetValue(SectionLanguage, KeyLanguage, lang)
}

// AssetFiles returns the asset file paths, ordered by key, with
// environment variables expanded.
func (p *Prefs) AssetFiles(defaultOnly bool) []string {
	return orderedPaths(p.Section(SectionAssets, defaultOnly))
}

// MutationFiles returns the action ID mutation file paths, ordered by key.
func (p *Prefs) MutationFiles(defaultOnly bool) []string {
	return orderedPaths(p.Section(SectionMutations, defaultOnly))
}

// Debug reports whether debug output is enabled.
func (p *Prefs) Debug() bool {
	v, _ := p.Value(SectionDebug, KeyDebug, false)
	return loader.ParseBool(v, false)
}

// LogLevel returns the configured log level, or info.
func (p *Prefs) LogLevel() logrus.Level {
	if p.Debug() {
		return logrus.DebugLevel
	}
	v, ok := p.Value(SectionLogging, KeyLogLevel, false)
	if !ok {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(v)
	if err != nil {
		p.log.WithField("level", v).Warn("unrecognized log level")
		return logrus.InfoLevel
	}
	return level
}

func orderedPaths(section map[string]string) []string {
	keys := make([]string, 0, len(section))
	for k := range section {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	paths := make([]string, 0, len(keys))
	for _, k := range keys {
		if section[k] == "" {
			continue
		}
		paths = append(paths, loader.ExpandPath(section[k]))
	}
	return paths
}
