package loader

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// EnvLoader reads preference overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "SHORTCUTS_")
	mapping map[string]string // Env var -> "section.key"
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "SHORTCUTS_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
	}
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LANGUAGE":  "language.language",
		prefix + "DEBUG":     "debug.enabled",
		prefix + "USER_FILE": "paths.user",
		prefix + "LOG_LEVEL": "logging.level",
	}
}

// Load reads the mapped environment variables into Sections.
// Empty values are treated as set, not as unset.
func (l *EnvLoader) Load() Sections {
	out := make(Sections)
	for env, path := range l.mapping {
		val, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		section, key, found := strings.Cut(path, ".")
		if !found {
			continue
		}
		if out[section] == nil {
			out[section] = make(map[string]string)
		}
		out[section][key] = val
	}
	return out
}

// Bool reads a mapped boolean variable. Unset or unparsable values yield def.
func (l *EnvLoader) Bool(name string, def bool) bool {
	val, ok := os.LookupEnv(l.prefix + name)
	if !ok {
		return def
	}
	return ParseBool(val, def)
}

// ParseBool parses yes/no style booleans. Unparsable values yield def.
func ParseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return def
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, path string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = path
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

var (
	bashVarPattern       = regexp.MustCompile(`\$\{([^}]+)\}`)
	powerShellVarPattern = regexp.MustCompile(`%([^%]+)%`)
)

// SubstituteVars replaces ${VAR} and %VAR% references with the values of
// the named environment variables. Unset variables expand to "".
func SubstituteVars(s string) string {
	s = bashVarPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(m[2 : len(m)-1])
	})
	return powerShellVarPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(m[1 : len(m)-1])
	})
}

// ExpandPath substitutes environment variables and expands a leading ~.
func ExpandPath(path string) string {
	path = SubstituteVars(path)
	if expanded, err := homedir.Expand(path); err == nil {
		return expanded
	}
	return path
}
