package app

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level logrus.Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is added to every entry as the "app" field.
	Prefix string
	// JSON selects the JSON formatter instead of text.
	JSON bool
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  logrus.InfoLevel,
		Output: os.Stderr,
		Prefix: "shortcuts",
	}
}

// NewLogger creates a logger with the given configuration.
func NewLogger(cfg LoggerConfig) *logrus.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	log := logrus.New()
	log.SetOutput(cfg.Output)
	log.SetLevel(cfg.Level)
	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000",
			DisableColors:   true,
		})
	}
	if cfg.Prefix != "" {
		log.AddHook(&prefixHook{prefix: cfg.Prefix})
	}
	return log
}

// ParseLogLevel parses a level name. Unknown names yield info.
func ParseLogLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(log logrus.FieldLogger, component string) *logrus.Entry {
	return log.WithField("component", component)
}

// prefixHook tags every entry with the application name.
type prefixHook struct {
	prefix string
}

func (h *prefixHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *prefixHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["app"]; !ok {
		e.Data["app"] = h.prefix
	}
	return nil
}
