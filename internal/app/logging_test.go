package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{" error ", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
		{"unknown", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: logrus.WarnLevel, Output: &buf, Prefix: "test"})

	log.Info("hidden")
	WithComponent(log, "prefs").Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry written at warn level: %s", out)
	}
	for _, want := range []string{"shown", "component=prefs", "app=test", "level=warning"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LoggerConfig{Level: logrus.InfoLevel, Output: &buf, JSON: true})
	WithComponent(log, "watcher").Info("started")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if entry["component"] != "watcher" || entry["msg"] != "started" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["app"]; ok {
		t.Error("app field set without a prefix")
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig()
	if cfg.Level != logrus.InfoLevel || cfg.Output == nil || cfg.Prefix != "shortcuts" {
		t.Errorf("unexpected default config: %+v", cfg)
	}
}
