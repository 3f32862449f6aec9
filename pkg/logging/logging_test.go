package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{name: "debug", input: "debug", expected: slog.LevelDebug},
		{name: "upper case", input: "DEBUG", expected: slog.LevelDebug},
		{name: "info", input: "info", expected: slog.LevelInfo},
		{name: "warn", input: "warn", expected: slog.LevelWarn},
		{name: "warning alias", input: "warning", expected: slog.LevelWarn},
		{name: "error", input: "error", expected: slog.LevelError},
		{name: "padded", input: "  error  ", expected: slog.LevelError},
		{name: "empty defaults to info", input: "", expected: slog.LevelInfo},
		{name: "unknown defaults to info", input: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewStructuredLogger(t *testing.T) {
	logger := NewStructuredLogger("test-module", "v0.0.1", "debug")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("debug level logger should enable debug records")
	}

	logger = NewStructuredLogger("test-module", "v0.0.1", "error")
	if logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("error level logger should not enable info records")
	}
}

func TestNewStructuredLoggerEnvLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	logger := NewStructuredLogger("test-module", "v0.0.1", "")
	if logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("LOG_LEVEL=warn should suppress info records")
	}
	if !logger.Enabled(t.Context(), slog.LevelWarn) {
		t.Error("LOG_LEVEL=warn should enable warn records")
	}
}

func TestNewLogLogger(t *testing.T) {
	logger := NewLogLogger(slog.LevelInfo, false)
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
}
