package main

import (
	"errors"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"postgres password", "postgres://app:s3cret@db:5432/explorer", "postgres://app@db:5432/explorer"},
		{"redis password only", "redis://:s3cret@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"query key", "https://api.openweathermap.org/data/2.5/weather?appid=abc123&q=Seoul", "https://api.openweathermap.org/data/2.5/weather?appid=redacted&q=Seoul"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactURL(tt.raw); got != tt.want {
				t.Errorf("redactURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://app:s3cret@db:5432/explorer"
	err := errors.New("failed to connect to " + dsn + " (password=s3cret)")

	got := sanitizeError(err, dsn)

	if strings.Contains(got, "s3cret") {
		t.Errorf("sanitized error still contains the password: %s", got)
	}
	if !strings.Contains(got, "postgres://app@db:5432/explorer") {
		t.Errorf("expected redacted URL in message, got %s", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("DEBUG").String() != "DEBUG" {
		t.Error("expected case-insensitive debug level")
	}
	if parseLogLevel("bogus").String() != "INFO" {
		t.Error("expected info as the fallback level")
	}
}
