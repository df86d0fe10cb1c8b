package config

import (
	"testing"
	"time"
)

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"all empty", []string{"", "   "}, ""},
		{"first non empty", []string{"foo", "bar"}, "foo"},
		{"skips whitespace", []string{"   ", "bar"}, "bar"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := firstNonEmpty(tt.values...); got != tt.want {
				t.Fatalf("firstNonEmpty(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestParseIntWithDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		def   int
		want  int
	}{
		{"blank returns default", "", 7, 7},
		{"invalid returns default", "abc", 3, 3},
		{"valid parses value", "42", 0, 42},
		{"trims whitespace", " 42 ", 0, 42},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseIntWithDefault(tt.value, tt.def); got != tt.want {
				t.Fatalf("parseIntWithDefault(%q, %d) = %d, want %d", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestParseDurationWithDefault(t *testing.T) {
	t.Parallel()

	if got := parseDurationWithDefault("", time.Hour); got != time.Hour {
		t.Fatalf("blank duration = %v, want %v", got, time.Hour)
	}
	if got := parseDurationWithDefault("90m", 0); got != 90*time.Minute {
		t.Fatalf("parsed duration = %v, want %v", got, 90*time.Minute)
	}
	if got := parseDurationWithDefault("never", time.Minute); got != time.Minute {
		t.Fatalf("invalid duration = %v, want fallback %v", got, time.Minute)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr == "" {
		t.Fatal("expected a default server address")
	}
	if cfg.Session.Lifetime <= 0 {
		t.Fatal("expected a positive session lifetime")
	}
	if cfg.Session.CookieName == "" {
		t.Fatal("expected a default session cookie name")
	}
}
