package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != 8000 {
		t.Fatalf("port = %d", cfg.ServerPort)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("session ttl = %v", cfg.SessionTTL)
	}
	if cfg.MaxImageBytes != 8388608 {
		t.Fatalf("max image bytes = %d", cfg.MaxImageBytes)
	}
	if cfg.GeminiModel == "" || cfg.GeminiEndpoint == "" {
		t.Fatalf("gemini defaults missing: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("GEMINI_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != 9090 || cfg.SessionTTL != 30*time.Minute || cfg.GeminiAPIKey != "k" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}

	t.Setenv("PORT", "8000")
	t.Setenv("SESSION_TTL", "sometimes")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SESSION_TTL")
	}
}
