package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DUBBER_URL", "")
	t.Setenv("DUBBER_TARGET_LANGUAGE", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "")
	t.Setenv("DUBBER_DEBUG", "")

	cfg := Load()

	if cfg.ServiceURL != "http://localhost:5000" {
		t.Errorf("Unexpected service url %s", cfg.ServiceURL)
	}
	if cfg.TargetLanguage != "hi" {
		t.Errorf("Unexpected target language %s", cfg.TargetLanguage)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("Expected no timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.Debug {
		t.Error("Expected debug off")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DUBBER_URL", "https://dub.example.com")
	t.Setenv("DUBBER_TARGET_LANGUAGE", "ta")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")
	t.Setenv("DUBBER_DEBUG", "1")

	cfg := Load()

	if cfg.ServiceURL != "https://dub.example.com" || cfg.TargetLanguage != "ta" {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", cfg.RequestTimeout)
	}
	if !cfg.Debug {
		t.Error("Expected debug on")
	}
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "soon")

	if cfg := Load(); cfg.RequestTimeout != 0 {
		t.Errorf("Expected fallback timeout, got %s", cfg.RequestTimeout)
	}
}
