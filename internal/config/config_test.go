package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.FormsEndpoint == "" {
		t.Error("expected a default forms endpoint")
	}
	if cfg.GeminiModelID != "gemini-3-flash-preview" {
		t.Errorf("unexpected default model: %s", cfg.GeminiModelID)
	}
	if cfg.GreetingDelay != 5*time.Second {
		t.Errorf("expected 5s greeting delay, got %s", cfg.GreetingDelay)
	}
	if cfg.PurchaseHandoffWait != 1500*time.Millisecond {
		t.Errorf("expected 1.5s purchase handoff wait, got %s", cfg.PurchaseHandoffWait)
	}
	if cfg.ChatIdleTTL != 30*time.Minute {
		t.Errorf("expected 30m chat idle TTL, got %s", cfg.ChatIdleTTL)
	}
	if cfg.WhatsAppNumber == "" {
		t.Error("expected a default WhatsApp number")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("GEMINI_TEMPERATURE", "0.2")
	t.Setenv("USE_MEMORY_QUEUE", "false")
	t.Setenv("GREETING_DELAY", "10s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://solargear.co.ke, https://www.solargear.co.ke")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Port)
	}
	if cfg.GeminiTemperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %f", cfg.GeminiTemperature)
	}
	if cfg.UseMemoryQueue {
		t.Error("expected USE_MEMORY_QUEUE=false to disable memory queue")
	}
	if cfg.GreetingDelay != 10*time.Second {
		t.Errorf("expected 10s greeting delay, got %s", cfg.GreetingDelay)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://www.solargear.co.ke" {
		t.Errorf("origins not trimmed: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("GEMINI_TEMPERATURE", "hot")
	t.Setenv("GREETING_DELAY", "soon")

	cfg := Load()

	if cfg.GeminiTemperature != 0.7 {
		t.Errorf("expected fallback temperature 0.7, got %f", cfg.GeminiTemperature)
	}
	if cfg.GreetingDelay != 5*time.Second {
		t.Errorf("expected fallback greeting delay, got %s", cfg.GreetingDelay)
	}
}
