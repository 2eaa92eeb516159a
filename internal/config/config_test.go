package config

import (
	"testing"
	"time"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Addr)
	}
}

func TestLoadServerConfigFullAddr(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")

	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Fatalf("expected full addr preserved, got %s", cfg.Addr)
	}
}

func TestLoadServerConfigInvalid(t *testing.T) {
	t.Setenv("PORT", "80 80")

	if _, err := loadServerConfig(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestLoadAIConfigDefaults(t *testing.T) {
	t.Setenv("LLM_MODEL_NAME", "doubao-lite")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_TEMPERATURE", "")
	t.Setenv("ARK_MAX_TOKENS", "")
	t.Setenv("AI_REQUEST_TIMEOUT_SECONDS", "")

	cfg, err := loadAIConfig()
	if err != nil {
		t.Fatalf("loadAIConfig err: %v", err)
	}
	if cfg.Temperature != 1.0 {
		t.Fatalf("expected default temperature 1.0, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 500 {
		t.Fatalf("expected default max tokens 500, got %d", cfg.MaxTokens)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Fatalf("expected default timeout 60s, got %v", cfg.RequestTimeout)
	}
	if !cfg.Enabled() {
		t.Fatal("expected config with model and key to be enabled")
	}
}

func TestLoadAIConfigOverrides(t *testing.T) {
	t.Setenv("LLM_MODEL_NAME", "doubao-lite")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_TEMPERATURE", "0.3")
	t.Setenv("ARK_MAX_TOKENS", "1024")
	t.Setenv("AI_REQUEST_TIMEOUT_SECONDS", "15")

	cfg, err := loadAIConfig()
	if err != nil {
		t.Fatalf("loadAIConfig err: %v", err)
	}
	if cfg.Temperature != 0.3 || cfg.MaxTokens != 1024 || cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadAIConfigInvalidTemperature(t *testing.T) {
	t.Setenv("ARK_TEMPERATURE", "warm")

	if _, err := loadAIConfig(); err == nil {
		t.Fatal("expected error for invalid ARK_TEMPERATURE")
	}
}

func TestAIConfigDisabledWithoutCredentials(t *testing.T) {
	cfg := AIConfig{Model: "doubao-lite"}
	if cfg.Enabled() {
		t.Fatal("expected config without credentials to be disabled")
	}

	cfg = AIConfig{APIKey: "key"}
	if cfg.Enabled() {
		t.Fatal("expected config without model name to be disabled")
	}
}

func TestLoadCORSConfig(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := loadCORSConfig()
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected default origins, got %v", cfg.AllowedOrigins)
	}

	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	cfg = loadCORSConfig()
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origin list not parsed: %v", cfg.AllowedOrigins)
	}
}

func TestLoadStoreConfig(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_DATABASE", "")

	cfg := loadStoreConfig()
	if cfg.Enabled() {
		t.Fatal("expected store disabled without MONGO_URI")
	}
	if cfg.Database != "chat_bot" {
		t.Fatalf("expected default database chat_bot, got %s", cfg.Database)
	}
}
