package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "matchfinder-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty DBURL by default, got %q", cfg.DBURL)
	}
	if cfg.GeminiEnabled {
		t.Fatalf("expected GeminiEnabled=false without an api key")
	}
	if cfg.FindMatchPerMinute != 20 || cfg.ModelCallPerMinute != 10 {
		t.Fatalf("unexpected rate limits: %d/%d", cfg.FindMatchPerMinute, cfg.ModelCallPerMinute)
	}
	if cfg.GeminiTimeout != 10*time.Second {
		t.Fatalf("unexpected GeminiTimeout: %s", cfg.GeminiTimeout)
	}
	if cfg.AuthCacheTTL != time.Minute {
		t.Fatalf("unexpected AuthCacheTTL: %s", cfg.AuthCacheTTL)
	}
}

func TestLoad_GeminiKeyImpliesEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("GEMINI_API_KEY", "key-abc")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.GeminiEnabled {
		t.Fatalf("expected GeminiEnabled=true when GEMINI_API_KEY is set")
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Fatalf("unexpected GeminiModel: %q", cfg.GeminiModel)
	}
}

func TestLoad_GeminiEnabledRequiresKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("GEMINI_ENABLED", "true")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when GEMINI_ENABLED=true without GEMINI_API_KEY")
	}
}

func TestLoad_RateLimitValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RATE_LIMIT_FIND_MATCH_PER_MINUTE", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero find-match rate limit")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/project"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/project" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}
