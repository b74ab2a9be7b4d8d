package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "GEMINI_MODEL", "ACCESS_TOKEN_TTL", "BCRYPT_COST"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %s", cfg.Env)
	}
	if cfg.Port != "8000" {
		t.Fatalf("expected port 8000, got %s", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected model %s", cfg.GeminiModel)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Fatalf("unexpected access ttl %s", cfg.AccessTokenTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("unexpected bcrypt cost %d", cfg.BcryptCost)
	}
	if !cfg.IsDevLike() {
		t.Fatalf("expected dev-like env")
	}
}

func TestLoadReadsDotEnvWithoutOverridingEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "GEMINI_MODEL=gemini-from-file\nPORT=9999\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("PORT", "7000")
	os.Unsetenv("GEMINI_MODEL")

	cfg := Load()
	if cfg.GeminiModel != "gemini-from-file" {
		t.Fatalf("expected model from .env, got %s", cfg.GeminiModel)
	}
	if cfg.Port != "7000" {
		t.Fatalf("expected env var to win, got %s", cfg.Port)
	}
}

func TestNormalizeEnv(t *testing.T) {
	cases := map[string]string{
		"prod":        "production",
		"Production":  "production",
		"staging":     "staging",
		"":            "dev",
		"development": "dev",
		"local":       "local",
	}
	for in, want := range cases {
		if got := normalizeEnv(in); got != want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_TTL", "soon")
	if got := getDuration("REFRESH_TOKEN_TTL", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
}
