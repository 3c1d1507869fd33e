package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DOCCHAT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "3000")
	}
	if cfg.LLMProvider != ProviderOpenAI {
		t.Errorf("LLMProvider = %q, want %q", cfg.LLMProvider, ProviderOpenAI)
	}
	if cfg.TopK != 4 {
		t.Errorf("TopK = %d, want 4", cfg.TopK)
	}
	if cfg.DocumentsDir != "./documents" {
		t.Errorf("DocumentsDir = %q, want %q", cfg.DocumentsDir, "./documents")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "port: \"9000\"\ndocuments_dir: /srv/docs\ntop_k: 8\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DOCCHAT_CONFIG", path)
	t.Setenv("PORT", "4000")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "4000" {
		t.Errorf("Port = %q, want env override %q", cfg.Port, "4000")
	}
	if cfg.DocumentsDir != "/srv/docs" {
		t.Errorf("DocumentsDir = %q, want file value %q", cfg.DocumentsDir, "/srv/docs")
	}
	if cfg.TopK != 8 {
		t.Errorf("TopK = %d, want file value 8", cfg.TopK)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q, want %q", cfg.OpenAIAPIKey, "sk-test")
	}
}

func TestLoad_RejectsBadChunking(t *testing.T) {
	t.Setenv("DOCCHAT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DOCCHAT_CHUNK_SIZE", "100")
	t.Setenv("DOCCHAT_CHUNK_OVERLAP", "100")

	if _, err := Load(); err == nil {
		t.Error("Load() with overlap >= size expected error, got nil")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLogLevel(tt.in); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
