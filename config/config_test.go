package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("NEON_CINEMA_BACKEND_URL", "")
	t.Setenv("NEON_CINEMA_TIMEOUT_SECONDS", "")
	t.Setenv("NEON_CINEMA_LOG_FILE", "")
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Fatalf("unexpected backend url: %s", cfg.BackendURL)
	}
	if cfg.Timeout() != 12*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout())
	}
}

func TestLoad_CustomFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "backend_url: https://api.example.com\ntimeout_seconds: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Fatalf("unexpected backend url: %s", cfg.BackendURL)
	}
	if cfg.Timeout() != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend_url: https://file.example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEON_CINEMA_BACKEND_URL", "https://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.BackendURL != "https://env.example.com" {
		t.Fatalf("unexpected backend url: %s", cfg.BackendURL)
	}
}

func TestLoad_MissingCustomFileIsError(t *testing.T) {
	isolate(t)

	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error for missing custom config")
	}
}
