package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withWorkDir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadFromCurrentDir_MissingFile(t *testing.T) {
	withWorkDir(t, t.TempDir())

	cfg, err := LoadFromCurrentDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Environments) != 1 {
		t.Fatalf("expected 1 default environment, got %d", len(cfg.Environments))
	}
	if cfg.Environments[0].Name != "production" {
		t.Errorf("expected production environment, got %q", cfg.Environments[0].Name)
	}
	if cfg.Environments[0].URL != DefaultAPIURL {
		t.Errorf("expected default URL %q, got %q", DefaultAPIURL, cfg.Environments[0].URL)
	}
}

func TestLoadFromCurrentDir_EnvOverride(t *testing.T) {
	withWorkDir(t, t.TempDir())
	t.Setenv("SHOPD_API_URL", "http://localhost:8080")

	cfg, err := LoadFromCurrentDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Environments[0].URL != "http://localhost:8080" {
		t.Errorf("expected env override URL, got %q", cfg.Environments[0].URL)
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	withWorkDir(t, t.TempDir())

	cfg := &Config{Environments: []Environment{
		{Name: "staging", URL: "https://staging.shopd.dev"},
		{Name: "local", URL: "http://localhost:8080"},
	}}
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFromCurrentDir()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Environments) != 2 {
		t.Fatalf("expected 2 environments, got %d", len(loaded.Environments))
	}

	env, err := loaded.GetEnvironmentByName("local")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if env.URL != "http://localhost:8080" {
		t.Errorf("unexpected URL %q", env.URL)
	}

	if _, err := loaded.GetEnvironmentByName("missing"); err == nil {
		t.Error("expected error for unknown environment")
	}

	def, err := loaded.GetDefaultEnvironment()
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if def.Name != "staging" {
		t.Errorf("expected first environment as default, got %q", def.Name)
	}
}

func TestLoadFromCurrentDir_EmptyEnvironments(t *testing.T) {
	dir := t.TempDir()
	withWorkDir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{"environments":[]}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFromCurrentDir(); err == nil {
		t.Error("expected error for empty environments")
	}
}
