package main

import (
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/janus/pkg/config"
)

func TestValidateConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "auth:\n  signing_secret: \"cmd-test-secret-0123\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	orig := cfgFile
	defer func() { cfgFile = orig }()

	cfgFile = path
	if err := validateConfig(validateCmd, nil); err != nil {
		t.Errorf("validateConfig: %v", err)
	}

	cfgFile = filepath.Join(dir, "absent.yaml")
	if err := validateConfig(validateCmd, nil); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLimitsFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
auth:
  signing_secret: "cmd-test-secret-0123"
quota:
  tiers:
    free: 3
  global_limit: 42
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	limits := limitsFromConfig(cfg)
	if limits.Global != 42 {
		t.Errorf("global = %d, want 42", limits.Global)
	}
	if limits.Tiers["free"] != 3 {
		t.Errorf("free = %d, want 3", limits.Tiers["free"])
	}
	if limits.Tiers["pro"] != 100 {
		t.Errorf("pro = %d, want default 100", limits.Tiers["pro"])
	}
}
