// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/formagent/a2a/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Client.DatabasePath == "" || cfg.Server.DatabasePath == "" {
		t.Error("default database paths must be set")
	}
	if cfg.LLM.BaseURL == "" || cfg.LLM.Model == "" {
		t.Error("default LLM settings must be set")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  addr: ":9090"
llm:
  base_url: "http://localhost:11434/v1"
  model: "llama3"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want override", cfg.Server.Addr)
	}
	if cfg.LLM.Model != "llama3" {
		t.Errorf("LLM.Model = %q, want override", cfg.LLM.Model)
	}
	// Untouched sections keep their defaults.
	if cfg.Client.KnowledgeDir != "knowledge" {
		t.Errorf("Client.KnowledgeDir = %q, want default", cfg.Client.KnowledgeDir)
	}
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM.APIKey = %q, want env value", cfg.LLM.APIKey)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("expected validation error for blank addr")
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	badPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badPath, []byte("{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(badPath); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
