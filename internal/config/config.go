// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads YAML configuration for the agent server and client
// binaries.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration shared by both binaries; each reads
// its own section.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Client ClientConfig `yaml:"client"`
	LLM    LLMConfig    `yaml:"llm"`
}

// ServerConfig configures the agent server binary.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`
	// DatabasePath is the SQLite file for form submissions.
	DatabasePath string `yaml:"database_path"`
}

// ClientConfig configures the agent client binary.
type ClientConfig struct {
	// DatabasePath is the SQLite file for agent bookmarks.
	DatabasePath string `yaml:"database_path"`
	// KnowledgeDir is the directory of knowledge base files.
	KnowledgeDir string `yaml:"knowledge_dir"`
}

// LLMConfig configures the completion endpoint used by the assistants.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			DatabasePath: "a2aserver.db",
		},
		Client: ClientConfig{
			DatabasePath: "a2aclient.db",
			KnowledgeDir: "knowledge",
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
	}
}

// Load reads configuration from path, layered over [Default]. An empty path
// returns the defaults. The OPENAI_API_KEY environment variable fills in
// the LLM key when the file leaves it blank.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields both binaries rely on.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.DatabasePath == "" {
		return fmt.Errorf("server.database_path is required")
	}
	if c.Client.DatabasePath == "" {
		return fmt.Errorf("client.database_path is required")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}
