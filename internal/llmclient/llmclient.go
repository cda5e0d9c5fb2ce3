// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Package llmclient is a minimal OpenAI-compatible chat completion client.
// It satisfies [assistant.Completer] so either assistant can run against
// any endpoint speaking the /v1/chat/completions dialect.
package llmclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/formagent/a2a/assistant"
)

const defaultTimeout = 60 * time.Second

// Config holds the connection settings for the completion endpoint.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	BaseURL string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
	// Model is the model identifier to request.
	Model string
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	cfg    Config
	hc     *http.Client
	logger *slog.Logger
}

// New creates a completion client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		hc:     &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
}

// WithHTTPClient sets the HTTP client, e.g. for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.hc = hc
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements [assistant.Completer].
func (c *Client) Complete(ctx context.Context, messages []assistant.ChatMessage) (string, error) {
	payload := chatRequest{Model: c.cfg.Model, Messages: make([]chatMessage, 0, len(messages))}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := sonic.ConfigFastest.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	var parsed chatResponse
	if err := sonic.ConfigFastest.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion endpoint error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	c.logger.DebugContext(ctx, "completion received", "model", c.cfg.Model, "length", len(parsed.Choices[0].Message.Content))
	return parsed.Choices[0].Message.Content, nil
}
