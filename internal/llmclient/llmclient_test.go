// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package llmclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/formagent/a2a/assistant"
	"github.com/formagent/a2a/internal/llmclient"
)

func TestComplete(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"action":"chat","message":"hi"}`}},
			},
		})
	}))
	t.Cleanup(ts.Close)

	c := llmclient.New(llmclient.Config{BaseURL: ts.URL + "/v1", APIKey: "sk-test", Model: "test-model"}, nil)
	got, err := c.Complete(context.Background(), []assistant.ChatMessage{
		{Role: assistant.RoleSystem, Content: "You are helpful."},
		{Role: assistant.RoleUser, Content: "hello"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"action":"chat","message":"hi"}` {
		t.Errorf("Complete = %q", got)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("model = %v", gotBody["model"])
	}
	messages, _ := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Errorf("sent %d messages, want 2", len(messages))
	}
}

func TestCompleteEndpointError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key"},
		})
	}))
	t.Cleanup(ts.Close)

	c := llmclient.New(llmclient.Config{BaseURL: ts.URL, Model: "test-model"}, nil)
	if _, err := c.Complete(context.Background(), nil); err == nil {
		t.Error("expected error from the endpoint")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	t.Cleanup(ts.Close)

	c := llmclient.New(llmclient.Config{BaseURL: ts.URL, Model: "test-model"}, nil)
	if _, err := c.Complete(context.Background(), nil); err == nil {
		t.Error("expected error for empty choices")
	}
}
