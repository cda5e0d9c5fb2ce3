// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package assistant_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/formagent/a2a/assistant"
)

// fakeCompleter returns a canned response and records the conversation it
// was given.
type fakeCompleter struct {
	response string
	err      error
	received []assistant.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []assistant.ChatMessage) (string, error) {
	f.received = messages
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestAssistantProcessCommand(t *testing.T) {
	t.Parallel()

	llm := &fakeCompleter{response: `{"action":"chat","message":"Hello!"}`}
	a := assistant.NewAssistant(llm, nil)
	a.ContextFunc = func() (string, string) {
		return "Contact: Ana Babić", "- ID 1: Local Form Assistant"
	}

	action := a.ProcessCommand(context.Background(), nil, "hi")
	if action.Kind != assistant.ActionChat || action.Message != "Hello!" {
		t.Errorf("action = %+v", action)
	}

	if len(llm.received) != 2 {
		t.Fatalf("got %d messages, want system + user", len(llm.received))
	}
	system := llm.received[0]
	if system.Role != assistant.RoleSystem {
		t.Errorf("first message role = %q, want system", system.Role)
	}
	if !strings.Contains(system.Content, "Ana Babić") || !strings.Contains(system.Content, "Local Form Assistant") {
		t.Error("system prompt is missing the knowledge or agent context")
	}
	if last := llm.received[len(llm.received)-1]; last.Role != assistant.RoleUser || last.Content != "hi" {
		t.Errorf("last message = %+v, want the user command", last)
	}
}

func TestAssistantCompletionErrorFallsBackToHelp(t *testing.T) {
	t.Parallel()

	llm := &fakeCompleter{err: fmt.Errorf("connection refused")}
	a := assistant.NewAssistant(llm, nil)

	action := a.ProcessCommand(context.Background(), nil, "hi")
	if action.Kind != assistant.ActionHelp {
		t.Errorf("Kind = %q, want help", action.Kind)
	}
	if action.Message == "" {
		t.Error("fallback action must carry a message")
	}
}

func TestAssistantBoundsHistory(t *testing.T) {
	t.Parallel()

	llm := &fakeCompleter{response: `{"action":"chat","message":"ok"}`}
	a := assistant.NewAssistant(llm, nil)

	var history []assistant.ChatMessage
	for i := 0; i < 30; i++ {
		history = append(history, assistant.ChatMessage{Role: assistant.RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	a.ProcessCommand(context.Background(), history, "latest")

	// System prompt + at most 20 history turns + the new command.
	if got, want := len(llm.received), 22; got != want {
		t.Fatalf("got %d messages, want %d", got, want)
	}
	if got := llm.received[1].Content; got != "turn 10" {
		t.Errorf("oldest kept turn = %q, want the most recent twenty", got)
	}
}

func TestAssistantResolvesAgentName(t *testing.T) {
	t.Parallel()

	llm := &fakeCompleter{response: `{"action":"send_to_agent","agentId":3,"skillId":"submit-contact","data":{"firstName":"Ana"},"message":"Ready to send"}`}
	a := assistant.NewAssistant(llm, nil)
	a.ResolveAgentName = func(id uint) string {
		if id == 3 {
			return "HR Agent"
		}
		return ""
	}

	action := a.ProcessCommand(context.Background(), nil, "send it")
	if action.Kind != assistant.ActionConfirmSend {
		t.Fatalf("Kind = %q, want confirm_send", action.Kind)
	}
	if action.AgentName != "HR Agent" {
		t.Errorf("AgentName = %q, want HR Agent", action.AgentName)
	}
}

func TestNavigatorProcessCommand(t *testing.T) {
	t.Parallel()

	llm := &fakeCompleter{response: `{"action":"navigate","formId":"support","message":"Opening the support form"}`}
	n := assistant.NewNavigator(llm, nil)

	action := n.ProcessCommand(context.Background(), nil, "open support")
	if action.Kind != assistant.NavigationNavigate || action.FormID != "support" {
		t.Errorf("action = %+v", action)
	}

	system := llm.received[0]
	if system.Role != assistant.RoleSystem || !strings.Contains(system.Content, "AVAILABLE FORMS") {
		t.Error("navigator system prompt missing the form catalog")
	}
}

func TestNavigatorCompletionErrorFallsBackToHelp(t *testing.T) {
	t.Parallel()

	llm := &fakeCompleter{err: fmt.Errorf("timeout")}
	n := assistant.NewNavigator(llm, nil)

	action := n.ProcessCommand(context.Background(), nil, "open support")
	if action.Kind != assistant.NavigationHelp {
		t.Errorf("Kind = %q, want help", action.Kind)
	}
}
