// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package assistant

import (
	"context"
	"log/slog"
)

// maxHistorySize bounds the conversation context sent to the model.
const maxHistorySize = 20

// errorFallback is shown when the model call itself fails.
const errorFallback = "I'm sorry, I encountered an error processing your request. Please try again."

// Role tags a chat message.
type Role string

// Chat roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of conversation context.
type ChatMessage struct {
	Role    Role
	Content string
}

// Completer produces a model completion for a conversation. Implementations
// live outside this package; see internal/llmclient.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// trimHistory keeps the most recent maxHistorySize turns.
func trimHistory(history []ChatMessage) []ChatMessage {
	if len(history) > maxHistorySize {
		return history[len(history)-maxHistorySize:]
	}
	return history
}

// conversation assembles system prompt + bounded history + the new command.
func conversation(systemPrompt string, history []ChatMessage, command string) []ChatMessage {
	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: RoleSystem, Content: systemPrompt})
	messages = append(messages, trimHistory(history)...)
	messages = append(messages, ChatMessage{Role: RoleUser, Content: command})
	return messages
}

// Assistant is the client-side personal assistant. It turns user commands
// into [Action] values using the knowledge base and bookmark context
// supplied by ContextFunc.
type Assistant struct {
	llm    Completer
	logger *slog.Logger

	// ContextFunc returns the knowledge-base and agent-server context
	// sections of the system prompt. May be nil.
	ContextFunc func() (knowledge, agents string)
	// ResolveAgentName maps an agent bookmark id to its display name for
	// confirm_send actions. May be nil.
	ResolveAgentName func(id uint) string
}

// NewAssistant creates a client-side assistant backed by llm.
func NewAssistant(llm Completer, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{llm: llm, logger: logger}
}

// ProcessCommand classifies one user command into an [Action]. Model and
// parse failures are recovered locally; the returned action is always
// renderable.
func (a *Assistant) ProcessCommand(ctx context.Context, history []ChatMessage, command string) Action {
	knowledge, agents := "", ""
	if a.ContextFunc != nil {
		knowledge, agents = a.ContextFunc()
	}

	response, err := a.llm.Complete(ctx, conversation(ClientSystemPrompt(knowledge, agents), history, command))
	if err != nil {
		a.logger.ErrorContext(ctx, "assistant completion failed", "error", err)
		return Help(errorFallback)
	}

	a.logger.DebugContext(ctx, "assistant response", "response", response)
	return ParseAction(response, a.ResolveAgentName)
}

// Navigator is the server-side assistant behind the ask-assistant skill. It
// turns natural language into form [NavigationAction] values.
type Navigator struct {
	llm    Completer
	logger *slog.Logger
}

// NewNavigator creates a server-side navigator backed by llm.
func NewNavigator(llm Completer, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{llm: llm, logger: logger}
}

// ProcessCommand classifies one user command into a [NavigationAction],
// recovering locally from model and parse failures.
func (n *Navigator) ProcessCommand(ctx context.Context, history []ChatMessage, command string) NavigationAction {
	response, err := n.llm.Complete(ctx, conversation(ServerSystemPrompt(), history, command))
	if err != nil {
		n.logger.ErrorContext(ctx, "navigator completion failed", "error", err)
		return NavigationHelpAction(errorFallback)
	}

	n.logger.DebugContext(ctx, "navigator response", "response", response)
	return ParseNavigationAction(response)
}
