// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Package assistant translates natural language into structured actions on
// both halves of the A2A pair: client-side agent actions and server-side
// form navigation actions. The LLM transport is an injected [Completer];
// this package owns prompt construction and response parsing.
package assistant

import (
	"strings"

	"github.com/bytedance/sonic"
)

// Action kinds produced by the client-side assistant.
const (
	ActionChat          = "chat"
	ActionConfirmSend   = "confirm_send"
	ActionSendToAgent   = "send_to_agent"
	ActionLookupContact = "lookup_contact"
	ActionListAgents    = "list_agents"
	ActionHelp          = "help"
)

// Action describes what the client should do next. Exactly one variant is
// meaningful per Kind; every variant carries a displayable Message.
type Action struct {
	Kind      string         `json:"action"`
	AgentID   uint           `json:"agentId,omitempty"`
	AgentName string         `json:"agentName,omitempty"`
	SkillID   string         `json:"skillId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Message   string         `json:"message"`
}

// Chat creates a display-only conversation action.
func Chat(message string) Action {
	return Action{Kind: ActionChat, Message: message}
}

// ConfirmSend creates an action that shows the payload to the user for
// approval before it is sent to the agent.
func ConfirmSend(agentID uint, agentName, skillID string, data map[string]any, message string) Action {
	return Action{
		Kind:      ActionConfirmSend,
		AgentID:   agentID,
		AgentName: agentName,
		SkillID:   skillID,
		Data:      data,
		Message:   message,
	}
}

// SendToAgent creates an action carrying a direct agent invocation.
func SendToAgent(agentID uint, skillID string, data map[string]any, message string) Action {
	return Action{
		Kind:    ActionSendToAgent,
		AgentID: agentID,
		SkillID: skillID,
		Data:    data,
		Message: message,
	}
}

// LookupContact creates a knowledge-base lookup action.
func LookupContact(contactID, message string) Action {
	return Action{
		Kind:    ActionLookupContact,
		Data:    map[string]any{"contactId": contactID},
		Message: message,
	}
}

// ListAgents creates an action that lists known agents.
func ListAgents(message string) Action {
	return Action{Kind: ActionListAgents, Message: message}
}

// Help creates a help action.
func Help(message string) Action {
	return Action{Kind: ActionHelp, Message: message}
}

// Navigation action kinds produced by the server-side assistant.
const (
	NavigationNavigate  = "navigate"
	NavigationPopulate  = "populate"
	NavigationSubmit    = "submit"
	NavigationHelp      = "help"
	NavigationListForms = "list_forms"
)

// NavigationAction describes a form navigation step on the agent server.
type NavigationAction struct {
	Kind     string         `json:"action"`
	FormID   string         `json:"formId,omitempty"`
	FormData map[string]any `json:"formData,omitempty"`
	Message  string         `json:"message"`
}

// NavigationHelpAction creates a help navigation action.
func NavigationHelpAction(message string) NavigationAction {
	return NavigationAction{Kind: NavigationHelp, Message: message}
}

// parseFallback is returned whenever the model output cannot be parsed.
const parseFallback = "I understood your request but had trouble formatting my response. Could you please rephrase?"

// StripFences removes a surrounding markdown code fence from a model
// response, if present.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseAction parses a model response into a client-side [Action].
// Malformed output degrades to a help action, never an error. A
// send_to_agent response is downgraded to confirm_send so the user always
// approves outgoing data; resolveAgentName supplies the display name for
// the target agent and may be nil.
func ParseAction(raw string, resolveAgentName func(id uint) string) Action {
	var parsed Action
	if err := sonic.ConfigFastest.UnmarshalFromString(StripFences(raw), &parsed); err != nil {
		return Help(parseFallback)
	}

	switch parsed.Kind {
	case ActionSendToAgent, ActionConfirmSend:
		name := "Unknown Agent"
		if parsed.AgentID != 0 && resolveAgentName != nil {
			if n := resolveAgentName(parsed.AgentID); n != "" {
				name = n
			}
		}
		return ConfirmSend(parsed.AgentID, name, parsed.SkillID, parsed.Data, parsed.Message)
	case ActionListAgents:
		return ListAgents(parsed.Message)
	case ActionLookupContact:
		contactID, _ := parsed.Data["contactId"].(string)
		return LookupContact(contactID, parsed.Message)
	case ActionHelp:
		return Help(parsed.Message)
	default:
		return Chat(parsed.Message)
	}
}

// ParseNavigationAction parses a model response into a server-side
// [NavigationAction]. Malformed output degrades to a help action.
func ParseNavigationAction(raw string) NavigationAction {
	var parsed NavigationAction
	if err := sonic.ConfigFastest.UnmarshalFromString(StripFences(raw), &parsed); err != nil {
		return NavigationHelpAction(parseFallback)
	}
	if parsed.Kind == "" {
		parsed.Kind = NavigationHelp
	}
	if parsed.FormData == nil {
		parsed.FormData = map[string]any{}
	}
	return parsed
}
