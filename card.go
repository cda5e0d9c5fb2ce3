// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

// AgentCard is an agent's self-description, served at
// [AgentCardWellKnownPath] so other agents can discover its capabilities.
// It is immutable after construction except for URL, which is derived from
// the inbound request at serve time.
type AgentCard struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	URL          string            `json:"url"`
	Version      string            `json:"version"`
	Skills       []AgentSkill      `json:"skills"`
	Capabilities AgentCapabilities `json:"capabilities"`
	// Authentication advertises the accepted schemes. This design leaves
	// the channel unauthenticated: {"schemes": ["none"]}.
	Authentication map[string]any `json:"authentication,omitempty"`
}

// AgentSkill is a static catalog entry for one dispatchable skill. The
// schemas are documentation only; enforcement is per-handler.
type AgentSkill struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Tags         []string       `json:"tags"`
	InputSchema  map[string]any `json:"inputSchema,omitempty"`
	OutputSchema map[string]any `json:"outputSchema,omitempty"`
}

// AgentCapabilities holds the card's capability flags. All are false in
// this design.
type AgentCapabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

// Skill ids dispatched by the form agent.
const (
	SkillNavigateForm        = "navigate-form"
	SkillSubmitContact       = "submit-contact"
	SkillSubmitEmployee      = "submit-employee"
	SkillSubmitSupportTicket = "submit-support-ticket"
	SkillAskAssistant        = "ask-assistant"
)

// DefaultCard returns the form agent's card with the given base URL.
func DefaultCard(baseURL string) AgentCard {
	return AgentCard{
		Name: "Form Assistant Agent",
		Description: "An AI-powered agent that can navigate to forms, populate them with data, and submit them. " +
			"Supports contact forms, employee registration, and support tickets.",
		URL:     baseURL,
		Version: "1.0.0",
		Skills: []AgentSkill{
			{
				ID:          SkillNavigateForm,
				Name:        "Navigate to Form",
				Description: "Navigate to a specific form in the application",
				Tags:        []string{"navigation", "forms"},
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"formId": map[string]any{"type": "string", "enum": []string{"contact", "employee", "support"}},
					},
					"required": []string{"formId"},
				},
				OutputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"success": map[string]any{"type": "boolean"},
						"message": map[string]any{"type": "string"},
					},
				},
			},
			{
				ID:          SkillSubmitContact,
				Name:        "Submit Contact Form",
				Description: "Submit a contact form with the provided data",
				Tags:        []string{"forms", "contact", "submission"},
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"firstName": map[string]any{"type": "string"},
						"lastName":  map[string]any{"type": "string"},
						"email":     map[string]any{"type": "string", "format": "email"},
						"phone":     map[string]any{"type": "string"},
						"company":   map[string]any{"type": "string"},
						"message":   map[string]any{"type": "string"},
					},
					"required": []string{"firstName", "lastName", "email"},
				},
				OutputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"success":   map[string]any{"type": "boolean"},
						"contactId": map[string]any{"type": "integer"},
						"message":   map[string]any{"type": "string"},
					},
				},
			},
			{
				ID:          SkillSubmitEmployee,
				Name:        "Submit Employee Registration",
				Description: "Register a new employee with the provided data",
				Tags:        []string{"forms", "employee", "registration"},
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"firstName":  map[string]any{"type": "string"},
						"lastName":   map[string]any{"type": "string"},
						"email":      map[string]any{"type": "string", "format": "email"},
						"department": map[string]any{"type": "string", "enum": []string{"Engineering", "Sales", "Marketing", "HR", "Finance", "Operations"}},
						"position":   map[string]any{"type": "string"},
						"hireDate":   map[string]any{"type": "string", "format": "date"},
						"salary":     map[string]any{"type": "number"},
					},
					"required": []string{"firstName", "lastName", "email"},
				},
				OutputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"success":    map[string]any{"type": "boolean"},
						"employeeId": map[string]any{"type": "integer"},
						"message":    map[string]any{"type": "string"},
					},
				},
			},
			{
				ID:          SkillSubmitSupportTicket,
				Name:        "Submit Support Ticket",
				Description: "Create a new support ticket",
				Tags:        []string{"forms", "support", "ticket"},
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"subject":       map[string]any{"type": "string"},
						"description":   map[string]any{"type": "string"},
						"reporterName":  map[string]any{"type": "string"},
						"reporterEmail": map[string]any{"type": "string", "format": "email"},
						"priority":      map[string]any{"type": "string", "enum": []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}},
						"category":      map[string]any{"type": "string", "enum": []string{"TECHNICAL", "BILLING", "GENERAL", "FEATURE_REQUEST", "BUG_REPORT"}},
					},
					"required": []string{"subject", "description", "reporterName", "reporterEmail"},
				},
				OutputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"success":  map[string]any{"type": "boolean"},
						"ticketId": map[string]any{"type": "integer"},
						"message":  map[string]any{"type": "string"},
					},
				},
			},
			{
				ID:          SkillAskAssistant,
				Name:        "Ask AI Assistant",
				Description: "Send a natural language request to the AI assistant to navigate or fill forms",
				Tags:        []string{"ai", "assistant", "natural-language"},
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"message": map[string]any{"type": "string", "description": "Natural language request"},
					},
					"required": []string{"message"},
				},
				OutputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"action":   map[string]any{"type": "string"},
						"formId":   map[string]any{"type": "string"},
						"formData": map[string]any{"type": "object"},
						"message":  map[string]any{"type": "string"},
					},
				},
			},
		},
		Capabilities:   AgentCapabilities{},
		Authentication: map[string]any{"schemes": []string{"none"}},
	}
}
