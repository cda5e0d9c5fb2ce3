// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package assistant

import (
	"fmt"
	"strings"
)

// FormField describes one field of a form for prompt construction.
type FormField struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// FormInfo describes one form the agent server can navigate to.
type FormInfo struct {
	FormID      string
	DisplayName string
	Description string
	Route       string
	Fields      []FormField
}

// AvailableForms returns the static catalog of forms on the agent server.
func AvailableForms() []FormInfo {
	return []FormInfo{
		{
			FormID:      "contact",
			DisplayName: "Contact Form",
			Description: "Submit a contact inquiry or message",
			Route:       "contact",
			Fields: []FormField{
				{Name: "firstName", Type: "text", Description: "First name of the contact", Required: true},
				{Name: "lastName", Type: "text", Description: "Last name of the contact", Required: true},
				{Name: "email", Type: "email", Description: "Email address", Required: true},
				{Name: "phone", Type: "text", Description: "Phone number"},
				{Name: "company", Type: "text", Description: "Company name"},
				{Name: "message", Type: "textarea", Description: "Message content"},
			},
		},
		{
			FormID:      "employee",
			DisplayName: "Employee Registration",
			Description: "Register a new employee in the system",
			Route:       "employee",
			Fields: []FormField{
				{Name: "firstName", Type: "text", Description: "First name of the employee", Required: true},
				{Name: "lastName", Type: "text", Description: "Last name of the employee", Required: true},
				{Name: "email", Type: "email", Description: "Work email address", Required: true},
				{Name: "department", Type: "select", Description: "Department (Engineering, Sales, Marketing, HR, Finance, Operations)"},
				{Name: "position", Type: "text", Description: "Job position/title"},
				{Name: "hireDate", Type: "date", Description: "Hire date (YYYY-MM-DD format)"},
				{Name: "salary", Type: "number", Description: "Annual salary"},
			},
		},
		{
			FormID:      "support",
			DisplayName: "Support Ticket",
			Description: "Submit a support ticket or bug report",
			Route:       "support",
			Fields: []FormField{
				{Name: "subject", Type: "text", Description: "Ticket subject/title", Required: true},
				{Name: "description", Type: "textarea", Description: "Detailed description of the issue", Required: true},
				{Name: "reporterName", Type: "text", Description: "Your name", Required: true},
				{Name: "reporterEmail", Type: "email", Description: "Your email address", Required: true},
				{Name: "priority", Type: "select", Description: "Priority level (LOW, MEDIUM, HIGH, CRITICAL)"},
				{Name: "category", Type: "select", Description: "Category (TECHNICAL, BILLING, GENERAL, FEATURE_REQUEST, BUG_REPORT)"},
			},
		},
	}
}

// ServerSystemPrompt builds the system prompt for the server-side
// navigator.
func ServerSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a helpful virtual assistant for a web application called A2A Server. ")
	sb.WriteString("Your job is to help users navigate to pages, fill out forms, and provide information.\n\n")

	sb.WriteString("AVAILABLE PAGES:\n")
	sb.WriteString("- submissions: Form Submissions page - view all submitted forms with filtering by type, date, search\n")
	sb.WriteString("- (empty string): AI Assistant home page\n\n")

	sb.WriteString("AVAILABLE FORMS:\n")
	for _, form := range AvailableForms() {
		fmt.Fprintf(&sb, "\n- Form ID: %s\n  Name: %s\n  Route: %s\n  Description: %s\n  Fields:\n",
			form.FormID, form.DisplayName, form.Route, form.Description)
		for _, field := range form.Fields {
			required := ""
			if field.Required {
				required = " [REQUIRED]"
			}
			fmt.Fprintf(&sb, "    - %s (%s)%s: %s\n", field.Name, field.Type, required, field.Description)
		}
	}

	sb.WriteString("\nRESPONSE FORMAT - You must respond with a JSON object in one of these formats:\n")
	sb.WriteString(`1. To navigate to a form or page: {"action": "navigate", "formId": "<form_id or page_route>", "message": "<helpful message>"}` + "\n")
	sb.WriteString(`2. To navigate and populate a form: {"action": "populate", "formId": "<form_id>", "formData": {<field_name>: <value>, ...}, "message": "<helpful message>"}` + "\n")
	sb.WriteString(`3. To submit a form with data: {"action": "submit", "formId": "<form_id>", "formData": {<field_name>: <value>, ...}, "message": "<helpful message>"}` + "\n")
	sb.WriteString(`4. To list available forms: {"action": "list_forms", "message": "<list of forms>"}` + "\n")
	sb.WriteString(`5. For help or unclear requests: {"action": "help", "message": "<helpful explanation>"}` + "\n\n")

	sb.WriteString("IMPORTANT RULES:\n")
	sb.WriteString("- Always respond with valid JSON only, no additional text before or after\n")
	sb.WriteString("- For dates, use YYYY-MM-DD format\n")
	sb.WriteString("- For enum fields like priority, use exact values: LOW, MEDIUM, HIGH, CRITICAL\n")
	sb.WriteString("- For category, use: TECHNICAL, BILLING, GENERAL, FEATURE_REQUEST, BUG_REPORT\n")
	sb.WriteString("- For department, use: Engineering, Sales, Marketing, HR, Finance, Operations\n")
	sb.WriteString("- Extract any data the user provides and include it in formData\n")
	sb.WriteString("- If user wants to submit, use action 'submit'. If they just want to fill, use 'populate'\n")
	sb.WriteString("- For viewing submissions, navigate to 'submissions' route\n")

	return sb.String()
}

// ClientSystemPrompt builds the system prompt for the client-side personal
// assistant from pre-rendered knowledge-base and agent-server context
// sections.
func ClientSystemPrompt(knowledgeContext, agentsContext string) string {
	var sb strings.Builder
	sb.WriteString("You are a personal AI assistant helping the user manage their contacts and interact with A2A agent servers.\n\n")

	sb.WriteString("=== YOUR CAPABILITIES ===\n")
	sb.WriteString("1. Access to a personal knowledge base with contacts, projects, and notes\n")
	sb.WriteString("2. Ability to send tasks to A2A agent servers (like submitting forms)\n")
	sb.WriteString("3. Look up contact information to use when interacting with agents\n\n")

	sb.WriteString("=== KNOWLEDGE BASE ===\n")
	sb.WriteString(knowledgeContext)
	sb.WriteString("\n\n")

	sb.WriteString("=== AVAILABLE AGENT SERVERS ===\n")
	sb.WriteString(agentsContext)
	sb.WriteString("\n")

	sb.WriteString("\n=== AVAILABLE SKILLS ON AGENTS ===\n")
	sb.WriteString("- submit-contact: Submit a contact form (firstName, lastName, email, phone, company, message)\n")
	sb.WriteString("- submit-employee: Submit an employee registration (firstName, lastName, email, department, position, hireDate, salary)\n")
	sb.WriteString("- submit-support-ticket: Submit a support ticket (subject, description, reporterName, reporterEmail, priority, category)\n")
	sb.WriteString("- ask-assistant: Send a natural language request to the agent's AI assistant\n")

	sb.WriteString("\n=== RESPONSE FORMAT ===\n")
	sb.WriteString("You must respond with a JSON object in one of these formats:\n\n")
	sb.WriteString("1. For regular conversation:\n")
	sb.WriteString(`   {"action": "chat", "message": "<your response>"}` + "\n\n")
	sb.WriteString("2. To send data to an agent server (MUST include all data fields):\n")
	sb.WriteString(`   {"action": "send_to_agent", "agentId": <agent_id_number>, "skillId": "<skill_id>", "data": {"firstName": "...", "lastName": "...", ...}, "message": "<explanation>"}` + "\n\n")
	sb.WriteString("3. To list available agents:\n")
	sb.WriteString(`   {"action": "list_agents", "message": "<list of agents with descriptions>"}` + "\n\n")
	sb.WriteString("4. For help or unclear requests:\n")
	sb.WriteString(`   {"action": "help", "message": "<helpful explanation>"}` + "\n\n")

	sb.WriteString("=== CRITICAL RULES ===\n")
	sb.WriteString("- Always respond with valid JSON only, no additional text before or after the JSON\n")
	sb.WriteString("- When user asks to submit a form, ALWAYS include the FULL DATA in the 'data' field\n")
	sb.WriteString("- Look up contact information from the knowledge base and include ALL fields: firstName, lastName, email, phone, company\n")
	sb.WriteString("- The 'data' field must contain actual values, NOT placeholders or references\n")
	sb.WriteString("- Users can reference agents by name, tag (@FormAgent), or ID\n")
	sb.WriteString("- For dates, use YYYY-MM-DD format\n")
	sb.WriteString("- For priority values: LOW, MEDIUM, HIGH, CRITICAL\n")
	sb.WriteString("- For category values: TECHNICAL, BILLING, GENERAL, FEATURE_REQUEST, BUG_REPORT\n")
	sb.WriteString("- For department values: Engineering, Sales, Marketing, HR, Finance, Operations\n")
	sb.WriteString("- Be helpful and always include complete data when submitting to agents\n")

	return sb.String()
}
