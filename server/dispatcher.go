// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	a2a "github.com/formagent/a2a"
	"github.com/formagent/a2a/assistant"
	"github.com/formagent/a2a/forms"
)

// FormService is the slice of the forms store the dispatcher needs.
type FormService interface {
	CreateContact(ctx context.Context, firstName, lastName, email, phone, company, message string) (*forms.Contact, error)
	CreateEmployee(ctx context.Context, firstName, lastName, email, department, position string, hireDate *time.Time, salary *float64) (*forms.Employee, error)
	CreateTicket(ctx context.Context, subject, description, reporterName, reporterEmail string, priority forms.Priority, category forms.Category) (*forms.SupportTicket, error)
}

// Navigator classifies natural language into a form navigation action. It
// backs the ask-assistant skill.
type Navigator interface {
	ProcessCommand(ctx context.Context, history []assistant.ChatMessage, command string) assistant.NavigationAction
}

// handlerFunc executes one skill against validated input and returns the
// result payload.
type handlerFunc func(ctx context.Context, input map[string]any) (map[string]any, error)

// skill pairs a handler with its required input keys. A missing or blank
// required key fails the task before the handler runs.
type skill struct {
	required []string
	run      handlerFunc
}

// Dispatcher routes a task to one of the named skill handlers and drives
// the task through its lifecycle in the given store. Dispatch is
// synchronous: Execute returns only after the task has reached a terminal
// state.
type Dispatcher struct {
	store     *TaskStore
	forms     FormService
	navigator Navigator
	logger    *slog.Logger
	metrics   *Metrics

	skills map[string]skill
}

// NewDispatcher creates a dispatcher over the given store and
// collaborators. navigator may be nil, in which case ask-assistant tasks
// fail with a descriptive message.
func NewDispatcher(store *TaskStore, formService FormService, navigator Navigator, logger *slog.Logger, metrics *Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		store:     store,
		forms:     formService,
		navigator: navigator,
		logger:    logger,
		metrics:   metrics,
	}
	d.skills = map[string]skill{
		a2a.SkillNavigateForm:        {required: []string{"formId"}, run: d.handleNavigateForm},
		a2a.SkillSubmitContact:       {required: []string{"firstName", "lastName", "email"}, run: d.handleSubmitContact},
		a2a.SkillSubmitEmployee:      {required: []string{"firstName", "lastName", "email"}, run: d.handleSubmitEmployee},
		a2a.SkillSubmitSupportTicket: {required: []string{"subject", "description", "reporterName", "reporterEmail"}, run: d.handleSubmitSupportTicket},
		a2a.SkillAskAssistant:        {required: []string{"message"}, run: d.handleAskAssistant},
	}
	return d
}

// Execute creates a task for the given skill and input, runs the handler,
// and returns the task in its terminal state. Handler errors become task
// failure, not an error return; only store corruption surfaces as error.
func (d *Dispatcher) Execute(ctx context.Context, skillID string, input map[string]any) (*a2a.Task, error) {
	task := a2a.NewTask(input)
	if err := d.store.Put(task); err != nil {
		return nil, err
	}
	if err := d.store.Transition(task.ID, a2a.TaskStateWorking); err != nil {
		return nil, err
	}

	result, err := d.run(ctx, skillID, input)
	if err != nil {
		d.logger.ErrorContext(ctx, "task execution failed", "task_id", task.ID, "skill", skillID, "error", err)
		if failErr := d.store.Fail(task.ID, "Error: "+err.Error()); failErr != nil {
			return nil, failErr
		}
		d.metrics.ObserveTask(skillID, a2a.TaskStateFailed)
		return d.store.Get(task.ID)
	}

	message, _ := result["message"].(string)
	artifact := a2a.Artifact{
		Name:     "result",
		MimeType: "application/json",
		Data:     result,
	}
	if err := d.store.Complete(task.ID, a2a.AgentMessage(message), []a2a.Artifact{artifact}); err != nil {
		return nil, err
	}
	d.metrics.ObserveTask(skillID, a2a.TaskStateCompleted)
	return d.store.Get(task.ID)
}

// run validates required input keys and invokes the handler.
func (d *Dispatcher) run(ctx context.Context, skillID string, input map[string]any) (map[string]any, error) {
	sk, ok := d.skills[skillID]
	if !ok {
		return nil, fmt.Errorf("unknown skill: %s", skillID)
	}
	for _, key := range sk.required {
		if _, err := requiredString(input, key); err != nil {
			return nil, err
		}
	}
	return sk.run(ctx, input)
}

func (d *Dispatcher) handleNavigateForm(_ context.Context, input map[string]any) (map[string]any, error) {
	formID, _ := requiredString(input, "formId")

	var route string
	switch formID {
	case "contact":
		route = "/contact"
	case "employee":
		route = "/employee"
	case "support":
		route = "/support"
	default:
		return nil, fmt.Errorf("unknown form: %s", formID)
	}

	return map[string]any{
		"success": true,
		"formId":  formID,
		"route":   route,
		"message": fmt.Sprintf("Navigation to %s form ready. Route: %s", formID, route),
	}, nil
}

func (d *Dispatcher) handleSubmitContact(ctx context.Context, input map[string]any) (map[string]any, error) {
	firstName, _ := requiredString(input, "firstName")
	lastName, _ := requiredString(input, "lastName")
	email, _ := requiredString(input, "email")

	contact, err := d.forms.CreateContact(ctx, firstName, lastName, email,
		optionalString(input, "phone"), optionalString(input, "company"), optionalString(input, "message"))
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"success":   true,
		"contactId": contact.ID,
		"message":   fmt.Sprintf("Contact form submitted successfully for %s %s", firstName, lastName),
	}, nil
}

func (d *Dispatcher) handleSubmitEmployee(ctx context.Context, input map[string]any) (map[string]any, error) {
	firstName, _ := requiredString(input, "firstName")
	lastName, _ := requiredString(input, "lastName")
	email, _ := requiredString(input, "email")

	var hireDate *time.Time
	if raw := optionalString(input, "hireDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for hireDate: %q", raw)
		}
		hireDate = &parsed
	}

	var salary *float64
	if raw, present := input["salary"]; present && raw != nil {
		parsed, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for salary: %v", raw)
		}
		salary = &parsed
	}

	employee, err := d.forms.CreateEmployee(ctx, firstName, lastName, email,
		optionalString(input, "department"), optionalString(input, "position"), hireDate, salary)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"success":    true,
		"employeeId": employee.ID,
		"message":    fmt.Sprintf("Employee %s %s registered successfully", firstName, lastName),
	}, nil
}

func (d *Dispatcher) handleSubmitSupportTicket(ctx context.Context, input map[string]any) (map[string]any, error) {
	subject, _ := requiredString(input, "subject")
	description, _ := requiredString(input, "description")
	reporterName, _ := requiredString(input, "reporterName")
	reporterEmail, _ := requiredString(input, "reporterEmail")

	var priority forms.Priority
	if raw := optionalString(input, "priority"); raw != "" {
		parsed, err := forms.ParsePriority(raw)
		if err != nil {
			return nil, err
		}
		priority = parsed
	}

	var category forms.Category
	if raw := optionalString(input, "category"); raw != "" {
		parsed, err := forms.ParseCategory(raw)
		if err != nil {
			return nil, err
		}
		category = parsed
	}

	ticket, err := d.forms.CreateTicket(ctx, subject, description, reporterName, reporterEmail, priority, category)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"success":  true,
		"ticketId": ticket.ID,
		"message":  "Support ticket created: " + subject,
	}, nil
}

func (d *Dispatcher) handleAskAssistant(ctx context.Context, input map[string]any) (map[string]any, error) {
	message, _ := requiredString(input, "message")
	if d.navigator == nil {
		return nil, fmt.Errorf("assistant is not available")
	}

	action := d.navigator.ProcessCommand(ctx, nil, message)
	return map[string]any{
		"success":  true,
		"action":   action.Kind,
		"formId":   action.FormID,
		"formData": action.FormData,
		"message":  action.Message,
	}, nil
}

// requiredString extracts a non-blank string value for key, stringifying
// scalar values the way loosely typed callers send them.
func requiredString(input map[string]any, key string) (string, error) {
	value, present := input[key]
	if !present || value == nil {
		return "", fmt.Errorf("%s is required", key)
	}
	s := stringify(value)
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return s, nil
}

func optionalString(input map[string]any, key string) string {
	value, present := input[key]
	if !present || value == nil {
		return ""
	}
	return stringify(value)
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func toFloat(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}
