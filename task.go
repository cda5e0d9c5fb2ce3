// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"time"

	"github.com/google/uuid"
)

// TaskState represents the lifecycle state of a task. Wire values are the
// lowercase state names.
type TaskState string

// Task lifecycle states.
const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input_required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateFailed        TaskState = "failed"
	TaskStateCanceled      TaskState = "canceled"
)

// Terminal reports whether the state permits no further transitions.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
// Transitions are monotonic: submitted -> working -> a terminal state,
// with canceled reachable only from working. input_required is reserved
// for multi-turn tasks and is accepted as a successor of working.
func (s TaskState) CanTransitionTo(next TaskState) bool {
	switch s {
	case TaskStateSubmitted:
		return next == TaskStateWorking
	case TaskStateWorking:
		switch next {
		case TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateInputRequired:
			return true
		}
	case TaskStateInputRequired:
		return next == TaskStateWorking
	}
	return false
}

// Message is a role-tagged message exchanged over the protocol. Task
// results carry an "agent" role message.
type Message struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is one typed fragment of a message. The current handler set only
// produces text parts.
type Part struct {
	Type string         `json:"type"`
	Text string         `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// AgentMessage creates a result message with the "agent" role and a single
// text part.
func AgentMessage(text string) *Message {
	return &Message{
		Role:  "agent",
		Parts: []Part{{Type: "text", Text: text}},
	}
}

// Artifact is a named, MIME-typed data blob produced by a completed task.
type Artifact struct {
	Name     string         `json:"name"`
	MimeType string         `json:"mimeType"`
	Data     map[string]any `json:"data"`
}

// Task is one execution instance of a skill invocation.
type Task struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId,omitempty"`
	Status    TaskState      `json:"status"`
	Input     map[string]any `json:"input,omitempty"`
	// Result is present only in terminal states.
	Result *Message `json:"result,omitempty"`
	// Artifacts is empty until the task completes.
	Artifacts []Artifact `json:"artifacts"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewTask creates a submitted task with a fresh ID and the caller-supplied
// input. The input is opaque at this layer; the chosen skill handler
// validates it.
func NewTask(input map[string]any) *Task {
	now := time.Now()
	return &Task{
		ID:        uuid.NewString(),
		Status:    TaskStateSubmitted,
		Input:     input,
		Artifacts: []Artifact{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the task, so store reads never alias the
// stored record.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	out := *t
	if t.Input != nil {
		out.Input = make(map[string]any, len(t.Input))
		for k, v := range t.Input {
			out.Input[k] = v
		}
	}
	if t.Result != nil {
		result := *t.Result
		result.Parts = append([]Part(nil), t.Result.Parts...)
		out.Result = &result
	}
	if t.Artifacts != nil {
		out.Artifacts = append([]Artifact{}, t.Artifacts...)
	}
	return &out
}
