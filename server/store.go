// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"
	"sync"
	"time"

	a2a "github.com/formagent/a2a"
)

// TaskStore is an in-memory store of tasks keyed by ID. Task data is lost
// when the server process stops. All operations are thread-safe using
// sync.RWMutex; the store owns every status transition and refreshes
// UpdatedAt on each one.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*a2a.Task
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*a2a.Task),
	}
}

// Put inserts a task. The store takes ownership of the record; callers
// must not mutate it afterwards.
func (s *TaskStore) Put(task *a2a.Task) error {
	if task == nil || task.ID == "" {
		return fmt.Errorf("task must have an ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("task already exists: %s", task.ID)
	}
	s.tasks[task.ID] = task
	return nil
}

// Get retrieves a copy of a task by its ID.
func (s *TaskStore) Get(taskID string) (*a2a.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, a2a.TaskNotFoundError{TaskID: taskID}
	}
	return task.Clone(), nil
}

// Transition moves a task to the next state, enforcing the transition
// table of [a2a.TaskState].
func (s *TaskStore) Transition(taskID string, next a2a.TaskState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(taskID, next)
}

func (s *TaskStore) transitionLocked(taskID string, next a2a.TaskState) error {
	task, exists := s.tasks[taskID]
	if !exists {
		return a2a.TaskNotFoundError{TaskID: taskID}
	}
	if !task.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal transition %s -> %s for task %s", task.Status, next, taskID)
	}
	task.Status = next
	task.UpdatedAt = time.Now()
	return nil
}

// Complete moves a working task to completed, attaching its result and
// artifacts.
func (s *TaskStore) Complete(taskID string, result *a2a.Message, artifacts []a2a.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transitionLocked(taskID, a2a.TaskStateCompleted); err != nil {
		return err
	}
	task := s.tasks[taskID]
	task.Result = result
	if artifacts == nil {
		artifacts = []a2a.Artifact{}
	}
	task.Artifacts = artifacts
	return nil
}

// Fail moves a working task to failed with a descriptive result message.
func (s *TaskStore) Fail(taskID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transitionLocked(taskID, a2a.TaskStateFailed); err != nil {
		return err
	}
	s.tasks[taskID].Result = a2a.AgentMessage(message)
	return nil
}

// Cancel flips a working task to canceled. Tasks in any other state are
// not cancelable; terminal tasks are left untouched.
func (s *TaskStore) Cancel(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return a2a.TaskNotFoundError{TaskID: taskID}
	}
	if task.Status != a2a.TaskStateWorking {
		return a2a.TaskNotCancelableError{TaskID: taskID, State: task.Status}
	}
	task.Status = a2a.TaskStateCanceled
	task.UpdatedAt = time.Now()
	return nil
}

// Size returns the current number of stored tasks.
func (s *TaskStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
