// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import "fmt"

// TaskNotFoundError reports a lookup for a task ID that is not in the store.
type TaskNotFoundError struct {
	TaskID string
}

// Error implements the error interface.
func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// TaskNotCancelableError reports a cancel attempt against a task that is
// not in the working state.
type TaskNotCancelableError struct {
	TaskID string
	State  TaskState
}

// Error implements the error interface.
func (e TaskNotCancelableError) Error() string {
	return fmt.Sprintf("task %s cannot be canceled in state %s", e.TaskID, e.State)
}
