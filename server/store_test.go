// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package server_test

import (
	"errors"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"

	a2a "github.com/formagent/a2a"
	"github.com/formagent/a2a/server"
)

func TestTaskStorePutGet(t *testing.T) {
	t.Parallel()

	store := server.NewTaskStore()
	task := a2a.NewTask(map[string]any{"key": "value"})

	if err := store.Put(task); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(task); err == nil {
		t.Error("expected error on duplicate Put")
	}
	if err := store.Put(&a2a.Task{}); err == nil {
		t.Error("expected error on empty ID")
	}

	got, err := store.Get(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := gocmp.Diff(task, got); diff != "" {
		t.Errorf("Get: (-want +got):\n%s", diff)
	}

	// Reads must not alias the stored record.
	got.Input["key"] = "mutated"
	again, err := store.Get(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Input["key"] != "value" {
		t.Error("mutating a read result mutated the stored task")
	}
}

func TestTaskStoreGetUnknown(t *testing.T) {
	t.Parallel()

	store := server.NewTaskStore()
	_, err := store.Get("missing")

	var notFound a2a.TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Get(missing) = %v, want TaskNotFoundError", err)
	}
	if notFound.TaskID != "missing" {
		t.Errorf("TaskID = %q, want %q", notFound.TaskID, "missing")
	}
}

func TestTaskStoreTransition(t *testing.T) {
	t.Parallel()

	store := server.NewTaskStore()
	task := a2a.NewTask(nil)
	if err := store.Put(task); err != nil {
		t.Fatal(err)
	}

	if err := store.Transition(task.ID, a2a.TaskStateCompleted); err == nil {
		t.Error("expected error for submitted -> completed")
	}
	if err := store.Transition(task.ID, a2a.TaskStateWorking); err != nil {
		t.Fatal(err)
	}
	if err := store.Transition(task.ID, a2a.TaskStateCompleted); err != nil {
		t.Fatal(err)
	}
	if err := store.Transition(task.ID, a2a.TaskStateWorking); err == nil {
		t.Error("expected error for transition out of a terminal state")
	}
}

func TestTaskStoreCompleteAndFail(t *testing.T) {
	t.Parallel()

	store := server.NewTaskStore()

	completed := a2a.NewTask(nil)
	store.Put(completed)
	store.Transition(completed.ID, a2a.TaskStateWorking)
	artifact := a2a.Artifact{Name: "result", MimeType: "application/json", Data: map[string]any{"ok": true}}
	if err := store.Complete(completed.ID, a2a.AgentMessage("done"), []a2a.Artifact{artifact}); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Get(completed.ID)
	if got.Status != a2a.TaskStateCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if len(got.Artifacts) != 1 || got.Artifacts[0].MimeType != "application/json" {
		t.Errorf("Artifacts = %v, want one application/json artifact", got.Artifacts)
	}

	failed := a2a.NewTask(nil)
	store.Put(failed)
	store.Transition(failed.ID, a2a.TaskStateWorking)
	if err := store.Fail(failed.ID, "Error: email is required"); err != nil {
		t.Fatal(err)
	}
	got, _ = store.Get(failed.ID)
	if got.Status != a2a.TaskStateFailed {
		t.Errorf("Status = %q, want failed", got.Status)
	}
	if got.Result == nil || got.Result.Parts[0].Text != "Error: email is required" {
		t.Errorf("Result = %v, want failure message", got.Result)
	}
}

func TestTaskStoreCancel(t *testing.T) {
	t.Parallel()

	store := server.NewTaskStore()

	working := a2a.NewTask(nil)
	store.Put(working)
	store.Transition(working.ID, a2a.TaskStateWorking)
	if err := store.Cancel(working.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Get(working.ID)
	if got.Status != a2a.TaskStateCanceled {
		t.Errorf("Status = %q, want canceled", got.Status)
	}

	completed := a2a.NewTask(nil)
	store.Put(completed)
	store.Transition(completed.ID, a2a.TaskStateWorking)
	store.Complete(completed.ID, a2a.AgentMessage("done"), nil)

	err := store.Cancel(completed.ID)
	var notCancelable a2a.TaskNotCancelableError
	if !errors.As(err, &notCancelable) {
		t.Fatalf("Cancel(completed) = %v, want TaskNotCancelableError", err)
	}

	// The task is left untouched.
	got, _ = store.Get(completed.ID)
	if got.Status != a2a.TaskStateCompleted {
		t.Errorf("Status = %q, want completed after refused cancel", got.Status)
	}

	if err := store.Cancel("missing"); err == nil {
		t.Error("expected error canceling an unknown task")
	}
}
