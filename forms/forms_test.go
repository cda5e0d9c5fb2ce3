// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package forms_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/formagent/a2a/forms"
)

func newTestStore(t *testing.T) *forms.Store {
	t.Helper()
	store, err := forms.Open(filepath.Join(t.TempDir(), "forms.db"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    forms.Priority
		wantErr bool
	}{
		"uppercase":  {in: "HIGH", want: forms.PriorityHigh},
		"lowercase":  {in: "critical", want: forms.PriorityCritical},
		"mixed case": {in: "Medium", want: forms.PriorityMedium},
		"invalid":    {in: "URGENT", wantErr: true},
		"empty":      {in: "", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := forms.ParsePriority(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePriority(%q) succeeded, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    forms.Category
		wantErr bool
	}{
		"uppercase":  {in: "TECHNICAL", want: forms.CategoryTechnical},
		"lowercase":  {in: "bug_report", want: forms.CategoryBugReport},
		"mixed case": {in: "Feature_Request", want: forms.CategoryFeatureRequest},
		"invalid":    {in: "SALES", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := forms.ParseCategory(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCategory(%q) succeeded, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStoreCreateContact(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	contact, err := store.CreateContact(ctx, "Ana", "Babić", "ana@example.com", "091234567", "Example d.o.o.", "Hello")
	if err != nil {
		t.Fatal(err)
	}
	if contact.ID == 0 {
		t.Error("expected an assigned ID")
	}

	contacts, err := store.ListContacts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 1 || contacts[0].Email != "ana@example.com" {
		t.Errorf("ListContacts = %+v", contacts)
	}
}

func TestStoreCreateEmployeeOptionalFields(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	hireDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	salary := 72000.50
	withOptionals, err := store.CreateEmployee(ctx, "Iva", "Ivić", "iva@example.com", "Engineering", "Developer", &hireDate, &salary)
	if err != nil {
		t.Fatal(err)
	}
	if withOptionals.HireDate == nil || withOptionals.Salary == nil {
		t.Error("optional fields were dropped")
	}

	withoutOptionals, err := store.CreateEmployee(ctx, "Pero", "Perić", "pero@example.com", "", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if withoutOptionals.HireDate != nil || withoutOptionals.Salary != nil {
		t.Error("nil optionals came back non-nil")
	}
}

func TestStoreCreateTicket(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	ticket, err := store.CreateTicket(ctx, "Login broken", "Cannot log in", "Ana", "ana@example.com", forms.PriorityHigh, forms.CategoryTechnical)
	if err != nil {
		t.Fatal(err)
	}
	if ticket.Status != "OPEN" {
		t.Errorf("Status = %q, want OPEN", ticket.Status)
	}
	if ticket.Priority != forms.PriorityHigh || ticket.Category != forms.CategoryTechnical {
		t.Errorf("Priority/Category = %q/%q", ticket.Priority, ticket.Category)
	}
}

func TestStoreSubmissions(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateContact(ctx, "Ana", "Babić", "ana@example.com", "", "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateEmployee(ctx, "Iva", "Ivić", "iva@example.com", "", "", nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateTicket(ctx, "Login broken", "details", "Pero", "pero@example.com", forms.PriorityLow, forms.CategoryGeneral); err != nil {
		t.Fatal(err)
	}

	submissions, err := store.Submissions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(submissions) != 3 {
		t.Fatalf("got %d submissions, want 3", len(submissions))
	}

	kinds := map[string]bool{}
	for _, s := range submissions {
		kinds[s.Kind] = true
	}
	for _, kind := range []string{"contact", "employee", "support"} {
		if !kinds[kind] {
			t.Errorf("missing %s submission", kind)
		}
	}

	for i := 1; i < len(submissions); i++ {
		if submissions[i].CreatedAt.After(submissions[i-1].CreatedAt) {
			t.Error("submissions are not sorted newest first")
		}
	}
}
