// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package a2a_test

import (
	"testing"

	gocmp "github.com/google/go-cmp/cmp"

	a2a "github.com/formagent/a2a"
)

func TestDefaultCard(t *testing.T) {
	t.Parallel()

	card := a2a.DefaultCard("http://localhost:8080")

	if got, want := card.URL, "http://localhost:8080"; got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
	if card.Name == "" || card.Version == "" {
		t.Error("card must have a name and version")
	}

	wantSkills := []string{
		a2a.SkillNavigateForm,
		a2a.SkillSubmitContact,
		a2a.SkillSubmitEmployee,
		a2a.SkillSubmitSupportTicket,
		a2a.SkillAskAssistant,
	}
	var gotSkills []string
	for _, skill := range card.Skills {
		gotSkills = append(gotSkills, skill.ID)
	}
	if diff := gocmp.Diff(wantSkills, gotSkills); diff != "" {
		t.Errorf("skill ids: (-want +got):\n%s", diff)
	}

	if card.Capabilities.Streaming || card.Capabilities.PushNotifications || card.Capabilities.StateTransitionHistory {
		t.Errorf("all capability flags must be false, got %+v", card.Capabilities)
	}

	schemes, ok := card.Authentication["schemes"].([]string)
	if !ok || len(schemes) != 1 || schemes[0] != "none" {
		t.Errorf(`Authentication = %v, want {"schemes": ["none"]}`, card.Authentication)
	}
}

func TestDefaultCardSkillSchemas(t *testing.T) {
	t.Parallel()

	card := a2a.DefaultCard("")
	for _, skill := range card.Skills {
		if skill.Name == "" || skill.Description == "" {
			t.Errorf("skill %s missing name or description", skill.ID)
		}
		if skill.InputSchema == nil {
			t.Errorf("skill %s missing input schema", skill.ID)
		}
		if len(skill.Tags) == 0 {
			t.Errorf("skill %s missing tags", skill.ID)
		}
	}
}
