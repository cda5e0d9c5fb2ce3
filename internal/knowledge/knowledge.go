// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Package knowledge loads the personal knowledge base backing the
// client-side assistant: contacts, owner profile, projects, and free-form
// notes read from a directory of JSON and text files.
package knowledge

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
)

// Contact is one person in the knowledge base.
type Contact struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Company   string   `json:"company"`
	Position  string   `json:"position"`
	Address   string   `json:"address"`
	Notes     string   `json:"notes"`
	Tags      []string `json:"tags"`
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ContextString renders the contact for inclusion in an assistant prompt.
func (c Contact) ContextString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Contact: %s\n", c.FullName())
	fmt.Fprintf(&sb, "  Email: %s\n", c.Email)
	if c.Phone != "" {
		fmt.Fprintf(&sb, "  Phone: %s\n", c.Phone)
	}
	if c.Company != "" {
		fmt.Fprintf(&sb, "  Company: %s\n", c.Company)
	}
	if c.Position != "" {
		fmt.Fprintf(&sb, "  Position: %s\n", c.Position)
	}
	if c.Address != "" {
		fmt.Fprintf(&sb, "  Address: %s\n", c.Address)
	}
	if c.Notes != "" {
		fmt.Fprintf(&sb, "  Notes: %s\n", c.Notes)
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(&sb, "  Tags: %s\n", strings.Join(c.Tags, ", "))
	}
	return sb.String()
}

// Profile is the owner's profile.
type Profile struct {
	Owner struct {
		FirstName         string `json:"firstName"`
		LastName          string `json:"lastName"`
		Email             string `json:"email"`
		Phone             string `json:"phone"`
		Company           string `json:"company"`
		Position          string `json:"position"`
		Location          string `json:"location"`
		Timezone          string `json:"timezone"`
		PreferredLanguage string `json:"preferredLanguage"`
		Bio               string `json:"bio"`
	} `json:"owner"`
	Preferences struct {
		CommunicationStyle string `json:"communicationStyle"`
		DefaultGreeting    string `json:"defaultGreeting"`
		DefaultSignature   string `json:"defaultSignature"`
		WorkingHours       struct {
			Start    string `json:"start"`
			End      string `json:"end"`
			Timezone string `json:"timezone"`
		} `json:"workingHours"`
	} `json:"preferences"`
}

// ContextString renders the profile for inclusion in an assistant prompt.
func (p Profile) ContextString() string {
	var sb strings.Builder
	sb.WriteString("Owner Profile:\n")
	fmt.Fprintf(&sb, "  Name: %s %s\n", p.Owner.FirstName, p.Owner.LastName)
	fmt.Fprintf(&sb, "  Email: %s\n", p.Owner.Email)
	fmt.Fprintf(&sb, "  Phone: %s\n", p.Owner.Phone)
	fmt.Fprintf(&sb, "  Company: %s\n", p.Owner.Company)
	fmt.Fprintf(&sb, "  Position: %s\n", p.Owner.Position)
	fmt.Fprintf(&sb, "  Location: %s\n", p.Owner.Location)
	fmt.Fprintf(&sb, "  Bio: %s\n", p.Owner.Bio)
	sb.WriteString("\nPreferences:\n")
	fmt.Fprintf(&sb, "  Communication Style: %s\n", p.Preferences.CommunicationStyle)
	fmt.Fprintf(&sb, "  Default Greeting: %s\n", p.Preferences.DefaultGreeting)
	fmt.Fprintf(&sb, "  Default Signature: %s\n", p.Preferences.DefaultSignature)
	return sb.String()
}

// Project is one project in the knowledge base.
type Project struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Client          string   `json:"client"`
	ContactPerson   string   `json:"contactPerson"`
	Status          string   `json:"status"`
	StartDate       string   `json:"startDate"`
	ExpectedEndDate string   `json:"expectedEndDate"`
	Technologies    []string `json:"technologies"`
	Budget          string   `json:"budget"`
	Notes           string   `json:"notes"`
}

// ContextString renders the project for inclusion in an assistant prompt.
func (p Project) ContextString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Project: %s\n", p.Name)
	fmt.Fprintf(&sb, "  Description: %s\n", p.Description)
	fmt.Fprintf(&sb, "  Client: %s\n", p.Client)
	fmt.Fprintf(&sb, "  Status: %s\n", p.Status)
	fmt.Fprintf(&sb, "  Start Date: %s\n", p.StartDate)
	fmt.Fprintf(&sb, "  Expected End: %s\n", p.ExpectedEndDate)
	if len(p.Technologies) > 0 {
		fmt.Fprintf(&sb, "  Technologies: %s\n", strings.Join(p.Technologies, ", "))
	}
	if p.Budget != "" {
		fmt.Fprintf(&sb, "  Budget: %s\n", p.Budget)
	}
	if p.Notes != "" {
		fmt.Fprintf(&sb, "  Notes: %s\n", p.Notes)
	}
	return sb.String()
}

// Base is the loaded knowledge base. It is read-only after Load.
type Base struct {
	contacts []Contact
	profile  *Profile
	projects []Project
	notes    string
}

// Load reads the knowledge base from dir. Missing or unreadable files are
// logged as warnings and skipped; an empty base is a valid result.
func Load(dir string, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Base{}

	if err := readJSON(filepath.Join(dir, "contacts.json"), &b.contacts); err != nil {
		logger.Warn("could not load contacts.json", "error", err)
	}
	var profile Profile
	if err := readJSON(filepath.Join(dir, "profile.json"), &profile); err != nil {
		logger.Warn("could not load profile.json", "error", err)
	} else {
		b.profile = &profile
	}
	if err := readJSON(filepath.Join(dir, "projects.json"), &b.projects); err != nil {
		logger.Warn("could not load projects.json", "error", err)
	}
	if data, err := os.ReadFile(filepath.Join(dir, "notes.txt")); err != nil {
		logger.Warn("could not load notes.txt", "error", err)
	} else {
		b.notes = string(data)
	}

	logger.Info("knowledge base loaded", "contacts", len(b.contacts), "projects", len(b.projects))
	return b
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.UnmarshalRead(f, v)
}

// Contacts returns all contacts.
func (b *Base) Contacts() []Contact {
	return append([]Contact(nil), b.contacts...)
}

// Profile returns the owner profile, or nil when absent.
func (b *Base) Profile() *Profile {
	return b.profile
}

// Projects returns all projects.
func (b *Base) Projects() []Project {
	return append([]Project(nil), b.projects...)
}

// ActiveProjects returns the projects with status "active".
func (b *Base) ActiveProjects() []Project {
	var active []Project
	for _, p := range b.projects {
		if p.Status == "active" {
			active = append(active, p)
		}
	}
	return active
}

// Notes returns the free-form notes text.
func (b *Base) Notes() string {
	return b.notes
}

// FindContactByID returns the contact with the given id.
func (b *Base) FindContactByID(id string) (Contact, bool) {
	for _, c := range b.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}

// FindContactByName returns the first contact whose full, first, or last
// name contains name, case-insensitively.
func (b *Base) FindContactByName(name string) (Contact, bool) {
	needle := strings.ToLower(name)
	for _, c := range b.contacts {
		if strings.Contains(strings.ToLower(c.FullName()), needle) ||
			strings.Contains(strings.ToLower(c.FirstName), needle) ||
			strings.Contains(strings.ToLower(c.LastName), needle) {
			return c, true
		}
	}
	return Contact{}, false
}

// SearchContacts matches full name, company, email, or any tag,
// case-insensitively.
func (b *Base) SearchContacts(query string) []Contact {
	needle := strings.ToLower(query)
	var matched []Contact
	for _, c := range b.contacts {
		if strings.Contains(strings.ToLower(c.FullName()), needle) ||
			strings.Contains(strings.ToLower(c.Company), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) ||
			tagMatches(c.Tags, needle) {
			matched = append(matched, c)
		}
	}
	return matched
}

func tagMatches(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// ContactContext renders one contact for agent interactions, or a
// not-found message.
func (b *Base) ContactContext(id string) string {
	if c, ok := b.FindContactByID(id); ok {
		return c.ContextString()
	}
	return "Contact not found: " + id
}

// FullContext renders the whole knowledge base as one assistant prompt
// section.
func (b *Base) FullContext() string {
	var sb strings.Builder
	sb.WriteString("=== PERSONAL KNOWLEDGE BASE ===\n\n")
	if b.profile != nil {
		sb.WriteString(b.profile.ContextString())
		sb.WriteString("\n")
	}
	sb.WriteString("=== CONTACTS ===\n\n")
	for _, c := range b.contacts {
		sb.WriteString(c.ContextString())
		sb.WriteString("\n")
	}
	sb.WriteString("=== PROJECTS ===\n\n")
	for _, p := range b.projects {
		sb.WriteString(p.ContextString())
		sb.WriteString("\n")
	}
	sb.WriteString("=== NOTES ===\n\n")
	sb.WriteString(b.notes)
	return sb.String()
}
