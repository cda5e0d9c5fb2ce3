// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Package forms holds the persisted form submission records of the agent
// server: contacts, employees and support tickets.
package forms

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Priority is a support ticket priority level.
type Priority string

// Valid ticket priorities.
const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// ParsePriority parses a priority value case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToUpper(s)); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return p, nil
	}
	return "", fmt.Errorf("invalid value for priority: %q", s)
}

// Category is a support ticket category.
type Category string

// Valid ticket categories.
const (
	CategoryTechnical      Category = "TECHNICAL"
	CategoryBilling        Category = "BILLING"
	CategoryGeneral        Category = "GENERAL"
	CategoryFeatureRequest Category = "FEATURE_REQUEST"
	CategoryBugReport      Category = "BUG_REPORT"
)

// ParseCategory parses a category value case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToUpper(s)); c {
	case CategoryTechnical, CategoryBilling, CategoryGeneral, CategoryFeatureRequest, CategoryBugReport:
		return c, nil
	}
	return "", fmt.Errorf("invalid value for category: %q", s)
}

// Contact is one submitted contact form.
type Contact struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Phone     string
	Company   string
	Message   string `gorm:"size:2000"`
	CreatedAt time.Time
}

// Employee is one registered employee.
type Employee struct {
	ID         uint   `gorm:"primaryKey"`
	FirstName  string `gorm:"not null"`
	LastName   string `gorm:"not null"`
	Email      string `gorm:"not null"`
	Department string
	Position   string
	HireDate   *time.Time
	Salary     *float64
	CreatedAt  time.Time
}

// SupportTicket is one submitted support ticket.
type SupportTicket struct {
	ID            uint   `gorm:"primaryKey"`
	Subject       string `gorm:"not null"`
	Description   string `gorm:"size:4000;not null"`
	ReporterName  string `gorm:"not null"`
	ReporterEmail string `gorm:"not null"`
	Priority      Priority
	Category      Category
	Status        string `gorm:"default:OPEN"`
	CreatedAt     time.Time
}

// Submission is a read model merging all record kinds for listing.
type Submission struct {
	Kind      string
	ID        uint
	Title     string
	Submitter string
	CreatedAt time.Time
}

// Store persists form records behind a simple create/list interface.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite database at path and migrates the
// record tables.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open forms database: %w", err)
	}
	return NewStore(db)
}

// NewStore wraps an existing gorm handle and migrates the record tables.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Contact{}, &Employee{}, &SupportTicket{}); err != nil {
		return nil, fmt.Errorf("migrate forms schema: %w", err)
	}
	return &Store{db: db}, nil
}

// CreateContact stores a contact form submission.
func (s *Store) CreateContact(ctx context.Context, firstName, lastName, email, phone, company, message string) (*Contact, error) {
	c := &Contact{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
		Company:   company,
		Message:   message,
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

// CreateEmployee stores an employee registration. hireDate and salary are
// optional.
func (s *Store) CreateEmployee(ctx context.Context, firstName, lastName, email, department, position string, hireDate *time.Time, salary *float64) (*Employee, error) {
	e := &Employee{
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		Department: department,
		Position:   position,
		HireDate:   hireDate,
		Salary:     salary,
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return e, nil
}

// CreateTicket stores a support ticket. Zero-valued priority and category
// are stored as-is; callers validate non-empty values beforehand.
func (s *Store) CreateTicket(ctx context.Context, subject, description, reporterName, reporterEmail string, priority Priority, category Category) (*SupportTicket, error) {
	t := &SupportTicket{
		Subject:       subject,
		Description:   description,
		ReporterName:  reporterName,
		ReporterEmail: reporterEmail,
		Priority:      priority,
		Category:      category,
		Status:        "OPEN",
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("create support ticket: %w", err)
	}
	return t, nil
}

// ListContacts returns all stored contacts, newest first.
func (s *Store) ListContacts(ctx context.Context) ([]Contact, error) {
	var out []Contact
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

// ListEmployees returns all registered employees, newest first.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return out, nil
}

// ListTickets returns all support tickets, newest first.
func (s *Store) ListTickets(ctx context.Context) ([]SupportTicket, error) {
	var out []SupportTicket
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list support tickets: %w", err)
	}
	return out, nil
}

// Submissions merges all record kinds into one listing, newest first.
func (s *Store) Submissions(ctx context.Context) ([]Submission, error) {
	contacts, err := s.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.ListTickets(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Submission, 0, len(contacts)+len(employees)+len(tickets))
	for _, c := range contacts {
		out = append(out, Submission{
			Kind:      "contact",
			ID:        c.ID,
			Title:     "Contact inquiry",
			Submitter: c.FirstName + " " + c.LastName,
			CreatedAt: c.CreatedAt,
		})
	}
	for _, e := range employees {
		out = append(out, Submission{
			Kind:      "employee",
			ID:        e.ID,
			Title:     "Employee registration",
			Submitter: e.FirstName + " " + e.LastName,
			CreatedAt: e.CreatedAt,
		})
	}
	for _, t := range tickets {
		out = append(out, Submission{
			Kind:      "support",
			ID:        t.ID,
			Title:     t.Subject,
			Submitter: t.ReporterName,
			CreatedAt: t.CreatedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
