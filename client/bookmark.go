// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Bookmark is a saved agent server the client can talk to.
type Bookmark struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:255;not null"`
	BaseURL       string `gorm:"size:512;not null;uniqueIndex"`
	Description   string `gorm:"size:1024"`
	Tag           string `gorm:"size:100;index"`
	AgentVersion  string `gorm:"size:50"`
	Active        bool   `gorm:"default:true"`
	LastConnected *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName pins the table name independent of pluralization settings.
func (Bookmark) TableName() string { return "agent_bookmarks" }

// BookmarkStore persists agent bookmarks in SQLite.
type BookmarkStore struct {
	db *gorm.DB
}

// OpenBookmarkStore opens (creating if needed) a bookmark database at path.
func OpenBookmarkStore(path string) (*BookmarkStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open bookmark database: %w", err)
	}
	return NewBookmarkStore(db)
}

// NewBookmarkStore wraps an existing database handle, migrating the schema.
func NewBookmarkStore(db *gorm.DB) (*BookmarkStore, error) {
	if err := db.AutoMigrate(&Bookmark{}); err != nil {
		return nil, fmt.Errorf("migrate bookmarks: %w", err)
	}
	return &BookmarkStore{db: db}, nil
}

// SeedDefault inserts the default local agent bookmark when the store is
// empty, so a fresh install has something to talk to.
func (s *BookmarkStore) SeedDefault(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Bookmark{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := s.Create(ctx, &Bookmark{
		Name:        "Local Form Assistant",
		BaseURL:     "http://localhost:8080",
		Description: "Local A2A agent server with form skills",
		Tag:         "FormAgent",
		Active:      true,
	})
	return err
}

// normalizeURL trims whitespace and a trailing slash so lookups by URL are
// stable.
func normalizeURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

// Create saves a new bookmark and returns it with its assigned ID.
func (s *BookmarkStore) Create(ctx context.Context, b *Bookmark) (*Bookmark, error) {
	b.BaseURL = normalizeURL(b.BaseURL)
	if b.BaseURL == "" {
		return nil, fmt.Errorf("bookmark URL is required")
	}
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return b, nil
}

// Update saves changes to an existing bookmark.
func (s *BookmarkStore) Update(ctx context.Context, b *Bookmark) error {
	b.BaseURL = normalizeURL(b.BaseURL)
	return s.db.WithContext(ctx).Save(b).Error
}

// Delete removes a bookmark by ID.
func (s *BookmarkStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&Bookmark{}, id).Error
}

// All returns every bookmark, newest first.
func (s *BookmarkStore) All(ctx context.Context) ([]Bookmark, error) {
	var bookmarks []Bookmark
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&bookmarks).Error
	return bookmarks, err
}

// Active returns every active bookmark, newest first.
func (s *BookmarkStore) Active(ctx context.Context) ([]Bookmark, error) {
	var bookmarks []Bookmark
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("created_at desc").Find(&bookmarks).Error
	return bookmarks, err
}

// ByID returns one bookmark by its ID.
func (s *BookmarkStore) ByID(ctx context.Context, id uint) (*Bookmark, error) {
	var b Bookmark
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ByURL returns one bookmark by its normalized base URL.
func (s *BookmarkStore) ByURL(ctx context.Context, baseURL string) (*Bookmark, error) {
	var b Bookmark
	if err := s.db.WithContext(ctx).Where("base_url = ?", normalizeURL(baseURL)).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ByTag returns the active bookmarks carrying the given tag.
func (s *BookmarkStore) ByTag(ctx context.Context, tag string) ([]Bookmark, error) {
	var bookmarks []Bookmark
	err := s.db.WithContext(ctx).Where("tag = ? AND active = ?", tag, true).Find(&bookmarks).Error
	return bookmarks, err
}

// Search matches name, description, or tag case-insensitively.
func (s *BookmarkStore) Search(ctx context.Context, query string) ([]Bookmark, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var bookmarks []Bookmark
	err := s.db.WithContext(ctx).
		Where("lower(name) LIKE ? OR lower(description) LIKE ? OR lower(tag) LIKE ?", pattern, pattern, pattern).
		Order("created_at desc").
		Find(&bookmarks).Error
	return bookmarks, err
}

// TouchLastConnected stamps the bookmark with the current time.
func (s *BookmarkStore) TouchLastConnected(ctx context.Context, id uint) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&Bookmark{}).Where("id = ?", id).Update("last_connected", &now).Error
}

// ToggleActive flips the active flag and returns the new value.
func (s *BookmarkStore) ToggleActive(ctx context.Context, id uint) (bool, error) {
	b, err := s.ByID(ctx, id)
	if err != nil {
		return false, err
	}
	b.Active = !b.Active
	if err := s.db.WithContext(ctx).Save(b).Error; err != nil {
		return false, err
	}
	return b.Active, nil
}

// AgentsContext renders the active bookmarks as a prompt section for the
// personal assistant.
func (s *BookmarkStore) AgentsContext(ctx context.Context) (string, error) {
	bookmarks, err := s.Active(ctx)
	if err != nil {
		return "", err
	}
	if len(bookmarks) == 0 {
		return "No agent servers are currently bookmarked.", nil
	}

	var sb strings.Builder
	for _, b := range bookmarks {
		fmt.Fprintf(&sb, "- ID %d: %s (%s)", b.ID, b.Name, b.BaseURL)
		if b.Tag != "" {
			fmt.Fprintf(&sb, " [tag: @%s]", b.Tag)
		}
		if b.Description != "" {
			fmt.Fprintf(&sb, " - %s", b.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
