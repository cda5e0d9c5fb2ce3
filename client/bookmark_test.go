// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

package client_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/formagent/a2a/client"
)

func newTestBookmarks(t *testing.T) *client.BookmarkStore {
	t.Helper()
	store, err := client.OpenBookmarkStore(filepath.Join(t.TempDir(), "bookmarks.db"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestBookmarkStoreCreateNormalizesURL(t *testing.T) {
	t.Parallel()

	store := newTestBookmarks(t)
	ctx := context.Background()

	b, err := store.Create(ctx, &client.Bookmark{Name: "Agent", BaseURL: "  http://localhost:8080/  ", Active: true})
	if err != nil {
		t.Fatal(err)
	}
	if b.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q, want trimmed without trailing slash", b.BaseURL)
	}

	found, err := store.ByURL(ctx, "http://localhost:8080/")
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != b.ID {
		t.Errorf("ByURL found %d, want %d", found.ID, b.ID)
	}

	if _, err := store.Create(ctx, &client.Bookmark{Name: "Empty"}); err == nil {
		t.Error("expected error for missing URL")
	}
}

func TestBookmarkStoreByTagReturnsActiveOnly(t *testing.T) {
	t.Parallel()

	store := newTestBookmarks(t)
	ctx := context.Background()

	for _, b := range []*client.Bookmark{
		{Name: "One", BaseURL: "http://one.local", Tag: "FormAgent", Active: true},
		{Name: "Two", BaseURL: "http://two.local", Tag: "FormAgent", Active: true},
		{Name: "Dormant", BaseURL: "http://three.local", Tag: "FormAgent", Active: false},
		{Name: "Other", BaseURL: "http://four.local", Tag: "Billing", Active: true},
	} {
		if _, err := store.Create(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	matched, err := store.ByTag(ctx, "FormAgent")
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 2 {
		t.Fatalf("got %d bookmarks, want 2 active FormAgent entries", len(matched))
	}
	for _, b := range matched {
		if !b.Active || b.Tag != "FormAgent" {
			t.Errorf("unexpected match %+v", b)
		}
	}
}

func TestBookmarkStoreSearch(t *testing.T) {
	t.Parallel()

	store := newTestBookmarks(t)
	ctx := context.Background()

	store.Create(ctx, &client.Bookmark{Name: "HR Forms", BaseURL: "http://hr.local", Description: "employee registration", Tag: "FormAgent", Active: true})
	store.Create(ctx, &client.Bookmark{Name: "Billing", BaseURL: "http://billing.local", Tag: "Finance", Active: true})

	tests := map[string]int{
		"hr":       1,
		"EMPLOYEE": 1,
		"formage":  1,
		"local":    0,
		"billing":  1,
	}
	for query, want := range tests {
		got, err := store.Search(ctx, query)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != want {
			t.Errorf("Search(%q) returned %d results, want %d", query, len(got), want)
		}
	}
}

func TestBookmarkStoreToggleActive(t *testing.T) {
	t.Parallel()

	store := newTestBookmarks(t)
	ctx := context.Background()

	b, err := store.Create(ctx, &client.Bookmark{Name: "Agent", BaseURL: "http://a.local", Active: true})
	if err != nil {
		t.Fatal(err)
	}

	active, err := store.ToggleActive(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if active {
		t.Error("ToggleActive returned true, want false")
	}

	active, err = store.ToggleActive(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !active {
		t.Error("ToggleActive returned false, want true")
	}
}

func TestBookmarkStoreTouchLastConnected(t *testing.T) {
	t.Parallel()

	store := newTestBookmarks(t)
	ctx := context.Background()

	b, _ := store.Create(ctx, &client.Bookmark{Name: "Agent", BaseURL: "http://a.local", Active: true})
	if b.LastConnected != nil {
		t.Fatal("new bookmark should have no last-connected time")
	}

	if err := store.TouchLastConnected(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	got, err := store.ByID(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastConnected == nil {
		t.Error("LastConnected still unset after touch")
	}
}

func TestBookmarkStoreSeedDefault(t *testing.T) {
	t.Parallel()

	store := newTestBookmarks(t)
	ctx := context.Background()

	if err := store.SeedDefault(ctx); err != nil {
		t.Fatal(err)
	}
	// Seeding again must not duplicate.
	if err := store.SeedDefault(ctx); err != nil {
		t.Fatal(err)
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d bookmarks, want exactly one seeded entry", len(all))
	}
	if all[0].Tag != "FormAgent" || all[0].BaseURL != "http://localhost:8080" {
		t.Errorf("seeded bookmark = %+v", all[0])
	}
}

func TestBookmarkStoreAgentsContext(t *testing.T) {
	t.Parallel()

	store := newTestBookmarks(t)
	ctx := context.Background()

	empty, err := store.AgentsContext(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if empty == "" {
		t.Error("empty store should still render a context line")
	}

	store.Create(ctx, &client.Bookmark{Name: "HR Forms", BaseURL: "http://hr.local", Tag: "FormAgent", Description: "employee forms", Active: true})
	rendered, err := store.AgentsContext(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"HR Forms", "http://hr.local", "@FormAgent", "employee forms"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("context %q missing %q", rendered, want)
		}
	}
}
