package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/blog-wizard/internal/repository"
	"github.com/debemdeboas/blog-wizard/internal/storage"
)

const validPost = `%%%
title = "Importing posts"
author = "Jane Doe"
summary = "How the importer maps front matter."
category = "Tech"
date = 2024-05-01T10:00:00Z
%%%

` + "This body is long enough to pass the content length check of the wizard."

func newTestImporter() *importer {
	imp := &importer{log: zerolog.Nop()}
	imp.store = repository.NewPostStore(storage.NewMemoryBackend(), repository.WithClock(imp.clock))
	return imp
}

func TestDraftFromMarkdown(t *testing.T) {
	modTime := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("front matter", func(t *testing.T) {
		d, created := draftFromMarkdown("post.md", []byte(validPost), modTime)

		if d.Title != "Importing posts" {
			t.Errorf("Expected title from front matter, got %q", d.Title)
		}
		if d.Category != "Tech" {
			t.Errorf("Expected category Tech, got %q", d.Category)
		}
		if strings.Contains(d.Content, "%%%") {
			t.Errorf("Expected front matter to be stripped, got %q", d.Content)
		}
		want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		if !created.Equal(want) {
			t.Errorf("Expected %v, got %v", want, created)
		}
	})

	t.Run("plain markdown", func(t *testing.T) {
		d, created := draftFromMarkdown("my-notes.md", []byte("# Notes"), modTime)

		if d.Title != "my-notes" {
			t.Errorf("Expected file name as title, got %q", d.Title)
		}
		if d.Content != "# Notes" {
			t.Errorf("Expected whole file as content, got %q", d.Content)
		}
		if !created.Equal(modTime) {
			t.Errorf("Expected modification time, got %v", created)
		}
	})
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"good.md":   validPost,
		"bad.md":    "no front matter, so no author or category",
		"notes.txt": "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	imp := newTestImporter()
	imported, failed := imp.importDir(dir)

	if imported != 1 || failed != 1 {
		t.Fatalf("Expected 1 imported and 1 failed, got %d and %d", imported, failed)
	}

	posts := imp.store.List()
	if len(posts) != 1 {
		t.Fatalf("Expected 1 post, got %d", len(posts))
	}
	if !posts[0].CreatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected creation time from front matter, got %v", posts[0].CreatedAt)
	}
}

func TestImportFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.md")
	content := strings.Replace(validPost, `category = "Tech"`, `category = "Sports"`, 1)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	imp := newTestImporter()
	_, err := imp.importFile(path)

	if !errors.Is(err, errInvalidPost) {
		t.Fatalf("Expected errInvalidPost, got %v", err)
	}
	if !strings.Contains(err.Error(), "category: Please select a valid category") {
		t.Errorf("Expected category message, got %q", err.Error())
	}
	if imp.store.Len() != 0 {
		t.Errorf("Expected nothing stored, got %d posts", imp.store.Len())
	}
}
