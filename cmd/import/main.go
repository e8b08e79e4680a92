// Command import bulk-creates posts from markdown files whose TOML front
// matter carries the wizard fields.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/blog-wizard/internal/config"
	"github.com/debemdeboas/blog-wizard/internal/logger"
	"github.com/debemdeboas/blog-wizard/internal/model"
	"github.com/debemdeboas/blog-wizard/internal/repository"
	"github.com/debemdeboas/blog-wizard/internal/storage"
	"github.com/debemdeboas/blog-wizard/internal/util"
	"github.com/debemdeboas/blog-wizard/internal/validation"
)

var errInvalidPost = errors.New("post does not pass validation")

func main() {
	path := flag.String("path", "", "Path to the directory containing .md files")
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	dryRun := flag.Bool("dry-run", false, "Validate files without storing anything")
	flag.Parse()

	_ = godotenv.Load()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "The --path flag is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	repository.SetLogger(log)
	storage.SetLogger(log)

	var backend storage.Backend
	if !*dryRun {
		backend, err = storage.Open(context.Background(), cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("Error opening storage backend")
		}
	}

	imp := &importer{log: log}
	imp.store = repository.NewPostStore(backend,
		repository.WithKey(cfg.Storage.Key),
		repository.WithWriteTimeout(cfg.Storage.WriteTimeout),
		repository.WithClock(imp.clock),
	)
	defer imp.store.Close()

	if !*dryRun && !imp.store.IsDurable() {
		log.Fatal().Str("backend", imp.store.BackendName()).Msg("Storage backend is not writable, refusing to import")
	}

	imported, failed := imp.importDir(*path)
	log.Info().Int("imported", imported).Int("failed", failed).Bool("dry_run", *dryRun).Msg("Import finished")
	if failed > 0 {
		os.Exit(1)
	}
}

type importer struct {
	store *repository.PostStore
	log   zerolog.Logger

	// Creation time handed to the store for the post being imported.
	stamp time.Time
}

func (imp *importer) clock() time.Time {
	return imp.stamp
}

func (imp *importer) importDir(dir string) (imported, failed int) {
	files, err := os.ReadDir(dir)
	if err != nil {
		imp.log.Error().Err(err).Str("path", dir).Msg("Error reading directory")
		return 0, 1
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}

		id, err := imp.importFile(filepath.Join(dir, file.Name()))
		if err != nil {
			imp.log.Error().Err(err).Str("file", file.Name()).Msg("Error importing file")
			failed++
			continue
		}

		imp.log.Info().Str("file", file.Name()).Str("post_id", string(id)).Msg("Post imported")
		imported++
	}
	return imported, failed
}

// importFile creates one post from the file at path. Posts that would not
// pass the wizard's validation are rejected.
func (imp *importer) importFile(path string) (model.PostID, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	draft, created := draftFromMarkdown(filepath.Base(path), content, info.ModTime())

	if errs := validation.AllErrors(draft); len(errs) > 0 {
		parts := make([]string, 0, len(errs))
		for _, f := range model.Fields {
			if msg, ok := errs[f]; ok {
				parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
			}
		}
		return "", fmt.Errorf("%w: %s", errInvalidPost, strings.Join(parts, "; "))
	}

	imp.stamp = created.UTC()
	return imp.store.Create(draft)
}

// draftFromMarkdown maps front matter onto a draft. Without front matter the
// title falls back to the file name and the whole file becomes the content.
func draftFromMarkdown(name string, content []byte, modTime time.Time) (model.Draft, time.Time) {
	draft := model.Draft{
		Title:   strings.TrimSuffix(name, ".md"),
		Content: string(content),
	}
	created := modTime

	fm, body, err := util.GetFrontMatter(content)
	if err != nil {
		return draft, created
	}

	if fm.Title != "" {
		draft.Title = fm.Title
	}
	draft.Author = fm.Author
	draft.Summary = fm.Summary
	draft.Category = fm.Category
	draft.Content = string(body)
	if !fm.Date.IsZero() {
		created = fm.Date
	}

	return draft, created
}
