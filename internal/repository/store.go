// Package repository owns the committed post collection and keeps it in sync
// with a durable storage backend when one is reachable.
package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/blog-wizard/internal/model"
	"github.com/debemdeboas/blog-wizard/internal/storage"
)

const (
	DefaultKey          = "blog-posts"
	DefaultWriteTimeout = 5 * time.Second

	probeKey      = "__storage_probe__"
	maxIDAttempts = 8
)

// ChangeKind names the mutation reported to a change notifier.
type ChangeKind string

const (
	PostCreated  ChangeKind = "created"
	PostUpdated  ChangeKind = "updated"
	PostDeleted  ChangeKind = "deleted"
	PostsCleared ChangeKind = "cleared"
)

// ErrIDExhausted means the id generator kept returning ids already in use.
var ErrIDExhausted = errors.New("could not generate a unique post id")

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

// PostStore is the single writer of the post collection. The in-memory slice
// is always the source of truth for reads; every mutation is followed by a
// best-effort write of the whole collection to the backend. A failed write
// switches the store to memory-only mode for the rest of its life.
//
// Two processes sharing one backend are not coordinated: the last write wins.
type PostStore struct {
	mu    sync.RWMutex
	posts []model.Post

	backend      storage.Backend
	key          string
	durable      bool
	writeTimeout time.Duration

	now   func() time.Time
	newID func(time.Time) model.PostID

	notify func(ChangeKind, model.PostID)
}

type Option func(*PostStore)

// WithKey sets the name of the record holding the collection.
func WithKey(key string) Option {
	return func(s *PostStore) {
		s.key = key
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(s *PostStore) {
		s.writeTimeout = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *PostStore) {
		s.now = now
	}
}

func WithIDGenerator(gen func(time.Time) model.PostID) Option {
	return func(s *PostStore) {
		s.newID = gen
	}
}

// NewPostStore probes backend and, when it is writable, loads the existing
// collection from it. A nil backend gives a memory-only store.
func NewPostStore(backend storage.Backend, opts ...Option) *PostStore {
	s := &PostStore{
		backend:      backend,
		key:          DefaultKey,
		writeTimeout: DefaultWriteTimeout,
		now:          time.Now,
		newID:        NewPostID,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.backend == nil {
		repoLogger.Warn().Msg("No storage backend configured, posts will not survive a restart")
		return s
	}

	s.durable = s.probe()
	if s.durable {
		s.rehydrate()
	}

	return s
}

func (s *PostStore) writeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.writeTimeout)
}

func (s *PostStore) probe() bool {
	ctx, cancel := s.writeContext()
	defer cancel()

	err := s.backend.Save(ctx, probeKey, []byte("test"))
	if err == nil {
		err = s.backend.Remove(ctx, probeKey)
	}
	if err != nil {
		repoLogger.Warn().
			Err(err).
			Str("backend", s.backend.Name()).
			Msg("Storage backend is not writable, falling back to memory")
		return false
	}
	return true
}

func (s *PostStore) rehydrate() {
	ctx, cancel := s.writeContext()
	defer cancel()

	data, err := s.backend.Load(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.degrade(err, "Error reading posts, falling back to memory")
		return
	}

	posts, err := DecodePosts(data)
	if err != nil {
		repoLogger.Error().
			Err(err).
			Str("backend", s.backend.Name()).
			Str("key", s.key).
			Msg("Discarding undecodable post record")
		return
	}

	s.posts = posts
	repoLogger.Info().Int("posts", len(posts)).Str("backend", s.backend.Name()).Msg("Posts loaded")
}

// degrade must be called with the write lock held, or during construction.
func (s *PostStore) degrade(err error, msg string) {
	s.durable = false
	repoLogger.Error().
		Err(err).
		Str("backend", s.backend.Name()).
		Str("key", s.key).
		Msg(msg)
}

// persist writes the whole collection. Callers hold the write lock.
func (s *PostStore) persist() {
	if !s.durable {
		return
	}

	data, err := EncodePosts(s.posts)
	if err != nil {
		s.degrade(err, "Error encoding posts, falling back to memory")
		return
	}

	ctx, cancel := s.writeContext()
	defer cancel()

	if err := s.backend.Save(ctx, s.key, data); err != nil {
		s.degrade(err, "Error saving posts, falling back to memory")
		return
	}

	repoLogger.Debug().Int("posts", len(s.posts)).Int("bytes", len(data)).Msg("Posts saved")
}

// SetChangeNotifier registers a function called after every committed
// mutation. It runs with the store locked and must not call back into it.
func (s *PostStore) SetChangeNotifier(notifier func(ChangeKind, model.PostID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = notifier
}

func (s *PostStore) changed(kind ChangeKind, id model.PostID) {
	if s.notify != nil {
		s.notify(kind, id)
	}
}

func (s *PostStore) indexOf(id model.PostID) int {
	return slices.IndexFunc(s.posts, func(p model.Post) bool {
		return p.ID == id
	})
}

// Create commits a new post built from d. The category is checked before
// anything else happens: a missing or unknown category returns
// model.ErrCategoryRequired or model.ErrInvalidCategory and nothing is stored.
// The other fields are stored as given.
func (s *PostStore) Create(d model.Draft) (model.PostID, error) {
	category, err := model.ParseCategory(d.Category)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := s.newID(now)
	for attempt := 1; s.indexOf(id) != -1; attempt++ {
		if attempt >= maxIDAttempts {
			return "", fmt.Errorf("%w after %d attempts", ErrIDExhausted, attempt)
		}
		id = s.newID(now)
	}

	s.posts = append(s.posts, model.Post{
		ID:        id,
		Title:     d.Title,
		Author:    d.Author,
		Summary:   d.Summary,
		Category:  category,
		Content:   d.Content,
		CreatedAt: now,
	})
	s.persist()
	s.changed(PostCreated, id)

	repoLogger.Info().Str("post_id", string(id)).Str("title", d.Title).Msg("Post created")
	return id, nil
}

func (s *PostStore) Get(id model.PostID) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i == -1 {
		return model.Post{}, false
	}
	return s.posts[i], true
}

// Update applies the non-nil fields of patch to the post with the given id.
// It returns false, changing nothing, when the id is unknown. Unlike Create,
// an invalid category in the patch is not an error: that one field is
// skipped and the rest of the patch still applies.
func (s *PostStore) Update(id model.PostID, patch model.DraftPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i == -1 {
		return false
	}

	post := s.posts[i]
	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Author != nil {
		post.Author = *patch.Author
	}
	if patch.Summary != nil {
		post.Summary = *patch.Summary
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if patch.Category != nil {
		if category, err := model.ParseCategory(*patch.Category); err == nil {
			post.Category = category
		} else {
			repoLogger.Debug().
				Str("post_id", string(id)).
				Str("category", *patch.Category).
				Msg("Ignoring invalid category in update")
		}
	}

	s.posts[i] = post
	s.persist()
	s.changed(PostUpdated, id)

	repoLogger.Info().Str("post_id", string(id)).Msg("Post updated")
	return true
}

// Delete removes the post and reports whether it existed.
func (s *PostStore) Delete(id model.PostID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i == -1 {
		return false
	}

	s.posts = slices.Delete(slices.Clone(s.posts), i, i+1)
	s.persist()
	s.changed(PostDeleted, id)

	repoLogger.Info().Str("post_id", string(id)).Msg("Post deleted")
	return true
}

// ClearAll drops every post and removes the stored record.
func (s *PostStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	s.changed(PostsCleared, "")
	if !s.durable {
		return
	}

	ctx, cancel := s.writeContext()
	defer cancel()

	if err := s.backend.Remove(ctx, s.key); err != nil {
		s.degrade(err, "Error clearing posts, falling back to memory")
	}
}

// List returns a copy of the collection in insertion order.
func (s *PostStore) List() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts)
}

func (s *PostStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// IsDurable reports whether mutations are still reaching the backend.
func (s *PostStore) IsDurable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.durable
}

// BackendName names the configured backend, or "memory" when there is none.
func (s *PostStore) BackendName() string {
	if s.backend == nil {
		return storage.BackendMemory
	}
	return s.backend.Name()
}

func (s *PostStore) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// SortNewestFirst returns a copy of posts ordered by creation time, newest
// first. Posts created at the same instant keep their relative order.
func SortNewestFirst(posts []model.Post) []model.Post {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b model.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}

// FilterByCategory returns the posts filed under c, preserving order.
func FilterByCategory(posts []model.Post, c model.Category) []model.Post {
	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}
