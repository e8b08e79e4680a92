package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/debemdeboas/blog-wizard/internal/model"
)

// storedPost is the persisted shape of a post. Timestamps are RFC 3339 text
// in UTC so the record stays readable and round trips exactly.
type storedPost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Summary   string `json:"summary"`
	Category  string `json:"category"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// EncodePosts serializes the collection as a JSON array.
func EncodePosts(posts []model.Post) ([]byte, error) {
	out := make([]storedPost, len(posts))
	for i, p := range posts {
		out[i] = storedPost{
			ID:        string(p.ID),
			Title:     p.Title,
			Author:    p.Author,
			Summary:   p.Summary,
			Category:  string(p.Category),
			Content:   p.Content,
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	return json.Marshal(out)
}

// DecodePosts parses a record written by EncodePosts. A record breaking the
// collection invariants (duplicate or empty ids, categories outside the
// closed set) is rejected as a whole.
func DecodePosts(data []byte) ([]model.Post, error) {
	var in []storedPost
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("error decoding posts: %w", err)
	}

	posts := make([]model.Post, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, sp := range in {
		if sp.ID == "" {
			return nil, fmt.Errorf("post %d has no id", i)
		}
		if _, dup := seen[sp.ID]; dup {
			return nil, fmt.Errorf("duplicate post id %s", sp.ID)
		}
		seen[sp.ID] = struct{}{}

		category, err := model.ParseCategory(sp.Category)
		if err != nil {
			return nil, fmt.Errorf("post %s: %w", sp.ID, err)
		}

		createdAt, err := time.Parse(time.RFC3339Nano, sp.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("post %s: error parsing createdAt: %w", sp.ID, err)
		}

		posts = append(posts, model.Post{
			ID:        model.PostID(sp.ID),
			Title:     sp.Title,
			Author:    sp.Author,
			Summary:   sp.Summary,
			Category:  category,
			Content:   sp.Content,
			CreatedAt: createdAt,
		})
	}

	return posts, nil
}
