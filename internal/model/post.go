// Package model defines core data structures and types for the blog application.
package model

import (
	"errors"
	"strings"
	"time"
)

type PostID string

// Category is the closed set of topics a post can be filed under.
type Category string

const (
	CategoryTech      Category = "Tech"
	CategoryLifestyle Category = "Lifestyle"
	CategoryBusiness  Category = "Business"
)

// Categories lists every accepted category in display order.
var Categories = []Category{CategoryTech, CategoryLifestyle, CategoryBusiness}

var (
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidCategory  = errors.New("invalid category")
)

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory turns raw input into a member of the closed category set.
// Blank input yields ErrCategoryRequired; anything else that is not exactly a
// member, padding and case included, yields ErrInvalidCategory.
func ParseCategory(raw string) (Category, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrCategoryRequired
	}

	c := Category(raw)
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

type Post struct {
	ID PostID `json:"id"`

	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Summary  string   `json:"summary"`
	Category Category `json:"category"`
	Content  string   `json:"content"`

	// Set once at creation.
	CreatedAt time.Time `json:"createdAt"`
}

// Draft returns the user-editable fields of the post, used to seed an edit session.
func (p *Post) Draft() Draft {
	return Draft{
		Title:    p.Title,
		Author:   p.Author,
		Summary:  p.Summary,
		Category: string(p.Category),
		Content:  p.Content,
	}
}
