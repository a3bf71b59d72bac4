package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmorgan-nz/kiwiki/internal/domain"
)

// Post options
type PostOption func(*domain.Post)

func WithPair(category, subcategory string) PostOption {
	return func(p *domain.Post) {
		p.Category = category
		p.Subcategory = subcategory
	}
}

func WithContent(content string) PostOption {
	return func(p *domain.Post) {
		p.Content = content
	}
}

func WithWriter(writer string) PostOption {
	return func(p *domain.Post) {
		p.Writer = writer
	}
}

func WithUpdatedAt(t time.Time) PostOption {
	return func(p *domain.Post) {
		p.UpdatedAt = t
	}
}

func WithID(id string) PostOption {
	return func(p *domain.Post) {
		p.ID = id
	}
}

// NewTestPost builds a post with server-shaped defaults: a fresh id,
// matching timestamps, and a valid taxonomy pair.
func NewTestPost(title string, opts ...PostOption) domain.Post {
	now := time.Now().UTC().Truncate(time.Second)
	p := domain.Post{
		ID:          uuid.New().String(),
		Title:       title,
		Content:     "content of " + title,
		Writer:      "tester",
		Category:    "living",
		Subcategory: "visa",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// NewTestDraft builds a valid draft for the given taxonomy pair.
func NewTestDraft(title, category, subcategory string) domain.PostDraft {
	return domain.PostDraft{
		Title:       title,
		Content:     "content of " + title,
		Writer:      "tester",
		Category:    category,
		Subcategory: subcategory,
	}
}
