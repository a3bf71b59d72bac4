package domain

import (
	"fmt"
	"strings"
	"time"
)

// Post is a single wiki article. It belongs to exactly one
// category/subcategory pair, fixed at creation time.
type Post struct {
	ID          string
	Title       string
	Content     string
	Writer      string
	Category    string
	Subcategory string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostDraft carries the fields a client supplies when creating a post.
// The backend assigns ID and timestamps.
type PostDraft struct {
	Title       string
	Content     string
	Writer      string
	Category    string
	Subcategory string
}

// PostPatch carries the mutable fields of an update. Nil means "leave
// unchanged". Category and subcategory are immutable after creation and
// are deliberately absent.
type PostPatch struct {
	Title   *string
	Content *string
	Writer  *string
}

// Validate checks that all draft fields are non-empty after trimming
// and that the category/subcategory pair exists in the taxonomy.
func (d *PostDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("content is required")
	}
	if strings.TrimSpace(d.Writer) == "" {
		return fmt.Errorf("writer is required")
	}
	if _, _, ok := LookupSubcategory(d.Category, d.Subcategory); !ok {
		return fmt.Errorf("unknown category/subcategory pair %q/%q", d.Category, d.Subcategory)
	}
	return nil
}

// Trim returns a copy of the draft with title, content, and writer
// whitespace-trimmed.
func (d PostDraft) Trim() PostDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Writer = strings.TrimSpace(d.Writer)
	return d
}

// IsEmpty reports whether the patch changes nothing.
func (p *PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Writer == nil
}

// Apply copies the patch onto a post, leaving unset fields alone.
// ID, category, subcategory, and createdAt are never touched.
func (p *PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Writer != nil {
		post.Writer = *p.Writer
	}
}

// MatchesSearch reports whether the post's title or content contains
// term as a case-insensitive substring. An empty term matches all posts.
func (p *Post) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Title), t) ||
		strings.Contains(strings.ToLower(p.Content), t)
}
