package backend

import (
	"fmt"
	"time"

	"github.com/jmorgan-nz/kiwiki/internal/domain"
)

// wireRecord is the post record as it crosses the wire. Timestamps are
// ISO-8601 strings; they are converted to time.Time at this boundary
// and nowhere else.
type wireRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Writer      string `json:"writer"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (r *wireRecord) toDomain() (domain.Post, error) {
	created, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return domain.Post{}, fmt.Errorf("parsing created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		return domain.Post{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return domain.Post{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		Writer:      r.Writer,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		CreatedAt:   created.Local(),
		UpdatedAt:   updated.Local(),
	}, nil
}

// draftFields builds the insert payload. The backend assigns id and
// both timestamps.
func draftFields(d domain.PostDraft) map[string]any {
	return map[string]any{
		"title":       d.Title,
		"content":     d.Content,
		"writer":      d.Writer,
		"category":    d.Category,
		"subcategory": d.Subcategory,
	}
}

// patchFields builds the partial update payload. Only set fields are
// included; category and subcategory never appear.
func patchFields(p domain.PostPatch) map[string]any {
	fields := map[string]any{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Content != nil {
		fields["content"] = *p.Content
	}
	if p.Writer != nil {
		fields["writer"] = *p.Writer
	}
	return fields
}
