package nav

import (
	"sort"

	"github.com/jmorgan-nz/kiwiki/internal/domain"
)

// Labels for the editor views. The rest of the UI keeps the original
// community's Korean labels, so these do too.
const (
	createTitle = "새 글 작성"
	editTitle   = "글 수정"
)

// FilteredPosts restricts posts to the selected category/subcategory
// pair (when both are set) and then to the search term as a
// case-insensitive substring of title or content. An empty term filters
// nothing.
func (m *Machine) FilteredPosts(posts []domain.Post) []domain.Post {
	var out []domain.Post
	for _, p := range posts {
		if m.selectedCategory != "" && m.selectedSubcategory != "" {
			if p.Category != m.selectedCategory || p.Subcategory != m.selectedSubcategory {
				continue
			}
		}
		if !p.MatchesSearch(m.searchTerm) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CurrentCategory resolves the selected category id against the static
// taxonomy. Callers must handle the not-found case.
func (m *Machine) CurrentCategory() (*domain.Category, bool) {
	return domain.LookupCategory(m.selectedCategory)
}

// CurrentSubcategory resolves the selected subcategory under the
// selected category.
func (m *Machine) CurrentSubcategory() (*domain.Subcategory, bool) {
	_, s, ok := domain.LookupSubcategory(m.selectedCategory, m.selectedSubcategory)
	if !ok {
		return nil, false
	}
	return s, true
}

// Title returns the header label for the current view. The post view
// renders its title inside the content area, so it gets none here.
func (m *Machine) Title() string {
	switch m.view {
	case ViewCategory:
		if c, ok := m.CurrentCategory(); ok {
			return c.Name
		}
		return ""
	case ViewSubcategory:
		c, okC := m.CurrentCategory()
		s, okS := m.CurrentSubcategory()
		if okC && okS {
			return c.Name + " > " + s.Name
		}
		return ""
	case ViewCreate:
		return createTitle
	case ViewEdit:
		return editTitle
	default:
		return ""
	}
}

// PostCount counts posts in the given category across the whole store,
// ignoring subcategory and search term.
func PostCount(posts []domain.Post, categoryID string) int {
	n := 0
	for _, p := range posts {
		if p.Category == categoryID {
			n++
		}
	}
	return n
}

// SubcategoryPostCount counts posts under one category/subcategory pair.
func SubcategoryPostCount(posts []domain.Post, categoryID, subcategoryID string) int {
	n := 0
	for _, p := range posts {
		if p.Category == categoryID && p.Subcategory == subcategoryID {
			n++
		}
	}
	return n
}

// RecentPosts returns the newest posts by updatedAt, up to limit. The
// input slice is left untouched.
func RecentPosts(posts []domain.Post, limit int) []domain.Post {
	sorted := make([]domain.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
