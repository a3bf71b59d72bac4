// Package nav owns the browse session's view state: which of the six
// views is showing, the selected category/subcategory/post, the search
// term, and the editing target. All mutation goes through the input
// methods, which apply an explicit transition table.
package nav

import (
	"github.com/jmorgan-nz/kiwiki/internal/domain"
)

// View names one of the six navigation states.
type View string

const (
	ViewHome        View = "home"
	ViewCategory    View = "category"
	ViewSubcategory View = "subcategory"
	ViewPost        View = "post"
	ViewCreate      View = "create"
	ViewEdit        View = "edit"
)

// backTarget is the transition table for the back input. Home maps to
// itself: back from home is a no-op.
var backTarget = map[View]View{
	ViewHome:        ViewHome,
	ViewCategory:    ViewHome,
	ViewSubcategory: ViewCategory,
	ViewPost:        ViewSubcategory,
	ViewCreate:      ViewSubcategory,
	ViewEdit:        ViewSubcategory,
}

// Machine is the navigation state machine. It starts at home and has no
// terminal state. It reads post data passed in by the caller; it never
// mutates the store.
type Machine struct {
	view                View
	selectedCategory    string
	selectedSubcategory string
	selectedPost        *domain.Post
	editingPost         *domain.Post
	searchTerm          string
}

func NewMachine() *Machine {
	return &Machine{view: ViewHome}
}

// ── state accessors ──────────────────────────────────────────────────────────

func (m *Machine) Current() View               { return m.view }
func (m *Machine) SelectedCategory() string    { return m.selectedCategory }
func (m *Machine) SelectedSubcategory() string { return m.selectedSubcategory }
func (m *Machine) SelectedPost() *domain.Post  { return m.selectedPost }
func (m *Machine) EditingPost() *domain.Post   { return m.editingPost }
func (m *Machine) SearchTerm() string          { return m.searchTerm }
func (m *Machine) SetSearchTerm(term string)   { m.searchTerm = term }

// ── inputs ───────────────────────────────────────────────────────────────────

// SelectCategory enters the category view from any state.
func (m *Machine) SelectCategory(id string) {
	m.selectedCategory = id
	m.view = ViewCategory
}

// SelectSubcategory enters the subcategory view. It only fires from the
// category view; elsewhere there is no subcategory list to pick from.
func (m *Machine) SelectSubcategory(id string) {
	if m.view != ViewCategory {
		return
	}
	m.selectedSubcategory = id
	m.view = ViewSubcategory
}

// ViewPostDetail opens a post. From home the post's own
// category/subcategory become the selection, so that back navigation
// walks up through them.
func (m *Machine) ViewPostDetail(post domain.Post) {
	if m.view == ViewHome {
		m.selectedCategory = post.Category
		m.selectedSubcategory = post.Subcategory
	}
	p := post
	m.selectedPost = &p
	m.view = ViewPost
}

// CreatePost enters the create view. Only the subcategory view offers
// the write button; the draft inherits the current selection.
func (m *Machine) CreatePost() {
	if m.view != ViewSubcategory {
		return
	}
	m.editingPost = nil
	m.view = ViewCreate
}

// EditPost enters the edit view for the given post, from any state.
func (m *Machine) EditPost(post domain.Post) {
	p := post
	m.editingPost = &p
	m.view = ViewEdit
}

// Back walks one step up the view hierarchy. Leaving create or edit
// drops the editing target.
func (m *Machine) Back() {
	if m.view == ViewCreate || m.view == ViewEdit {
		m.editingPost = nil
	}
	m.view = backTarget[m.view]
}

// SaveSucceeded leaves create or edit for the subcategory view after a
// successful store write. A no-op in any other state.
func (m *Machine) SaveSucceeded() {
	if m.view != ViewCreate && m.view != ViewEdit {
		return
	}
	m.editingPost = nil
	m.view = ViewSubcategory
}

// PostDeleted reacts to a confirmed, successful delete: if the removed
// post is the one being viewed, navigate back so the session never
// points at a gone entity.
func (m *Machine) PostDeleted(id string) {
	if m.selectedPost != nil && m.selectedPost.ID == id {
		m.selectedPost = nil
		m.Back()
	}
}
