package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmorgan-nz/kiwiki/internal/nav"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewHome ViewID = iota
	ViewCategory
	ViewSubcategory
	ViewPost
	ViewEditor
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Capturing() bool          // true while the view owns all key input
}

// viewFor builds the View matching the machine's current position.
// Create and edit share the editor view.
func viewFor(state *SharedState) View {
	switch state.Machine.Current() {
	case nav.ViewCategory:
		return newCategoryView(state)
	case nav.ViewSubcategory:
		return newSubcategoryView(state)
	case nav.ViewPost:
		return newPostView(state)
	case nav.ViewCreate, nav.ViewEdit:
		return newEditorView(state)
	default:
		return newHomeView(state)
	}
}
