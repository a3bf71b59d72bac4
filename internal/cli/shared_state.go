package cli

import (
	"github.com/jmorgan-nz/kiwiki/internal/domain"
	"github.com/jmorgan-nz/kiwiki/internal/nav"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App     *App
	Machine *nav.Machine

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight is the rows left for view content after the header
// and the status bar.
func (s *SharedState) ContentHeight() int {
	h := s.Height - headerHeight - statusBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// Posts returns the current cached post snapshot, newest first.
func (s *SharedState) Posts() []domain.Post {
	return s.App.Store.Posts()
}
