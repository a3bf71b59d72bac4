package cli

import tea "github.com/charmbracelet/bubbletea"

// storeChangedMsg signals that the post cache changed (a mutation or a
// change-feed event landed).
type storeChangedMsg struct{}

// storeClosedMsg signals that the store has shut down.
type storeClosedMsg struct{}

// fetchDoneMsg carries the result of a full refetch.
type fetchDoneMsg struct{ err error }

// saveDoneMsg carries the result of a create or update started from
// the editor view.
type saveDoneMsg struct{ err error }

// deleteDoneMsg carries the result of a post deletion.
type deleteDoneMsg struct {
	id  string
	err error
}

// syncViewMsg asks the root model to rebuild the active view after a
// navigation transition.
type syncViewMsg struct{}

// alertExpiredMsg clears the transient alert line after a pause.
// Stale timers carry an old seq and are ignored.
type alertExpiredMsg struct{ seq int }

func syncView() tea.Cmd {
	return func() tea.Msg { return syncViewMsg{} }
}
