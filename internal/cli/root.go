package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmorgan-nz/kiwiki/internal/store"
	"github.com/spf13/cobra"
)

// App holds everything the CLI commands and the TUI need.
type App struct {
	Store *store.Store

	// Writer is the default author name for new posts.
	Writer string

	// IsInteractive reports whether stdin is a terminal. The bare
	// command only starts the TUI when it is.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "kiwiki" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "kiwiki",
		Short:         "Community wiki for working holidays in New Zealand",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("no interactive terminal; use a subcommand (try: kiwiki posts list)")
			}
			return runTUI(app)
		},
	}

	root.AddCommand(
		newPostsCmd(app),
		newCategoriesCmd(app),
	)

	return root
}

// runTUI starts the full-screen browse session.
func runTUI(app *App) error {
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
