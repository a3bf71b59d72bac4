package cli

import (
	"testing"

	"github.com/jmorgan-nz/kiwiki/internal/nav"
	"github.com/jmorgan-nz/kiwiki/internal/teatest"
)

// TestDriver wraps teatest.Driver with inspection methods for the
// kiwiki appModel (navigation machine, active view, alert line).
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver from a test App. It constructs
// the appModel, sets terminal size, and drains Init() (which fetches
// the post table synchronously from in-memory sqlite).
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// Machine exposes the navigation machine for assertions.
func (d *TestDriver) Machine() *nav.Machine {
	return d.appModel().state.Machine
}

// ActiveViewID returns the ViewID of the active view.
func (d *TestDriver) ActiveViewID() ViewID {
	return d.appModel().active.ID()
}

// Alert returns the transient alert line, empty when none is showing.
func (d *TestDriver) Alert() string {
	return d.appModel().alert
}

// IsQuitting reports whether the model has quit.
func (d *TestDriver) IsQuitting() bool {
	return d.Quitting || d.appModel().quitting
}

// Sync flushes a pending store change signal into the model, the way
// the running program's watch listener would.
func (d *TestDriver) Sync() {
	d.T.Helper()
	d.Send(storeChangedMsg{})
}
