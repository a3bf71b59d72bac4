package cli

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmorgan-nz/kiwiki/internal/cli/formatter"
	"github.com/jmorgan-nz/kiwiki/internal/nav"
)

const (
	headerHeight    = 2 // title line + separator
	statusBarHeight = 2 // separator + hint line
)

// appModel is the root bubbletea Model for the TUI. Navigation state
// lives in nav.Machine; appModel maps the machine's current position
// to a View and routes messages to it.
type appModel struct {
	state  *SharedState
	active View
	watch  <-chan struct{}

	// Transient alert line for failed mutations. alertSeq guards
	// against stale expiry timers.
	alert    string
	alertSeq int

	quitting bool
}

func newAppModel(app *App) appModel {
	state := &SharedState{
		App:     app,
		Machine: nav.NewMachine(),
	}
	return appModel{
		state:  state,
		active: newHomeView(state),
		watch:  app.Store.Watch(),
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.active.Init(), m.refetch(), m.listenStore())
}

// listenStore waits for the next change signal from the post store.
func (m appModel) listenStore() tea.Cmd {
	watch := m.watch
	return func() tea.Msg {
		if _, ok := <-watch; !ok {
			return storeClosedMsg{}
		}
		return storeChangedMsg{}
	}
}

// refetch reloads the full post table from the backend.
func (m appModel) refetch() tea.Cmd {
	app := m.state.App
	return func() tea.Msg {
		return fetchDoneMsg{err: app.Store.FetchAll(context.Background())}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case storeChangedMsg:
		// If the post being read disappeared from the cache (deleted
		// remotely), step back out of the detail view.
		if p := m.state.Machine.SelectedPost(); p != nil && m.state.Machine.Current() == nav.ViewPost {
			if _, ok := m.state.App.Store.Get(p.ID); !ok {
				m.state.Machine.PostDeleted(p.ID)
			}
		}
		next, cmd := m.forward(msg)
		am := next.(appModel)
		syncCmd := am.syncActive()
		return am, tea.Batch(cmd, syncCmd, am.listenStore())

	case storeClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case fetchDoneMsg:
		if msg.err != nil && len(m.state.Posts()) > 0 {
			return m.setAlert("새로고침 실패: " + msg.err.Error())
		}
		return m.forward(msg)

	case saveDoneMsg:
		if msg.err != nil {
			next, cmd := m.forward(msg)
			am := next.(appModel)
			withAlert, alertCmd := am.setAlert("저장 실패: " + msg.err.Error())
			return withAlert, tea.Batch(cmd, alertCmd)
		}
		m.state.Machine.SaveSucceeded()
		cmd := m.syncActive()
		return m, cmd

	case deleteDoneMsg:
		if msg.err != nil {
			return m.setAlert("삭제 실패: " + msg.err.Error())
		}
		m.state.Machine.PostDeleted(msg.id)
		cmd := m.syncActive()
		return m, cmd

	case syncViewMsg:
		cmd := m.syncActive()
		return m, cmd

	case alertExpiredMsg:
		if msg.seq == m.alertSeq {
			m.alert = ""
		}
		return m, nil
	}

	return m.forward(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Views with their own text input (editor form, search box,
	// delete confirm) receive every key.
	if m.active.Capturing() {
		next, cmd := m.forward(msg)
		am := next.(appModel)
		return am, tea.Batch(cmd, am.syncActive())
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.state.Machine.Back()
		cmd := m.syncActive()
		return m, cmd

	case "r":
		return m, m.refetch()
	}

	next, cmd := m.forward(msg)
	am := next.(appModel)
	return am, tea.Batch(cmd, am.syncActive())
}

// forward passes a message to the active view.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.active.Update(msg)
	m.active = updated.(View)
	return m, cmd
}

// syncActive rebuilds the active view when the machine has moved to a
// different kind of view. Returns the new view's Init command, or nil
// when nothing changed.
func (m *appModel) syncActive() tea.Cmd {
	if viewIDFor(m.state.Machine.Current()) == m.active.ID() {
		return nil
	}
	m.active = viewFor(m.state)
	return m.active.Init()
}

func viewIDFor(v nav.View) ViewID {
	switch v {
	case nav.ViewCategory:
		return ViewCategory
	case nav.ViewSubcategory:
		return ViewSubcategory
	case nav.ViewPost:
		return ViewPost
	case nav.ViewCreate, nav.ViewEdit:
		return ViewEditor
	default:
		return ViewHome
	}
}

func (m appModel) setAlert(text string) (tea.Model, tea.Cmd) {
	m.alert = text
	m.alertSeq++
	seq := m.alertSeq
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return alertExpiredMsg{seq: seq}
	})
}

// ── rendering ────────────────────────────────────────────────────────────────

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	store := m.state.App.Store
	if len(store.Posts()) == 0 {
		if store.Loading() {
			return m.fullScreen(formatter.Dim("게시글을 불러오는 중..."))
		}
		if err := store.Err(); err != nil {
			body := formatter.StyleRed.Render("게시글을 불러오지 못했습니다") +
				"\n\n" + formatter.Dim(err.Error()) +
				"\n\n" + formatter.Dim("r: 다시 시도  q: 종료")
			return m.fullScreen(body)
		}
	}

	sections := []string{
		m.renderHeader(),
		m.active.View(),
		m.renderStatusBar(),
	}
	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

// fullScreen renders a splash (loading or fatal fetch error) with the
// header but no status bar.
func (m appModel) fullScreen(body string) string {
	out := m.renderHeader() + "\n\n  " + strings.ReplaceAll(body, "\n", "\n  ")
	if m.state.Height > 0 {
		lines := strings.Count(out, "\n") + 1
		if lines < m.state.Height {
			out += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return out
}

func (m appModel) renderHeader() string {
	title := formatter.StylePurple.Render("kiwiki")

	crumb := m.state.Machine.Title()
	if crumb != "" {
		title += " " + formatter.Dim("›") + " " + formatter.Dim(crumb)
	}

	if m.state.App.Store.Loading() {
		title += "  " + formatter.Dim("(새로고침 중)")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return title + "\n" + sep
}

func (m appModel) renderStatusBar() string {
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))

	// A transient alert takes over the hint line until it expires.
	if m.alert != "" {
		return sep + "\n" + formatter.StyleRed.Render(m.alert)
	}

	var hints []string
	for _, b := range m.active.ShortHelp() {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	if m.state.Machine.Current() != nav.ViewHome && !m.active.Capturing() {
		hints = append(hints, formatter.Dim("esc: back"))
	}
	if !m.active.Capturing() {
		hints = append(hints, formatter.Dim("r: refresh"), formatter.Dim("q: quit"))
	}
	return sep + "\n" + strings.Join(hints, "  ")
}
