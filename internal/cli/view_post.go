package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/jmorgan-nz/kiwiki/internal/cli/formatter"
	"github.com/jmorgan-nz/kiwiki/internal/domain"
)

// metaHeight is the rows the post metadata block occupies above the
// scrollable body.
const metaHeight = 4

// postView renders one post in full: metadata block plus a scrollable
// body viewport. Editing and deletion start here.
type postView struct {
	state *SharedState
	vp    viewport.Model

	// Non-nil while the delete confirmation is on screen.
	confirm   *huh.Form
	confirmed bool
}

func newPostView(state *SharedState) *postView {
	vp := viewport.New(max(state.Width, 20), state.ContentHeight()-metaHeight)
	v := &postView{state: state, vp: vp}
	v.refresh()
	return v
}

func (v *postView) ID() ViewID      { return ViewPost }
func (v *postView) Capturing() bool { return v.confirm != nil }

func (v *postView) ShortHelp() []key.Binding {
	if v.confirm != nil {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}

func (v *postView) Init() tea.Cmd { return nil }

// current returns the live cache copy of the selected post, falling
// back to the navigation snapshot if the cache misses.
func (v *postView) current() *domain.Post {
	sel := v.state.Machine.SelectedPost()
	if sel == nil {
		return nil
	}
	if p, ok := v.state.App.Store.Get(sel.ID); ok {
		return &p
	}
	return sel
}

func (v *postView) refresh() {
	if p := v.current(); p != nil {
		v.vp.SetContent(p.Content)
	}
}

func (v *postView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight() - metaHeight
		if v.vp.Height < 1 {
			v.vp.Height = 1
		}
		return v, nil

	case storeChangedMsg:
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if v.confirm != nil {
			return v.updateConfirm(msg)
		}

		switch msg.String() {
		case "e":
			if p := v.current(); p != nil {
				v.state.Machine.EditPost(*p)
				return v, syncView()
			}
		case "x":
			if v.current() != nil {
				v.confirmed = false
				v.confirm = newDeleteConfirm(&v.confirmed)
				return v, v.confirm.Init()
			}
		}
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *postView) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		v.confirm = nil
		return v, nil
	}

	form, cmd := v.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.confirm = f
	}

	if v.confirm.State == huh.StateCompleted {
		confirmed := v.confirmed
		v.confirm = nil
		if !confirmed {
			return v, cmd
		}
		p := v.current()
		if p == nil {
			return v, cmd
		}
		app := v.state.App
		id := p.ID
		return v, tea.Batch(cmd, func() tea.Msg {
			return deleteDoneMsg{id: id, err: app.Store.Remove(context.Background(), id)}
		})
	}
	return v, cmd
}

func newDeleteConfirm(confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("이 글을 삭제할까요?").
				Affirmative("삭제").
				Negative("취소").
				Value(confirmed),
		),
	)
}

func (v *postView) View() string {
	p := v.current()
	if p == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(p.Title) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n",
		formatter.Dim(p.Writer),
		formatter.Dim(formatter.FormatDate(p.CreatedAt)),
	))
	if !p.UpdatedAt.Equal(p.CreatedAt) {
		b.WriteString(formatter.Dim("수정됨 "+formatter.RelativeDate(p.UpdatedAt)) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(formatter.Dim(strings.Repeat("─", max(v.state.Width, 20))) + "\n")
	b.WriteString(v.vp.View())

	if v.confirm != nil {
		b.WriteString("\n\n" + v.confirm.View())
	}
	return b.String()
}
