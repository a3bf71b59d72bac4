package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jmorgan-nz/kiwiki/internal/cli/formatter"
	"github.com/jmorgan-nz/kiwiki/internal/domain"
	"github.com/jmorgan-nz/kiwiki/internal/nav"
)

// editorView wraps a huh.Form for both creating and editing posts.
// Which one it does follows from the navigation machine: editing when
// a post is staged, creating otherwise.
type editorView struct {
	state *SharedState

	form    *huh.Form
	title   string
	content string
	writer  string

	editing *domain.Post // nil when creating
	saving  bool
}

func newEditorView(state *SharedState) *editorView {
	v := &editorView{state: state}
	if state.Machine.Current() == nav.ViewEdit {
		v.editing = state.Machine.EditingPost()
	}
	if v.editing != nil {
		v.title = v.editing.Title
		v.content = v.editing.Content
	} else {
		v.writer = state.App.Writer
	}
	v.form = v.buildForm()
	return v
}

func (v *editorView) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("제목").
			Value(&v.title).
			Validate(validateNotBlank),
		huh.NewText().
			Title("내용").
			Value(&v.content).
			Validate(validateNotBlank),
	}
	if v.editing == nil {
		fields = append(fields, huh.NewInput().
			Title("작성자").
			Value(&v.writer).
			Validate(validateNotBlank))
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(kiwikiHuhTheme()).
		WithShowHelp(false)
}

func validateNotBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("필수 항목입니다")
	}
	return nil
}

func (v *editorView) ID() ViewID      { return ViewEditor }
func (v *editorView) Capturing() bool { return true }

func (v *editorView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *editorView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *editorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Escape abandons the draft.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		v.state.Machine.Back()
		return v, syncView()
	}

	// A failed save reopens the form with the values intact.
	if saved, ok := msg.(saveDoneMsg); ok && saved.err != nil {
		v.saving = false
		v.form = v.buildForm()
		return v, v.form.Init()
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted && !v.saving {
		v.saving = true
		return v, tea.Batch(cmd, v.save())
	}
	return v, cmd
}

// save sends the draft or patch to the store off the UI goroutine.
func (v *editorView) save() tea.Cmd {
	app := v.state.App

	if v.editing != nil {
		id := v.editing.ID
		title := strings.TrimSpace(v.title)
		content := strings.TrimSpace(v.content)
		patch := domain.PostPatch{Title: &title, Content: &content}
		return func() tea.Msg {
			_, err := app.Store.Update(context.Background(), id, patch)
			return saveDoneMsg{err: err}
		}
	}

	draft := domain.PostDraft{
		Title:       v.title,
		Content:     v.content,
		Writer:      v.writer,
		Category:    v.state.Machine.SelectedCategory(),
		Subcategory: v.state.Machine.SelectedSubcategory(),
	}.Trim()
	return func() tea.Msg {
		if err := draft.Validate(); err != nil {
			return saveDoneMsg{err: err}
		}
		_, err := app.Store.Create(context.Background(), draft)
		return saveDoneMsg{err: err}
	}
}

func (v *editorView) View() string {
	var b strings.Builder
	b.WriteString("\n" + v.form.View())
	if v.saving {
		b.WriteString("\n" + formatter.Dim("저장 중..."))
	}
	return b.String()
}

// kiwikiHuhTheme matches huh forms to the Gruvbox palette.
func kiwikiHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}
