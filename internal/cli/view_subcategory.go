package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmorgan-nz/kiwiki/internal/cli/formatter"
)

// subcategoryView lists the posts of the selected category/subcategory
// pair, filtered by the live search term.
type subcategoryView struct {
	state  *SharedState
	cursor int
	search textinput.Model
}

func newSubcategoryView(state *SharedState) *subcategoryView {
	ti := textinput.New()
	ti.Placeholder = "제목/내용 검색"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.SetValue(state.Machine.SearchTerm())
	return &subcategoryView{state: state, search: ti}
}

func (v *subcategoryView) ID() ViewID      { return ViewSubcategory }
func (v *subcategoryView) Capturing() bool { return v.search.Focused() }

func (v *subcategoryView) ShortHelp() []key.Binding {
	if v.search.Focused() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new post")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	}
}

func (v *subcategoryView) Init() tea.Cmd { return nil }

func (v *subcategoryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg:
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		if v.search.Focused() {
			switch msg.String() {
			case "enter":
				v.search.Blur()
				return v, nil
			case "esc":
				v.search.SetValue("")
				v.state.Machine.SetSearchTerm("")
				v.search.Blur()
				return v, nil
			}
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			v.state.Machine.SetSearchTerm(v.search.Value())
			v.clampCursor()
			return v, cmd
		}

		filtered := v.state.Machine.FilteredPosts(v.state.Posts())
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(filtered)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(filtered) {
				v.state.Machine.ViewPostDetail(filtered[v.cursor])
				return v, syncView()
			}
		case "n":
			v.state.Machine.CreatePost()
			return v, syncView()
		case "/":
			return v, v.search.Focus()
		}
	}
	return v, nil
}

func (v *subcategoryView) clampCursor() {
	if n := len(v.state.Machine.FilteredPosts(v.state.Posts())); v.cursor >= n && n > 0 {
		v.cursor = n - 1
	} else if n == 0 {
		v.cursor = 0
	}
}

func (v *subcategoryView) View() string {
	filtered := v.state.Machine.FilteredPosts(v.state.Posts())

	var b strings.Builder
	if v.search.Focused() || v.search.Value() != "" {
		b.WriteString("\n" + v.search.View() + "\n")
	}
	b.WriteString("\n" + formatter.Dim(fmt.Sprintf("글 %d개", len(filtered))) + "\n\n")

	for i, p := range filtered {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleYellow.Render("❯ ")
		}
		b.WriteString(fmt.Sprintf("%s%s  %s %s\n",
			cursor,
			formatter.Truncate(p.Title, 48),
			formatter.Dim(p.Writer),
			formatter.Dim(formatter.RelativeDate(p.UpdatedAt)),
		))
	}

	if len(filtered) == 0 {
		if v.search.Value() != "" {
			b.WriteString(formatter.Dim("  검색 결과가 없습니다.") + "\n")
		} else {
			b.WriteString(formatter.Dim("  아직 게시글이 없습니다. n 키로 새 글을 작성하세요.") + "\n")
		}
	}
	return b.String()
}
