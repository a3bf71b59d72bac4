package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmorgan-nz/kiwiki/internal/cli/formatter"
	"github.com/jmorgan-nz/kiwiki/internal/nav"
)

// categoryView lists the subcategories of the selected category with
// per-subcategory post counts.
type categoryView struct {
	state  *SharedState
	cursor int
}

func newCategoryView(state *SharedState) *categoryView {
	return &categoryView{state: state}
}

func (v *categoryView) ID() ViewID      { return ViewCategory }
func (v *categoryView) Capturing() bool { return false }

func (v *categoryView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "move")),
	}
}

func (v *categoryView) Init() tea.Cmd { return nil }

func (v *categoryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cat, ok := v.state.Machine.CurrentCategory()
	if !ok {
		return v, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(cat.Subcategories)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(cat.Subcategories) {
				v.state.Machine.SelectSubcategory(cat.Subcategories[v.cursor].ID)
				return v, syncView()
			}
		}
	}
	return v, nil
}

func (v *categoryView) View() string {
	cat, ok := v.state.Machine.CurrentCategory()
	if !ok {
		return ""
	}
	posts := v.state.Posts()

	var b strings.Builder
	b.WriteString("\n")
	for i, sub := range cat.Subcategories {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleYellow.Render("❯ ")
		}
		count := nav.SubcategoryPostCount(posts, cat.ID, sub.ID)
		b.WriteString(fmt.Sprintf("%s%s  %s\n",
			cursor,
			formatter.Bold(sub.Name),
			formatter.Dim(fmt.Sprintf("글 %d개", count)),
		))
	}
	return b.String()
}
