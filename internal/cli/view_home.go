package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jmorgan-nz/kiwiki/internal/cli/formatter"
	"github.com/jmorgan-nz/kiwiki/internal/domain"
	"github.com/jmorgan-nz/kiwiki/internal/nav"
)

// homeRow is a flattened row on the home screen: either a category
// card or a recent post.
type homeRow struct {
	isCategory bool
	categoryID string
	post       domain.Post
}

// homeView shows the category cards followed by the most recent posts.
type homeView struct {
	state  *SharedState
	cursor int
}

func newHomeView(state *SharedState) *homeView {
	return &homeView{state: state}
}

func (v *homeView) ID() ViewID      { return ViewHome }
func (v *homeView) Capturing() bool { return false }

func (v *homeView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "move")),
	}
}

func (v *homeView) Init() tea.Cmd { return nil }

func (v *homeView) rows() []homeRow {
	var rows []homeRow
	for _, cat := range domain.Categories {
		rows = append(rows, homeRow{isCategory: true, categoryID: cat.ID})
	}
	for _, p := range nav.RecentPosts(v.state.Posts(), recentPostLimit) {
		rows = append(rows, homeRow{post: p})
	}
	return rows
}

const recentPostLimit = 5

func (v *homeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg:
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		rows := v.rows()
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(rows)-1 {
				v.cursor++
			}
		case "enter":
			if v.cursor < len(rows) {
				row := rows[v.cursor]
				if row.isCategory {
					v.state.Machine.SelectCategory(row.categoryID)
				} else {
					v.state.Machine.ViewPostDetail(row.post)
				}
				return v, syncView()
			}
		}
	}
	return v, nil
}

func (v *homeView) clampCursor() {
	if n := len(v.rows()); v.cursor >= n && n > 0 {
		v.cursor = n - 1
	}
}

func (v *homeView) View() string {
	posts := v.state.Posts()
	rows := v.rows()

	var b strings.Builder
	b.WriteString("\n")

	for i, row := range rows {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleYellow.Render("❯ ")
		}

		if row.isCategory {
			cat, _ := domain.LookupCategory(row.categoryID)
			count := nav.PostCount(posts, row.categoryID)
			line := fmt.Sprintf("%s%s  %s",
				cursor,
				formatter.Bold(cat.Name),
				formatter.Dim(fmt.Sprintf("글 %d개", count)),
			)
			b.WriteString(line + "\n")
			continue
		}

		// First post row gets a section header.
		if i > 0 && rows[i-1].isCategory {
			b.WriteString("\n" + formatter.Header("최근 게시글") + "\n")
		}
		b.WriteString(fmt.Sprintf("%s%s  %s %s\n",
			cursor,
			formatter.Truncate(row.post.Title, 40),
			formatter.Dim(pairLabel(row.post)),
			formatter.Dim(formatter.RelativeDate(row.post.UpdatedAt)),
		))
	}

	if len(posts) == 0 {
		b.WriteString("\n" + formatter.Dim("  아직 게시글이 없습니다.") + "\n")
	}

	return b.String()
}
