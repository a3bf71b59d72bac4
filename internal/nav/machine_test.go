package nav

import (
	"testing"
	"time"

	"github.com/jmorgan-nz/kiwiki/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(id, category, subcategory, title, content string) domain.Post {
	return domain.Post{
		ID: id, Title: title, Content: content, Writer: "w",
		Category: category, Subcategory: subcategory,
	}
}

func TestMachine_StartsAtHome(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, ViewHome, m.Current())
	assert.Nil(t, m.EditingPost())
}

func TestMachine_CategorySubcategoryDescent(t *testing.T) {
	m := NewMachine()

	m.SelectCategory("living")
	assert.Equal(t, ViewCategory, m.Current())
	assert.Equal(t, "living", m.SelectedCategory())

	m.SelectSubcategory("visa")
	assert.Equal(t, ViewSubcategory, m.Current())
	assert.Equal(t, "visa", m.SelectedSubcategory())

	m.Back()
	assert.Equal(t, ViewCategory, m.Current())
	assert.Equal(t, "living", m.SelectedCategory(), "selection survives back")

	m.Back()
	assert.Equal(t, ViewHome, m.Current())

	m.Back()
	assert.Equal(t, ViewHome, m.Current(), "back from home is a no-op")
}

func TestMachine_SelectSubcategoryOnlyFromCategory(t *testing.T) {
	m := NewMachine()
	m.SelectSubcategory("visa")
	assert.Equal(t, ViewHome, m.Current())
	assert.Empty(t, m.SelectedSubcategory())
}

func TestMachine_ViewPostFromHomeAdoptsSelection(t *testing.T) {
	m := NewMachine()
	p := post("p1", "farm-factory", "kiwi", "t", "c")

	m.ViewPostDetail(p)

	assert.Equal(t, ViewPost, m.Current())
	assert.Equal(t, "farm-factory", m.SelectedCategory())
	assert.Equal(t, "kiwi", m.SelectedSubcategory())
	require.NotNil(t, m.SelectedPost())
	assert.Equal(t, "p1", m.SelectedPost().ID)

	// Back from post lands on the adopted subcategory.
	m.Back()
	assert.Equal(t, ViewSubcategory, m.Current())
}

func TestMachine_ViewPostFromSubcategoryKeepsSelection(t *testing.T) {
	m := NewMachine()
	m.SelectCategory("living")
	m.SelectSubcategory("tax")

	m.ViewPostDetail(post("p1", "farm-factory", "kiwi", "t", "c"))

	assert.Equal(t, ViewPost, m.Current())
	assert.Equal(t, "living", m.SelectedCategory(), "selection untouched outside home")
	assert.Equal(t, "tax", m.SelectedSubcategory())
}

func TestMachine_CreateFlow(t *testing.T) {
	m := NewMachine()

	// Create is only offered in the subcategory view.
	m.CreatePost()
	assert.Equal(t, ViewHome, m.Current())

	m.SelectCategory("living")
	m.SelectSubcategory("visa")
	m.CreatePost()
	assert.Equal(t, ViewCreate, m.Current())
	assert.Nil(t, m.EditingPost())

	m.SaveSucceeded()
	assert.Equal(t, ViewSubcategory, m.Current())
}

func TestMachine_EditFlow(t *testing.T) {
	m := NewMachine()
	p := post("p1", "living", "visa", "t", "c")

	m.EditPost(p)
	assert.Equal(t, ViewEdit, m.Current())
	require.NotNil(t, m.EditingPost())
	assert.Equal(t, "p1", m.EditingPost().ID)

	// Cancelling clears the editing target.
	m.Back()
	assert.Equal(t, ViewSubcategory, m.Current())
	assert.Nil(t, m.EditingPost())
}

func TestMachine_SaveSucceededOutsideEditorIsNoop(t *testing.T) {
	m := NewMachine()
	m.SelectCategory("living")
	m.SaveSucceeded()
	assert.Equal(t, ViewCategory, m.Current())
}

func TestMachine_PostDeletedNavigatesBack(t *testing.T) {
	m := NewMachine()
	p := post("p1", "living", "visa", "t", "c")
	m.ViewPostDetail(p)
	require.Equal(t, ViewPost, m.Current())

	m.PostDeleted("p1")

	assert.Equal(t, ViewSubcategory, m.Current(), "one back step after deleting the viewed post")
	assert.Nil(t, m.SelectedPost())
}

func TestMachine_PostDeletedOtherPostStaysPut(t *testing.T) {
	m := NewMachine()
	m.ViewPostDetail(post("p1", "living", "visa", "t", "c"))

	m.PostDeleted("other")

	assert.Equal(t, ViewPost, m.Current())
	assert.NotNil(t, m.SelectedPost())
}

func TestFilteredPosts_PairFilter(t *testing.T) {
	posts := []domain.Post{
		post("1", "farm-factory", "kiwi", "a", "x"),
		post("2", "farm-factory", "kiwi", "b", "y"),
		post("3", "farm-factory", "kiwi", "c", "z"),
		post("4", "farm-factory", "apple", "d", "x"),
		post("5", "living", "visa", "e", "y"),
	}
	m := NewMachine()
	m.SelectCategory("farm-factory")
	m.SelectSubcategory("kiwi")

	got := m.FilteredPosts(posts)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.Equal(t, "kiwi", p.Subcategory)
	}
}

func TestFilteredPosts_SearchTermCaseInsensitive(t *testing.T) {
	posts := []domain.Post{
		post("1", "living", "tax", "IRD Tax guide", "numbers"),
		post("2", "living", "tax", "Banking", "avoid TAX surprises"),
		post("3", "living", "tax", "Phone plans", "prepay"),
	}
	m := NewMachine()
	m.SelectCategory("living")
	m.SelectSubcategory("tax")
	m.SetSearchTerm("tax")

	got := m.FilteredPosts(posts)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestFilteredPosts_NoSelectionSearchesEverything(t *testing.T) {
	posts := []domain.Post{
		post("1", "living", "tax", "tax", "x"),
		post("2", "farm-factory", "kiwi", "kiwi picking", "tax free"),
	}
	m := NewMachine()
	m.SetSearchTerm("tax")
	assert.Len(t, m.FilteredPosts(posts), 2)
}

func TestTitle_PerView(t *testing.T) {
	m := NewMachine()
	assert.Empty(t, m.Title())

	m.SelectCategory("living")
	assert.Equal(t, "생활 정보", m.Title())

	m.SelectSubcategory("visa")
	assert.Equal(t, "생활 정보 > 비자", m.Title())

	m.CreatePost()
	assert.Equal(t, "새 글 작성", m.Title())
	m.Back()

	m.ViewPostDetail(post("p", "living", "visa", "My post", "c"))
	assert.Empty(t, m.Title(), "post view renders its own title")

	m.EditPost(post("p", "living", "visa", "My post", "c"))
	assert.Equal(t, "글 수정", m.Title())
}

func TestTitle_UnknownSelection(t *testing.T) {
	m := NewMachine()
	m.SelectCategory("bogus")
	assert.Empty(t, m.Title())
}

func TestPostCount(t *testing.T) {
	posts := []domain.Post{
		post("1", "living", "tax", "a", "x"),
		post("2", "living", "visa", "b", "y"),
		post("3", "farm-factory", "kiwi", "c", "z"),
	}
	assert.Equal(t, 2, PostCount(posts, "living"))
	assert.Equal(t, 1, PostCount(posts, "farm-factory"))
	assert.Equal(t, 0, PostCount(posts, "city-job"))
	assert.Equal(t, 1, SubcategoryPostCount(posts, "living", "visa"))
}

func TestRecentPosts(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var posts []domain.Post
	for i := 0; i < 7; i++ {
		p := post(string(rune('a'+i)), "living", "tax", "t", "c")
		p.UpdatedAt = base.Add(time.Duration(i) * time.Hour)
		posts = append(posts, p)
	}

	got := RecentPosts(posts, 5)
	require.Len(t, got, 5)
	assert.Equal(t, "g", got[0].ID, "newest first")
	assert.Equal(t, "c", got[4].ID)
	assert.Equal(t, "a", posts[0].ID, "input order untouched")
}
